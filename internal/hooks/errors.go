package hooks

import (
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/cpp-hooks/internal/shared"
)

const (
	// ExitCodePass means every file passed its reconciled outcome.
	ExitCodePass = 0
	// ExitCodeFail means at least one file failed its reconciled outcome.
	ExitCodeFail = 1
	// ExitCodeFatal is returned when the hook could not run at all.
	ExitCodeFatal = 2
)

const installHelpURL = "https://github.com/Veraticus/cpp-hooks#example-usage"

// HookError is implemented by every fatal adapter error.
type HookError interface {
	error
	Problem() string
	Details() string
}

// ArgumentParseError reports a malformed meta-option or unresolvable file operands.
type ArgumentParseError struct {
	Reason string
	Detail string
}

func (e *ArgumentParseError) Error() string {
	if e.Detail == "" {
		return "parse arguments: " + e.Reason
	}
	return fmt.Sprintf("parse arguments: %s: %s", e.Reason, e.Detail)
}

// Problem implements HookError.
func (e *ArgumentParseError) Problem() string { return e.Reason }

// Details implements HookError.
func (e *ArgumentParseError) Details() string { return e.Detail }

// ToolNotInstalledError reports a binary missing from PATH.
type ToolNotInstalledError struct {
	Binary string
	Err    error
}

func (e *ToolNotInstalledError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Binary, e.Err)
}

func (e *ToolNotInstalledError) Unwrap() error { return e.Err }

// Problem implements HookError.
func (e *ToolNotInstalledError) Problem() string { return e.Binary + " not found" }

// Details implements HookError.
func (e *ToolNotInstalledError) Details() string {
	return fmt.Sprintf("Make sure %s is installed and on your PATH.\nFor more info: %s", e.Binary, installHelpURL)
}

// VersionMismatchError reports an installed version that does not match the requested one.
type VersionMismatchError struct {
	Binary    string
	Requested string
	Installed string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("version of %s is %s, want %s", e.Binary, e.Installed, e.Requested)
}

// Problem implements HookError.
func (e *VersionMismatchError) Problem() string { return "Version of " + e.Binary + " is wrong" }

// Details implements HookError.
func (e *VersionMismatchError) Details() string {
	return fmt.Sprintf("Expected version: %s\nFound version: %s\nEdit your pre-commit config or use a different version of %s.",
		e.Requested, e.Installed, e.Binary)
}

// ToolExecutionError reports a subprocess that could not be spawned or queried.
// A tool that ran and printed diagnostics is never a ToolExecutionError.
type ToolExecutionError struct {
	Command string
	Err     error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("execute %s: %v", e.Command, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// Problem implements HookError.
func (e *ToolExecutionError) Problem() string { return "could not execute " + e.Command }

// Details implements HookError.
func (e *ToolExecutionError) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ReconciliationAmbiguityError is returned when no reconciliation rule applies.
type ReconciliationAmbiguityError struct {
	Rule Rule
}

func (e *ReconciliationAmbiguityError) Error() string {
	return fmt.Sprintf("no reconciliation for rule %q", e.Rule)
}

// Problem implements HookError.
func (e *ReconciliationAmbiguityError) Problem() string { return "unknown reconciliation rule" }

// Details implements HookError.
func (e *ReconciliationAmbiguityError) Details() string { return e.Error() }

// DescribeProblem splits a fatal error into a one-line headline and details.
func DescribeProblem(tool string, err error) (string, string) {
	var hookErr HookError
	if errors.As(err, &hookErr) {
		return fmt.Sprintf("Problem with %s: %s", tool, hookErr.Problem()), hookErr.Details()
	}
	return fmt.Sprintf("Problem with %s: %v", tool, err), ""
}

// FormatProblem renders a fatal error the way every hook reports it.
func FormatProblem(tool string, err error) string {
	headline, details := DescribeProblem(tool, err)
	if details == "" {
		return headline + "\n"
	}
	return headline + "\n" + details + "\n"
}

// WriteProblem prints a fatal error to w with a highlighted headline.
func WriteProblem(w io.Writer, tool string, err error) {
	headline, details := DescribeProblem(tool, err)
	_, _ = fmt.Fprintln(w, shared.ErrorStyle.Render(headline))
	if details != "" {
		_, _ = fmt.Fprintln(w, details)
	}
}
