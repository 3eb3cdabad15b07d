package hooks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/Veraticus/cpp-hooks/internal/shared"
)

// ExecutionResult represents the raw outcome of one tool process.
type ExecutionResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	// Err is a *ToolExecutionError when the process could not run at all.
	Err error
}

// CommandExecutor runs resolved commands, one process per call.
type CommandExecutor struct {
	dir   string
	debug bool
	deps  *Dependencies
}

// NewCommandExecutor creates a new command executor running in dir.
func NewCommandExecutor(dir string, debug bool, deps *Dependencies) *CommandExecutor {
	if deps == nil {
		deps = NewDefaultDependencies()
	}
	return &CommandExecutor{
		dir:   dir,
		debug: debug,
		deps:  deps,
	}
}

// CheckInstalled verifies the profile's binary is on PATH.
func (ce *CommandExecutor) CheckInstalled(profile ToolProfile) error {
	if _, err := ce.deps.Runner.LookPath(profile.Binary); err != nil {
		return &ToolNotInstalledError{Binary: profile.Binary, Err: err}
	}
	return nil
}

// Execute runs cmd once. The output is returned uninterpreted; a nonzero
// exit status is not an error here.
func (ce *CommandExecutor) Execute(ctx context.Context, cmd ResolvedCommand) *ExecutionResult {
	start := ce.deps.Clock.Now()
	output, err := ce.deps.Runner.RunContext(ctx, ce.dir, cmd.Binary, cmd.Args...)

	var stdout, stderr []byte
	if output != nil {
		stdout = output.Stdout
		stderr = output.Stderr
	}

	result := &ExecutionResult{Stdout: stdout, Stderr: stderr}
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			result.ExitCode = -1
			result.Err = &ToolExecutionError{Command: cmd.String(), Err: ctx.Err()}
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		default:
			result.ExitCode = -1
			result.Err = &ToolExecutionError{Command: cmd.String(), Err: err}
		}
	}

	if ce.debug {
		line := fmt.Sprintf("[debug] %s -> exit %d (%v)", cmd.String(), result.ExitCode, ce.deps.Clock.Now().Sub(start))
		_, _ = fmt.Fprintln(ce.deps.Stderr, shared.DebugStyle.Render(line))
	}

	return result
}
