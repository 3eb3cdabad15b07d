package hooks

import (
	"regexp"
	"strconv"
	"strings"
)

// ReconciledOutcome is the trustworthy result for one file.
type ReconciledOutcome struct {
	Pass bool
	// Output is the text to surface to the caller: a diff, the tool's
	// diagnostics, or nothing.
	Output string
}

// ReconcileInput is everything a rule may look at.
type ReconcileInput struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Allowlist holds substrings of stderr lines that are not diagnostics.
	Allowlist []string
	// FixRequested is set when the user passed the tool's fix-errors flag.
	FixRequested bool
}

// NewReconcileInput builds the input for one execution result.
func NewReconcileInput(result *ExecutionResult, profile ToolProfile, parsed *ParsedArguments) ReconcileInput {
	return ReconcileInput{
		ExitCode:     result.ExitCode,
		Stdout:       string(result.Stdout),
		Stderr:       string(result.Stderr),
		Allowlist:    profile.StderrAllowlist,
		FixRequested: profile.FixFlag != "" && parsed.HasOption(profile.FixFlag),
	}
}

const (
	oclintMarker        = "FilesWithViolations="
	iwyuShouldAdd       = "should add these lines:"
	iwyuShouldRemove    = "should remove these lines:"
	iwyuCorrectIncludes = "has correct #includes/fwd-decls"
)

var (
	violationCountRe = regexp.MustCompile(regexp.QuoteMeta(oclintMarker) + `(\d+)`)

	// compiler diagnostics look like `file.c:3:1: warning: ...`.
	compilerDiagnosticRe = regexp.MustCompile(`(?m)^\S.*:\d+:\d+: (?:fatal )?(?:warning|error): `)

	// clang-tidy summaries printed to stderr even on clean runs.
	tidySummaryRes = []*regexp.Regexp{
		regexp.MustCompile(`^[\d,]+ warnings? generated\.?$`),
		regexp.MustCompile(`^Suppressed [\d,]+ warnings? \(.*\)\.?$`),
		regexp.MustCompile(`^Use -header-filter=.*$`),
	}
)

// Reconcile converts a raw execution result into pass or fail. Rules outside
// the closed set yield a *ReconciliationAmbiguityError.
func Reconcile(rule Rule, in ReconcileInput) (ReconciledOutcome, error) {
	switch rule {
	case RuleTrustExitCode:
		return reconcileTrustExitCode(in), nil
	case RuleStderrOverride:
		return reconcileStderrOverride(in), nil
	case RuleFixErrorsAware:
		return reconcileFixErrorsAware(in), nil
	case RuleOutputMarkerScan:
		return reconcileOutputMarkerScan(in), nil
	case RuleForcedFailureOnAmbiguousSuccess:
		return reconcileForcedFailure(in), nil
	}
	return ReconciledOutcome{}, &ReconciliationAmbiguityError{Rule: rule}
}

func reconcileTrustExitCode(in ReconcileInput) ReconciledOutcome {
	if in.ExitCode == 0 {
		return ReconciledOutcome{Pass: true}
	}
	return failWith(in.Stdout, FilterLines(in.Stderr, in.Allowlist))
}

func reconcileStderrOverride(in ReconcileInput) ReconciledOutcome {
	residual := FilterLines(in.Stderr, in.Allowlist)
	if in.ExitCode == 0 && strings.TrimSpace(residual) == "" {
		return ReconciledOutcome{Pass: true}
	}
	return failWith(in.Stdout, residual)
}

// reconcileFixErrorsAware fails on leftover stderr only when the user did not
// ask the tool to fix errors. With the fix flag, stderr describes repairs.
// A nonzero exit fails regardless of the flag.
func reconcileFixErrorsAware(in ReconcileInput) ReconciledOutcome {
	residual := dropMatchingLines(FilterLines(in.Stderr, in.Allowlist), tidySummaryRes)
	hasDiagnostics := strings.TrimSpace(residual) != ""

	fail := in.ExitCode != 0
	if !in.FixRequested && hasDiagnostics {
		fail = true
	}
	if !fail {
		return ReconciledOutcome{Pass: true}
	}
	return failWith(in.Stdout, residual)
}

// reconcileOutputMarkerScan trusts the summary marker over the exit code,
// since some versions exit 0 whatever the violation count.
func reconcileOutputMarkerScan(in ReconcileInput) ReconciledOutcome {
	match := violationCountRe.FindStringSubmatch(in.Stdout)
	if match == nil {
		return reconcileTrustExitCode(in)
	}
	count, err := strconv.Atoi(match[1])
	residual := FilterLines(in.Stderr, in.Allowlist)
	if err == nil && count == 0 && !compilerDiagnosticRe.MatchString(in.Stdout) {
		return ReconciledOutcome{Pass: true}
	}
	return failWith(in.Stdout, residual)
}

// reconcileForcedFailure overrides a zero exit code when the output still
// carries include suggestions or compiler diagnostics.
func reconcileForcedFailure(in ReconcileInput) ReconciledOutcome {
	residual := FilterLines(in.Stderr, in.Allowlist)
	combined := in.Stdout + residual

	suggests := strings.Contains(combined, iwyuShouldAdd) || strings.Contains(combined, iwyuShouldRemove)
	if suggests || compilerDiagnosticRe.MatchString(combined) {
		return failWith(in.Stdout, residual)
	}
	if strings.Contains(combined, iwyuCorrectIncludes) {
		return ReconciledOutcome{Pass: true}
	}
	return reconcileTrustExitCode(in)
}

func failWith(stdout, stderr string) ReconciledOutcome {
	var sb strings.Builder
	sb.WriteString(stdout)
	if stdout != "" && stderr != "" && !strings.HasSuffix(stdout, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(stderr)
	return ReconciledOutcome{Pass: false, Output: sb.String()}
}

// FilterLines removes every line containing one of the allow-listed substrings.
func FilterLines(text string, allowlist []string) string {
	if len(allowlist) == 0 || text == "" {
		return text
	}
	var sb strings.Builder
	for _, line := range splitLines(text) {
		if containsAny(line, allowlist) {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func dropMatchingLines(text string, patterns []*regexp.Regexp) string {
	var sb strings.Builder
	for _, line := range splitLines(text) {
		if matchesAny(strings.TrimSpace(line), patterns) {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func containsAny(line string, substrings []string) bool {
	for _, s := range substrings {
		if s != "" && strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// splitLines splits a string into lines, handling both \n and \r\n.
func splitLines(s string) []string {
	var lines []string
	var current []byte

	for i := range len(s) {
		if s[i] == '\n' {
			lines = append(lines, string(current))
			current = nil
		} else if s[i] != '\r' {
			current = append(current, s[i])
		}
	}

	if len(current) > 0 {
		lines = append(lines, string(current))
	}

	return lines
}
