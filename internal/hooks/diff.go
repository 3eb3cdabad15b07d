package hooks

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Veraticus/cpp-hooks/internal/shared"
)

const diffContextLines = 3

// UnifiedDiff returns a line-based unified diff from original to formatted,
// or "" when they are identical.
func UnifiedDiff(original, formatted []byte) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(formatted)),
		FromFile: "original",
		ToFile:   "formatted",
		Context:  diffContextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("compute diff: %w", err)
	}
	return text, nil
}

// DiffReporter decides formatter outcomes from the difference between a file
// and the formatter's proposal.
type DiffReporter struct {
	noDiff bool
}

// NewDiffReporter creates a reporter; noDiff suppresses the diff text only.
func NewDiffReporter(noDiff bool) *DiffReporter {
	return &DiffReporter{noDiff: noDiff}
}

// Report passes when the proposal equals the original and fails otherwise.
func (r *DiffReporter) Report(file string, original, proposed []byte) (ReconciledOutcome, error) {
	diff, err := UnifiedDiff(original, proposed)
	if err != nil {
		return ReconciledOutcome{}, err
	}
	if diff == "" {
		return ReconciledOutcome{Pass: true}, nil
	}
	if r.noDiff {
		return ReconciledOutcome{Pass: false}, nil
	}

	var sb strings.Builder
	sb.WriteString(shared.WarningStyle.Render(file))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 20))
	sb.WriteString("\n")
	sb.WriteString(diff)
	return ReconciledOutcome{Pass: false, Output: sb.String()}, nil
}
