package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/cpp-hooks/internal/shared"
)

// Options configures a Hook.
type Options struct {
	// Dir is the working directory tools run in. Empty means the current one.
	Dir string
	// Debug prints each command line, its exit code and duration.
	Debug bool
	// Progress prints one line per file before it is checked.
	Progress bool
}

// Hook adapts one tool to pass/fail semantics.
type Hook struct {
	profile  ToolProfile
	opts     Options
	deps     *Dependencies
	executor *CommandExecutor
}

// NewHook creates a hook for profile.
func NewHook(profile ToolProfile, opts Options, deps *Dependencies) *Hook {
	if deps == nil {
		deps = NewDefaultDependencies()
	}
	return &Hook{
		profile:  profile,
		opts:     opts,
		deps:     deps,
		executor: NewCommandExecutor(opts.Dir, opts.Debug, deps),
	}
}

// Profile returns the profile the hook runs.
func (h *Hook) Profile() ToolProfile {
	return h.profile.Clone()
}

// Run checks every file named by inv and returns the process exit code:
// ExitCodePass, ExitCodeFail, or ExitCodeFatal when the hook could not run.
func (h *Hook) Run(ctx context.Context, inv Invocation) int {
	failed, err := h.run(ctx, inv)
	if err != nil {
		WriteProblem(h.deps.Stderr, h.profile.Binary, err)
		return ExitCodeFatal
	}
	if failed > 0 {
		return ExitCodeFail
	}
	return ExitCodePass
}

func (h *Hook) run(ctx context.Context, inv Invocation) (int, error) {
	if err := h.executor.CheckInstalled(h.profile); err != nil {
		return 0, err
	}

	parsed, err := Normalize(inv, h.deps.FS)
	if err != nil {
		return 0, err
	}

	// The version check precedes every other subprocess, git included.
	enforcer := NewVersionEnforcer(h.executor)
	if parsed.Meta.HasVersion {
		if err := enforcer.Enforce(ctx, h.profile, parsed.Meta.Version); err != nil {
			return 0, err
		}
	}

	if len(parsed.Files) == 0 {
		staged, stagedErr := h.stagedFiles(ctx)
		if stagedErr != nil {
			return 0, stagedErr
		}
		parsed.Files = staged
	}
	if len(parsed.Files) == 0 && h.profile.RequiresFiles {
		return 0, &ArgumentParseError{
			Reason: "Missing arguments",
			Detail: "No file arguments found and no files are pending commit.",
		}
	}

	defaults, release, err := h.defaults(ctx, enforcer, parsed)
	if err != nil {
		return 0, err
	}
	defer release()

	builder := NewCommandBuilder(h.profile, defaults)

	targets := parsed.Files
	if len(targets) == 0 {
		// Analyzers may run from a compilation database alone.
		targets = []string{""}
	}

	failed := 0
	for _, file := range targets {
		outcome, err := h.check(ctx, builder, parsed, file)
		if err != nil {
			return failed, err
		}
		if outcome.Pass {
			continue
		}
		failed++
		if outcome.Output != "" {
			_, _ = fmt.Fprint(h.deps.Stderr, outcome.Output)
			if !strings.HasSuffix(outcome.Output, "\n") {
				_, _ = fmt.Fprintln(h.deps.Stderr)
			}
		}
	}
	if failed == 0 && h.opts.Progress {
		_, _ = fmt.Fprintln(h.deps.Stdout, shared.SuccessStyle.Render(
			fmt.Sprintf("%s: %d file(s) passed", h.profile.Name, len(parsed.Files))))
	}
	return failed, nil
}

// stagedFiles lists files added to the index, the way pre-commit finds them
// when the hook is run by hand without operands.
func (h *Hook) stagedFiles(ctx context.Context) ([]string, error) {
	cmd := ResolvedCommand{
		Binary: "git",
		Args:   []string{"diff", "--staged", "--name-only", "--diff-filter=A"},
	}
	result := h.executor.Execute(ctx, cmd)
	if result.Err != nil || result.ExitCode != 0 || len(result.Stderr) > 0 {
		return nil, &ArgumentParseError{
			Reason: "Problem determining which files are being committed using git.",
			Detail: strings.TrimSpace(string(result.Stderr)),
		}
	}

	var files []string
	for _, line := range splitLines(string(result.Stdout)) {
		if isFileOperand(strings.TrimSpace(line), h.deps.FS) {
			files = append(files, strings.TrimSpace(line))
		}
	}
	return files, nil
}

// defaults returns the default options for this run and a release func for
// any scratch resource they reference.
func (h *Hook) defaults(
	ctx context.Context,
	enforcer *VersionEnforcer,
	parsed *ParsedArguments,
) ([]DefaultOption, func(), error) {
	defaults := cloneOptions(h.profile.Defaults)

	if len(h.profile.LegacyDefaults) > 0 {
		version, err := enforcer.InstalledVersion(ctx, h.profile)
		switch {
		case err != nil:
			h.debugf("Could not determine %s version: %v", h.profile.Binary, err)
		case MajorVersion(version) >= 0 && MajorVersion(version) < h.profile.LegacyBelowMajor:
			defaults = append(defaults, cloneOptions(h.profile.LegacyDefaults)...)
		}
	}

	release := func() {}
	if h.profile.GeneratesConfig && !parsed.HasOption("-c") {
		content, err := GenerateDefaultConfig(ctx, h.executor, h.profile)
		if err != nil {
			return nil, release, err
		}
		scratch := NewScratchConfig(h.workspace(), h.profile.Name, h.deps)
		if err := scratch.Acquire(content); err != nil {
			return nil, release, err
		}
		release = func() {
			if err := scratch.Release(); err != nil {
				h.debugf("Error releasing scratch config: %v", err)
			}
		}
		generated := DefaultOption{Tokens: []string{"-c", scratch.Path()}}
		defaults = append([]DefaultOption{generated}, defaults...)
	}

	return defaults, release, nil
}

func (h *Hook) check(
	ctx context.Context,
	builder *CommandBuilder,
	parsed *ParsedArguments,
	file string,
) (ReconciledOutcome, error) {
	if h.opts.Progress && file != "" {
		_, _ = fmt.Fprintln(h.deps.Stdout, shared.InfoStyle.Render(h.profile.Name+": "+file))
	}

	switch h.profile.Kind {
	case KindFormatter:
		return h.format(ctx, builder, parsed, file)
	case KindStaticAnalyzer:
		return h.analyze(ctx, builder, parsed, file)
	}
	return ReconciledOutcome{}, fmt.Errorf("unknown tool kind %q", h.profile.Kind)
}

func (h *Hook) analyze(
	ctx context.Context,
	builder *CommandBuilder,
	parsed *ParsedArguments,
	file string,
) (ReconciledOutcome, error) {
	var before map[string]bool
	if suffix := h.profile.ArtifactSuffix; suffix != "" {
		snapshot, err := artifactSnapshot(h.deps.FS, h.workdir(), suffix)
		if err != nil {
			h.debugf("Error listing %s files: %v", suffix, err)
		}
		before = snapshot
	}

	result := h.executor.Execute(ctx, builder.Build(parsed, file))

	if before != nil {
		if err := removeNewArtifacts(h.deps.FS, h.workdir(), h.profile.ArtifactSuffix, before); err != nil {
			h.debugf("Error removing %s files: %v", h.profile.ArtifactSuffix, err)
		}
	}
	if result.Err != nil {
		return ReconciledOutcome{}, result.Err
	}

	return Reconcile(h.profile.Rule, NewReconcileInput(result, h.profile, parsed))
}

// format compares a file with the formatter's proposal for it. The proposal
// is stdout, or the rewritten file when formatting in place.
func (h *Hook) format(
	ctx context.Context,
	builder *CommandBuilder,
	parsed *ParsedArguments,
	file string,
) (ReconciledOutcome, error) {
	original, err := h.deps.FS.ReadFile(file)
	if err != nil {
		return ReconciledOutcome{}, fmt.Errorf("reading %s: %w", file, err)
	}

	result := h.executor.Execute(ctx, builder.Build(parsed, file))
	if result.Err != nil {
		return ReconciledOutcome{}, result.Err
	}

	proposed := result.Stdout
	produced := result.ExitCode == 0 || len(proposed) > 0
	if InPlace(h.profile, parsed) {
		proposed, err = h.deps.FS.ReadFile(file)
		if err != nil {
			return ReconciledOutcome{}, fmt.Errorf("reading %s: %w", file, err)
		}
		produced = true
	}

	if !produced {
		// Nothing to compare against; the exit code is all there is.
		return Reconcile(h.profile.Rule, NewReconcileInput(result, h.profile, parsed))
	}
	return NewDiffReporter(parsed.Meta.NoDiff).Report(file, original, proposed)
}

func (h *Hook) workdir() string {
	if h.opts.Dir == "" {
		return "."
	}
	return h.opts.Dir
}

func (h *Hook) workspace() string {
	abs, err := filepath.Abs(h.workdir())
	if err != nil {
		return h.workdir()
	}
	return abs
}

func (h *Hook) debugf(format string, args ...any) {
	if h.opts.Debug {
		_, _ = fmt.Fprintln(h.deps.Stderr, shared.DebugStyle.Render("[debug] "+fmt.Sprintf(format, args...)))
	}
}
