package hooks

import (
	"fmt"
	"slices"
	"sort"
)

// Kind separates tools that rewrite code from tools that only report on it.
type Kind string

// Tool kinds.
const (
	KindFormatter      Kind = "formatter"
	KindStaticAnalyzer Kind = "static-analyzer"
)

// Rule selects how a tool's raw exit code and output become pass or fail.
type Rule string

// Reconciliation rules. The set is closed; Reconcile rejects anything else.
const (
	RuleTrustExitCode                   Rule = "trust-exit-code"
	RuleStderrOverride                  Rule = "stderr-override"
	RuleFixErrorsAware                  Rule = "fix-errors-aware"
	RuleOutputMarkerScan                Rule = "output-marker-scan"
	RuleForcedFailureOnAmbiguousSuccess Rule = "forced-failure-on-ambiguous-success"
)

// Rules lists every known reconciliation rule.
func Rules() []Rule {
	return []Rule{
		RuleTrustExitCode,
		RuleStderrOverride,
		RuleFixErrorsAware,
		RuleOutputMarkerScan,
		RuleForcedFailureOnAmbiguousSuccess,
	}
}

// ParseRule converts a configured rule name into a Rule.
func ParseRule(name string) (Rule, error) {
	for _, r := range Rules() {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown reconciliation rule %q", name)
}

// OperandOrder fixes where file operands go in the resolved command line.
type OperandOrder int

const (
	// FileFirst puts the file before every option: `tool file opts -- verbatim`.
	FileFirst OperandOrder = iota
	// FileAfterOptions puts the file after the options: `tool opts file -- verbatim`.
	FileAfterOptions
	// FileLast puts the file after everything, verbatim tokens included,
	// and drops the separator: `tool opts verbatim file`.
	FileLast
)

func (o OperandOrder) String() string {
	switch o {
	case FileFirst:
		return "file-first"
	case FileAfterOptions:
		return "file-after-options"
	case FileLast:
		return "file-last"
	default:
		return fmt.Sprintf("OperandOrder(%d)", int(o))
	}
}

// DefaultOption is a group of tokens injected unless the user already set its key.
type DefaultOption struct {
	Tokens []string
	// Key overrides the key derived from the first token.
	Key string
}

func opt(tokens ...string) DefaultOption {
	return DefaultOption{Tokens: tokens}
}

// OptionKey returns the key used to match this default against user options.
func (d DefaultOption) OptionKey(repeatable []string) string {
	if d.Key != "" {
		return d.Key
	}
	if len(d.Tokens) == 0 {
		return ""
	}
	return OptionKey(d.Tokens[0], repeatable)
}

// ToolProfile describes one wrapped tool. Profiles are immutable; callers
// receive copies from Lookup.
type ToolProfile struct {
	Name   string
	Binary string
	Kind   Kind
	Rule   Rule
	Order  OperandOrder

	Defaults []DefaultOption
	// LegacyDefaults are added when the installed major version is below LegacyBelowMajor.
	LegacyDefaults   []DefaultOption
	LegacyBelowMajor int

	// VersionPrefix precedes the version number in `<binary> --version` output.
	VersionPrefix string
	// FileFlag precedes the file operand when the tool reads it in stdout mode.
	FileFlag string
	// InPlaceFlags switch a formatter to rewriting the file itself.
	InPlaceFlags []string
	// FixFlag lets the tool repair errors instead of reporting them.
	FixFlag string
	// ForwardFlag marks the next user token as a tool option (IWYU's -Xiwyu).
	ForwardFlag string
	// RepeatableKeys are option keys matched together with their value.
	RepeatableKeys []string
	// StderrAllowlist holds substrings of stderr lines that never cause failure.
	StderrAllowlist []string
	// ArtifactSuffix marks files the tool drops in the working directory.
	// New ones are removed after each run.
	ArtifactSuffix string

	SupportsDiff    bool
	RequiresFiles   bool
	GeneratesConfig bool
}

// Clone returns a deep copy of the profile.
func (p ToolProfile) Clone() ToolProfile {
	c := p
	c.Defaults = cloneOptions(p.Defaults)
	c.LegacyDefaults = cloneOptions(p.LegacyDefaults)
	c.InPlaceFlags = slices.Clone(p.InPlaceFlags)
	c.RepeatableKeys = slices.Clone(p.RepeatableKeys)
	c.StderrAllowlist = slices.Clone(p.StderrAllowlist)
	return c
}

func cloneOptions(in []DefaultOption) []DefaultOption {
	if in == nil {
		return nil
	}
	out := make([]DefaultOption, len(in))
	for i, o := range in {
		out[i] = DefaultOption{Tokens: slices.Clone(o.Tokens), Key: o.Key}
	}
	return out
}

// Substrings of the notice LLVM tools print when no compilation database
// exists. The tool still runs, so these lines never count as diagnostics.
var compilationDatabaseNotice = []string{
	"compilation database",
	"compilation-database",
	"Running without flags.",
}

const cppcheckMissingIncludes = "Cppcheck cannot find all the include files"

var profiles = map[string]ToolProfile{
	"clang-format": {
		Name:          "clang-format",
		Binary:        "clang-format",
		Kind:          KindFormatter,
		Rule:          RuleTrustExitCode,
		Order:         FileAfterOptions,
		Defaults:      []DefaultOption{opt("--style=file"), opt("--fallback-style=LLVM")},
		VersionPrefix: "clang-format version ",
		InPlaceFlags:  []string{"-i"},
		SupportsDiff:  true,
		RequiresFiles: true,
	},
	"uncrustify": {
		Name:            "uncrustify",
		Binary:          "uncrustify",
		Kind:            KindFormatter,
		Rule:            RuleTrustExitCode,
		Order:           FileAfterOptions,
		Defaults:        []DefaultOption{opt("-q")},
		VersionPrefix:   "Uncrustify-",
		FileFlag:        "-f",
		InPlaceFlags:    []string{"--replace"},
		SupportsDiff:    true,
		RequiresFiles:   true,
		GeneratesConfig: true,
	},
	"clang-tidy": {
		Name:            "clang-tidy",
		Binary:          "clang-tidy",
		Kind:            KindStaticAnalyzer,
		Rule:            RuleFixErrorsAware,
		Order:           FileFirst,
		Defaults:        []DefaultOption{opt("-checks=*"), opt("-warnings-as-errors=*")},
		VersionPrefix:   "LLVM version ",
		FixFlag:         "--fix-errors",
		StderrAllowlist: compilationDatabaseNotice,
	},
	"oclint": {
		Name:   "oclint",
		Binary: "oclint",
		Kind:   KindStaticAnalyzer,
		Rule:   RuleOutputMarkerScan,
		Order:  FileFirst,
		Defaults: []DefaultOption{
			opt("-enable-global-analysis"),
			opt("-enable-clang-static-analyzer"),
			opt("-max-priority-3", "0"),
		},
		LegacyDefaults:   []DefaultOption{opt("-no-analytics")},
		LegacyBelowMajor: 20,
		VersionPrefix:    "OCLint version ",
		StderrAllowlist:  compilationDatabaseNotice,
		ArtifactSuffix:   ".plist",
	},
	"cpplint": {
		Name:          "cpplint",
		Binary:        "cpplint",
		Kind:          KindStaticAnalyzer,
		Rule:          RuleTrustExitCode,
		Order:         FileAfterOptions,
		Defaults:      []DefaultOption{opt("--verbose=0")},
		VersionPrefix: "cpplint ",
		RequiresFiles: true,
	},
	"cppcheck": {
		Name:   "cppcheck",
		Binary: "cppcheck",
		Kind:   KindStaticAnalyzer,
		Rule:   RuleTrustExitCode,
		Order:  FileAfterOptions,
		Defaults: []DefaultOption{
			opt("-q"),
			opt("--error-exitcode=1"),
			opt("--enable=all"),
			opt("--suppress=unmatchedSuppression"),
			opt("--suppress=missingIncludeSystem"),
			opt("--suppress=unusedFunction"),
		},
		VersionPrefix:   "Cppcheck ",
		RepeatableKeys:  []string{"suppress"},
		StderrAllowlist: []string{cppcheckMissingIncludes},
		RequiresFiles:   true,
	},
	"include-what-you-use": {
		Name:          "include-what-you-use",
		Binary:        "include-what-you-use",
		Kind:          KindStaticAnalyzer,
		Rule:          RuleForcedFailureOnAmbiguousSuccess,
		Order:         FileLast,
		Defaults:      []DefaultOption{{Tokens: []string{"-Xiwyu", "--verbose=3"}, Key: "verbose"}},
		VersionPrefix: "include-what-you-use ",
		ForwardFlag:   "-Xiwyu",
		RequiresFiles: true,
	},
}

// Lookup returns a copy of the named tool's profile.
func Lookup(name string) (ToolProfile, bool) {
	p, ok := profiles[name]
	if !ok {
		return ToolProfile{}, false
	}
	return p.Clone(), true
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) ToolProfile {
	p, ok := Lookup(name)
	if !ok {
		panic("hooks: unknown tool " + name)
	}
	return p
}

// ToolNames returns the registered tool names in sorted order.
func ToolNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
