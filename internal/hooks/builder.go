package hooks

import (
	"slices"
	"strings"
)

// ResolvedCommand is the exact command line handed to the subprocess.
type ResolvedCommand struct {
	Binary string
	Args   []string
}

// String returns the command line joined with spaces.
func (c ResolvedCommand) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}

// OptionKey derives the key of an option token: the text before '=' with the
// leading dashes removed, so -style and --style share a key. Keys listed in
// repeatable keep the value up to the first ':' (suppress=unusedFunction).
func OptionKey(token string, repeatable []string) string {
	name, value, hasValue := strings.Cut(token, "=")
	key := strings.TrimLeft(name, "-")
	if hasValue && slices.Contains(repeatable, key) {
		id, _, _ := strings.Cut(value, ":")
		return key + "=" + id
	}
	return key
}

// userKeys collects the option keys present in the user's options.
func userKeys(profile ToolProfile, options []string) map[string]bool {
	keys := make(map[string]bool)
	forwarded := false
	for _, tok := range options {
		isOption := strings.HasPrefix(tok, "-")
		if isOption || forwarded {
			if key := OptionKey(tok, profile.RepeatableKeys); key != "" {
				keys[key] = true
			}
		}
		forwarded = profile.ForwardFlag != "" && tok == profile.ForwardFlag
	}
	return keys
}

// MergeDefaults returns the defaults whose keys the user did not set, in
// declared order, followed by the user's options unchanged.
func MergeDefaults(profile ToolProfile, defaults []DefaultOption, options []string) []string {
	keys := userKeys(profile, options)
	merged := make([]string, 0, len(defaults)+len(options))
	for _, d := range defaults {
		if keys[d.OptionKey(profile.RepeatableKeys)] {
			continue
		}
		merged = append(merged, d.Tokens...)
	}
	return append(merged, options...)
}

// CommandBuilder turns parsed arguments into per-file command lines.
type CommandBuilder struct {
	profile  ToolProfile
	defaults []DefaultOption
}

// NewCommandBuilder creates a builder injecting defaults for profile.
func NewCommandBuilder(profile ToolProfile, defaults []DefaultOption) *CommandBuilder {
	return &CommandBuilder{profile: profile, defaults: defaults}
}

// InPlace reports whether the user asked the formatter to rewrite files itself.
func InPlace(profile ToolProfile, parsed *ParsedArguments) bool {
	options := parsed.Options()
	for _, flag := range profile.InPlaceFlags {
		if slices.Contains(options, flag) {
			return true
		}
	}
	return false
}

// Build resolves the command line for one file. An empty file builds the
// command without an operand, for tools that may run on a compilation
// database alone.
func (b *CommandBuilder) Build(parsed *ParsedArguments, file string) ResolvedCommand {
	merged := MergeDefaults(b.profile, b.defaults, parsed.Options())
	verbatim, hasSeparator := parsed.Verbatim()

	var operand []string
	if file != "" {
		if b.profile.FileFlag != "" && !InPlace(b.profile, parsed) {
			operand = append(operand, b.profile.FileFlag)
		}
		operand = append(operand, file)
	}

	var tail []string
	if hasSeparator {
		tail = append([]string{argSeparator}, verbatim...)
	}

	args := make([]string, 0, len(merged)+len(operand)+len(tail))
	switch b.profile.Order {
	case FileFirst:
		args = append(args, operand...)
		args = append(args, merged...)
		args = append(args, tail...)
	case FileAfterOptions:
		args = append(args, merged...)
		args = append(args, operand...)
		args = append(args, tail...)
	case FileLast:
		args = append(args, merged...)
		args = append(args, verbatim...)
		args = append(args, operand...)
	}

	return ResolvedCommand{Binary: b.profile.Binary, Args: args}
}
