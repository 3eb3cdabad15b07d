package hooks

import (
	"slices"
	"strings"
)

const (
	argSeparator = "--"
	flagVersion  = "--version"
	flagNoDiff   = "--no-diff"
	configSuffix = ".cfg"
)

// Invocation is the raw argument vector a hook was started with. It is
// captured once at the process entry point and never mutated.
type Invocation struct {
	program string
	args    []string
}

// NewInvocation captures argv as given to main, program name first.
func NewInvocation(argv []string) Invocation {
	if len(argv) == 0 {
		return Invocation{}
	}
	return Invocation{program: argv[0], args: slices.Clone(argv[1:])}
}

// Program returns the name the hook was invoked as.
func (i Invocation) Program() string { return i.program }

// Args returns a copy of the arguments after the program name.
func (i Invocation) Args() []string { return slices.Clone(i.args) }

// MetaOptions are the hook's own options. They never reach the tool.
type MetaOptions struct {
	Version    string
	HasVersion bool
	NoDiff     bool
}

// ParsedArguments is an Invocation split into meta-options, tool arguments and files.
type ParsedArguments struct {
	Meta MetaOptions
	// Passthrough holds user tool options in their original order, followed
	// by the separator and the verbatim section when one was given.
	Passthrough []string
	Files       []string
}

// Options returns the user tool options before the separator.
func (p *ParsedArguments) Options() []string {
	if i := slices.Index(p.Passthrough, argSeparator); i >= 0 {
		return slices.Clone(p.Passthrough[:i])
	}
	return slices.Clone(p.Passthrough)
}

// Verbatim returns the tokens after the separator and whether one was present.
func (p *ParsedArguments) Verbatim() ([]string, bool) {
	if i := slices.Index(p.Passthrough, argSeparator); i >= 0 {
		return slices.Clone(p.Passthrough[i+1:]), true
	}
	return nil, false
}

// HasOption reports whether the user passed an option with the same key as flag.
func (p *ParsedArguments) HasOption(flag string) bool {
	key := OptionKey(flag, nil)
	for _, tok := range p.Options() {
		if strings.HasPrefix(tok, "-") && OptionKey(tok, nil) == key {
			return true
		}
	}
	return false
}

// Normalize splits an Invocation into ParsedArguments. Files are read from the
// raw vector: any token on either side of the separator that names an existing
// regular file. Config files (*.cfg) and tokens that are not files stay in
// Passthrough in their original order.
func Normalize(inv Invocation, fs FileSystem) (*ParsedArguments, error) {
	raw := inv.Args()
	parsed := &ParsedArguments{}

	head, tail := raw, []string(nil)
	sep := slices.Index(raw, argSeparator)
	if sep >= 0 {
		head, tail = raw[:sep], raw[sep:]
	}

	for i := 0; i < len(head); i++ {
		tok := head[i]
		switch {
		case tok == flagNoDiff:
			parsed.Meta.NoDiff = true
		case tok == flagVersion:
			if i == len(head)-1 {
				return nil, &ArgumentParseError{
					Reason: "--version requires a value",
					Detail: "Use --version=X.Y.Z or --version X.Y.Z.",
				}
			}
			i++
			parsed.Meta.Version = head[i]
			parsed.Meta.HasVersion = true
		case strings.HasPrefix(tok, flagVersion+"="):
			value := strings.TrimSpace(strings.TrimPrefix(tok, flagVersion+"="))
			if value == "" {
				return nil, &ArgumentParseError{
					Reason: "--version requires a value",
					Detail: "Use --version=X.Y.Z or --version X.Y.Z.",
				}
			}
			parsed.Meta.Version = value
			parsed.Meta.HasVersion = true
		case isFileOperand(tok, fs):
			parsed.Files = append(parsed.Files, tok)
		default:
			parsed.Passthrough = append(parsed.Passthrough, tok)
		}
	}

	// pre-commit appends operands after the configured args.
	for _, tok := range tail {
		if isFileOperand(tok, fs) {
			parsed.Files = append(parsed.Files, tok)
			continue
		}
		parsed.Passthrough = append(parsed.Passthrough, tok)
	}
	return parsed, nil
}

func isFileOperand(tok string, fs FileSystem) bool {
	if tok == "" || strings.HasPrefix(tok, "-") || strings.HasSuffix(tok, configSuffix) {
		return false
	}
	info, err := fs.Stat(tok)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
