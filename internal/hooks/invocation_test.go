package hooks

import (
	"errors"
	"slices"
	"testing"
)

func TestNewInvocation(t *testing.T) {
	t.Run("splits program from arguments", func(t *testing.T) {
		inv := NewInvocation([]string{"clang-tidy-hook", "-fix", "a.c"})
		if inv.Program() != "clang-tidy-hook" {
			t.Errorf("Expected program 'clang-tidy-hook', got '%s'", inv.Program())
		}
		if !slices.Equal(inv.Args(), []string{"-fix", "a.c"}) {
			t.Errorf("Unexpected args: %v", inv.Args())
		}
	})

	t.Run("args are a copy", func(t *testing.T) {
		argv := []string{"hook", "a.c"}
		inv := NewInvocation(argv)
		argv[1] = "b.c"
		args := inv.Args()
		args[0] = "c.c"
		if inv.Args()[0] != "a.c" {
			t.Errorf("Invocation was mutated: %v", inv.Args())
		}
	})

	t.Run("empty argv", func(t *testing.T) {
		inv := NewInvocation(nil)
		if inv.Program() != "" || len(inv.Args()) != 0 {
			t.Errorf("Expected empty invocation, got %+v", inv)
		}
	})
}

func TestNormalize(t *testing.T) {
	testDeps := createTestDependencies()
	testDeps.MockFS.addFile("ok.c", "int main() { return 0; }\n")
	testDeps.MockFS.addFile("err.cpp", "int main() { }\n")
	testDeps.MockFS.addFile("style.cfg", "indent_columns = 2\n")
	testDeps.MockFS.addDir("src")

	tests := []struct {
		name            string
		args            []string
		wantFiles       []string
		wantPassthrough []string
		wantMeta        MetaOptions
	}{
		{
			name:      "files only",
			args:      []string{"ok.c", "err.cpp"},
			wantFiles: []string{"ok.c", "err.cpp"},
		},
		{
			name:            "options and files interleaved keep order",
			args:            []string{"-checks=*", "ok.c", "-fix", "err.cpp"},
			wantFiles:       []string{"ok.c", "err.cpp"},
			wantPassthrough: []string{"-checks=*", "-fix"},
		},
		{
			name:            "version with separate value",
			args:            []string{"--version", "10.0.1", "ok.c"},
			wantFiles:       []string{"ok.c"},
			wantPassthrough: nil,
			wantMeta:        MetaOptions{Version: "10.0.1", HasVersion: true},
		},
		{
			name:      "version with equals",
			args:      []string{"--version=8", "ok.c"},
			wantFiles: []string{"ok.c"},
			wantMeta:  MetaOptions{Version: "8", HasVersion: true},
		},
		{
			name:      "no-diff is a meta option",
			args:      []string{"--no-diff", "ok.c"},
			wantFiles: []string{"ok.c"},
			wantMeta:  MetaOptions{NoDiff: true},
		},
		{
			name:            "config files are not operands",
			args:            []string{"-c", "style.cfg", "ok.c"},
			wantFiles:       []string{"ok.c"},
			wantPassthrough: []string{"-c", "style.cfg"},
		},
		{
			name:            "directories and missing paths stay in passthrough",
			args:            []string{"src", "missing.c", "ok.c"},
			wantFiles:       []string{"ok.c"},
			wantPassthrough: []string{"src", "missing.c"},
		},
		{
			name:            "files after separator are operands",
			args:            []string{"ok.c", "--", "-std=c++17", "err.cpp", "--version"},
			wantFiles:       []string{"ok.c", "err.cpp"},
			wantPassthrough: []string{"--", "-std=c++17", "--version"},
		},
		{
			name:            "only files after separator",
			args:            []string{"-checks=*", "--", "-std=c++17", "-DX=1", "ok.c"},
			wantFiles:       []string{"ok.c"},
			wantPassthrough: []string{"-checks=*", "--", "-std=c++17", "-DX=1"},
		},
		{
			name:            "non-files after separator keep their order",
			args:            []string{"--", "-I", "src", "missing.c", "style.cfg", "ok.c", "-Wall"},
			wantFiles:       []string{"ok.c"},
			wantPassthrough: []string{"--", "-I", "src", "missing.c", "style.cfg", "-Wall"},
		},
		{
			name:            "separator with nothing after",
			args:            []string{"ok.c", "--"},
			wantFiles:       []string{"ok.c"},
			wantPassthrough: []string{"--"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Normalize(NewInvocation(append([]string{"hook"}, tt.args...)), testDeps.FS)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !slices.Equal(parsed.Files, tt.wantFiles) {
				t.Errorf("Files = %v, want %v", parsed.Files, tt.wantFiles)
			}
			if !slices.Equal(parsed.Passthrough, tt.wantPassthrough) {
				t.Errorf("Passthrough = %v, want %v", parsed.Passthrough, tt.wantPassthrough)
			}
			if parsed.Meta != tt.wantMeta {
				t.Errorf("Meta = %+v, want %+v", parsed.Meta, tt.wantMeta)
			}
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	testDeps := createTestDependencies()
	testDeps.MockFS.addFile("ok.c", "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "version without value", args: []string{"ok.c", "--version"}},
		{name: "version with empty equals", args: []string{"--version=", "ok.c"}},
		{name: "version followed by separator", args: []string{"ok.c", "--version", "--", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(NewInvocation(append([]string{"hook"}, tt.args...)), testDeps.FS)
			var parseErr *ArgumentParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *ArgumentParseError, got %v", err)
			}
		})
	}
}

func TestParsedArguments(t *testing.T) {
	parsed := &ParsedArguments{Passthrough: []string{"-fix", "--fix-errors", "--", "-I", "include"}}

	if !slices.Equal(parsed.Options(), []string{"-fix", "--fix-errors"}) {
		t.Errorf("Unexpected options: %v", parsed.Options())
	}

	verbatim, ok := parsed.Verbatim()
	if !ok || !slices.Equal(verbatim, []string{"-I", "include"}) {
		t.Errorf("Unexpected verbatim: %v, %v", verbatim, ok)
	}

	if !parsed.HasOption("-fix-errors") {
		t.Error("Expected -fix-errors to match --fix-errors by key")
	}
	if parsed.HasOption("-I") {
		t.Error("Verbatim tokens must not count as options")
	}

	none := &ParsedArguments{Passthrough: []string{"-q"}}
	if _, ok := none.Verbatim(); ok {
		t.Error("Expected no separator")
	}
}
