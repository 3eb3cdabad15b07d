package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var indentColumnsRe = regexp.MustCompile(`(indent_columns\s+=) \d+`)

// GenerateDefaultConfig returns uncrustify's built-in configuration with
// indentation set to 2 columns, the LLVM default. Uncrustify refuses to run
// without a config.
func GenerateDefaultConfig(ctx context.Context, executor *CommandExecutor, profile ToolProfile) ([]byte, error) {
	cmd := ResolvedCommand{Binary: profile.Binary, Args: []string{"--show-config"}}
	result := executor.Execute(ctx, cmd)
	if result.Err != nil {
		return nil, result.Err
	}
	if result.ExitCode != 0 {
		return nil, &ToolExecutionError{
			Command: cmd.String(),
			Err:     fmt.Errorf("exit status %d: %s", result.ExitCode, strings.TrimSpace(string(result.Stderr))),
		}
	}
	return indentColumnsRe.ReplaceAll(result.Stdout, []byte("${1} 2")), nil
}

// artifactSnapshot records which artifact files already exist in dir.
func artifactSnapshot(fs FileSystem, dir, suffix string) (map[string]bool, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			seen[entry.Name()] = true
		}
	}
	return seen, nil
}

// removeNewArtifacts deletes artifact files that were not in before.
func removeNewArtifacts(fs FileSystem, dir, suffix string, before map[string]bool) error {
	after, err := artifactSnapshot(fs, dir, suffix)
	if err != nil {
		return err
	}
	for name := range after {
		if before[name] {
			continue
		}
		if err := fs.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
