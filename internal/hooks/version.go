package hooks

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrVersionFormat is returned when `<tool> --version` output has no recognizable version.
var ErrVersionFormat = errors.New("the version format for this command has changed")

const versionPattern = `((?:\d+\.)+[\d+_\+\-a-z]+)`

// ExtractVersion finds the version number that follows prefix in output.
func ExtractVersion(prefix, output string) (string, error) {
	re, err := regexp.Compile(regexp.QuoteMeta(prefix) + versionPattern)
	if err != nil {
		return "", fmt.Errorf("compile version pattern: %w", err)
	}
	match := re.FindStringSubmatch(output)
	if match == nil {
		return "", ErrVersionFormat
	}
	return match[1], nil
}

// MatchVersion compares only the components present in requested, so "8.0"
// matches "8.0.3" but "8.0.1" does not match "8.0.2". Build suffixes such as
// "-1ubuntu1" on an installed component are ignored.
func MatchVersion(requested, installed string) bool {
	want := strings.Split(strings.TrimSpace(requested), ".")
	have := strings.Split(strings.TrimSpace(installed), ".")
	if len(want) == 0 || len(want) > len(have) {
		return false
	}
	for i, w := range want {
		if w == "" || w != versionComponent(have[i]) {
			return false
		}
	}
	return true
}

func versionComponent(c string) string {
	if i := strings.IndexAny(c, "-+_~ "); i >= 0 {
		return c[:i]
	}
	return c
}

// MajorVersion returns the leading numeric component of version, or -1.
func MajorVersion(version string) int {
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(versionComponent(head))
	if err != nil {
		return -1
	}
	return major
}

// VersionEnforcer gates a hook on the installed tool version.
type VersionEnforcer struct {
	executor *CommandExecutor
}

// NewVersionEnforcer creates a version enforcer that queries tools through executor.
func NewVersionEnforcer(executor *CommandExecutor) *VersionEnforcer {
	return &VersionEnforcer{executor: executor}
}

// InstalledVersion runs `<binary> --version` and extracts the version number.
func (v *VersionEnforcer) InstalledVersion(ctx context.Context, profile ToolProfile) (string, error) {
	cmd := ResolvedCommand{Binary: profile.Binary, Args: []string{flagVersion}}
	result := v.executor.Execute(ctx, cmd)
	if result.Err != nil {
		return "", result.Err
	}

	version, err := ExtractVersion(profile.VersionPrefix, string(result.Stdout))
	if err != nil {
		// Some tools print their banner on stderr.
		version, err = ExtractVersion(profile.VersionPrefix, string(result.Stderr))
	}
	if err != nil {
		return "", fmt.Errorf("getting version of %s: %w", profile.Binary, err)
	}
	return version, nil
}

// Enforce fails with a *VersionMismatchError unless the installed version
// matches requested.
func (v *VersionEnforcer) Enforce(ctx context.Context, profile ToolProfile, requested string) error {
	installed, err := v.InstalledVersion(ctx, profile)
	if err != nil {
		return err
	}
	if !MatchVersion(requested, installed) {
		return &VersionMismatchError{Binary: profile.Binary, Requested: requested, Installed: installed}
	}
	return nil
}
