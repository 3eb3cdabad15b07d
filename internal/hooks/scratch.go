package hooks

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
)

const scratchFileMode = 0600 // Read/write for owner only

// ScratchConfig is a generated configuration file owned by a single hook
// process. Its name carries a hash of the workspace and the process ID, so
// hooks running in parallel against one directory never share it.
type ScratchConfig struct {
	path     string
	acquired bool
	deps     *Dependencies
}

// NewScratchConfig names the scratch config for tool in workspaceDir.
func NewScratchConfig(workspaceDir, tool string, deps *Dependencies) *ScratchConfig {
	if deps == nil {
		deps = NewDefaultDependencies()
	}

	hash := sha256.Sum256([]byte(workspaceDir))
	name := fmt.Sprintf("%s-defaults-%x-%d%s", tool, hash[:8], deps.Process.GetPID(), configSuffix)

	return &ScratchConfig{
		path: filepath.Join(deps.FS.TempDir(), name),
		deps: deps,
	}
}

// Path returns the location of the scratch file.
func (s *ScratchConfig) Path() string {
	return s.path
}

// Acquire writes content to the scratch file.
func (s *ScratchConfig) Acquire(content []byte) error {
	if err := s.deps.FS.WriteFile(s.path, content, scratchFileMode); err != nil {
		return fmt.Errorf("writing scratch config: %w", err)
	}
	s.acquired = true
	return nil
}

// Release removes the scratch file. It is safe to call more than once.
func (s *ScratchConfig) Release() error {
	if !s.acquired {
		return nil
	}
	s.acquired = false
	if err := s.deps.FS.Remove(s.path); err != nil {
		return fmt.Errorf("removing scratch config: %w", err)
	}
	return nil
}
