// Package config manages application configuration using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/cpp-hooks/internal/hooks"
)

// EnvPrefix prefixes every environment variable read by cpp-hooks.
const EnvPrefix = "CPP_HOOKS"

// Config represents the application configuration.
type Config struct {
	Debug    bool                  `mapstructure:"debug" yaml:"debug"`
	Progress bool                  `mapstructure:"progress" yaml:"progress"`
	Tools    map[string]ToolConfig `mapstructure:"tools" yaml:"tools,omitempty"`
}

// ToolConfig adjusts one tool's built-in profile.
type ToolConfig struct {
	// Binary replaces the executable name, e.g. clang-tidy-18.
	Binary string `mapstructure:"binary" yaml:"binary,omitempty"`
	// Rule replaces the reconciliation rule.
	Rule string `mapstructure:"rule" yaml:"rule,omitempty"`
	// StderrAllowlist extends the built-in allow-list of stderr noise.
	StderrAllowlist []string `mapstructure:"stderr_allowlist" yaml:"stderr_allowlist,omitempty"`
}

// Load loads configuration from files and environment variables.
// It searches for config files in the following order:
// 1. /etc/cpp-hooks/config.{toml,yaml,yml}
// 2. $XDG_CONFIG_HOME/cpp-hooks/config.{toml,yaml,yml} (or ~/.config/cpp-hooks/)
// 3. ./config.{toml,yaml,yml}
//
// Environment variables override file settings using the prefix CPP_HOOKS_
// For example: CPP_HOOKS_DEBUG=1
func Load() (*Config, error) {
	v := NewViper()

	v.SetConfigName("config")
	v.AddConfigPath("/etc/cpp-hooks/")
	v.AddConfigPath(getXDGConfigPath())
	v.AddConfigPath(".")

	// Try to read config file (it's OK if it doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return LoadWithViper(v)
}

// NewViper returns a Viper instance with defaults and environment binding set up.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("debug", false)
	v.SetDefault("progress", false)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadWithViper loads configuration using a provided Viper instance.
// This is useful for testing or when you want to configure Viper differently.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Apply overlays the configuration for profile's tool onto a copy of it.
func (c *Config) Apply(profile hooks.ToolProfile) (hooks.ToolProfile, error) {
	p := profile.Clone()
	tc, ok := c.Tools[p.Name]
	if !ok {
		return p, nil
	}

	if tc.Binary != "" {
		p.Binary = tc.Binary
	}
	if tc.Rule != "" {
		rule, err := hooks.ParseRule(tc.Rule)
		if err != nil {
			return p, fmt.Errorf("tool %s: %w", p.Name, err)
		}
		p.Rule = rule
	}
	p.StderrAllowlist = append(p.StderrAllowlist, tc.StderrAllowlist...)

	return p, nil
}

// HookOptions converts the configuration into hook options.
func (c *Config) HookOptions() hooks.Options {
	return hooks.Options{Debug: c.Debug, Progress: c.Progress}
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

// getXDGConfigPath returns the XDG config directory for cpp-hooks.
func getXDGConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cpp-hooks")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home
		return "."
	}

	return filepath.Join(homeDir, ".config", "cpp-hooks")
}
