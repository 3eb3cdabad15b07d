// Package cli implements the cpp-hooks command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cpp-hooks/internal/config"
	"github.com/Veraticus/cpp-hooks/internal/hooks"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// Seams replaced in tests.
var (
	osExit          = os.Exit
	loadConfig      = config.Load
	newDependencies = hooks.NewDefaultDependencies
)

var rootCmd = &cobra.Command{
	Use:   "cpp-hooks",
	Short: "Pre-commit hooks for C and C++ formatters and static analyzers",
	Long: `cpp-hooks wraps C/C++ formatters and static analyzers so that each one
reports a trustworthy pass or fail.

Each tool is also installed as its own <tool>-hook binary for use from a
.pre-commit-config.yaml; "cpp-hooks run <tool>" behaves identically.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cpp-hooks %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
