// Package main implements the cpp-hooks CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/cpp-hooks/internal/cli"
	"github.com/Veraticus/cpp-hooks/internal/hooks"
)

// Set by ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(hooks.ExitCodeFatal)
	}
}
