// Package main implements the cppcheck-hook pre-commit hook.
package main

import (
	"os"

	"github.com/Veraticus/cpp-hooks/internal/cli"
)

func main() {
	os.Exit(cli.RunTool("cppcheck", os.Args))
}
