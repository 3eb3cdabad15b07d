// Package main implements the clang-tidy-hook pre-commit hook.
package main

import (
	"os"

	"github.com/Veraticus/cpp-hooks/internal/cli"
)

func main() {
	os.Exit(cli.RunTool("clang-tidy", os.Args))
}
