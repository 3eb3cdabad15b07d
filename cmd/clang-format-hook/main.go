// Package main implements the clang-format-hook pre-commit hook.
package main

import (
	"os"

	"github.com/Veraticus/cpp-hooks/internal/cli"
)

func main() {
	os.Exit(cli.RunTool("clang-format", os.Args))
}
