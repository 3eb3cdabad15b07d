// Package main implements the cpplint-hook pre-commit hook.
package main

import (
	"os"

	"github.com/Veraticus/cpp-hooks/internal/cli"
)

func main() {
	os.Exit(cli.RunTool("cpplint", os.Args))
}
