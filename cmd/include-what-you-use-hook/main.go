// Package main implements the include-what-you-use-hook pre-commit hook.
package main

import (
	"os"

	"github.com/Veraticus/cpp-hooks/internal/cli"
)

func main() {
	os.Exit(cli.RunTool("include-what-you-use", os.Args))
}
