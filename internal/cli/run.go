package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cpp-hooks/internal/hooks"
	"github.com/Veraticus/cpp-hooks/internal/shared"
)

var runCmd = &cobra.Command{
	Use:   "run <tool> [args...] [files...] [-- compiler-args...]",
	Short: "Run one tool as a pre-commit hook",
	Long: `Run a tool against the given files and exit 0 when every file passes,
1 when any file fails, and 2 when the tool could not be run.

Besides the tool's own options, two hook options are understood:
  --version X.Y.Z   fail unless the installed tool matches this version
  --no-diff         do not print diffs for files a formatter would change

Tools: ` + strings.Join(hooks.ToolNames(), ", "),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Handle --help / -h manually since DisableFlagParsing is true.
		if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
			return cmd.Help()
		}

		tool := args[0]
		if _, ok := hooks.Lookup(tool); !ok {
			return fmt.Errorf("unknown tool %q (known: %s)", tool, strings.Join(hooks.ToolNames(), ", "))
		}

		argv := append([]string{tool + "-hook"}, args[1:]...)
		if code := RunTool(tool, argv); code != hooks.ExitCodePass {
			osExit(code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// RunTool runs the named tool's hook with argv, the full argument vector
// including the program name, and returns the process exit code.
func RunTool(tool string, argv []string) int {
	deps := newDependencies()

	profile, ok := hooks.Lookup(tool)
	if !ok {
		_, _ = fmt.Fprintln(deps.Stderr, shared.ErrorStyle.Render("unknown tool "+tool))
		return hooks.ExitCodeFatal
	}

	cfg, err := loadConfig()
	if err != nil {
		hooks.WriteProblem(deps.Stderr, profile.Binary, err)
		return hooks.ExitCodeFatal
	}
	profile, err = cfg.Apply(profile)
	if err != nil {
		hooks.WriteProblem(deps.Stderr, profile.Binary, err)
		return hooks.ExitCodeFatal
	}

	hook := hooks.NewHook(profile, cfg.HookOptions(), deps)
	return hook.Run(context.Background(), hooks.NewInvocation(argv))
}
