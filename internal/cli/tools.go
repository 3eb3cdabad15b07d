package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cpp-hooks/internal/hooks"
	"github.com/Veraticus/cpp-hooks/internal/output"
)

var toolsCmd = &cobra.Command{
	Use:   "tools [tool]",
	Short: "List supported tools or describe one",
	Long: `With no argument, list the supported tools grouped by kind.
With a tool name, show its profile after configuration is applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer := output.NewListRenderer()

		if len(args) == 0 {
			groups := make(map[string][]string)
			for _, name := range hooks.ToolNames() {
				p := hooks.MustLookup(name)
				groups[string(p.Kind)] = append(groups[string(p.Kind)], name)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), renderer.RenderGrouped("Tools", groups))
			return nil
		}

		profile, ok := hooks.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown tool %q", args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		profile, err = cfg.Apply(profile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprint(out, renderer.RenderMap(profile.Name, describeProfile(profile)))
		_, _ = fmt.Fprint(out, renderer.Render("Default options", joinOptions(profile.Defaults)))
		if len(profile.LegacyDefaults) > 0 {
			title := "Before version " + strconv.Itoa(profile.LegacyBelowMajor)
			_, _ = fmt.Fprint(out, renderer.Render(title, joinOptions(profile.LegacyDefaults)))
		}
		if len(profile.StderrAllowlist) > 0 {
			_, _ = fmt.Fprint(out, renderer.Render("Ignored stderr", profile.StderrAllowlist))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func describeProfile(p hooks.ToolProfile) map[string]string {
	d := map[string]string{
		"binary": p.Binary,
		"kind":   string(p.Kind),
		"rule":   string(p.Rule),
		"order":  p.Order.String(),
	}
	if p.FixFlag != "" {
		d["fix flag"] = p.FixFlag
	}
	if len(p.InPlaceFlags) > 0 {
		d["in place"] = strings.Join(p.InPlaceFlags, ", ")
	}
	if p.RequiresFiles {
		d["requires files"] = "yes"
	}
	return d
}

func joinOptions(opts []hooks.DefaultOption) []string {
	items := make([]string, 0, len(opts))
	for _, o := range opts {
		items = append(items, strings.Join(o.Tokens, " "))
	}
	return items
}
