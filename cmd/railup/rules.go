package railup

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/railup/pkg/config"
	"github.com/arthur-debert/railup/pkg/filesystem"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/rules"
)

func newRulesCmd() *cobra.Command {
	var targetVersion string

	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "List the detection rules active for a target version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			if targetVersion == "" {
				targetVersion = cfg.TargetVersion
			}

			fsys := filesystem.NewOS()
			rs := buildRuleSet(cfg, root, func(path string) (*registry.Extension, error) {
				return rules.LoadBundle(fsys, path)
			})

			data := pterm.TableData{{"PATTERN", "CONSTRAINT", "GLOB", "MESSAGE"}}
			for _, rule := range rs.Detections() {
				if !rule.Constraint.Applies(targetVersion) {
					continue
				}
				data = append(data, []string{
					rule.PatternSource,
					rule.Constraint.String(),
					rule.FileGlob,
					rule.Message,
				})
			}

			return pterm.DefaultTable.
				WithHasHeader().
				WithData(data).
				WithWriter(cmd.OutOrStdout()).
				Render()
		},
	}

	cmd.Flags().StringVar(&targetVersion, "target", "",
		"Target Rails version used to gate rules (default: all ungated rules)")

	return cmd
}
