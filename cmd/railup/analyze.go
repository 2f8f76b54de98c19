package railup

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/railup/pkg/config"
	"github.com/arthur-debert/railup/pkg/filesystem"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/rules"
	"github.com/arthur-debert/railup/pkg/upgrade"
)

func newAnalyzeCmd() *cobra.Command {
	var targetVersion string

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Report deprecated constructs without changing anything",
		Long: `Analyze scans the given path (default: current directory) against the
active detection rules and reports every match. It never writes to the
filesystem.`,
		Args: cobra.MaximumNArgs(1),
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

			if targetVersion == "" {
				if detected, err := upgrade.DetectTargetVersion(fsys, root); err == nil {
					targetVersion = detected
				}
			}

			records, err := upgrade.Analyze(rs, fsys, root, targetVersion)
			if err != nil {
				return err
			}

			renderRecords(cmd.OutOrStdout(), records, targetVersion)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetVersion, "target", "",
		"Target Rails version (default: detected from the Gemfile)")

	return cmd
}
