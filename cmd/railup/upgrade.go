package railup

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/railup/pkg/config"
	"github.com/arthur-debert/railup/pkg/filesystem"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/rules"
	"github.com/arthur-debert/railup/pkg/types"
	"github.com/arthur-debert/railup/pkg/upgrade"
)

func newUpgradeCmd() *cobra.Command {
	var (
		targetVersion        string
		unsafe               bool
		updateGems           bool
		relocateInitializers bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade [path]",
		Short: "Rewrite deprecated constructs for the target Rails version",
		Long: `Upgrade scans the given path (default: current directory) and applies
the registered rewrites. Safe mode is on by default: rewrites flagged
unsafe are reported but left for manual review. Protected paths
(db/schema.rb, db/migrate, vendor, node_modules, .bundle, tmp) are
never rewritten.`,
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

			opts := types.Options{
				TargetVersion:        targetVersion,
				DryRun:               dryRun,
				SafeMode:             cfg.SafeMode && !unsafe,
				UpdateGems:           updateGems,
				RelocateInitializers: relocateInitializers,
			}
			if opts.TargetVersion == "" {
				opts.TargetVersion = cfg.TargetVersion
			}

			fsys := filesystem.NewOS()
			rs := buildRuleSet(cfg, root, func(path string) (*registry.Extension, error) {
				return rules.LoadBundle(fsys, path)
			})

			result, err := upgrade.Upgrade(rs, fsys, root, opts)
			if err != nil {
				return err
			}

			renderResult(cmd.OutOrStdout(), result, opts)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetVersion, "target", "",
		"Target Rails version (default: detected from the Gemfile)")
	cmd.Flags().BoolVar(&unsafe, "unsafe", false,
		"Also apply rewrites flagged unsafe")
	cmd.Flags().BoolVar(&updateGems, "update-gems", false,
		"Rewrite the Gemfile's version pins for the target release")
	cmd.Flags().BoolVar(&relocateInitializers, "relocate-initializers", false,
		"Move framework-default initializers into their namespace directory")

	return cmd
}
