package railup

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/railup/internal/version"
	"github.com/arthur-debert/railup/pkg/config"
	"github.com/arthur-debert/railup/pkg/logging"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/rules"
)

var (
	verbosity int
	dryRun    bool
)

// NewRootCmd builds the railup command tree
func NewRootCmd() *cobra.Command {
	verbosity = 0
	dryRun = false

	rootCmd := &cobra.Command{
		Use:   "railup",
		Short: "A pattern-based Rails upgrade helper",
		Long: `railup scans a Rails codebase for deprecated or non-conventional
constructs and can rewrite them for a target Rails version. Matching is
textual: regular expressions over file content, with no syntactic
understanding of Ruby. Treat the output as a best-effort starting
point, not a guarantee of semantic correctness.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"Report matches without changing any file")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newUpgradeCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("railup version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

// buildRuleSet assembles the rule set for a run: built-ins plus any
// rule packs named in the project config, applied in order. Relative
// pack paths resolve against the project root.
func buildRuleSet(cfg *config.Config, root string, loadPack func(path string) (*registry.Extension, error)) *registry.RuleSet {
	rs := rules.NewBuiltinRuleSet()
	for _, pack := range cfg.RulePacks {
		if !filepath.IsAbs(pack) {
			pack = filepath.Join(root, pack)
		}
		ext, err := loadPack(pack)
		if err != nil {
			log.Warn().Err(err).Str("pack", pack).Msg("Failed to load rule pack, skipping")
			continue
		}
		registry.ApplyExtension(rs, ext)
	}
	return rs
}
