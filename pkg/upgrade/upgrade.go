package upgrade

import (
	"github.com/arthur-debert/railup/pkg/logging"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/rewriter"
	"github.com/arthur-debert/railup/pkg/scanner"
	"github.com/arthur-debert/railup/pkg/types"
)

// Analyze scans root against the rule set and returns the matches. It
// never mutates the filesystem.
func Analyze(rules *registry.RuleSet, fsys types.FS, root, targetVersion string) ([]types.MatchRecord, error) {
	return scanner.New(rules, fsys).Scan(root, targetVersion)
}

// Upgrade scans root and applies the registered rewrites per the given
// options. The filesystem is mutated only when options.DryRun is
// false. An empty target version is filled in from the dependency
// manifest when possible.
func Upgrade(rules *registry.RuleSet, fsys types.FS, root string, opts types.Options) (*types.UpgradeResult, error) {
	logger := logging.GetLogger("upgrade")

	if opts.TargetVersion == "" {
		detected, err := DetectTargetVersion(fsys, root)
		if err != nil {
			logger.Debug().Err(err).Msg("No target version detected from manifest")
		} else {
			logger.Info().Str("target", detected).Msg("Target version detected from manifest")
			opts.TargetVersion = detected
		}
	}

	records, err := Analyze(rules, fsys, root, opts.TargetVersion)
	if err != nil {
		return nil, err
	}

	return rewriter.New(rules, fsys).Rewrite(root, records, opts)
}
