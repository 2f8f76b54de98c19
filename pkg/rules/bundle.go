package rules

import (
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/railup/pkg/errors"
	"github.com/arthur-debert/railup/pkg/logging"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/types"
	"github.com/arthur-debert/railup/pkg/version"
)

// bundleFile is the on-disk YAML form of an extension rule pack
type bundleFile struct {
	Name  string       `yaml:"name"`
	Rules []bundleRule `yaml:"rules"`
}

type bundleRule struct {
	Pattern     string `yaml:"pattern"`
	Message     string `yaml:"message"`
	Glob        string `yaml:"glob"`
	Constraint  string `yaml:"constraint"`
	Replacement string `yaml:"replacement"`
	Safe        *bool  `yaml:"safe"`
}

// LoadBundle reads a YAML rule pack into an extension. A rule with a
// bad regex or constraint is skipped with a warning rather than
// failing the whole bundle: one bad rule must not abort a run.
func LoadBundle(fsys types.FS, path string) (*registry.Extension, error) {
	logger := logging.GetLogger("rules.bundle")

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrExtensionInvalid,
			"failed to read rule pack %s", path)
	}

	var pack bundleFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse,
			"failed to parse rule pack %s", path)
	}

	name := pack.Name
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ext := &registry.Extension{Name: name}
	for i, r := range pack.Rules {
		if r.Pattern == "" {
			logger.Warn().
				Str("bundle", name).
				Int("rule", i).
				Msg("rule pack entry has no pattern, skipping")
			continue
		}

		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("bundle", name).
				Str("pattern", r.Pattern).
				Msg("invalid pattern in rule pack, skipping rule")
			continue
		}

		var constraint *version.Constraint
		if r.Constraint != "" {
			constraint, err = version.Parse(r.Constraint)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("bundle", name).
					Str("constraint", r.Constraint).
					Msg("invalid constraint in rule pack, skipping rule")
				continue
			}
		}

		glob := r.Glob
		if glob == "" {
			glob = "**/*.rb"
		}

		ext.Detections = append(ext.Detections, types.DetectionRule{
			Pattern:       re,
			PatternSource: r.Pattern,
			Message:       r.Message,
			FileGlob:      glob,
			Constraint:    constraint,
		})

		if r.Replacement != "" {
			safe := true
			if r.Safe != nil {
				safe = *r.Safe
			}
			ext.Rewrites = append(ext.Rewrites, types.RewriteRule{
				Pattern:       re,
				PatternSource: r.Pattern,
				Replacement:   r.Replacement,
				Safe:          safe,
			})
		}
	}

	logger.Debug().
		Str("bundle", name).
		Int("detections", len(ext.Detections)).
		Int("rewrites", len(ext.Rewrites)).
		Msg("Loaded rule pack")

	return ext, nil
}
