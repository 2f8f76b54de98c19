package rewriter

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/arthur-debert/railup/pkg/errors"
	"github.com/arthur-debert/railup/pkg/logging"
	"github.com/arthur-debert/railup/pkg/types"
)

// ManifestName is the dependency manifest at the project root
const ManifestName = "Gemfile"

var railsPinPattern = regexp.MustCompile(`(?m)^([ \t]*)gem ['"]rails['"].*$`)

// retiredGems lists dependencies that stop being viable at a given
// Rails version. Their Gemfile entries are commented out so the
// bundle keeps resolving while the removal stays visible in review.
var retiredGems = []struct {
	name      string
	retiredAt string
}{
	{"chromedriver-helper", "6.0.0"},
	{"coffee-rails", "6.0.0"},
	{"sass-rails", "7.0.0"},
	{"turbolinks", "7.0.0"},
}

// addedGems lists dependencies a target release expects that older
// apps will not have. Each is appended with a notice comment when it
// is absent from the manifest.
var addedGems = []struct {
	name    string
	addedAt string
	notice  string
}{
	{
		name:    "importmap-rails",
		addedAt: "7.0.0",
		notice:  "importmap-rails replaces the webpacker asset pipeline in Rails 7",
	},
}

// UpdateGemfile rewrites the manifest's version pins for the target
// release: the rails pin is moved to the target line, retired entries
// are commented out, and newly expected dependencies are appended with
// a notice. Running it on an already-updated manifest is a no-op.
func UpdateGemfile(fsys types.FS, root, targetVersion string) (bool, error) {
	logger := logging.GetLogger("rewriter.gemfile")

	target, err := semver.NewVersion(targetVersion)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("target", targetVersion).
			Msg("Cannot update Gemfile without a parseable target version")
		return false, nil
	}

	path := filepath.Join(root, ManifestName)
	data, err := fsys.ReadFile(path)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("path", ManifestName).
			Msg("No readable Gemfile at root, skipping gem update")
		return false, nil
	}

	original := string(data)
	content := original

	pin := fmt.Sprintf("gem 'rails', '~> %d.%d.0'", target.Major(), target.Minor())
	content = railsPinPattern.ReplaceAllString(content, "${1}"+pin)

	for _, g := range retiredGems {
		cutoff := semver.MustParse(g.retiredAt)
		if target.LessThan(cutoff) {
			continue
		}
		// The anchor requires the line to start with `gem`, so a line
		// commented out by a previous run no longer matches.
		entry := regexp.MustCompile(`(?m)^([ \t]*)gem (['"]` + regexp.QuoteMeta(g.name) + `['"].*)$`)
		content = entry.ReplaceAllString(content, "${1}# gem ${2}")
	}

	for _, g := range addedGems {
		cutoff := semver.MustParse(g.addedAt)
		if target.LessThan(cutoff) {
			continue
		}
		if strings.Contains(content, "'"+g.name+"'") || strings.Contains(content, `"`+g.name+`"`) {
			continue
		}
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += fmt.Sprintf("\n# %s\ngem '%s'\n", g.notice, g.name)
	}

	if content == original {
		return false, nil
	}

	perm := fs.FileMode(0644)
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fsys.WriteFile(path, []byte(content), perm); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write updated %s", ManifestName).WithDetail("path", ManifestName)
	}

	logger.Info().Str("target", targetVersion).Msg("Gemfile updated")
	return true, nil
}
