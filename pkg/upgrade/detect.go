package upgrade

import (
	"path/filepath"
	"regexp"

	"github.com/arthur-debert/railup/pkg/errors"
	"github.com/arthur-debert/railup/pkg/rewriter"
	"github.com/arthur-debert/railup/pkg/types"
)

var railsPinVersion = regexp.MustCompile(`(?m)^[ \t]*gem ['"]rails['"],\s*['"][~><=\s]*([0-9][0-9.]*)['"]`)

// DetectTargetVersion reads the rails version pin out of the
// dependency manifest at root. It is a thin convenience: the core
// only ever consumes the finished version string.
func DetectTargetVersion(fsys types.FS, root string) (string, error) {
	data, err := fsys.ReadFile(filepath.Join(root, rewriter.ManifestName))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileNotFound,
			"no readable %s at %s", rewriter.ManifestName, root)
	}

	m := railsPinVersion.FindSubmatch(data)
	if m == nil {
		return "", errors.Newf(errors.ErrNotFound,
			"no rails version pin found in %s", rewriter.ManifestName)
	}

	return string(m[1]), nil
}
