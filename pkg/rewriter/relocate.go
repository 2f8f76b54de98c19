package rewriter

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/railup/pkg/errors"
	"github.com/arthur-debert/railup/pkg/logging"
	"github.com/arthur-debert/railup/pkg/types"
)

// relocatedMarker identifies a forwarding stub left at an old
// initializer location. Its presence makes a second run a no-op.
const relocatedMarker = "railup:relocated"

// RelocatedDir is the namespace directory framework-default
// initializers are moved into.
const RelocatedDir = "config/initializers/framework_defaults"

// frameworkDefaultInitializers is the fixed set of files the
// relocation transformation moves. Callers keep working during the
// transition because a stub at the old path loads the new one.
var frameworkDefaultInitializers = []string{
	"config/initializers/assets.rb",
	"config/initializers/cookies_serializer.rb",
	"config/initializers/filter_parameter_logging.rb",
}

// RelocateInitializers moves the fixed set of framework-default
// initializers into RelocatedDir, leaving a forwarding stub at each
// old location. Files that are absent or already migrated are
// skipped; nothing is ever deleted. Returns the relative paths that
// were written.
func RelocateInitializers(fsys types.FS, root string) ([]string, error) {
	logger := logging.GetLogger("rewriter.relocate")

	var changed []string
	for _, rel := range frameworkDefaultInitializers {
		oldAbs := filepath.Join(root, filepath.FromSlash(rel))

		data, err := fsys.ReadFile(oldAbs)
		if err != nil {
			continue
		}
		content := string(data)
		if strings.Contains(content, relocatedMarker) {
			continue
		}

		base := path.Base(rel)
		newRel := RelocatedDir + "/" + base
		newAbs := filepath.Join(root, filepath.FromSlash(newRel))

		if err := fsys.MkdirAll(filepath.Dir(newAbs), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create %s", RelocatedDir)
		}

		if _, err := fsys.Stat(newAbs); err != nil {
			if err := fsys.WriteFile(newAbs, data, 0644); err != nil {
				return nil, errors.Wrapf(err, errors.ErrFileWrite,
					"failed to write relocated initializer %s", newRel).WithDetail("path", newRel)
			}
			changed = append(changed, newRel)
		}

		stub := fmt.Sprintf(
			"# %s\n# This initializer now lives in %s.\nload File.expand_path(%q, __dir__)\n",
			relocatedMarker, newRel, "framework_defaults/"+base)
		if err := fsys.WriteFile(oldAbs, []byte(stub), 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite,
				"failed to write forwarding stub %s", rel).WithDetail("path", rel)
		}
		changed = append(changed, rel)

		logger.Info().
			Str("from", rel).
			Str("to", newRel).
			Msg("Initializer relocated")
	}

	return changed, nil
}
