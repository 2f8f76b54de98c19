package rewriter

import (
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/railup/pkg/errors"
	"github.com/arthur-debert/railup/pkg/logging"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/rules"
	"github.com/arthur-debert/railup/pkg/types"
)

// Rewriter applies registered rewrite rules to the files named by a
// set of match records.
type Rewriter struct {
	rules     *registry.RuleSet
	fs        types.FS
	fallbacks map[string]rules.Substitution
	logger    zerolog.Logger
}

// New creates a rewriter over the given rule set and filesystem
func New(ruleSet *registry.RuleSet, fsys types.FS) *Rewriter {
	return &Rewriter{
		rules:     ruleSet,
		fs:        fsys,
		fallbacks: rules.FallbackSubstitutions(),
		logger:    logging.GetLogger("rewriter"),
	}
}

// Rewrite groups match records by file and applies the corresponding
// rewrite rules. Records whose file is protected, whose rewrite is
// suppressed by safe mode, or for which no rewrite exists are
// collected in the result's Unresolved list for manual review.
//
// A write failure is fatal for the invocation: continuing could report
// a file as fixed when it was not.
func (r *Rewriter) Rewrite(root string, records []types.MatchRecord, opts types.Options) (*types.UpgradeResult, error) {
	result := &types.UpgradeResult{Records: records}

	if opts.DryRun {
		r.logger.Info().Int("records", len(records)).Msg("Dry run, no files touched")
		return result, nil
	}

	done := logging.LogOperationStart(r.logger, "rewrite")
	defer done()

	// Group records by file, preserving first-seen file order
	var fileOrder []string
	byFile := make(map[string][]types.MatchRecord)
	for _, rec := range records {
		if _, seen := byFile[rec.File]; !seen {
			fileOrder = append(fileOrder, rec.File)
		}
		byFile[rec.File] = append(byFile[rec.File], rec)
	}

	for _, file := range fileOrder {
		if IsProtected(file) {
			r.logger.Debug().
				Str("file", file).
				Msg("File is under a protected path, leaving untouched")
			result.Unresolved = append(result.Unresolved, byFile[file]...)
			continue
		}

		changed, unresolved, err := r.rewriteFile(root, file, byFile[file], opts)
		if err != nil {
			return nil, err
		}
		result.Unresolved = append(result.Unresolved, unresolved...)
		if changed {
			result.ChangedFiles = append(result.ChangedFiles, file)
		}
	}

	if opts.UpdateGems {
		changed, err := UpdateGemfile(r.fs, root, opts.TargetVersion)
		if err != nil {
			return nil, err
		}
		if changed {
			result.ChangedFiles = appendUnique(result.ChangedFiles, ManifestName)
		}
	}

	if opts.RelocateInitializers {
		relocated, err := RelocateInitializers(r.fs, root)
		if err != nil {
			return nil, err
		}
		for _, p := range relocated {
			result.ChangedFiles = appendUnique(result.ChangedFiles, p)
		}
	}

	r.logger.Info().
		Int("records", len(records)).
		Int("changed", len(result.ChangedFiles)).
		Msg("Rewrite complete")

	return result, nil
}

// rewriteFile reads one file, dispatches each record's rewrite, and
// persists the result only when the content actually differs. The
// pattern source is the dispatch key: when several records carry the
// same source for one file, the rewrite executes exactly once and the
// duplicates are dropped. Records with no applied rewrite come back
// as unresolved.
func (r *Rewriter) rewriteFile(root, file string, recs []types.MatchRecord, opts types.Options) (bool, []types.MatchRecord, error) {
	abs := filepath.Join(root, filepath.FromSlash(file))

	data, err := r.fs.ReadFile(abs)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("file", file).
			Msg("Failed to read file for rewriting, skipping")
		return false, recs, nil
	}

	original := string(data)
	content := original

	dispatched := make(map[string]bool, len(recs))
	var unresolved []types.MatchRecord
	for _, rec := range recs {
		if dispatched[rec.PatternSource] {
			continue
		}
		dispatched[rec.PatternSource] = true

		next, resolved := r.applyRecord(content, rec, opts)
		if !resolved {
			unresolved = append(unresolved, rec)
			continue
		}
		content = next
	}

	if content == original {
		return false, unresolved, nil
	}

	perm := fs.FileMode(0644)
	if info, err := r.fs.Stat(abs); err == nil {
		perm = info.Mode().Perm()
	}
	if err := r.fs.WriteFile(abs, []byte(content), perm); err != nil {
		return false, nil, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write rewritten file %s", file).WithDetail("path", file)
	}

	r.logger.Debug().Str("file", file).Msg("File rewritten")
	return true, unresolved, nil
}

// applyRecord resolves one record against the rewrite registry, then
// the fallback substitution table, and applies the result globally.
// Unsafe rewrites are skipped under safe mode. The second return value
// reports whether a rewrite was actually applied.
func (r *Rewriter) applyRecord(content string, rec types.MatchRecord, opts types.Options) (string, bool) {
	// Extension rewrites shadow built-ins inside RewriteFor
	if rw, ok := r.rules.RewriteFor(rec.PatternSource); ok {
		if opts.SafeMode && !rw.Safe {
			r.logger.Debug().
				Str("file", rec.File).
				Str("pattern", rec.PatternSource).
				Msg("Unsafe rewrite suppressed by safe mode")
			return content, false
		}
		if rw.ReplaceFunc != nil {
			return rw.Pattern.ReplaceAllStringFunc(content, rw.ReplaceFunc), true
		}
		return rw.Pattern.ReplaceAllString(content, rw.Replacement), true
	}

	if sub, ok := r.fallbacks[rec.PatternSource]; ok {
		if opts.SafeMode && !sub.Safe {
			return content, false
		}
		return sub.Apply(content), true
	}

	r.logger.Debug().
		Str("file", rec.File).
		Str("pattern", rec.PatternSource).
		Msg("No rewrite registered, record stays unresolved")
	return content, false
}

func appendUnique(paths []string, p string) []string {
	for _, existing := range paths {
		if existing == p {
			return paths
		}
	}
	return append(paths, p)
}
