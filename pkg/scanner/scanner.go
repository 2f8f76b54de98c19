package scanner

import (
	"path"
	"path/filepath"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/railup/pkg/errors"
	"github.com/arthur-debert/railup/pkg/logging"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/types"
)

// Scanner walks a file tree and tests file content against the active
// detection rules, producing match records in rule order.
type Scanner struct {
	rules  *registry.RuleSet
	fs     types.FS
	logger zerolog.Logger
}

// New creates a scanner over the given rule set and filesystem
func New(rules *registry.RuleSet, fsys types.FS) *Scanner {
	return &Scanner{
		rules:  rules,
		fs:     fsys,
		logger: logging.GetLogger("scanner"),
	}
}

// Scan walks root and returns one match record per (file, rule) pair
// whose pattern matches anywhere in the file content. Rules whose
// version constraint fails the gate against targetVersion are skipped.
// Unreadable or undecodable files are logged and skipped; they never
// abort the scan.
func (s *Scanner) Scan(root, targetVersion string) ([]types.MatchRecord, error) {
	done := logging.LogOperationStart(s.logger, "scan")
	defer done()

	files, err := s.collectFiles(root)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("root", root).
		Str("target", targetVersion).
		Int("files", len(files)).
		Int("rules", s.rules.DetectionCount()).
		Msg("Starting scan")

	// Content is read at most once per file across all rules
	contents := make(map[string]string)
	unreadable := make(map[string]bool)

	var records []types.MatchRecord
	for _, rule := range s.rules.Detections() {
		if !rule.Constraint.Applies(targetVersion) {
			s.logger.Debug().
				Str("pattern", rule.PatternSource).
				Str("constraint", rule.Constraint.String()).
				Msg("Rule gated out by version constraint")
			continue
		}

		if !doublestar.ValidatePattern(rule.FileGlob) {
			// Fail closed: a bad glob makes the rule never apply
			s.logger.Warn().
				Str("pattern", rule.PatternSource).
				Str("glob", rule.FileGlob).
				Msg("Invalid file glob, rule will never apply")
			continue
		}

		for _, file := range files {
			matched, err := doublestar.Match(rule.FileGlob, file)
			if err != nil || !matched {
				continue
			}

			if unreadable[file] {
				continue
			}
			content, ok := contents[file]
			if !ok {
				data, err := s.fs.ReadFile(filepath.Join(root, filepath.FromSlash(file)))
				if err != nil {
					s.logger.Warn().
						Err(err).
						Str("file", file).
						Msg("Failed to read file, skipping")
					unreadable[file] = true
					continue
				}
				if !utf8.Valid(data) {
					s.logger.Warn().
						Str("file", file).
						Msg("File content is not valid text, skipping")
					unreadable[file] = true
					continue
				}
				content = string(data)
				contents[file] = content
			}

			// A single unanchored boolean probe over the whole content
			if rule.Pattern.MatchString(content) {
				records = append(records, types.MatchRecord{
					File:          file,
					Message:       rule.Message,
					PatternSource: rule.PatternSource,
				})
			}
		}
	}

	s.logger.Info().
		Str("root", root).
		Int("records", len(records)).
		Msg("Scan complete")

	return records, nil
}

// collectFiles walks root depth-first and returns the relative paths
// of every regular file, slash-separated for glob matching. Directory
// entries within each level come back in lexical order, so the walk
// is deterministic.
func (s *Scanner) collectFiles(root string) ([]string, error) {
	if _, err := s.fs.Stat(root); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "cannot scan %s", root)
	}

	var files []string
	var walk func(rel string)
	walk = func(rel string) {
		dir := root
		if rel != "" {
			dir = filepath.Join(root, filepath.FromSlash(rel))
		}
		entries, err := s.fs.ReadDir(dir)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("dir", rel).
				Msg("Failed to read directory, skipping")
			return
		}
		for _, entry := range entries {
			child := entry.Name()
			if rel != "" {
				child = path.Join(rel, entry.Name())
			}
			if entry.IsDir() {
				walk(child)
				continue
			}
			if !entry.Type().IsRegular() {
				continue
			}
			files = append(files, child)
		}
	}
	walk("")

	return files, nil
}
