package types

import (
	"regexp"

	"github.com/arthur-debert/railup/pkg/version"
)

// DetectionRule flags a deprecated or non-conventional construct for
// reporting. Rules are immutable once registered; registration is
// append-only, so two rules may carry the same pattern source.
type DetectionRule struct {
	// Pattern is the compiled detection expression
	Pattern *regexp.Regexp

	// PatternSource is the literal source text of Pattern. It is the
	// dispatch key that links a detection to its rewrite.
	PatternSource string

	// Message is the human-readable guidance shown for a match
	Message string

	// FileGlob selects which files this rule is tested against.
	// '**' crosses directory boundaries, '*' does not.
	FileGlob string

	// Constraint gates the rule on the target version; nil means the
	// rule is always active.
	Constraint *version.Constraint
}

// RewriteRule mutates text matched by its pattern. Rewrites are keyed
// by PatternSource in the registry: registering a second rule with the
// same pattern source overwrites the first.
type RewriteRule struct {
	// Pattern is the compiled expression whose matches are replaced
	Pattern *regexp.Regexp

	// PatternSource is the registry key, the literal source text of Pattern
	PatternSource string

	// Replacement is a template with numbered back-references
	// (e.g. "${1}.update(${2})"). Ignored when ReplaceFunc is set.
	Replacement string

	// ReplaceFunc, when non-nil, is invoked on each matched span and
	// its return value substituted. Must be a pure function.
	ReplaceFunc func(match string) string

	// Safe marks the rewrite as safe to apply under safe mode
	Safe bool
}

// MatchRecord is produced per (file, rule) pair where the rule's
// pattern matches anywhere in the file content.
type MatchRecord struct {
	// File is the path relative to the scanned root
	File string

	// Message is the detection rule's guidance
	Message string

	// PatternSource identifies which pattern fired and keys the rewrite lookup
	PatternSource string
}

// UpgradeResult reports the outcome of an upgrade invocation
type UpgradeResult struct {
	// Records holds every match record seen, resolved or not
	Records []MatchRecord

	// ChangedFiles lists relative paths whose content actually
	// differed after rewriting
	ChangedFiles []string

	// Unresolved lists the records whose rewrite was not applied:
	// protected file, safe-mode suppression, or no registered rewrite.
	// Empty on a dry run, where nothing is dispatched at all.
	Unresolved []MatchRecord
}

// Options controls a single upgrade invocation
type Options struct {
	// TargetVersion is the version being upgraded to. Empty means
	// detect from the dependency manifest.
	TargetVersion string

	// DryRun reports matches without touching any file
	DryRun bool

	// SafeMode suppresses rewrites flagged unsafe, leaving them for
	// manual review
	SafeMode bool

	// UpdateGems rewrites the Gemfile's version pins for the target release
	UpdateGems bool

	// RelocateInitializers moves framework-default initializers into
	// their namespace directory, leaving forwarding stubs behind
	RelocateInitializers bool
}

// DefaultOptions returns the options used when the caller specifies nothing
func DefaultOptions() Options {
	return Options{SafeMode: true}
}
