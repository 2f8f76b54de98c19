package rules

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/types"
	"github.com/arthur-debert/railup/pkg/version"
)

// Pattern sources shared between detection rules and the fallback
// substitution table. The literal source text is the dispatch key, so
// both sides must agree on it byte for byte.
const (
	SrcTimeNow          = `Time\.now`
	SrcUpdateAttributes = `\.update_attributes\(`
	SrcUpdateAttrsBang  = `\.update_attributes!\(`
	SrcBeforeFilter     = `\bbefore_filter\b`
	SrcAfterFilter      = `\bafter_filter\b`
	SrcRenderText       = `render(\s+)text:`
	SrcAttrAccessible   = `\battr_accessible\b`
	SrcSecrets          = `Rails\.application\.secrets`
	SrcDynamicFinder    = `\.find_by_([a-zA-Z_]+)\(([^)]*)\)`
	SrcURIEscape        = `URI\.escape`
	SrcFixnum           = `\bFixnum\b`
)

var (
	defaultSet  *registry.RuleSet
	defaultOnce sync.Once
)

// Default returns the process-wide rule set holding the built-in
// rules. It is built once and shared; callers that register
// extensions into it are responsible for calling Reset between
// independent runs.
func Default() *registry.RuleSet {
	defaultOnce.Do(func() {
		defaultSet = NewBuiltinRuleSet()
	})
	return defaultSet
}

// NewBuiltinRuleSet builds a fresh rule set populated with the
// built-in rules, for callers that need isolation from the shared
// default (tests, embedding hosts).
func NewBuiltinRuleSet() *registry.RuleSet {
	s := registry.NewRuleSet()
	registerBuiltins(s)
	return s
}

// registerBuiltins declares the built-in rules. Declaration order here
// is scan order. The patterns themselves are configuration data, not
// design: each detection names the construct, the guidance, and the
// files it applies to.
func registerBuiltins(s *registry.RuleSet) {
	addDetection(s, SrcTimeNow,
		"Time.now ignores the application time zone; use Time.current",
		"**/*.rb", "")
	addDetection(s, SrcUpdateAttributes,
		"update_attributes is removed in Rails 6.1; use update",
		"**/*.rb", "")
	addDetection(s, SrcUpdateAttrsBang,
		"update_attributes! is removed in Rails 6.1; use update!",
		"**/*.rb", "")
	addDetection(s, SrcBeforeFilter,
		"before_filter was removed in Rails 5.1; use before_action",
		"app/**/*.rb", ">= 5.0")
	addDetection(s, SrcAfterFilter,
		"after_filter was removed in Rails 5.1; use after_action",
		"app/**/*.rb", ">= 5.0")
	addDetection(s, SrcRenderText,
		"render text: was removed in Rails 5.1; use render plain:",
		"app/**/*.rb", ">= 5.1")
	addDetection(s, SrcAttrAccessible,
		"attr_accessible was removed in Rails 4.0; migrate to strong parameters",
		"app/models/**/*.rb", "")
	addDetection(s, SrcSecrets,
		"Rails.application.secrets is deprecated since Rails 5.2; use credentials",
		"**/*.rb", ">= 5.2")
	addDetection(s, SrcDynamicFinder,
		"dynamic finders are deprecated; use find_by with keyword arguments",
		"**/*.rb", "")
	addDetection(s, SrcURIEscape,
		"URI.escape was removed in Ruby 3.0; use CGI.escape",
		"**/*.rb", ">= 6.0")
	addDetection(s, SrcFixnum,
		"Fixnum is deprecated; use Integer",
		"**/*.rb", ">= 5.0")

	// Rewrites for the detections above. attr_accessible deliberately
	// has none: there is no mechanical translation to strong
	// parameters, so its records stay unresolved for manual review.
	// The dynamic finder, URI.escape and Fixnum shapes are handled by
	// the rewriter's fallback substitution table instead.
	addRewrite(s, SrcTimeNow, "Time.current", true)
	addRewrite(s, SrcUpdateAttributes, ".update(", true)
	addRewrite(s, SrcUpdateAttrsBang, ".update!(", true)
	addRewrite(s, SrcBeforeFilter, "before_action", true)
	addRewrite(s, SrcAfterFilter, "after_action", true)
	addRewrite(s, SrcRenderText, "render${1}plain:", true)
	addRewrite(s, SrcSecrets, "Rails.application.credentials", false)
}

func addDetection(s *registry.RuleSet, source, message, glob, constraint string) {
	var c *version.Constraint
	if constraint != "" {
		c = mustConstraint(constraint)
	}
	s.AddDetection(types.DetectionRule{
		Pattern:       regexp.MustCompile(source),
		PatternSource: source,
		Message:       message,
		FileGlob:      glob,
		Constraint:    c,
	})
}

func addRewrite(s *registry.RuleSet, source, replacement string, safe bool) {
	s.AddRewrite(types.RewriteRule{
		Pattern:       regexp.MustCompile(source),
		PatternSource: source,
		Replacement:   replacement,
		Safe:          safe,
	})
}

// mustConstraint panics on a malformed expression. Built-in constraint
// strings are programmer data; a bad one is a programming error.
func mustConstraint(expr string) *version.Constraint {
	c, err := version.Parse(expr)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in constraint %q: %v", expr, err))
	}
	return c
}
