package registry

import (
	"sync"

	"github.com/arthur-debert/railup/pkg/types"
)

// RuleSet holds the detection and rewrite rules active for a run.
//
// Detections are append-only and ordered: built-ins first in their
// declaration order, then extension rules in extension-registration
// order. Two detections may carry the same pattern source; downstream
// rewriting collapses by source, so the duplication is tolerated.
//
// Rewrites are keyed by the literal pattern source text. Registering a
// second rewrite with the same source overwrites the first (last write
// wins). Whether that is policy or accident in the original tool is an
// open question; the behavior is preserved as-is. Extension rewrites
// are looked up before built-in ones.
type RuleSet struct {
	mu sync.RWMutex

	detections    []types.DetectionRule
	extDetections []types.DetectionRule

	rewrites    map[string]types.RewriteRule
	extRewrites map[string]types.RewriteRule

	rewriteOrder    []string
	extRewriteOrder []string
}

// NewRuleSet creates an empty rule set
func NewRuleSet() *RuleSet {
	return &RuleSet{
		rewrites:    make(map[string]types.RewriteRule),
		extRewrites: make(map[string]types.RewriteRule),
	}
}

// AddDetection appends a built-in detection rule
func (s *RuleSet) AddDetection(rule types.DetectionRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detections = append(s.detections, rule)
}

// AddRewrite registers a built-in rewrite rule, overwriting any
// existing rewrite with the same pattern source. The overwritten
// rule keeps its original position in iteration order.
func (s *RuleSet) AddRewrite(rule types.RewriteRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rewrites[rule.PatternSource]; !exists {
		s.rewriteOrder = append(s.rewriteOrder, rule.PatternSource)
	}
	s.rewrites[rule.PatternSource] = rule
}

// addExtensionDetection appends a detection contributed by an extension
func (s *RuleSet) addExtensionDetection(rule types.DetectionRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extDetections = append(s.extDetections, rule)
}

// addExtensionRewrite registers an extension rewrite, overwriting by
// pattern source. This upsert is what makes applying the same
// extension twice idempotent on the rewrite side.
func (s *RuleSet) addExtensionRewrite(rule types.RewriteRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.extRewrites[rule.PatternSource]; !exists {
		s.extRewriteOrder = append(s.extRewriteOrder, rule.PatternSource)
	}
	s.extRewrites[rule.PatternSource] = rule
}

// Detections returns all active detection rules in scan order:
// built-ins first, then extension rules.
func (s *RuleSet) Detections() []types.DetectionRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.DetectionRule, 0, len(s.detections)+len(s.extDetections))
	out = append(out, s.detections...)
	out = append(out, s.extDetections...)
	return out
}

// RewriteFor returns the rewrite rule registered for a pattern source.
// Extension rewrites take precedence over built-in equivalents.
func (s *RuleSet) RewriteFor(source string) (types.RewriteRule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rule, ok := s.extRewrites[source]; ok {
		return rule, true
	}
	rule, ok := s.rewrites[source]
	return rule, ok
}

// Rewrites returns all registered rewrite rules, extensions first,
// each group in first-registration order.
func (s *RuleSet) Rewrites() []types.RewriteRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.RewriteRule, 0, len(s.extRewriteOrder)+len(s.rewriteOrder))
	for _, source := range s.extRewriteOrder {
		out = append(out, s.extRewrites[source])
	}
	for _, source := range s.rewriteOrder {
		out = append(out, s.rewrites[source])
	}
	return out
}

// DetectionCount returns the number of active detection rules
func (s *RuleSet) DetectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.detections) + len(s.extDetections)
}

// Reset removes all extension-contributed rules, keeping built-ins.
// Embedding hosts that register extensions must call this between
// independent runs; the rule set does not do it for them.
func (s *RuleSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extDetections = nil
	s.extRewrites = make(map[string]types.RewriteRule)
	s.extRewriteOrder = nil
}
