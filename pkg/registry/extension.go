package registry

import (
	"sync"

	"github.com/arthur-debert/railup/pkg/logging"
	"github.com/arthur-debert/railup/pkg/types"
)

// Extension is a named bundle of detection and rewrite rules
// contributed by an external caller.
type Extension struct {
	Name       string
	Detections []types.DetectionRule
	Rewrites   []types.RewriteRule
}

// ExtensionRegistry stores named extensions and remembers their
// registration order, which is the order their rules are merged into
// a rule set.
type ExtensionRegistry struct {
	mu    sync.RWMutex
	store Registry[*Extension]
	order []string
}

// NewExtensionRegistry creates an empty extension registry
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{
		store: New[*Extension](),
	}
}

// Register adds an extension. Registering two extensions with the same
// name is an error; replace with Remove first.
func (r *ExtensionRegistry) Register(ext *Extension) error {
	if err := r.store.Register(ext.Name, ext); err != nil {
		return err
	}
	r.mu.Lock()
	r.order = append(r.order, ext.Name)
	r.mu.Unlock()
	return nil
}

// Get retrieves an extension by name
func (r *ExtensionRegistry) Get(name string) (*Extension, error) {
	return r.store.Get(name)
}

// Remove removes an extension by name
func (r *ExtensionRegistry) Remove(name string) error {
	if err := r.store.Remove(name); err != nil {
		return err
	}
	r.mu.Lock()
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	return nil
}

// Names returns extension names in registration order
func (r *ExtensionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered extensions
func (r *ExtensionRegistry) Count() int {
	return r.store.Count()
}

// ApplyExtension merges one extension's rules into a rule set.
// Detections append; rewrites upsert by pattern source, so applying
// the same extension twice does not produce duplicate rewrites.
func ApplyExtension(s *RuleSet, ext *Extension) {
	logger := logging.GetLogger("registry.extension")

	for _, d := range ext.Detections {
		s.addExtensionDetection(d)
	}
	for _, rw := range ext.Rewrites {
		s.addExtensionRewrite(rw)
	}

	logger.Debug().
		Str("extension", ext.Name).
		Int("detections", len(ext.Detections)).
		Int("rewrites", len(ext.Rewrites)).
		Msg("Applied extension to rule set")
}

// ApplyAll merges every registered extension into the rule set in
// registration order.
func (r *ExtensionRegistry) ApplyAll(s *RuleSet) {
	for _, name := range r.Names() {
		ext, err := r.store.Get(name)
		if err != nil {
			continue
		}
		ApplyExtension(s, ext)
	}
}
