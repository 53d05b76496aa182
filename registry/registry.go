// Package registry manages the catalog of feed sources.
//
// The catalog is seeded from a built-in default list; the only field
// ever mutated afterwards is the enabled flag, which is persisted by
// source ID. Merging is additive: new defaults appear over time and a
// user's enabled state survives by ID match.
package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/newsbrief/newsbrief/model"
	"github.com/newsbrief/newsbrief/store"
)

// Registry merges the default catalog with persisted user state.
type Registry struct {
	store *store.Store
}

// New creates a Registry backed by the given store.
func New(s *store.Store) *Registry {
	return &Registry{store: s}
}

// Load returns the merged source list: defaults plus user-added sources,
// with persisted enabled flags applied by ID. Malformed persisted state
// is treated as absent and defaults win.
func (r *Registry) Load() []model.Source {
	sources := DefaultSources()

	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		seen[s.ID] = true
	}
	for _, custom := range r.store.CustomSources() {
		if custom.Validate() != nil || seen[custom.ID] {
			continue
		}
		seen[custom.ID] = true
		sources = append(sources, custom)
	}

	states := r.store.SourceStates()
	for i := range sources {
		if enabled, ok := states[sources[i].ID]; ok {
			sources[i].Enabled = enabled
		}
	}

	return sources
}

// SetEnabled persists the enabled flag for a source. Unknown IDs are
// rejected; toggling to the current state is a no-op.
func (r *Registry) SetEnabled(id string, enabled bool) error {
	for _, s := range r.Load() {
		if s.ID == id {
			return r.store.SetSourceEnabled(id, enabled)
		}
	}
	return fmt.Errorf("unknown source %q", id)
}

// EnabledFetchable returns the sources the retrieval layer should fan
// out over: enabled, and not in the social category.
func (r *Registry) EnabledFetchable() []model.Source {
	var out []model.Source
	for _, s := range r.Load() {
		if s.Fetchable() {
			out = append(out, s)
		}
	}
	return out
}

// AddCustom appends a user-added source to the catalog. The ID is
// derived from the name when empty. Duplicate IDs are rejected.
func (r *Registry) AddCustom(src model.Source) error {
	if src.ID == "" {
		src.ID = Slug(src.Name)
	}
	if src.Category == "" {
		src.Category = model.CategoryNews
	}
	if err := src.Validate(); err != nil {
		return err
	}

	for _, existing := range r.Load() {
		if existing.ID == src.ID {
			return fmt.Errorf("source %q already exists", src.ID)
		}
	}

	customs := append(r.store.CustomSources(), src)
	return r.store.SaveCustomSources(customs)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a stable source ID from a display name.
func Slug(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
