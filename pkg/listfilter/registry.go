package listfilter

import (
	"fmt"
	"sync"
)

// Registry holds filter definitions keyed by listing screen. It is
// populated at application bootstrap and read-mostly thereafter; the mutex
// exists so registration from an init hook and lookups from request
// handling never race.
type Registry struct {
	mu      sync.RWMutex
	screens map[ScreenKey]*screenEntry
}

// screenEntry keeps the definitions of one screen together with their
// registration order, which is also the render order.
type screenEntry struct {
	order []string
	defs  map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{screens: make(map[ScreenKey]*screenEntry)}
}

// Register merges defs into the registry slot of every (kind, subtype)
// pair. First registration of a filter key fixes its position in the render
// order; repeated registration merges configuration in place, with the
// newer definition's set fields overriding on conflicting keys.
//
// An empty filter key or an unknown kind is a fatal configuration error
// reported immediately.
func (r *Registry) Register(kind Kind, subtypes []string, defs []Definition) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown screen kind %q", kind)
	}

	if len(subtypes) == 0 {
		return fmt.Errorf("at least one subtype is required")
	}

	for i, d := range defs {
		if err := d.validate(); err != nil {
			return fmt.Errorf("filter[%d]: %w", i, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, subtype := range subtypes {
		key := ScreenKey{Kind: kind, Subtype: subtype}

		entry := r.screens[key]
		if entry == nil {
			entry = &screenEntry{defs: make(map[string]Definition)}
			r.screens[key] = entry
		}

		for _, d := range defs {
			d = d.withDefaults()

			if existing, ok := entry.defs[d.Key]; ok {
				d = mergeDefinition(existing, d)
			} else {
				entry.order = append(entry.order, d.Key)
			}

			entry.defs[d.Key] = d
		}
	}

	return nil
}

// Lookup returns the definitions registered for a screen in registration
// order. The returned slice is a copy; an unregistered screen yields an
// empty slice.
func (r *Registry) Lookup(kind Kind, subtype string) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry := r.screens[ScreenKey{Kind: kind, Subtype: subtype}]
	if entry == nil {
		return nil
	}

	out := make([]Definition, 0, len(entry.order))
	for _, key := range entry.order {
		out = append(out, entry.defs[key])
	}

	return out
}

// Screens returns the keys of all registered screens. Order is unspecified.
func (r *Registry) Screens() []ScreenKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]ScreenKey, 0, len(r.screens))
	for k := range r.screens {
		keys = append(keys, k)
	}

	return keys
}
