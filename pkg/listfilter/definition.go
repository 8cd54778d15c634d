package listfilter

import (
	"fmt"
	"strings"
)

// Option is one selectable value of a dropdown filter.
type Option struct {
	// Value is the raw value submitted with the request.
	Value string `json:"value"`

	// Label is the display text shown to the administrator.
	Label string `json:"label"`

	// Count is an optional item count rendered next to the label when the
	// owning definition sets ShowCount.
	Count int `json:"count,omitempty"`
}

// QueryFunc mutates the outbound listing query for a selected filter value.
// It receives the narrow Query adapter, so the same callback works for both
// the content and the user listing query. A filter with a QueryFunc never
// contributes a field-match or taxonomy condition; the callback owns the
// mutation entirely.
type QueryFunc func(q Query, value string) error

// Definition configures a single dropdown filter on a listing screen.
// Definitions are value types; the registry stores its own copies and a
// stored definition is never mutated after registration.
type Definition struct {
	// Key is the filter's identity within a screen and the request
	// parameter carrying the selected value. Required.
	Key string

	// Label is the display name. Defaults to a title-cased form of Key.
	Label string

	// Options is the explicit ordered option list. When empty and Taxonomy
	// is set, options are resolved from the host's term source at render
	// time instead.
	Options []Option

	// Taxonomy names the grouping/category facility backing this filter.
	// A selected value becomes a taxonomy-join condition unless Query is set.
	Taxonomy string

	// Query is the custom query-mutation callback. Takes priority over
	// Taxonomy and field matching.
	Query QueryFunc

	// Capability names the host capability the requesting actor must hold.
	// Lacking it silently suppresses both rendering and query effect.
	Capability string

	// ShowCount annotates option labels with their item counts.
	ShowCount bool

	// HideEmpty excludes taxonomy terms with no associated records.
	HideEmpty bool
}

// validate checks a definition at registration time. An empty filter key is
// a fatal configuration error.
func (d Definition) validate() error {
	if strings.TrimSpace(d.Key) == "" {
		return fmt.Errorf("filter key must not be empty")
	}

	return nil
}

// withDefaults fills unset fields with their defaults.
func (d Definition) withDefaults() Definition {
	if d.Label == "" {
		d.Label = labelFromKey(d.Key)
	}

	return d
}

// mergeDefinition overlays next onto base. Set fields of the newer
// definition win on conflicting keys; the boolean flags always follow the
// newer definition so a later registration can clear them.
func mergeDefinition(base, next Definition) Definition {
	merged := base

	if next.Label != "" && next.Label != labelFromKey(next.Key) {
		merged.Label = next.Label
	}

	if len(next.Options) > 0 {
		merged.Options = next.Options
	}

	if next.Taxonomy != "" {
		merged.Taxonomy = next.Taxonomy
	}

	if next.Query != nil {
		merged.Query = next.Query
	}

	if next.Capability != "" {
		merged.Capability = next.Capability
	}

	merged.ShowCount = next.ShowCount
	merged.HideEmpty = next.HideEmpty

	return merged
}

// DefaultLabel derives the display label used when a definition carries no
// explicit Label.
func DefaultLabel(key string) string {
	return labelFromKey(key)
}

// labelFromKey derives a human-readable label from a filter key, e.g.
// "_priority" becomes "Priority" and "content_status" becomes
// "Content Status".
func labelFromKey(key string) string {
	key = strings.Trim(key, "_-")
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}
