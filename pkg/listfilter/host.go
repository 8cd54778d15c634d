package listfilter

import (
	"context"
	"fmt"
	"slices"
)

// TermQuery narrows a taxonomy term lookup.
type TermQuery struct {
	// HideEmpty excludes terms with no associated records.
	HideEmpty bool
}

// Term is one grouping/category term of a taxonomy.
type Term struct {
	// Value is the term identifier submitted with the request (slug).
	Value string `json:"value"`

	// Label is the display name.
	Label string `json:"label"`

	// Count is the number of records carrying the term.
	Count int `json:"count,omitempty"`
}

// Host is the surface the embedding application must provide. It covers the
// three facilities the filter toolkit consumes: actor-capability checks,
// taxonomy term enumeration, and the host framework version used by the
// compatibility gate.
//
// Term lookups happen lazily at render time and are never cached across
// requests. A lookup error degrades to an empty option set; it is never
// surfaced to the administrator.
type Host interface {
	// Can reports whether the requesting actor holds the named capability.
	// The actor travels in ctx; identifying it is the host's business.
	Can(ctx context.Context, capability string) bool

	// Terms enumerates the terms of a taxonomy in display order.
	Terms(ctx context.Context, taxonomy string, q TermQuery) ([]Term, error)

	// Version returns the host framework version as a semantic version
	// string.
	Version() string
}

// StaticHost is an in-memory Host for tests and the CLI preview commands.
type StaticHost struct {
	// Capabilities the actor holds. Empty grants everything.
	Capabilities []string

	// TermSets maps taxonomy names to their term lists.
	TermSets map[string][]Term

	// HostVersion is reported by Version. Defaults to "0.0.0".
	HostVersion string
}

// Can reports whether capability is granted. An empty capability list
// grants everything.
func (h *StaticHost) Can(_ context.Context, capability string) bool {
	if len(h.Capabilities) == 0 {
		return true
	}

	return slices.Contains(h.Capabilities, capability)
}

// Terms returns the configured term set for taxonomy, honoring HideEmpty.
func (h *StaticHost) Terms(_ context.Context, taxonomy string, q TermQuery) ([]Term, error) {
	terms, ok := h.TermSets[taxonomy]
	if !ok {
		return nil, fmt.Errorf("unknown taxonomy %q", taxonomy)
	}

	if !q.HideEmpty {
		return slices.Clone(terms), nil
	}

	out := make([]Term, 0, len(terms))

	for _, t := range terms {
		if t.Count > 0 {
			out = append(out, t)
		}
	}

	return out, nil
}

// Version returns the configured host version.
func (h *StaticHost) Version() string {
	if h.HostVersion == "" {
		return "0.0.0"
	}

	return h.HostVersion
}

var _ Host = (*StaticHost)(nil)
