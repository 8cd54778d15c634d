package listfilter

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// Definitions is the declarative filter configuration loaded from a YAML
// file. It covers everything a filter set needs except custom query
// callbacks, which are registered in code.
type Definitions struct {
	// RequiresHost is an optional semver range the host framework version
	// must satisfy (e.g. ">= 6.0.0").
	RequiresHost string `json:"requiresHost,omitempty"`

	// Screens are the per-screen filter sets.
	Screens []ScreenDefinitions `json:"screens"`

	// PreviewTerms supplies taxonomy term sets for previews and tests,
	// consumed via PreviewHost. Hosts ignore this section.
	PreviewTerms map[string][]Term `json:"previewTerms,omitempty"`
}

// ScreenDefinitions declares the filters of one or more listing screens of
// the same kind.
type ScreenDefinitions struct {
	// Kind is the screen kind: "content" or "user".
	Kind Kind `json:"kind"`

	// Subtypes are the screen subtypes the filters apply to.
	Subtypes []string `json:"subtypes"`

	// Filters are the filter declarations in render order.
	Filters []FilterDefinition `json:"filters"`
}

// FilterDefinition is the declarative form of a Definition.
type FilterDefinition struct {
	Key        string   `json:"key"`
	Label      string   `json:"label,omitempty"`
	Options    []Option `json:"options,omitempty"`
	Taxonomy   string   `json:"taxonomy,omitempty"`
	Capability string   `json:"capability,omitempty"`
	ShowCount  bool     `json:"showCount,omitempty"`
	HideEmpty  bool     `json:"hideEmpty,omitempty"`
}

// LoadDefinitions parses and validates a definitions document from raw
// YAML bytes.
func LoadDefinitions(data []byte) (*Definitions, error) {
	var defs Definitions
	if err := sigsyaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing definitions: %w", err)
	}

	if err := defs.Validate(); err != nil {
		return nil, err
	}

	return &defs, nil
}

// LoadDefinitionsFile reads, parses, and validates a definitions file.
func LoadDefinitionsFile(path string) (*Definitions, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-specified input file
	if err != nil {
		return nil, fmt.Errorf("reading definitions file: %w", err)
	}

	return LoadDefinitions(data)
}

// Validate checks the definitions document for correctness.
func (d *Definitions) Validate() error {
	if d.RequiresHost != "" {
		if _, err := semver.NewConstraint(d.RequiresHost); err != nil {
			return fmt.Errorf("requiresHost: invalid constraint %q: %w", d.RequiresHost, err)
		}
	}

	if len(d.Screens) == 0 {
		return fmt.Errorf("at least one screen is required")
	}

	for i, s := range d.Screens {
		if !s.Kind.Valid() {
			return fmt.Errorf("screens[%d]: unknown kind %q (must be content or user)", i, s.Kind)
		}

		if len(s.Subtypes) == 0 {
			return fmt.Errorf("screens[%d]: at least one subtype is required", i)
		}

		if len(s.Filters) == 0 {
			return fmt.Errorf("screens[%d]: at least one filter is required", i)
		}

		for j, f := range s.Filters {
			if err := f.definition().validate(); err != nil {
				return fmt.Errorf("screens[%d].filters[%d]: %w", i, j, err)
			}

			for k, o := range f.Options {
				if o.Value == "" {
					return fmt.Errorf("screens[%d].filters[%d].options[%d]: value must not be empty", i, j, k)
				}
			}
		}
	}

	return nil
}

// Apply registers every declared filter set on the manager.
func (d *Definitions) Apply(m *Manager) error {
	for i, s := range d.Screens {
		defs := make([]Definition, 0, len(s.Filters))
		for _, f := range s.Filters {
			defs = append(defs, f.definition())
		}

		if err := m.Register(s.Kind, s.Subtypes, defs); err != nil {
			return fmt.Errorf("screens[%d]: %w", i, err)
		}
	}

	return nil
}

// PreviewHost builds a StaticHost from the previewTerms section, granting
// all capabilities. Used by the CLI preview commands and in tests.
func (d *Definitions) PreviewHost(version string) *StaticHost {
	return &StaticHost{
		TermSets:    d.PreviewTerms,
		HostVersion: version,
	}
}

// definition converts the declarative form into a Definition.
func (f FilterDefinition) definition() Definition {
	return Definition{
		Key:        f.Key,
		Label:      f.Label,
		Options:    f.Options,
		Taxonomy:   f.Taxonomy,
		Capability: f.Capability,
		ShowCount:  f.ShowCount,
		HideEmpty:  f.HideEmpty,
	}
}
