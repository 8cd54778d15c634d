package config

import (
	"fmt"
	"regexp"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/listfilter/pkg/listfilter"
)

// OverrideConfig holds declarative filter overrides loaded from the config
// file (.listfilter.yaml). Overrides are applied on top of a definitions
// document before it is previewed or documented.
type OverrideConfig struct {
	// Labels overrides filter labels, keyed by filter key.
	Labels map[string]string `json:"labels,omitempty"`

	// Capabilities overrides filter capability requirements, keyed by
	// filter key. An empty value removes the requirement.
	Capabilities map[string]string `json:"capabilities,omitempty"`

	// Hidden lists filter keys dropped from every screen.
	Hidden []string `json:"hidden,omitempty"`
}

// ParseOverrideConfig parses the labels, capabilities, and hidden sections
// from raw config file bytes.
func ParseOverrideConfig(data []byte) (*OverrideConfig, error) {
	var raw struct {
		Overrides OverrideConfig `json:"overrides,omitempty"`
	}

	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing override config: %w", err)
	}

	cfg := &raw.Overrides

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// filterKeyPattern validates filter keys referenced by overrides.
// Must start with a letter or underscore and contain only letters, digits,
// underscores, and hyphens.
var filterKeyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// Validate checks the override config for correctness.
func (c *OverrideConfig) Validate() error {
	for key, label := range c.Labels {
		if !filterKeyPattern.MatchString(key) {
			return fmt.Errorf("overrides.labels[%s]: key is invalid (must match %s)", key, filterKeyPattern.String())
		}

		if label == "" {
			return fmt.Errorf("overrides.labels[%s]: label must not be empty", key)
		}
	}

	for key := range c.Capabilities {
		if !filterKeyPattern.MatchString(key) {
			return fmt.Errorf("overrides.capabilities[%s]: key is invalid (must match %s)", key, filterKeyPattern.String())
		}
	}

	for i, key := range c.Hidden {
		if !filterKeyPattern.MatchString(key) {
			return fmt.Errorf("overrides.hidden[%d]: key %q is invalid (must match %s)", i, key, filterKeyPattern.String())
		}
	}

	return nil
}

// IsEmpty returns true if the config has no overrides.
func (c *OverrideConfig) IsEmpty() bool {
	return len(c.Labels) == 0 &&
		len(c.Capabilities) == 0 &&
		len(c.Hidden) == 0
}

// Apply rewrites defs in place according to the overrides. Hidden filters
// are removed from every screen; label and capability overrides match by
// filter key across screens.
func (c *OverrideConfig) Apply(defs *listfilter.Definitions) {
	if c.IsEmpty() {
		return
	}

	hidden := make(map[string]bool, len(c.Hidden))
	for _, key := range c.Hidden {
		hidden[key] = true
	}

	for si := range defs.Screens {
		screen := &defs.Screens[si]

		kept := screen.Filters[:0]

		for _, f := range screen.Filters {
			if hidden[f.Key] {
				continue
			}

			if label, ok := c.Labels[f.Key]; ok {
				f.Label = label
			}

			if capability, ok := c.Capabilities[f.Key]; ok {
				f.Capability = capability
			}

			kept = append(kept, f)
		}

		screen.Filters = kept
	}
}
