// Package docs generates human-readable reference documentation from a
// filter definitions document. It supports Markdown, HTML, and AsciiDoc
// output formats, with optional example query-string generation.
package docs

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hupe1980/listfilter/pkg/listfilter"
)

// FilterInfo describes a single dropdown filter.
type FilterInfo struct {
	// Key is the query-string parameter name (e.g., "status").
	Key string
	// Label is the display label.
	Label string
	// Strategy names how the filter narrows the query: "callback" never
	// appears here because callbacks are registered in code, so the value
	// is either "taxonomy" or "field".
	Strategy string
	// Source describes where options come from: the taxonomy name or the
	// explicit option values.
	Source string
	// Capability is the required actor capability, if any.
	Capability string
	// ShowCount reports whether option labels carry record counts.
	ShowCount bool
	// HideEmpty reports whether empty taxonomy terms are dropped.
	HideEmpty bool
}

// ScreenInfo describes the filter set of one screen declaration.
type ScreenInfo struct {
	// Kind is the screen kind ("content" or "user").
	Kind string
	// Subtypes are the screen subtypes the filters apply to.
	Subtypes []string
	// Filters are the filters in render order.
	Filters []FilterInfo
	// ExampleQuery is a drill-down query string selecting one value per
	// filter, rendered when examples are enabled.
	ExampleQuery string
}

// DocModel is the structured data model for documentation generation.
type DocModel struct {
	// Title overrides the document title.
	Title string
	// RequiresHost is the declared host version constraint, if any.
	RequiresHost string
	// Screens are the documented screen declarations.
	Screens []ScreenInfo
	// IncludeExamples controls whether example query strings are appended.
	IncludeExamples bool
}

// FromDefinitions builds a DocModel from a validated definitions document.
func FromDefinitions(defs *listfilter.Definitions) *DocModel {
	model := &DocModel{RequiresHost: defs.RequiresHost}

	for _, s := range defs.Screens {
		si := ScreenInfo{
			Kind:         string(s.Kind),
			Subtypes:     s.Subtypes,
			ExampleQuery: GenerateExampleQuery(s, defs.PreviewTerms),
		}

		for _, f := range s.Filters {
			si.Filters = append(si.Filters, filterInfo(f))
		}

		model.Screens = append(model.Screens, si)
	}

	return model
}

// filterInfo converts one declarative filter into its documentation row.
func filterInfo(f listfilter.FilterDefinition) FilterInfo {
	fi := FilterInfo{
		Key:        f.Key,
		Label:      f.Label,
		Capability: f.Capability,
		ShowCount:  f.ShowCount,
		HideEmpty:  f.HideEmpty,
	}

	if fi.Label == "" {
		fi.Label = listfilter.DefaultLabel(f.Key)
	}

	if f.Taxonomy != "" {
		fi.Strategy = "taxonomy"
		fi.Source = fmt.Sprintf("taxonomy %q", f.Taxonomy)

		return fi
	}

	fi.Strategy = "field"

	values := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		values = append(values, o.Value)
	}

	fi.Source = strings.Join(values, ", ")

	return fi
}

// GenerateExampleQuery produces an example drill-down query string for a
// screen declaration, selecting the first value of every explicit-option
// filter and the first preview term of every taxonomy filter.
func GenerateExampleQuery(screen listfilter.ScreenDefinitions, previewTerms map[string][]listfilter.Term) string {
	values := url.Values{}

	for _, f := range screen.Filters {
		switch {
		case len(f.Options) > 0:
			values.Set(f.Key, f.Options[0].Value)
		case f.Taxonomy != "":
			if terms := previewTerms[f.Taxonomy]; len(terms) > 0 {
				values.Set(f.Key, terms[0].Value)
			}
		}
	}

	if len(values) == 0 {
		return ""
	}

	return "?" + values.Encode()
}
