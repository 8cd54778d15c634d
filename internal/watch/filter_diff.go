package watch

import (
	"fmt"
	"strings"

	"github.com/hupe1980/listfilter/pkg/listfilter"
)

// FilterChange describes a single change to the declared filter sets
// between two consecutive validation runs.
type FilterChange struct {
	// Kind is one of "added", "removed", or "label-changed".
	Kind string
	// Filter is the qualified filter identity ("kind/subtype:key").
	Filter string
	// Detail provides extra information (e.g., old and new label).
	Detail string
}

// FilterDiff compares two definitions documents and returns the changes to
// their filter sets.
func FilterDiff(prev, curr *listfilter.Definitions) []FilterChange {
	prevMap := flattenFilters(prev)
	currMap := flattenFilters(curr)

	var changes []FilterChange

	// Detect removed filters.
	for id, pf := range prevMap {
		if _, ok := currMap[id]; !ok {
			changes = append(changes, FilterChange{Kind: "removed", Filter: id, Detail: describeFilter(pf)})
		}
	}

	// Detect added and relabeled filters.
	for id, cf := range currMap {
		pf, existed := prevMap[id]
		if !existed {
			changes = append(changes, FilterChange{Kind: "added", Filter: id, Detail: describeFilter(cf)})
			continue
		}

		if pf.Label != cf.Label {
			changes = append(changes, FilterChange{
				Kind:   "label-changed",
				Filter: id,
				Detail: fmt.Sprintf("%q -> %q", pf.Label, cf.Label),
			})
		}
	}

	return changes
}

// FilterDiffSummary returns a human-readable one-line summary.
func FilterDiffSummary(changes []FilterChange) string {
	var added, removed, changed int

	for _, c := range changes {
		switch c.Kind {
		case "added":
			added++
		case "removed":
			removed++
		case "label-changed":
			changed++
		}
	}

	if added == 0 && removed == 0 && changed == 0 {
		return "no filter changes"
	}

	parts := make([]string, 0, 3)

	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d filter(s) added", added))
	}

	if removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d filter(s) removed", removed))
	}

	if changed > 0 {
		parts = append(parts, fmt.Sprintf("~%d label(s) changed", changed))
	}

	return strings.Join(parts, ", ")
}

// flattenFilters indexes every declared filter by its qualified identity.
func flattenFilters(defs *listfilter.Definitions) map[string]listfilter.FilterDefinition {
	result := make(map[string]listfilter.FilterDefinition)

	if defs == nil {
		return result
	}

	for _, s := range defs.Screens {
		for _, subtype := range s.Subtypes {
			for _, f := range s.Filters {
				id := fmt.Sprintf("%s/%s:%s", s.Kind, subtype, f.Key)
				result[id] = f
			}
		}
	}

	return result
}

// describeFilter produces the detail text for an added or removed filter.
func describeFilter(f listfilter.FilterDefinition) string {
	if f.Taxonomy != "" {
		return "taxonomy " + f.Taxonomy
	}

	return fmt.Sprintf("%d option(s)", len(f.Options))
}
