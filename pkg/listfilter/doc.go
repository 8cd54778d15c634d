// Package listfilter lets a host content-management application register
// dropdown filters on its administrative listing screens (content records
// and user records) without hand-writing the per-screen rendering and
// query-modification glue.
//
// # Architecture
//
// The package is built around four pieces:
//
//   - Registry: maps (screen kind, subtype, filter key) to filter
//     definitions, merging configuration across registration calls.
//   - Manager: owns the registry and the Host integration, and enforces
//     the two-phase configure/activate lifecycle.
//   - Request: the per-request scope derived from the incoming query
//     string, exposing the render and query-mutation callbacks the host
//     invokes at its listing-screen lifecycle points.
//   - Query: a narrow two-method adapter over the host's listing-query
//     representations, so the same filter callback works for both the
//     content and the user listing query.
//
// # Query strategies
//
// When a request carries a non-empty value for a registered filter, exactly
// one of three mutually exclusive strategies mutates the listing query,
// chosen by priority:
//
//  1. A custom callback (Definition.Query), which owns the mutation entirely.
//  2. A taxonomy join, restricting results to records carrying the selected
//     grouping term.
//  3. A field match, an equality condition on the filter key.
//
// Conditions produced by strategies 2 and 3 across multiple simultaneous
// filters combine conjunctively (drill-down semantics): each additional
// filter narrows, never widens, the result set.
//
// # Usage
//
//	m := listfilter.New(host, listfilter.WithHostConstraint(">= 6.0.0"))
//
//	err := m.Register(listfilter.KindContent, []string{"post"}, []listfilter.Definition{
//	    {Key: "status", Label: "Status", Options: []listfilter.Option{
//	        {Value: "a", Label: "Active"},
//	        {Value: "i", Label: "Inactive"},
//	    }},
//	    {Key: "genre", Taxonomy: "genre", ShowCount: true, HideEmpty: true},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Once the host signals that its admin context is ready:
//	if err := m.Activate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// At the host's listing-screen lifecycle points:
//	req := m.Screen(listfilter.KindContent, "post").NewRequest(r.URL.Query())
//	req.RenderControls(ctx, w)
//	req.ApplyQuery(ctx, query)
package listfilter
