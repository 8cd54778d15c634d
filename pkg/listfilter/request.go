package listfilter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// Binding is the per-screen attachment point the host framework invokes at
// its listing-screen lifecycle points. Bindings are created at most once
// per screen; see Manager.Screen.
type Binding struct {
	key     ScreenKey
	manager *Manager
}

// Key returns the screen this binding serves.
func (b *Binding) Key() ScreenKey {
	return b.key
}

// NewRequest derives the request scope from the incoming query-string
// values. The selected-value set is recomputed for every request and never
// stored; only registered filter keys are read, and blank values are
// dropped.
func (b *Binding) NewRequest(values url.Values) *Request {
	defs := b.manager.registry.Lookup(b.key.Kind, b.key.Subtype)

	return &Request{
		binding:   b,
		defs:      defs,
		selection: selectionFromValues(values, defs),
	}
}

// Selection is the set of filter values carried by one incoming request,
// keyed by filter key. Blank and unregistered parameters are absent.
type Selection map[string]string

// selectionFromValues extracts the selected values for the given
// definitions from the canonical request-parameter source (the query
// string).
func selectionFromValues(values url.Values, defs []Definition) Selection {
	sel := make(Selection, len(defs))

	for _, d := range defs {
		v := strings.TrimSpace(values.Get(d.Key))
		if v != "" {
			sel[d.Key] = v
		}
	}

	return sel
}

// Request is the scope of one render/query cycle. It is not safe for
// concurrent use; the host invokes it synchronously within a single
// request.
type Request struct {
	binding   *Binding
	defs      []Definition
	selection Selection

	rendered bool
	applied  bool
}

// Selection returns the selected-value set derived from the request.
func (r *Request) Selection() Selection {
	return r.selection
}

// RenderControls writes the dropdown controls of every applicable filter to
// w, in registration order. Filters are skipped when the actor lacks the
// required capability or when no options are resolvable.
//
// On user screens a second invocation within the same request writes
// nothing: the host is known to fire the render hook twice there. Content
// screens re-render identical output.
func (r *Request) RenderControls(ctx context.Context, w io.Writer) error {
	m := r.binding.manager
	if !m.isActive() {
		return ErrNotActivated
	}

	if r.binding.key.Kind == KindUser && r.rendered {
		return nil
	}

	r.rendered = true

	for _, d := range r.defs {
		if d.Capability != "" && !m.host.Can(ctx, d.Capability) {
			continue
		}

		opts := m.resolveOptions(ctx, d)
		if len(opts) == 0 {
			continue
		}

		if err := m.renderControl(w, d, opts, r.selection[d.Key]); err != nil {
			return fmt.Errorf("rendering filter %q: %w", d.Key, err)
		}
	}

	return nil
}

// ApplyQuery rewrites the outbound listing query according to the selected
// filter values. For each filter carrying a non-empty value, exactly one of
// three mutually exclusive strategies applies, by priority: the custom
// callback, a taxonomy-join condition, or a field-match condition.
// Conditions from the latter two strategies combine conjunctively across
// filters (drill-down); callback mutations are opaque to that combination.
//
// ApplyQuery is applied at most once per request, so a host that fires the
// query hook twice cannot double the conditions.
func (r *Request) ApplyQuery(ctx context.Context, q Query) error {
	m := r.binding.manager
	if !m.isActive() {
		return ErrNotActivated
	}

	if r.applied {
		return nil
	}

	r.applied = true

	for _, d := range r.defs {
		value, ok := r.selection[d.Key]
		if !ok {
			continue
		}

		if d.Capability != "" && !m.host.Can(ctx, d.Capability) {
			continue
		}

		switch {
		case d.Query != nil:
			if err := d.Query(q, value); err != nil {
				return fmt.Errorf("filter %q: query callback: %w", d.Key, err)
			}
		case d.Taxonomy != "":
			AppendTermCondition(q, d.Taxonomy, value)
		default:
			AppendFieldCondition(q, d.Key, value)
		}
	}

	return nil
}

// resolveOptions produces the ordered option list for a definition.
// Explicit options win; taxonomy-backed filters resolve lazily at render
// time and are never cached across requests. A lookup failure or an empty
// result degrades to no options, which suppresses the control entirely.
func (m *Manager) resolveOptions(ctx context.Context, d Definition) []Option {
	if len(d.Options) > 0 {
		return d.Options
	}

	if d.Taxonomy == "" {
		return nil
	}

	terms, err := m.host.Terms(ctx, d.Taxonomy, TermQuery{HideEmpty: d.HideEmpty})
	if err != nil {
		m.logger.DebugContext(ctx, "term lookup failed, suppressing filter",
			slog.String("filter", d.Key),
			slog.String("taxonomy", d.Taxonomy),
			slog.String("error", err.Error()),
		)

		return nil
	}

	opts := make([]Option, 0, len(terms))
	for _, t := range terms {
		opts = append(opts, Option{Value: t.Value, Label: t.Label, Count: t.Count})
	}

	return opts
}
