package listfilter

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// ErrNotActivated is returned by the render and query-mutation entry points
// when the manager has not yet been activated. Registration must be
// deferred until the host framework's administrative-context initialization
// point, so dependent facilities (e.g. custom taxonomy definitions) are
// available; Activate marks that point.
var ErrNotActivated = errors.New("listfilter: manager not activated")

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Manager owns the filter registry and the host integration. It is
// constructed at startup by the application's admin-screen controller and
// passed by reference wherever filters are registered or applied; there is
// no package-level state.
type Manager struct {
	host     Host
	logger   *slog.Logger
	registry *Registry
	tmpl     *template.Template

	// constraint is the semver range the host version must satisfy at
	// activation. Empty skips the check.
	constraint string

	mu       sync.Mutex
	active   bool
	bindings map[ScreenKey]*Binding
}

// Option configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithHostConstraint sets a semantic version range (e.g. ">= 6.0.0") the
// host framework version must satisfy when Activate is called.
func WithHostConstraint(constraint string) ManagerOption {
	return func(m *Manager) { m.constraint = constraint }
}

// WithControlTemplate replaces the built-in dropdown control template.
// Parse custom templates with ParseControlTemplate so the sprig function
// map is available.
func WithControlTemplate(tmpl *template.Template) ManagerOption {
	return func(m *Manager) { m.tmpl = tmpl }
}

// New creates a Manager bound to the given host.
func New(host Host, opts ...ManagerOption) *Manager {
	m := &Manager{
		host:     host,
		logger:   discardLogger(),
		registry: NewRegistry(),
		tmpl:     controlTemplate,
		bindings: make(map[ScreenKey]*Binding),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Register merges filter definitions into the registry slot of every
// (kind, subtype) pair. Callable any number of times, before or after
// Activate; repeated registration merges configuration but never re-wires a
// screen.
func (m *Manager) Register(kind Kind, subtypes []string, defs []Definition) error {
	return m.registry.Register(kind, subtypes, defs)
}

// Registry exposes the underlying registry for read access.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Activate transitions the manager into its active phase. Call it once,
// when the host signals that its administrative context is ready; repeated
// calls are no-ops. When a host constraint is configured, the host version
// is checked against it and a mismatch fails activation.
func (m *Manager) Activate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return nil
	}

	if m.constraint != "" {
		c, err := semver.NewConstraint(m.constraint)
		if err != nil {
			return fmt.Errorf("parsing host constraint %q: %w", m.constraint, err)
		}

		v, err := semver.NewVersion(m.host.Version())
		if err != nil {
			return fmt.Errorf("parsing host version %q: %w", m.host.Version(), err)
		}

		if !c.Check(v) {
			return fmt.Errorf("host version %s does not satisfy constraint %q", v, m.constraint)
		}
	}

	m.active = true

	m.logger.DebugContext(ctx, "filter manager activated",
		slog.String("hostVersion", m.host.Version()),
		slog.Int("screens", len(m.registry.Screens())),
	)

	return nil
}

// isActive reports whether Activate has completed.
func (m *Manager) isActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active
}

// Screen returns the binding for a listing screen, creating it on first
// use. A given (kind, subtype) pair is bound at most once regardless of how
// many times registration or Screen is invoked for it.
func (m *Manager) Screen(kind Kind, subtype string) *Binding {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := ScreenKey{Kind: kind, Subtype: subtype}

	if b, ok := m.bindings[key]; ok {
		return b
	}

	b := &Binding{key: key, manager: m}
	m.bindings[key] = b

	return b
}
