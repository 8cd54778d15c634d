package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/listfilter/internal/config"
	"github.com/hupe1980/listfilter/internal/logging"
	"github.com/hupe1980/listfilter/internal/output"
	"github.com/hupe1980/listfilter/pkg/listfilter"
)

// screenOptions holds the flags shared by the preview commands (render,
// explain): which screen to target, the simulated selection, and the host
// environment to preview against.
type screenOptions struct {
	screen       string
	selects      []string
	hostVersion  string
	capabilities []string
}

// registerScreenFlags adds the standard preview flags to a cobra command.
func registerScreenFlags(cmd *cobra.Command, opts *screenOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.screen, "screen", "", "target screen as kind/subtype (e.g. content/post)")
	f.StringArrayVar(&opts.selects, "select", nil, "selected filter values (key=value)")
	f.StringVar(&opts.hostVersion, "host-version", "6.0.0", "host framework version to preview against")
	f.StringSliceVar(&opts.capabilities, "capability", nil, "capabilities granted to the previewed actor (default: all)")

	_ = cmd.MarkFlagRequired("screen")
}

// parseScreenKey splits a kind/subtype flag value.
func parseScreenKey(s string) (listfilter.Kind, string, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid screen %q: expected kind/subtype (e.g. content/post)", s)
	}

	kind := listfilter.Kind(parts[0])
	if !kind.Valid() {
		return "", "", fmt.Errorf("invalid screen %q: unknown kind %q (must be content or user)", s, parts[0])
	}

	return kind, parts[1], nil
}

// parseSelections converts repeated --select key=value flags into a map.
func parseSelections(selects []string) (map[string]string, error) {
	sel := make(map[string]string, len(selects))

	for _, s := range selects {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --select %q: expected key=value", s)
		}

		sel[key] = value
	}

	return sel, nil
}

// loadDefinitions reads and validates a definitions file, then applies any
// overrides declared in the resolved config file.
func loadDefinitions(cmd *cobra.Command, path string) (*listfilter.Definitions, error) {
	defs, err := listfilter.LoadDefinitionsFile(path)
	if err != nil {
		return nil, err
	}

	cfg := config.FromContext(cmd.Context())
	if cfg.ConfigFile == "" {
		return defs, nil
	}

	data, err := os.ReadFile(cfg.ConfigFile) //nolint:gosec // resolved config path
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", cfg.ConfigFile, err)
	}

	overrides, err := config.ParseOverrideConfig(data)
	if err != nil {
		return nil, err
	}

	overrides.Apply(defs)

	// Overrides may have emptied a screen's filter list.
	if err := defs.Validate(); err != nil {
		return nil, fmt.Errorf("after applying overrides: %w", err)
	}

	return defs, nil
}

// lintDefinitions reports non-fatal problems in a validated document.
func lintDefinitions(defs *listfilter.Definitions) []string {
	var warnings []string

	for i, s := range defs.Screens {
		seen := make(map[string]bool, len(s.Filters))

		for _, f := range s.Filters {
			if seen[f.Key] {
				warnings = append(warnings, fmt.Sprintf("screens[%d]: duplicate filter key %q (definitions will be merged)", i, f.Key))
			}

			seen[f.Key] = true

			if f.Taxonomy != "" {
				if _, ok := defs.PreviewTerms[f.Taxonomy]; !ok {
					warnings = append(warnings, fmt.Sprintf("screens[%d]: filter %q: taxonomy %q has no previewTerms entry, previews will suppress it", i, f.Key, f.Taxonomy))
				}
			}

			if f.Taxonomy == "" && len(f.Options) == 0 {
				warnings = append(warnings, fmt.Sprintf("screens[%d]: filter %q has neither options nor a taxonomy, it will never render", i, f.Key))
			}
		}
	}

	return warnings
}

// writeOutput sends rendered bytes to the given file, or to the command's
// stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	var w output.Writer
	if path == "" {
		w = output.NewStdoutWriter(cmd.OutOrStdout())
	} else {
		w = output.NewFileWriter(path, output.WithLogger(logging.FromContext(cmd.Context())))
	}

	if err := w.Write(data); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	return nil
}

// previewManager builds an activated manager backed by the definitions'
// preview terms, for the render and explain commands.
func previewManager(cmd *cobra.Command, defs *listfilter.Definitions, opts *screenOptions, extra ...listfilter.ManagerOption) (*listfilter.Manager, error) {
	host := defs.PreviewHost(opts.hostVersion)
	host.Capabilities = opts.capabilities

	mgrOpts := []listfilter.ManagerOption{listfilter.WithLogger(logging.FromContext(cmd.Context()))}
	if defs.RequiresHost != "" {
		mgrOpts = append(mgrOpts, listfilter.WithHostConstraint(defs.RequiresHost))
	}

	mgrOpts = append(mgrOpts, extra...)

	m := listfilter.New(host, mgrOpts...)

	if err := defs.Apply(m); err != nil {
		return nil, err
	}

	if err := m.Activate(cmd.Context()); err != nil {
		return nil, err
	}

	return m, nil
}
