package cli

import (
	"bytes"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/listfilter/pkg/listfilter"
)

type renderOptions struct {
	screenOptions

	templateFile string
	outputFile   string
}

func newRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <definitions-file>",
		Short: "Preview the rendered dropdown controls of a screen",
		Long: `Render the dropdown controls a screen would show, using the
previewTerms section of the definitions file as the taxonomy source.

Selections passed via --select pre-select the matching options, exactly
as an incoming request carrying those query-string parameters would.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	registerScreenFlags(cmd, &opts.screenOptions)

	f := cmd.Flags()
	f.StringVar(&opts.templateFile, "template", "", "custom control template file")
	f.StringVarP(&opts.outputFile, "output-file", "o", "", "write output to file instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, path string, opts *renderOptions) error {
	defs, err := loadDefinitions(cmd, path)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	kind, subtype, err := parseScreenKey(opts.screen)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	sel, err := parseSelections(opts.selects)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	m, err := buildRenderManager(cmd, defs, opts)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	values := url.Values{}
	for k, v := range sel {
		values.Set(k, v)
	}

	req := m.Screen(kind, subtype).NewRequest(values)

	var buf bytes.Buffer
	if err := req.RenderControls(cmd.Context(), &buf); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	return writeOutput(cmd, opts.outputFile, buf.Bytes())
}

// buildRenderManager assembles the preview manager, honoring a custom
// control template when one is given.
func buildRenderManager(cmd *cobra.Command, defs *listfilter.Definitions, opts *renderOptions) (*listfilter.Manager, error) {
	if opts.templateFile == "" {
		return previewManager(cmd, defs, &opts.screenOptions)
	}

	text, err := os.ReadFile(opts.templateFile) //nolint:gosec // user-specified input file
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}

	tmpl, err := listfilter.ParseControlTemplate(string(text))
	if err != nil {
		return nil, err
	}

	return previewManager(cmd, defs, &opts.screenOptions, listfilter.WithControlTemplate(tmpl))
}
