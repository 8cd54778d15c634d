package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/listfilter/internal/docs"
)

type docsOptions struct {
	format          string
	title           string
	includeExamples bool
	outputFile      string
}

func newDocsCommand() *cobra.Command {
	opts := &docsOptions{}

	cmd := &cobra.Command{
		Use:   "docs <definitions-file>",
		Short: "Generate filter reference documentation",
		Long: `Generate human-readable reference documentation from a filter
definitions file.

Outputs one section per screen: the declared filters with their labels,
option sources, gating capabilities, and optionally an example query
string built from the preview terms.

Supports markdown, HTML, and ASCIIDoc output formats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocs(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "markdown", "output format (markdown, html, asciidoc)")
	cmd.Flags().StringVar(&opts.title, "title", "", "override document title")
	cmd.Flags().BoolVar(&opts.includeExamples, "include-examples", true, "include example query strings in output")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func runDocs(cmd *cobra.Command, filePath string, opts *docsOptions) error {
	// 1. Build the formatter.
	formatter, err := docs.NewFormatter(opts.format)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	// 2. Load and validate the definitions.
	defs, err := loadDefinitions(cmd, filePath)
	if err != nil {
		return &ExitError{Code: 7, Err: err}
	}

	// 3. Extract the doc model.
	model := docs.FromDefinitions(defs)

	if opts.title != "" {
		model.Title = opts.title
	}

	model.IncludeExamples = opts.includeExamples

	// 4. Render documentation.
	var buf bytes.Buffer
	if err := formatter.Format(&buf, model); err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("formatting docs: %w", err)}
	}

	// 5. Write to the requested destination.
	return writeOutput(cmd, opts.outputFile, buf.Bytes())
}
