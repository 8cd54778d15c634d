package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hupe1980/listfilter/internal/config"
	"github.com/hupe1980/listfilter/internal/output"
	"github.com/hupe1980/listfilter/pkg/listfilter"
)

type inspectOptions struct {
	format string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <definitions-file>",
		Short: "Inspect the screens and filters of a definitions file",
		Long: `Inspect a filter definitions file: which screens it declares, which
filters each screen carries, where their options come from, and which
capabilities gate them.

Config file overrides (labels, capabilities, hidden filters) are applied
before inspection, so the output reflects what hosts will see.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table, json, yaml")

	return cmd
}

// inspectResult is the structured output of the inspect command.
type inspectResult struct {
	RequiresHost string              `json:"requiresHost,omitempty"`
	Screens      []inspectScreenInfo `json:"screens"`
	Taxonomies   []taxonomyInfo      `json:"taxonomies,omitempty"`
}

type inspectScreenInfo struct {
	Kind     string              `json:"kind"`
	Subtypes []string            `json:"subtypes"`
	Filters  []inspectFilterInfo `json:"filters"`
}

type inspectFilterInfo struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Strategy   string `json:"strategy"`
	Source     string `json:"source,omitempty"`
	Capability string `json:"capability,omitempty"`
	ShowCount  bool   `json:"showCount,omitempty"`
	HideEmpty  bool   `json:"hideEmpty,omitempty"`
}

type taxonomyInfo struct {
	Name  string `json:"name"`
	Terms int    `json:"terms"`
}

func runInspect(cmd *cobra.Command, path string, opts *inspectOptions) error {
	defs, err := loadDefinitions(cmd, path)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	result := buildInspectResult(defs)

	w := cmd.OutOrStdout()

	if opts.format == "table" {
		renderInspectTables(w, result, config.FromContext(cmd.Context()).NoColor)
		return nil
	}

	return writeSerialized(w, result, opts.format)
}

func buildInspectResult(defs *listfilter.Definitions) inspectResult {
	result := inspectResult{RequiresHost: defs.RequiresHost}

	for _, s := range defs.Screens {
		si := inspectScreenInfo{
			Kind:     string(s.Kind),
			Subtypes: s.Subtypes,
		}

		for _, f := range s.Filters {
			fi := inspectFilterInfo{
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
				fi.Source = f.Taxonomy
			} else {
				fi.Strategy = "field"

				values := make([]string, 0, len(f.Options))
				for _, o := range f.Options {
					values = append(values, o.Value)
				}

				fi.Source = strings.Join(values, ", ")
			}

			si.Filters = append(si.Filters, fi)
		}

		result.Screens = append(result.Screens, si)
	}

	for name, terms := range defs.PreviewTerms {
		result.Taxonomies = append(result.Taxonomies, taxonomyInfo{Name: name, Terms: len(terms)})
	}

	sort.Slice(result.Taxonomies, func(i, j int) bool {
		return result.Taxonomies[i].Name < result.Taxonomies[j].Name
	})

	return result
}

// writeSerialized renders a report document in one of the registered
// report formats (json, yaml).
func writeSerialized(w io.Writer, doc any, format string) error {
	ser, err := output.DefaultRegistry().Serializer(format)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	data, err := ser(doc)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func renderInspectTables(w io.Writer, result inspectResult, noColor bool) {
	if result.RequiresHost != "" {
		_, _ = fmt.Fprintf(w, "Requires host: %s\n", result.RequiresHost)
	}

	for _, s := range result.Screens {
		_, _ = fmt.Fprintf(w, "\nScreen %s: %s\n", s.Kind, strings.Join(s.Subtypes, ", "))

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"KEY", "LABEL", "STRATEGY", "SOURCE", "CAPABILITY", "COUNTS", "HIDE EMPTY"})

		for _, f := range s.Filters {
			t.AppendRow(table.Row{f.Key, f.Label, f.Strategy, orDash(f.Source), orDash(f.Capability), yesNo(f.ShowCount), yesNo(f.HideEmpty)})
		}

		if !noColor {
			t.SetStyle(table.StyleLight)
		}

		t.Render()
	}

	if len(result.Taxonomies) > 0 {
		_, _ = fmt.Fprintf(w, "\nPreview taxonomies:\n")

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"TAXONOMY", "TERMS"})

		for _, tx := range result.Taxonomies {
			t.AppendRow(table.Row{tx.Name, tx.Terms})
		}

		if !noColor {
			t.SetStyle(table.StyleLight)
		}

		t.Render()
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
