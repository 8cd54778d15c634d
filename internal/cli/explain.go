package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/listfilter/internal/output"
	"github.com/hupe1980/listfilter/pkg/listfilter"
)

type explainOptions struct {
	screenOptions

	selectionFile string
	format        string
	showDiff      bool
}

func newExplainCommand() *cobra.Command {
	opts := &explainOptions{}

	cmd := &cobra.Command{
		Use:   "explain <definitions-file>",
		Short: "Explain how a selection narrows the listing query",
		Long: `Explain which conditions a filter selection adds to the outbound
listing query: field matches, taxonomy joins, and the resulting query
variables. Every selected filter narrows the result set further.

Selections come from repeated --select flags or a YAML selection file
(a flat key: value map); --select wins on conflicting keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, args[0], opts)
		},
	}

	registerScreenFlags(cmd, &opts.screenOptions)

	f := cmd.Flags()
	f.StringVar(&opts.selectionFile, "selection-file", "", "YAML file with selected filter values")
	f.StringVar(&opts.format, "format", "text", "output format: text, json, yaml")
	f.BoolVar(&opts.showDiff, "diff", false, "show a unified diff of the query variables")

	return cmd
}

// explainResult is the structured output of the explain command.
type explainResult struct {
	Screen          string                      `json:"screen"`
	Selection       map[string]string           `json:"selection"`
	FieldConditions []listfilter.FieldCondition `json:"fieldConditions,omitempty"`
	TermConditions  []listfilter.TermCondition  `json:"termConditions,omitempty"`
	QueryVars       map[string]any              `json:"queryVars,omitempty"`
}

func runExplain(cmd *cobra.Command, path string, opts *explainOptions) error {
	defs, err := loadDefinitions(cmd, path)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	kind, subtype, err := parseScreenKey(opts.screen)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	sel, err := mergeSelections(opts)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	m, err := previewManager(cmd, defs, &opts.screenOptions)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	values := url.Values{}
	for k, v := range sel {
		values.Set(k, v)
	}

	req := m.Screen(kind, subtype).NewRequest(values)

	q := newQueryFor(kind)

	if err := req.ApplyQuery(cmd.Context(), q); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	result := explainResult{
		Screen:          opts.screen,
		Selection:       req.Selection(),
		FieldConditions: listfilter.FieldConditions(q),
		TermConditions:  listfilter.TermConditions(q),
		QueryVars:       queryVars(q),
	}

	w := cmd.OutOrStdout()

	if opts.format == "text" {
		return renderExplainText(w, result, opts.showDiff)
	}

	return writeSerialized(w, result, opts.format)
}

// mergeSelections combines the selection file (if any) with --select flags;
// flags win on conflicting keys.
func mergeSelections(opts *explainOptions) (map[string]string, error) {
	sel := make(map[string]string)

	if opts.selectionFile != "" {
		data, err := os.ReadFile(opts.selectionFile) //nolint:gosec // user-specified input file
		if err != nil {
			return nil, fmt.Errorf("reading selection file: %w", err)
		}

		if err := yaml.Unmarshal(data, &sel); err != nil {
			return nil, fmt.Errorf("parsing selection file: %w", err)
		}
	}

	flagSel, err := parseSelections(opts.selects)
	if err != nil {
		return nil, err
	}

	for k, v := range flagSel {
		sel[k] = v
	}

	return sel, nil
}

// newQueryFor returns the query representation matching the screen kind.
func newQueryFor(kind listfilter.Kind) listfilter.Query {
	if kind == listfilter.KindUser {
		return listfilter.NewUserQuery()
	}

	return listfilter.NewContentQuery()
}

// queryVars extracts the final variable map of either query representation.
func queryVars(q listfilter.Query) map[string]any {
	switch v := q.(type) {
	case *listfilter.ContentQuery:
		return v.Vars()
	case *listfilter.UserQuery:
		args := v.Args()
		vars := make(map[string]any, len(args.Extra)+3)

		if args.Role != "" {
			vars["role"] = args.Role
		}

		if args.Search != "" {
			vars["search"] = args.Search
		}

		if args.OrderBy != "" {
			vars["orderby"] = args.OrderBy
		}

		for k, val := range args.Extra {
			vars[k] = val
		}

		return vars
	default:
		return nil
	}
}

func renderExplainText(w io.Writer, result explainResult, showDiff bool) error {
	_, _ = fmt.Fprintf(w, "Screen: %s\n", result.Screen)

	if len(result.Selection) == 0 {
		_, _ = fmt.Fprintln(w, "Selection: (none) — the query is unchanged")
		return nil
	}

	_, _ = fmt.Fprintln(w, "Selection:")

	for _, k := range sortedKeys(result.Selection) {
		_, _ = fmt.Fprintf(w, "  %s = %s\n", k, result.Selection[k])
	}

	if len(result.FieldConditions) > 0 {
		_, _ = fmt.Fprintln(w, "\nField conditions (ANDed):")

		for _, c := range result.FieldConditions {
			_, _ = fmt.Fprintf(w, "  %s = %q\n", c.Key, c.Value)
		}
	}

	if len(result.TermConditions) > 0 {
		_, _ = fmt.Fprintln(w, "\nTaxonomy conditions (ANDed):")

		for _, c := range result.TermConditions {
			_, _ = fmt.Fprintf(w, "  %s has term %q\n", c.Taxonomy, c.Term)
		}
	}

	if showDiff {
		return renderQueryDiff(w, result.QueryVars)
	}

	return nil
}

// renderQueryDiff prints a unified diff from the empty query to the
// mutated one.
func renderQueryDiff(w io.Writer, vars map[string]any) error {
	after, err := output.Serialize(vars)
	if err != nil {
		return err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines("{}\n"),
		B:        difflib.SplitLines(string(after)),
		FromFile: "query (before)",
		ToFile:   "query (after)",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("computing diff: %w", err)
	}

	_, _ = fmt.Fprintf(w, "\n%s", text)

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
