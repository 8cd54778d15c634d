package docs

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Formatter renders a DocModel to a writer.
type Formatter interface {
	Format(w io.Writer, model *DocModel) error
}

// NewFormatter returns a formatter for the given format name.
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	case "asciidoc", "adoc":
		return &AsciiDocFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported docs format: %s", format)
	}
}

// yesNo renders a boolean as a table-friendly marker.
func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "-"
}

// orDash substitutes "-" for empty cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// ---------------------------------------------------------------------------
// Markdown
// ---------------------------------------------------------------------------

// MarkdownFormatter renders documentation as Markdown.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, model *DocModel) error {
	title := model.Title
	if title == "" {
		title = "Listing Filter Reference"
	}

	fmt.Fprintf(w, "# %s\n\n", title)

	if model.RequiresHost != "" {
		fmt.Fprintf(w, "**Requires host:** `%s`  \n\n", model.RequiresHost)
	}

	for _, s := range model.Screens {
		fmt.Fprintf(w, "## %s: %s\n\n", s.Kind, strings.Join(s.Subtypes, ", "))

		fmt.Fprintln(w, "| Key | Label | Strategy | Source | Capability | Counts | Hide Empty |")
		fmt.Fprintln(w, "|-----|-------|----------|--------|------------|--------|------------|")

		for _, fi := range s.Filters {
			fmt.Fprintf(w, "| `%s` | %s | %s | %s | %s | %s | %s |\n",
				fi.Key, fi.Label, fi.Strategy, orDash(fi.Source),
				orDash(fi.Capability), yesNo(fi.ShowCount), yesNo(fi.HideEmpty))
		}

		fmt.Fprintln(w)

		if model.IncludeExamples && s.ExampleQuery != "" {
			fmt.Fprintf(w, "Example drill-down:\n\n```\n%s\n```\n\n", s.ExampleQuery)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// HTML
// ---------------------------------------------------------------------------

// HTMLFormatter renders documentation as a standalone HTML page.
type HTMLFormatter struct{}

var htmlTpl = template.Must(template.New("docs").Funcs(template.FuncMap{
	"join":   strings.Join,
	"yesNo":  yesNo,
	"orDash": orDash,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2em;line-height:1.6}
table{border-collapse:collapse;width:100%;margin-bottom:1em}
th,td{border:1px solid #ddd;padding:8px;text-align:left}
th{background:#f5f5f5}
code{background:#f0f0f0;padding:2px 4px;border-radius:3px}
pre{background:#f5f5f5;padding:1em;border-radius:4px;overflow-x:auto}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .RequiresHost}}<p><strong>Requires host:</strong> <code>{{.RequiresHost}}</code></p>{{end}}

{{range .Screens}}
<h2>{{.Kind}}: {{join .Subtypes ", "}}</h2>
<table>
<tr><th>Key</th><th>Label</th><th>Strategy</th><th>Source</th><th>Capability</th><th>Counts</th><th>Hide Empty</th></tr>
{{range .Filters}}<tr><td><code>{{.Key}}</code></td><td>{{.Label}}</td><td>{{.Strategy}}</td><td>{{orDash .Source}}</td><td>{{orDash .Capability}}</td><td>{{yesNo .ShowCount}}</td><td>{{yesNo .HideEmpty}}</td></tr>
{{end}}
</table>
{{if and $.IncludeExamples .ExampleQuery}}
<p>Example drill-down:</p>
<pre><code>{{.ExampleQuery}}</code></pre>
{{end}}
{{end}}

</body>
</html>
`))

func (f *HTMLFormatter) Format(w io.Writer, model *DocModel) error {
	m := *model
	if m.Title == "" {
		m.Title = "Listing Filter Reference"
	}

	return htmlTpl.Execute(w, m)
}

// ---------------------------------------------------------------------------
// AsciiDoc
// ---------------------------------------------------------------------------

// AsciiDocFormatter renders documentation as AsciiDoc.
type AsciiDocFormatter struct{}

func (f *AsciiDocFormatter) Format(w io.Writer, model *DocModel) error {
	title := model.Title
	if title == "" {
		title = "Listing Filter Reference"
	}

	fmt.Fprintf(w, "= %s\n\n", title)

	if model.RequiresHost != "" {
		fmt.Fprintf(w, "*Requires host:* `%s` +\n\n", model.RequiresHost)
	}

	for _, s := range model.Screens {
		fmt.Fprintf(w, "== %s: %s\n\n", s.Kind, strings.Join(s.Subtypes, ", "))
		fmt.Fprintln(w, "[cols=\"1,1,1,2,1,1,1\", options=\"header\"]")
		fmt.Fprintln(w, "|===")
		fmt.Fprintln(w, "| Key | Label | Strategy | Source | Capability | Counts | Hide Empty")

		for _, fi := range s.Filters {
			fmt.Fprintf(w, "\n| `%s`\n| %s\n| %s\n| %s\n| %s\n| %s\n| %s\n",
				fi.Key, fi.Label, fi.Strategy, orDash(fi.Source),
				orDash(fi.Capability), yesNo(fi.ShowCount), yesNo(fi.HideEmpty))
		}

		fmt.Fprintln(w, "|===")
		fmt.Fprintln(w)

		if model.IncludeExamples && s.ExampleQuery != "" {
			fmt.Fprintf(w, "Example drill-down:\n\n----\n%s\n----\n\n", s.ExampleQuery)
		}
	}

	return nil
}
