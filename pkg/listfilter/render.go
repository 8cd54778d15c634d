package listfilter

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
)

// defaultControlText is the built-in template for one single-selection
// dropdown control. Hosts can replace it via WithControlTemplate; custom
// templates have the full sprig function map available.
const defaultControlText = `<label class="screen-reader-text" for="filter-{{ .Key }}">{{ .Label }}</label>
<select name="{{ .Key }}" id="filter-{{ .Key }}">
<option value="">All {{ .Label }}</option>
{{- range .Options }}
<option value="{{ .Value }}"{{ if eq .Value $.Selected }} selected="selected"{{ end }}>{{ .Text }}</option>
{{- end }}
</select>
`

// controlTemplate is the parsed default control template.
var controlTemplate = template.Must(ParseControlTemplate(defaultControlText))

// ParseControlTemplate parses a dropdown control template with the sprig
// function map installed. The template is executed once per rendered filter
// with the fields Key, Label, Selected, and Options (Value/Text pairs).
func ParseControlTemplate(text string) (*template.Template, error) {
	tmpl, err := template.New("control").Funcs(sprig.HtmlFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing control template: %w", err)
	}

	return tmpl, nil
}

// controlView is the data handed to the control template.
type controlView struct {
	Key      string
	Label    string
	Selected string
	Options  []optionView
}

// optionView is one rendered option.
type optionView struct {
	Value string
	Text  string
}

// renderControl writes one dropdown control for the definition, pre-selected
// to the value found in the current request.
func (m *Manager) renderControl(w io.Writer, d Definition, opts []Option, selected string) error {
	view := controlView{
		Key:      d.Key,
		Label:    d.Label,
		Selected: selected,
		Options:  make([]optionView, 0, len(opts)),
	}

	for _, o := range opts {
		text := o.Label
		if d.ShowCount {
			text = fmt.Sprintf("%s (%d)", o.Label, o.Count)
		}

		view.Options = append(view.Options, optionView{Value: o.Value, Text: text})
	}

	return m.tmpl.Execute(w, view)
}
