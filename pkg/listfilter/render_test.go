package listfilter

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderControls_DefaultTemplate(t *testing.T) {
	m := activeManager(t, &StaticHost{})
	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{
		{Key: "status", Options: []Option{
			{Value: "a", Label: "Active"},
			{Value: "i", Label: "Inactive"},
		}},
	}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{"status": {"a"}})

	var buf strings.Builder
	require.NoError(t, req.RenderControls(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, `<label class="screen-reader-text" for="filter-status">Status</label>`)
	assert.Contains(t, out, `<select name="status" id="filter-status">`)
	assert.Contains(t, out, `<option value="">All Status</option>`)
	assert.Contains(t, out, `<option value="a" selected="selected">Active</option>`)
	assert.Contains(t, out, `<option value="i">Inactive</option>`)
}

func TestRenderControls_NothingSelected(t *testing.T) {
	m := activeManager(t, &StaticHost{})
	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{
		{Key: "status", Options: []Option{{Value: "a", Label: "Active"}}},
	}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{})

	var buf strings.Builder
	require.NoError(t, req.RenderControls(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "selected")
}

func TestRenderControls_RegistrationOrder(t *testing.T) {
	m := activeManager(t, &StaticHost{})
	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{
		{Key: "zeta", Options: []Option{{Value: "z", Label: "Z"}}},
		{Key: "alpha", Options: []Option{{Value: "a", Label: "A"}}},
	}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{})

	var buf strings.Builder
	require.NoError(t, req.RenderControls(context.Background(), &buf))

	out := buf.String()
	assert.Less(t, strings.Index(out, `name="zeta"`), strings.Index(out, `name="alpha"`),
		"controls appear in registration order, not alphabetical")
}

func TestRenderControls_ShowCount(t *testing.T) {
	host := &StaticHost{
		TermSets: map[string][]Term{"genre": {{Value: "jazz", Label: "Jazz", Count: 12}}},
	}
	m := activeManager(t, host)
	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{
		{Key: "genre", Taxonomy: "genre", ShowCount: true},
	}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{})

	var buf strings.Builder
	require.NoError(t, req.RenderControls(context.Background(), &buf))
	assert.Contains(t, buf.String(), ">Jazz (12)<")
}

func TestRenderControls_EscapesLabels(t *testing.T) {
	m := activeManager(t, &StaticHost{})
	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{
		{Key: "status", Label: "A & B", Options: []Option{{Value: "a", Label: "<b>bold</b>"}}},
	}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{})

	var buf strings.Builder
	require.NoError(t, req.RenderControls(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "A &amp; B")
	assert.NotContains(t, out, "<b>bold</b>")
}

func TestRenderControls_CustomTemplate(t *testing.T) {
	tmpl, err := ParseControlTemplate(`{{ .Key | upper }}:{{ range .Options }}{{ .Value }},{{ end }}` + "\n")
	require.NoError(t, err)

	m := New(&StaticHost{}, WithControlTemplate(tmpl))
	require.NoError(t, m.Activate(context.Background()))
	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{
		{Key: "status", Options: []Option{{Value: "a", Label: "Active"}, {Value: "i", Label: "Inactive"}}},
	}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{})

	var buf strings.Builder
	require.NoError(t, req.RenderControls(context.Background(), &buf))
	assert.Equal(t, "STATUS:a,i,\n", buf.String())
}

func TestParseControlTemplate_Invalid(t *testing.T) {
	_, err := ParseControlTemplate("{{ .Key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing control template")
}
