package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefinitions = `
requiresHost: ">= 6.0.0"
screens:
  - kind: content
    subtypes: [post, page]
    filters:
      - key: status
        options:
          - value: a
            label: Active
          - value: i
            label: Inactive
      - key: genre
        taxonomy: genre
        showCount: true
  - kind: user
    subtypes: [users]
    filters:
      - key: department
        capability: manage_options
        options:
          - value: ops
            label: Operations
previewTerms:
  genre:
    - value: jazz
      label: Jazz
      count: 12
`

// writeTestFile writes content to a temp file and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func TestValidate_NoArgs(t *testing.T) {
	_, _, err := executeCommand("validate")
	require.Error(t, err)
}

func TestValidate_Passes(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed.")
}

func TestValidate_MissingFile(t *testing.T) {
	_, stderr, err := executeCommand("validate", "/nonexistent/defs.yaml")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 7, exitErr.Code)
	assert.Contains(t, stderr, "error:")
}

func TestValidate_InvalidDocument(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", "screens: []")

	_, _, err := executeCommand("validate", path)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 7, exitErr.Code)
	assert.Contains(t, err.Error(), "at least one screen is required")
}

func TestValidate_WarningsNotFatal(t *testing.T) {
	// A filter with neither options nor taxonomy is valid but useless
	// without a query callback, so it only warns.
	defs := `
screens:
  - kind: content
    subtypes: [post]
    filters:
      - key: era
`
	path := writeTestFile(t, "defs.yaml", defs)

	stdout, stderr, err := executeCommand("validate", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning:")
	assert.Contains(t, stdout, "Validation passed.")
}

func TestValidate_StrictFailsOnWarnings(t *testing.T) {
	defs := `
screens:
  - kind: content
    subtypes: [post]
    filters:
      - key: era
`
	path := writeTestFile(t, "defs.yaml", defs)

	_, _, err := executeCommand("validate", path, "--strict")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 7, exitErr.Code)
	assert.Contains(t, err.Error(), "strict mode")
}

// ---------------------------------------------------------------------------
// inspect
// ---------------------------------------------------------------------------

func TestInspect_NoArgs(t *testing.T) {
	_, _, err := executeCommand("inspect")
	require.Error(t, err)
}

func TestInspect_Table(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("inspect", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Requires host: >= 6.0.0")
	assert.Contains(t, stdout, "Screen content: post, page")
	assert.Contains(t, stdout, "status")
	assert.Contains(t, stdout, "taxonomy")
	assert.Contains(t, stdout, "manage_options")
	assert.Contains(t, stdout, "Preview taxonomies:")
}

func TestInspect_JSON(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("inspect", path, "--format", "json")
	require.NoError(t, err)

	var result inspectResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	assert.Equal(t, ">= 6.0.0", result.RequiresHost)
	require.Len(t, result.Screens, 2)
	assert.Equal(t, "Status", result.Screens[0].Filters[0].Label)
	assert.Equal(t, "field", result.Screens[0].Filters[0].Strategy)
	assert.Equal(t, "taxonomy", result.Screens[0].Filters[1].Strategy)
	require.Len(t, result.Taxonomies, 1)
	assert.Equal(t, "genre", result.Taxonomies[0].Name)
	assert.Equal(t, 1, result.Taxonomies[0].Terms)
}

func TestInspect_UnknownFormat(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	_, _, err := executeCommand("inspect", path, "--format", "toml")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

// ---------------------------------------------------------------------------
// render
// ---------------------------------------------------------------------------

func TestRender_RequiresScreen(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	_, _, err := executeCommand("render", path)
	require.Error(t, err)
}

func TestRender_Controls(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("render", path, "--screen", "content/post", "--select", "status=a")
	require.NoError(t, err)

	assert.Contains(t, stdout, `<select name="status" id="filter-status">`)
	assert.Contains(t, stdout, `selected="selected"`)
	assert.Contains(t, stdout, "Jazz (12)")
}

func TestRender_InvalidScreen(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	_, _, err := executeCommand("render", path, "--screen", "comment/all")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestRender_HostConstraintNotSatisfied(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	_, _, err := executeCommand("render", path, "--screen", "content/post", "--host-version", "5.9.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy")
}

func TestRender_CustomTemplate(t *testing.T) {
	defsPath := writeTestFile(t, "defs.yaml", testDefinitions)
	tmplPath := writeTestFile(t, "control.tmpl", `{{ .Key }}:{{ len .Options }}
`)

	stdout, _, err := executeCommand("render", defsPath, "--screen", "content/post", "--template", tmplPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "status:2")
}

func TestRender_OutputFile(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)
	outPath := filepath.Join(t.TempDir(), "controls.html")

	_, _, err := executeCommand("render", path, "--screen", "content/post", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<select")
}

// ---------------------------------------------------------------------------
// explain
// ---------------------------------------------------------------------------

func TestExplain_Text(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("explain", path, "--screen", "content/post",
		"--select", "status=a", "--select", "genre=jazz")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Screen: content/post")
	assert.Contains(t, stdout, "status = a")
	assert.Contains(t, stdout, `status = "a"`)
	assert.Contains(t, stdout, `genre has term "jazz"`)
}

func TestExplain_NoSelection(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("explain", path, "--screen", "content/post")
	require.NoError(t, err)
	assert.Contains(t, stdout, "the query is unchanged")
}

func TestExplain_JSON(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("explain", path, "--screen", "content/post",
		"--select", "genre=jazz", "--format", "json")
	require.NoError(t, err)

	var result explainResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	assert.Equal(t, map[string]string{"genre": "jazz"}, result.Selection)
	require.Len(t, result.TermConditions, 1)
	assert.Equal(t, "genre", result.TermConditions[0].Taxonomy)
	assert.Equal(t, "jazz", result.TermConditions[0].Term)
}

func TestExplain_SelectionFile(t *testing.T) {
	defsPath := writeTestFile(t, "defs.yaml", testDefinitions)
	selPath := writeTestFile(t, "selection.yaml", "status: i\ngenre: jazz\n")

	stdout, _, err := executeCommand("explain", defsPath, "--screen", "content/post",
		"--selection-file", selPath, "--select", "status=a")
	require.NoError(t, err)

	// --select overrides the file on conflicting keys.
	assert.Contains(t, stdout, "status = a")
	assert.Contains(t, stdout, `genre has term "jazz"`)
}

func TestExplain_Diff(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("explain", path, "--screen", "content/post",
		"--select", "status=a", "--diff")
	require.NoError(t, err)

	assert.Contains(t, stdout, "--- query (before)")
	assert.Contains(t, stdout, "+++ query (after)")
	assert.Contains(t, stdout, "+fieldConditions:")
}

func TestExplain_UserScreen(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("explain", path, "--screen", "user/users",
		"--select", "department=ops", "--format", "json")
	require.NoError(t, err)

	var result explainResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	require.Len(t, result.FieldConditions, 1)
	assert.Equal(t, "department", result.FieldConditions[0].Key)
	assert.Equal(t, "ops", result.FieldConditions[0].Value)
}

// ---------------------------------------------------------------------------
// docs
// ---------------------------------------------------------------------------

func TestDocs_NoArgs(t *testing.T) {
	_, _, err := executeCommand("docs")
	require.Error(t, err)
}

func TestDocs_Markdown(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	stdout, _, err := executeCommand("docs", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Listing Filter Reference")
	assert.Contains(t, stdout, "## content: post, page")
	assert.Contains(t, stdout, "| `status` |")
}

func TestDocs_HTMLToFile(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)
	outPath := filepath.Join(t.TempDir(), "docs.html")

	_, _, err := executeCommand("docs", path, "--format", "html", "-o", outPath, "--title", "My Filters")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>My Filters</title>")
}

func TestDocs_UnknownFormat(t *testing.T) {
	path := writeTestFile(t, "defs.yaml", testDefinitions)

	_, _, err := executeCommand("docs", path, "--format", "pdf")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

// ---------------------------------------------------------------------------
// Config file overrides
// ---------------------------------------------------------------------------

func TestInspect_ConfigOverrides(t *testing.T) {
	defsPath := writeTestFile(t, "defs.yaml", testDefinitions)
	cfgPath := writeTestFile(t, ".listfilter.yaml", `
overrides:
  labels:
    status: Publication State
  hidden:
    - genre
`)

	stdout, _, err := executeCommand("--config", cfgPath, "inspect", defsPath, "--format", "json")
	require.NoError(t, err)

	var result inspectResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	require.Len(t, result.Screens[0].Filters, 1)
	assert.Equal(t, "Publication State", result.Screens[0].Filters[0].Label)
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func TestWatch_NoArgs(t *testing.T) {
	_, _, err := executeCommand("watch")
	require.Error(t, err)
}

func TestWatch_Help(t *testing.T) {
	stdout, _, err := executeCommand("watch", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--debounce")
}

// ---------------------------------------------------------------------------
// Completion command
// ---------------------------------------------------------------------------

func TestCompletion_Bash(t *testing.T) {
	stdout, _, err := executeCommand("completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bash completion")
}

func TestCompletion_Zsh(t *testing.T) {
	stdout, _, err := executeCommand("completion", "zsh")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
}

func TestCompletion_InvalidShell(t *testing.T) {
	_, _, err := executeCommand("completion", "invalid")
	require.Error(t, err)
}

func TestCompletion_NoArgs(t *testing.T) {
	_, _, err := executeCommand("completion")
	require.Error(t, err)
}
