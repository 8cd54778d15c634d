package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/listfilter/pkg/listfilter"
)

// ---------------------------------------------------------------------------
// Debouncer
// ---------------------------------------------------------------------------

func TestDebouncer_CoalescesRapidEvents(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)

	d := NewDebouncer(50*time.Millisecond, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, path)
	})
	defer d.Stop()

	d.Trigger("a.yaml")
	d.Trigger("b.yaml")
	d.Trigger("c.yaml")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"c.yaml"}, calls, "only the last path fires")
}

func TestDebouncer_Stop(t *testing.T) {
	var fired atomic.Bool

	d := NewDebouncer(50*time.Millisecond, func(string) {
		fired.Store(true)
	})

	d.Trigger("a.yaml")
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.False(t, fired.Load())
}

// ---------------------------------------------------------------------------
// Event filtering
// ---------------------------------------------------------------------------

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: "filters.yaml", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "filters.yaml", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "filters.yaml", Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: "filters.yaml", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "filters.yaml", Op: fsnotify.Chmod}, false},
		{"no op", fsnotify.Event{Name: "filters.yaml"}, false},
		{"hidden file", fsnotify.Event{Name: ".filters.yaml.tmp", Op: fsnotify.Write}, false},
		{"editor backup", fsnotify.Event{Name: "filters.yaml~", Op: fsnotify.Write}, false},
		{"vim swap", fsnotify.Event{Name: "filters.yaml.swp", Op: fsnotify.Write}, false},
		{"emacs autosave", fsnotify.Event{Name: "#filters.yaml#", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevant(tt.event))
		})
	}
}

// ---------------------------------------------------------------------------
// FilterDiff
// ---------------------------------------------------------------------------

func defsWith(t *testing.T, yaml string) *listfilter.Definitions {
	t.Helper()

	defs, err := listfilter.LoadDefinitions([]byte(yaml))
	require.NoError(t, err)

	return defs
}

func TestFilterDiff(t *testing.T) {
	prev := defsWith(t, `
screens:
  - kind: content
    subtypes: [post]
    filters:
      - key: status
        label: Status
      - key: legacy
`)

	curr := defsWith(t, `
screens:
  - kind: content
    subtypes: [post]
    filters:
      - key: status
        label: State
      - key: genre
        taxonomy: genre
`)

	changes := FilterDiff(prev, curr)
	require.Len(t, changes, 3)

	byKind := map[string]FilterChange{}
	for _, c := range changes {
		byKind[c.Kind] = c
	}

	assert.Equal(t, "content/post:legacy", byKind["removed"].Filter)
	assert.Equal(t, "content/post:genre", byKind["added"].Filter)
	assert.Equal(t, "taxonomy genre", byKind["added"].Detail)
	assert.Equal(t, `"Status" -> "State"`, byKind["label-changed"].Detail)
}

func TestFilterDiff_NilPrevious(t *testing.T) {
	curr := defsWith(t, `
screens:
  - kind: user
    subtypes: [users]
    filters:
      - key: role
`)

	changes := FilterDiff(nil, curr)
	require.Len(t, changes, 1)
	assert.Equal(t, "added", changes[0].Kind)
}

func TestFilterDiffSummary(t *testing.T) {
	assert.Equal(t, "no filter changes", FilterDiffSummary(nil))

	changes := []FilterChange{
		{Kind: "added"},
		{Kind: "added"},
		{Kind: "removed"},
		{Kind: "label-changed"},
	}
	assert.Equal(t, "+2 filter(s) added, -1 filter(s) removed, ~1 label(s) changed", FilterDiffSummary(changes))
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func writeDefs(t *testing.T, path string) {
	t.Helper()

	content := "screens:\n  - kind: content\n    subtypes: [post]\n    filters:\n      - key: status\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestRun_InitialValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.yaml")
	writeDefs(t, path)

	ctx, cancel := context.WithCancel(context.Background())

	var out bytes.Buffer
	var runs atomic.Int32

	opts := DefaultOptions()
	opts.DefinitionsFile = path
	opts.Out = &out

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, opts, func(context.Context) (*RunResult, error) {
			runs.Add(1)
			return &RunResult{Screens: 1, Filters: 1}, nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, out.String(), "1 screens, 1 filters")
}

func TestRun_RetriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.yaml")
	writeDefs(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32

	opts := DefaultOptions()
	opts.DefinitionsFile = path
	opts.Debounce = 20 * time.Millisecond
	opts.Out = &bytes.Buffer{}

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, opts, func(context.Context) (*RunResult, error) {
			runs.Add(1)
			return &RunResult{Screens: 1, Filters: 1}, nil
		})
	}()

	// Wait for the initial run, then touch the file.
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	writeDefs(t, path)

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRun_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.yaml")
	writeDefs(t, path)

	ctx, cancel := context.WithCancel(context.Background())

	var out bytes.Buffer
	var runs atomic.Int32

	opts := DefaultOptions()
	opts.DefinitionsFile = path
	opts.Out = &out

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, opts, func(context.Context) (*RunResult, error) {
			runs.Add(1)
			return nil, assert.AnError
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, out.String(), "ERROR")
}
