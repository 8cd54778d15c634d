package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a re-validation.
// It returns the validation result for filter change tracking.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the output of a single validation run so the watcher can
// report counts and filter set changes.
type RunResult struct {
	// Screens is the number of (kind, subtype) pairs declared.
	Screens int
	// Filters is the total number of declared filters.
	Filters int
	// Changes are the filter set changes since the previous run.
	Changes []FilterChange
}

// Options configures the watch behaviour.
type Options struct {
	// DefinitionsFile is the filter definitions file to watch. Its parent
	// directory is watched so editor rename-replace saves are caught.
	DefinitionsFile string

	// ExtraFiles are additional files to watch (e.g. the config file
	// carrying overrides).
	ExtraFiles []string

	// Debounce is the quiet period before triggering a re-validation.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	defsPath, err := filepath.Abs(opts.DefinitionsFile)
	if err != nil {
		return fmt.Errorf("resolving definitions file %q: %w", opts.DefinitionsFile, err)
	}

	// Watch the parent directory, not the file itself, so the watch
	// survives editors that save via rename-replace.
	if err := watcher.Add(filepath.Dir(defsPath)); err != nil {
		return fmt.Errorf("watching definitions directory: %w", err)
	}

	watched := map[string]bool{defsPath: true}

	for _, f := range opts.ExtraFiles {
		abs, absErr := filepath.Abs(f)
		if absErr != nil {
			return fmt.Errorf("resolving extra file %q: %w", f, absErr)
		}

		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching file %q: %w", abs, err)
		}

		watched[abs] = true
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", opts.DefinitionsFile, opts.Debounce)

	// Initial validation.
	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		doRun(sigCtx, opts, runFn, path)
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event) {
				continue
			}

			// Directory watches see sibling files too; only react to the
			// files we were asked to track.
			abs, absErr := filepath.Abs(event.Name)
			if absErr != nil || !watched[abs] {
				continue
			}

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single validation run and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d screens, %d filters)\n",
		now, trigger, result.Screens, result.Filters)

	if len(result.Changes) > 0 {
		fmt.Fprintf(opts.Out, "  filters: %s\n", FilterDiffSummary(result.Changes))
	}
}

// isRelevant filters out events that can never affect the watched files.
func isRelevant(event fsnotify.Event) bool {
	if event.Op == 0 {
		return false
	}

	// Only care about write, create, remove, rename.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	// Ignore editor temporary files and hidden files.
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	return true
}
