package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/listfilter/internal/config"
	"github.com/hupe1980/listfilter/internal/logging"
	"github.com/hupe1980/listfilter/internal/watch"
	"github.com/hupe1980/listfilter/pkg/listfilter"
)

type watchOptions struct {
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <definitions-file>",
		Short: "Watch a definitions file and re-validate on change",
		Long: `Watch monitors a filter definitions file (and the config file, when
one is in use) and re-validates it whenever it is saved.

File changes are debounced to avoid rapid re-runs. Each run reports
screen and filter counts plus any filter set changes (filters added,
removed, or relabeled) since the previous run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string, opts *watchOptions) error {
	// Track the previous document for change detection across runs.
	var prev *listfilter.Definitions

	runFn := func(_ context.Context) (*watch.RunResult, error) {
		defs, err := loadDefinitions(cmd, path)
		if err != nil {
			return nil, err
		}

		var changes []watch.FilterChange
		if prev != nil {
			changes = watch.FilterDiff(prev, defs)
		}

		prev = defs

		screens, filters := 0, 0
		for _, s := range defs.Screens {
			screens += len(s.Subtypes)
			filters += len(s.Filters)
		}

		return &watch.RunResult{
			Screens: screens,
			Filters: filters,
			Changes: changes,
		}, nil
	}

	watchOpts := watch.DefaultOptions()
	watchOpts.DefinitionsFile = path
	watchOpts.Debounce = opts.debounce
	watchOpts.Logger = logging.FromContext(ctx)
	watchOpts.Out = cmd.ErrOrStderr()

	if cfg := config.FromContext(ctx); cfg.ConfigFile != "" {
		watchOpts.ExtraFiles = []string{cfg.ConfigFile}
	}

	return watch.Run(ctx, watchOpts, runFn)
}
