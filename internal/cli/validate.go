package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type validateOptions struct {
	strict bool
}

func newValidateCommand() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <definitions-file>",
		Short: "Validate a filter definitions file",
		Long: `Validate a filter definitions file: YAML syntax, screen kinds,
filter keys, option values, and the host version constraint.

Reports all problems found. Returns exit code 7 on validation failure
(or on warnings with --strict).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on warnings in addition to errors")

	return cmd
}

func runValidate(cmd *cobra.Command, filePath string, opts *validateOptions) error {
	defs, err := loadDefinitions(cmd, filePath)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)

		return &ExitError{Code: 7, Err: err}
	}

	warnings := lintDefinitions(defs)
	for _, w := range warnings {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	if opts.strict && len(warnings) > 0 {
		return &ExitError{Code: 7, Err: fmt.Errorf("validation failed with %d warning(s) (strict mode)", len(warnings))}
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed.")

	return nil
}
