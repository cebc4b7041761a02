// Package cli implements the aifeels-conformance command line
// interface on top of cobra: running suites, listing registered
// implementations and validating vector files.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	EnvFile string
	LogsDir string

	// Registry allows overriding the implementation registry (for
	// testing). If nil, commands resolve against subject.Default.
	Registry subject.Registry
}

func (o *RootOptions) registry() subject.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return subject.Default
}

// NewRootCommand creates the root command for the conformance CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aifeels-conformance",
		Short: "Conformance test suite for aifeels implementations",
		Long: `Drives aifeels implementations through declarative test vectors and
produces conformance reports.

Implementations run in process when registered with the harness, or
behind an HTTP service connected with --remote.`,
		// Execute prints errors exactly once; usage is shown only
		// for positional-argument mistakes (see exactArgsWithUsage).
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"verbose output")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "",
		"env file with AIFEELS_* settings (default .env when present)")
	cmd.PersistentFlags().StringVar(&opts.LogsDir, "logs-dir", "",
		"directory for harness log files (default AIFEELS_LOGS_DIR or logs)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// Execute runs the root command under ctx and maps the result to a
// process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// exactArgsWithUsage validates the positional argument count,
// printing the command usage to stderr when it is wrong. Runtime
// failures stay usage-free.
func exactArgsWithUsage(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
			return err
		}
		return nil
	}
}
