package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/assertion"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/logging"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered implementations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	registry := opts.registry()
	err := installImplementations(
		registry, assertion.NewEngine(), logging.NullLogger{},
	)
	if err != nil {
		return WrapExitError(ExitCommandError,
			"install built-in implementations", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tLANGUAGE\tLICENSE")
	for _, registration := range registry.List() {
		info := registration.Info
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			info.Name, info.Version, info.Language, info.License)
	}
	return w.Flush()
}
