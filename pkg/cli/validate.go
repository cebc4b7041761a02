package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/vector"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <vectors-file>",
		Short: "Check a test vector file for structural problems",
		Long: `Validate the structure of a test vector file without running it:
required versions and IDs, step payloads, assertion types and
tolerances. Execution-time failures, such as unknown step actions,
are reported by run, not here.`,
		Args: exactArgsWithUsage(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateVectors(args[0], cmd)
		},
	}
}

func runValidateVectors(path string, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	findings := vector.ValidateFile(path)
	if len(findings) == 0 {
		fmt.Fprintf(out, "✓ %s is structurally valid\n", path)
		return nil
	}

	fmt.Fprintf(out, "✗ %s has %d problem(s)\n\n", path, len(findings))
	for _, finding := range findings {
		fmt.Fprintf(out, "  %s\n", finding.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf(
		"validation failed with %d problem(s)", len(findings),
	))
}
