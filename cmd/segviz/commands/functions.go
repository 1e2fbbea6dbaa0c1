package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/segviz/pkg/observability"
)

// NewFunctionsCommand creates the functions subcommand.
func NewFunctionsCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the available query functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.start(cmd, observability.ModeCLI, "")
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rt.terminal().FunctionTable(rt.viz.Functions(), rt.viz.FunctionName()))

			return err
		},
	}
}
