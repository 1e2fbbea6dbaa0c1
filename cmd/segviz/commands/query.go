package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/segviz/pkg/observability"
)

const (
	queryCmdUse   = "query LOW HIGH"
	queryCmdShort = "Aggregate a segment of the array with the query function"
	queryArgCount = 2
)

// queryResult is the --json output of the query command.
type queryResult struct {
	Function string  `json:"function"`
	Array    []int64 `json:"array"`
	Low      int     `json:"low"`
	High     int     `json:"high"`
	Result   int64   `json:"result"`
}

// NewQueryCommand creates the query subcommand.
func NewQueryCommand(opts *GlobalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   queryCmdUse,
		Short: queryCmdShort,
		Args:  cobra.ExactArgs(queryArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			low, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("low: %w", err)
			}

			high, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("high: %w", err)
			}

			rt, err := opts.start(cmd, observability.ModeCLI, "")
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			res := queryResult{
				Function: rt.viz.FunctionName(),
				Array:    rt.viz.Array(),
				Low:      low,
				High:     high,
				Result:   rt.viz.Query(cmd.Context(), low, high),
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(res)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Result)

			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the query with its inputs as JSON")

	return cmd
}
