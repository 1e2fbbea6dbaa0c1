package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/segviz/pkg/mcp"
	"github.com/Sumatoshi-tech/segviz/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(opts *GlobalOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes one segment tree as tools that AI agents can discover
and invoke:
  - segtree_query: aggregate a segment with the query function
  - segtree_update: set one element
  - segtree_update_range: add a value to a segment lazily
  - segtree_edit: insert, remove, extend, replace or clear
  - segtree_function: list or switch query functions
  - segtree_scene: the laid-out tree as json, yaml, text or html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.start(cmd, observability.ModeMCP, metricsAddr)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			srv, err := mcp.NewServer(mcp.ServerDeps{
				Visualizer: rt.viz,
				Logger:     rt.providers.Logger,
				Metrics:    rt.metrics,
				Tracer:     rt.providers.Tracer,
			})
			if err != nil {
				return err
			}

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", metricsAddrUsage)

	return cmd
}
