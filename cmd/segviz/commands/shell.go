package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/segviz/pkg/observability"
	"github.com/Sumatoshi-tech/segviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/segviz/pkg/shell"
)

const metricsAddrUsage = "serve Prometheus /metrics and /healthz on this address"

// NewShellCommand creates the interactive shell subcommand.
func NewShellCommand(opts *GlobalOptions) *cobra.Command {
	var (
		metricsAddr string
		theme       string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive segment tree session",
		Long: `Start an interactive session reading commands from stdin.

Type "help" for the command list. Array-changing commands print a diff of
the array; "show" prints the laid-out tree and "render html out.html" writes
the interactive page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.start(cmd, observability.ModeShell, metricsAddr)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			sh := shell.New(rt.viz, cmd.OutOrStdout(), shell.Options{
				Prompt:      rt.cfg.Shell.Prompt,
				HistorySize: rt.cfg.Shell.HistorySize,
				Terminal:    rt.terminal(),
				Theme:       plotpage.ParseTheme(theme),
				Logger:      rt.providers.Logger,
			})

			return sh.Run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", metricsAddrUsage)
	cmd.Flags().StringVar(&theme, "theme", string(plotpage.ThemeDark), "theme of rendered html pages: dark or light")

	return cmd
}
