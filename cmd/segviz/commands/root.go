// Package commands implements the segviz subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/segviz/pkg/arrayfile"
	"github.com/Sumatoshi-tech/segviz/pkg/config"
	"github.com/Sumatoshi-tech/segviz/pkg/observability"
	"github.com/Sumatoshi-tech/segviz/pkg/render/terminal"
	"github.com/Sumatoshi-tech/segviz/pkg/version"
	"github.com/Sumatoshi-tech/segviz/pkg/visualizer"
)

// Global flag names.
const (
	flagConfig    = "config"
	flagArray     = "array"
	flagArrayFile = "array-file"
	flagFunction  = "function"
	flagVerbose   = "verbose"
	flagQuiet     = "quiet"
)

// ErrArraySources is returned when both --array and --array-file are given.
var ErrArraySources = errors.New("--array and --array-file are mutually exclusive")

// GlobalOptions holds the persistent flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath string
	Array      string
	ArrayFile  string
	Function   string
	Verbose    bool
	Quiet      bool
}

// Register binds the options to the persistent flags of root.
func (o *GlobalOptions) Register(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&o.ConfigPath, flagConfig, "", "config file (default: segviz.yaml in ., ./config or ~/.config/segviz)")
	flags.StringVar(&o.Array, flagArray, "", "initial array as a list, e.g. \"1,3,-2,8,-7\"")
	flags.StringVar(&o.ArrayFile, flagArrayFile, "", "JSON file holding the initial array (- reads stdin)")
	flags.StringVar(&o.Function, flagFunction, "", "query function name (default: add_f)")
	flags.BoolVarP(&o.Verbose, flagVerbose, "v", false, "verbose output")
	flags.BoolVarP(&o.Quiet, flagQuiet, "q", false, "suppress output")
}

// runtime is the state a subcommand runs against.
type runtime struct {
	cfg         *config.Config
	providers   observability.Providers
	metrics     *observability.REDMetrics
	viz         *visualizer.Visualizer
	diagnostics *observability.DiagnosticsServer
}

// start loads the configuration, initializes telemetry and builds the
// visualizer. metricsAddr, when set, serves Prometheus metrics.
func (o *GlobalOptions) start(cmd *cobra.Command, mode observability.AppMode, metricsAddr string) (*runtime, error) {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	if metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = metricsAddr
	}

	obsCfg := cfg.Observability(mode, version.Version)

	switch {
	case o.Verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case o.Quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	if mode == observability.ModeMCP {
		obsCfg.LogJSON = true
	}

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	rt := &runtime{cfg: cfg, providers: providers}

	err = rt.init(cmd, o)
	if err != nil {
		rt.close(cmd.Context())

		return nil, err
	}

	return rt, nil
}

func (rt *runtime) init(cmd *cobra.Command, o *GlobalOptions) error {
	red, err := observability.NewREDMetrics(rt.providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	rt.metrics = red

	array, function, err := o.resolveInput(rt.cfg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	viz, err := visualizer.New(visualizer.Options{
		Array:     array,
		Function:  function,
		Layout:    rt.cfg.Layout.Engine(),
		Transform: rt.cfg.View.Transform(),
		Logger:    rt.providers.Logger,
		Metrics:   red,
		Tracer:    rt.providers.Tracer,
	})
	if err != nil {
		return err
	}

	rt.viz = viz

	if addr := rt.cfg.Telemetry.MetricsAddr; addr != "" {
		diag, diagErr := observability.NewDiagnosticsServer(addr, rt.providers.MetricsHandler, rt.providers.Tracer, rt.providers.Logger)
		if diagErr != nil {
			return diagErr
		}

		rt.diagnostics = diag
		rt.providers.Logger.InfoContext(cmd.Context(), "serving metrics", slog.String("addr", diag.Addr()))
	}

	return nil
}

// resolveInput picks the initial array and function. Flags win over the
// array file, which wins over the configuration.
func (o *GlobalOptions) resolveInput(cfg *config.Config, stdin io.Reader) ([]int64, string, error) {
	if o.Array != "" && o.ArrayFile != "" {
		return nil, "", ErrArraySources
	}

	array := cfg.Tree.Array
	if len(array) == 0 {
		array = config.DefaultArray()
	}

	function := cfg.Tree.Function

	switch {
	case o.ArrayFile != "":
		input, err := arrayfile.LoadFile(o.ArrayFile, stdin)
		if err != nil {
			return nil, "", err
		}

		array = input.Array
		if input.Function != "" {
			function = input.Function
		}
	case o.Array != "":
		values, err := arrayfile.ParseList(o.Array)
		if err != nil {
			return nil, "", err
		}

		array = values
	}

	if o.Function != "" {
		function = o.Function
	}

	return array, function, nil
}

// terminal returns the renderer settings from the shell configuration.
func (rt *runtime) terminal() terminal.Config {
	term := terminal.NewConfig()
	term.NoColor = term.NoColor || !rt.cfg.Shell.Color
	term.ShowArray = rt.cfg.Shell.ShowArray
	term.ShowNodeData = rt.cfg.Shell.ShowNodeData
	term.MinZoom = rt.cfg.View.MinZoom
	term.MaxZoom = rt.cfg.View.MaxZoom

	return term
}

func (rt *runtime) close(ctx context.Context) {
	if rt.diagnostics != nil {
		err := rt.diagnostics.Close()
		if err != nil {
			rt.providers.Logger.Warn("diagnostics shutdown failed", "error", err)
		}
	}

	err := rt.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		rt.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// createOutput opens path for writing, or returns stdout when path is empty.
func createOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputPerm)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	return f, f.Close, nil
}

// NewRootCommand creates the segviz root command with every subcommand
// except version.
func NewRootCommand() *cobra.Command {
	opts := &GlobalOptions{}

	root := &cobra.Command{
		Use:   "segviz",
		Short: "Segment tree visualizer",
		Long: `segviz builds a segment tree over an integer array, lays it out with the
Reingold-Tilford algorithm and shows it in the terminal, as an HTML page or
over MCP.

Commands:
  query      Aggregate a segment
  render     Write the laid-out tree as html, json, yaml or text
  shell      Interactive session
  mcp        MCP stdio server
  functions  List query functions`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.Register(root)

	root.AddCommand(
		NewQueryCommand(opts),
		NewRenderCommand(opts),
		NewShellCommand(opts),
		NewMCPCommand(opts),
		NewFunctionsCommand(opts),
	)

	return root
}
