package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/segviz/pkg/observability"
	"github.com/Sumatoshi-tech/segviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

const (
	renderCmdUse      = "render"
	renderCmdShort    = "Render the laid-out segment tree as html, json, yaml or text"
	renderOutputFlag  = "output"
	renderOutputShort = "o"
	renderOutputUsage = "output file (default: stdout)"
	outputPerm        = 0o600
	highlightBounds   = 2
)

// ErrHighlightBounds is returned when --highlight is not a LOW,HIGH pair.
var ErrHighlightBounds = errors.New("--highlight takes exactly LOW,HIGH")

// NewRenderCommand creates the render subcommand.
func NewRenderCommand(opts *GlobalOptions) *cobra.Command {
	var (
		format    string
		output    string
		theme     string
		highlight []int
		zoom      float64
	)

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			validated, err := scene.ValidateFormat(format, scene.Formats())
			if err != nil {
				return err
			}

			if highlight != nil && len(highlight) != highlightBounds {
				return ErrHighlightBounds
			}

			rt, err := opts.start(cmd, observability.ModeCLI, "")
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			if highlight != nil {
				rt.viz.Highlight(highlight[0], highlight[1])
			}

			if cmd.Flags().Changed("zoom") {
				rt.viz.SetZoom(zoom)
			}

			w, closeFn, err := createOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			snapshot := rt.viz.Scene()

			switch validated {
			case scene.FormatHTML:
				err = plotpage.WriteScene(w, snapshot, plotpage.ParseTheme(theme))
			case scene.FormatText:
				err = rt.terminal().RenderScene(w, snapshot)
			default:
				err = scene.Encode(w, snapshot, validated)
			}

			closeErr := closeFn()
			if err != nil {
				return err
			}

			if closeErr != nil {
				return fmt.Errorf("close output: %w", closeErr)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", scene.FormatHTML, "output format: html, json, yaml, text")
	cmd.Flags().StringVarP(&output, renderOutputFlag, renderOutputShort, "", renderOutputUsage)
	cmd.Flags().StringVar(&theme, "theme", string(plotpage.ThemeDark), "html theme: dark or light")
	cmd.Flags().IntSliceVar(&highlight, "highlight", nil, "highlight the nodes within LOW,HIGH")
	cmd.Flags().Float64Var(&zoom, "zoom", 0, "zoom level")

	return cmd
}
