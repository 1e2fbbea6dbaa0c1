package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/arrayfile"
	"github.com/Sumatoshi-tech/segviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

// Sentinel errors for argument handling.
var (
	// ErrInvalidArgument indicates an argument that is not a valid integer.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidZoom indicates a zoom argument that is neither in, out nor a number.
	ErrInvalidZoom = errors.New("zoom takes in, out or a level")
	// ErrUnknownNode indicates a node ID that does not exist in the tree.
	ErrUnknownNode = errors.New("no such node")
)

const (
	zoomIn        = "in"
	zoomOut       = "out"
	renderPerm    = 0o600
	indexFlag     = "--index"
	indexShort    = "-i"
	indexLegacy   = "-index"
	renderArgsMin = 1
	renderArgsMax = 2
)

// newRootCommand builds a fresh command tree so no flag state survives
// between lines.
func (s *Shell) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "segviz",
		Short:         "Interactive segment tree commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(s.out)
	root.SetErr(s.out)
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		s.insertCmd(), s.removeCmd(), s.extendCmd(), s.replaceCmd(),
		s.updateCmd(), s.updateRangeCmd(), s.queryCmd(), s.propagateCmd(),
		s.clearCmd(), s.homeCmd(), s.queryFnCmd(), s.listQueryFnCmd(),
		s.zoomCmd(), s.panCmd(), s.highlightRangeCmd(),
		s.viewArrayCmd(), s.viewNodeDataCmd(), s.viewNodeInfoCmd(), s.nodeCmd(),
		s.showCmd(), s.renderCmd(), s.historyCmd(), s.exitCmd(),
	)
	root.InitDefaultHelpCmd()

	return root
}

// numericCmd builds a command whose arguments may be negative numbers, so
// flag parsing is off.
func numericCmd(use, short string, args cobra.PositionalArgs, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Short:              short,
		Args:               args,
		DisableFlagParsing: true,
		RunE:               run,
	}
}

// mutating wraps run so the array diff is printed after it succeeds.
func (s *Shell) mutating(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		before := s.viz.Array()

		err := run(cmd, args)
		if err != nil {
			return err
		}

		if diff := ArrayDiff(s.term, before, s.viz.Array()); diff != "" {
			s.println(diff)
		}

		return nil
	}
}

func (s *Shell) insertCmd() *cobra.Command {
	return numericCmd("insert VALUE [INDEX]",
		"Insert an element at an index, or at the end if no index is given",
		cobra.RangeArgs(1, 2),
		s.mutating(func(cmd *cobra.Command, args []string) error {
			value, err := parseInt64("value", args[0])
			if err != nil {
				return err
			}

			index, err := optionalIndex(args, 1)
			if err != nil {
				return err
			}

			return s.viz.Insert(cmd.Context(), value, index)
		}))
}

func (s *Shell) removeCmd() *cobra.Command {
	return numericCmd("remove [INDEX]",
		"Remove the element at an index, or the last element if no index is given",
		cobra.MaximumNArgs(1),
		s.mutating(func(cmd *cobra.Command, args []string) error {
			index, err := optionalIndex(args, 0)
			if err != nil {
				return err
			}

			return s.viz.Remove(cmd.Context(), index)
		}))
}

func (s *Shell) extendCmd() *cobra.Command {
	return numericCmd("extend VALUES... [-i INDEX]",
		"Append a sequence of numbers, or insert it at an index",
		cobra.MinimumNArgs(1),
		s.mutating(func(cmd *cobra.Command, args []string) error {
			fields, index, err := splitIndexFlag(args)
			if err != nil {
				return err
			}

			values, err := arrayfile.ParseValues(fields)
			if err != nil {
				return err
			}

			return s.viz.Extend(cmd.Context(), values, index)
		}))
}

func (s *Shell) replaceCmd() *cobra.Command {
	return numericCmd("replace INDEX VALUE",
		"Replace the element at an index with a value",
		cobra.ExactArgs(2),
		s.mutating(func(cmd *cobra.Command, args []string) error {
			index, err := parseInt("index", args[0])
			if err != nil {
				return err
			}

			value, err := parseInt64("value", args[1])
			if err != nil {
				return err
			}

			return s.viz.Replace(cmd.Context(), index, value)
		}))
}

func (s *Shell) updateCmd() *cobra.Command {
	return numericCmd("update VALUE INDEX",
		"Set the element at an index to a value",
		cobra.ExactArgs(2),
		s.mutating(func(cmd *cobra.Command, args []string) error {
			value, err := parseInt64("value", args[0])
			if err != nil {
				return err
			}

			index, err := parseInt("index", args[1])
			if err != nil {
				return err
			}

			return s.viz.Update(cmd.Context(), index, value)
		}))
}

func (s *Shell) updateRangeCmd() *cobra.Command {
	return numericCmd("update-range LOW HIGH VALUE",
		"Add a value to every element of a segment",
		cobra.ExactArgs(3),
		s.mutating(func(cmd *cobra.Command, args []string) error {
			bounds, err := parseInts(args[:2], "low", "high")
			if err != nil {
				return err
			}

			value, err := parseInt64("value", args[2])
			if err != nil {
				return err
			}

			return s.viz.UpdateRange(cmd.Context(), bounds[0], bounds[1], value)
		}))
}

func (s *Shell) queryCmd() *cobra.Command {
	return numericCmd("query LOW HIGH",
		"Aggregate the elements of a segment with the query function",
		cobra.ExactArgs(2),
		func(cmd *cobra.Command, args []string) error {
			bounds, err := parseInts(args, "low", "high")
			if err != nil {
				return err
			}

			result := s.viz.Query(cmd.Context(), bounds[0], bounds[1])
			s.println(s.term.Result(strconv.FormatInt(result, 10)))

			return nil
		})
}

func (s *Shell) propagateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "propagate",
		Short: "Push every pending lazy value down to the leaves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s.viz.PropagateAll(cmd.Context())

			return nil
		},
	}
}

func (s *Shell) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every element",
		Args:  cobra.NoArgs,
		RunE: s.mutating(func(cmd *cobra.Command, _ []string) error {
			return s.viz.Clear(cmd.Context())
		}),
	}
}

func (s *Shell) homeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Move the tree back to the center of the view",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s.viz.Home()

			return nil
		},
	}
}

func (s *Shell) queryFnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query-fn NAME",
		Short: "Change the query function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.viz.SwitchFunction(cmd.Context(), args[0])
		},
	}
}

func (s *Shell) listQueryFnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-queryfn",
		Short: "List the available query functions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s.println(s.term.FunctionTable(s.viz.Functions(), s.viz.FunctionName()))

			return nil
		},
	}
}

func (s *Shell) zoomCmd() *cobra.Command {
	return numericCmd("zoom in|out|LEVEL",
		"Zoom the view one step in or out, or to a level",
		cobra.ExactArgs(1),
		func(_ *cobra.Command, args []string) error {
			var zoom float64

			switch args[0] {
			case zoomIn:
				zoom = s.viz.Zoom(1)
			case zoomOut:
				zoom = s.viz.Zoom(-1)
			default:
				level, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("%w: %q", ErrInvalidZoom, args[0])
				}

				zoom = s.viz.SetZoom(level)
			}

			s.println(s.term.Result(fmt.Sprintf("zoom %.2f", zoom)))

			return nil
		})
}

func (s *Shell) panCmd() *cobra.Command {
	return numericCmd("pan DX DY",
		"Move the tree by a screen offset",
		cobra.ExactArgs(2),
		func(_ *cobra.Command, args []string) error {
			delta, err := parseInts(args, "dx", "dy")
			if err != nil {
				return err
			}

			s.viz.Pan(delta[0], delta[1])

			return nil
		})
}

func (s *Shell) highlightRangeCmd() *cobra.Command {
	return numericCmd("highlight-range [LOW] [HIGH]",
		"Highlight the nodes whose segments lie within a range; no range clears it",
		cobra.MaximumNArgs(2),
		func(_ *cobra.Command, args []string) error {
			bounds := []int{-1, -1}

			for i, name := range []string{"low", "high"} {
				if i >= len(args) {
					break
				}

				v, err := parseInt(name, args[i])
				if err != nil {
					return err
				}

				bounds[i] = v
			}

			s.viz.Highlight(bounds[0], bounds[1])

			return nil
		})
}

func (s *Shell) viewArrayCmd() *cobra.Command {
	return s.toggleCmd("view-array", "Toggle the visibility of the array", &s.term.ShowArray)
}

func (s *Shell) viewNodeDataCmd() *cobra.Command {
	return s.toggleCmd("view-node-data", "Toggle the visibility of node data", &s.term.ShowNodeData)
}

func (s *Shell) viewNodeInfoCmd() *cobra.Command {
	return s.toggleCmd("view-node-info", "Toggle the visibility of node info", &s.showNodeInfo)
}

func (s *Shell) toggleCmd(use, short string, flag *bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			*flag = !*flag

			state := "hidden"
			if *flag {
				state = "visible"
			}

			s.println(s.term.Result(use + ": " + state))

			return nil
		},
	}
}

func (s *Shell) nodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "node ID",
		Short: "Show the info of a node by its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if !s.showNodeInfo {
				return nil
			}

			id, err := parseInt("id", args[0])
			if err != nil {
				return err
			}

			view, ok := s.viz.Scene().Node(id)
			if !ok {
				return fmt.Errorf("%w: %d", ErrUnknownNode, id)
			}

			s.println(s.term.NodeInfo(view))

			return nil
		},
	}
}

func (s *Shell) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the array and the laid-out nodes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return s.term.RenderScene(s.out, s.viz.Scene())
		},
	}
}

func (s *Shell) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render FORMAT [PATH]",
		Short: "Write the scene as html, json, yaml or text to a file or the terminal",
		Args:  cobra.RangeArgs(renderArgsMin, renderArgsMax),
		RunE: func(_ *cobra.Command, args []string) error {
			format, err := scene.ValidateFormat(args[0], scene.Formats())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return s.writeScene(s.out, format)
			}

			f, err := os.OpenFile(args[1], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, renderPerm)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}

			err = s.writeScene(f, format)

			closeErr := f.Close()
			if err != nil {
				return err
			}

			if closeErr != nil {
				return fmt.Errorf("close output: %w", closeErr)
			}

			s.println(s.term.Result("wrote " + args[1]))

			return nil
		},
	}
}

func (s *Shell) writeScene(w io.Writer, format string) error {
	snapshot := s.viz.Scene()

	switch format {
	case scene.FormatHTML:
		return plotpage.WriteScene(w, snapshot, s.theme)
	case scene.FormatText:
		return s.term.RenderScene(w, snapshot)
	default:
		return scene.Encode(w, snapshot, format)
	}
}

func (s *Shell) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the recent commands",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for i, line := range s.history.Entries() {
				s.printf("%4d  %s\n", i+1, line)
			}

			return nil
		},
	}
}

func (s *Shell) exitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "exit",
		Aliases: []string{"quit"},
		Short:   "Leave the shell",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s.exited = true

			return nil
		},
	}
}

func parseInt64(name, arg string) (int64, error) {
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidArgument, name, arg)
	}

	return v, nil
}

func parseInt(name, arg string) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidArgument, name, arg)
	}

	return v, nil
}

func parseInts(args []string, names ...string) ([]int, error) {
	values := make([]int, len(args))

	for i, arg := range args {
		v, err := parseInt(names[i], arg)
		if err != nil {
			return nil, err
		}

		values[i] = v
	}

	return values, nil
}

// optionalIndex parses args[pos] as an index, or returns segtree.EndIndex
// when it is absent.
func optionalIndex(args []string, pos int) (int, error) {
	if pos >= len(args) {
		return segtree.EndIndex, nil
	}

	return parseInt("index", args[pos])
}

// splitIndexFlag removes "-i N", "--index N", "-index N" or "--index=N"
// from args and returns the remaining values with the index.
func splitIndexFlag(args []string) ([]string, int, error) {
	values := make([]string, 0, len(args))
	index := segtree.EndIndex

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if value, ok := strings.CutPrefix(arg, indexFlag+"="); ok {
			v, err := parseInt("index", value)
			if err != nil {
				return nil, 0, err
			}

			index = v

			continue
		}

		if arg != indexShort && arg != indexFlag && arg != indexLegacy {
			values = append(values, arg)

			continue
		}

		if i+1 >= len(args) {
			return nil, 0, fmt.Errorf("%w: %s needs a value", ErrInvalidArgument, arg)
		}

		v, err := parseInt("index", args[i+1])
		if err != nil {
			return nil, 0, err
		}

		index = v
		i++
	}

	return values, index, nil
}
