// Package shell implements the interactive segviz command line.
//
// Each input line is split on whitespace and dispatched to a cobra command
// tree bound to one visualizer. Command errors are printed and the loop
// continues; only end of input or the exit command stop it.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/segviz/pkg/levenshtein"
	"github.com/Sumatoshi-tech/segviz/pkg/observability"
	"github.com/Sumatoshi-tech/segviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/segviz/pkg/render/terminal"
	"github.com/Sumatoshi-tech/segviz/pkg/visualizer"
)

// Defaults.
const (
	DefaultPrompt      = "segviz> "
	DefaultHistorySize = 100

	maxSuggestDistance = 2
)

// ErrUnknownCommand is returned for a line naming no command.
var ErrUnknownCommand = errors.New("command doesn't exist")

// Options configures a Shell. Zero-value fields use defaults.
type Options struct {
	Prompt      string
	HistorySize int
	Terminal    terminal.Config
	Theme       plotpage.Theme
	Logger      *slog.Logger
}

// Shell is an interactive session over one visualizer.
type Shell struct {
	viz     *visualizer.Visualizer
	out     io.Writer
	term    terminal.Config
	theme   plotpage.Theme
	prompt  string
	history *History
	logger  *slog.Logger

	showNodeInfo bool
	exited       bool
}

// New creates a shell writing to out.
func New(viz *visualizer.Visualizer, out io.Writer, opts Options) *Shell {
	s := &Shell{
		viz:          viz,
		out:          out,
		term:         opts.Terminal,
		theme:        opts.Theme,
		prompt:       opts.Prompt,
		history:      NewHistory(opts.HistorySize),
		logger:       opts.Logger,
		showNodeInfo: true,
	}

	if s.prompt == "" {
		s.prompt = DefaultPrompt
	}

	if opts.HistorySize == 0 {
		s.history = NewHistory(DefaultHistorySize)
	}

	if s.theme == "" {
		s.theme = plotpage.ThemeDark
	}

	if s.logger == nil {
		s.logger = observability.DiscardLogger()
	}

	return s
}

// Run reads lines from in until end of input, the exit command or ctx is done.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for !s.exited {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.printf("%s", s.prompt)

		if !scanner.Scan() {
			break
		}

		err := s.Execute(ctx, scanner.Text())
		if err != nil {
			s.println(s.term.Error(err))
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	return nil
}

// Execute runs one command line. Blank lines are ignored.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	s.history.Add(strings.Join(args, " "))

	root := s.newRootCommand()
	if cmd, _, err := root.Find(args); err != nil || cmd == root {
		return unknownCommand(root, args[0])
	}

	root.SetArgs(args)

	s.logger.DebugContext(ctx, "shell command", slog.String("command", args[0]), slog.Int("args", len(args)-1))

	err := root.ExecuteContext(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	return nil
}

// unknownCommand builds the error for name, with the closest command as a hint.
func unknownCommand(root *cobra.Command, name string) error {
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	if hint, ok := levenshtein.Closest(name, names, maxSuggestDistance); ok {
		return fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownCommand, name, hint)
	}

	return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// Exited reports whether the exit command ran.
func (s *Shell) Exited() bool {
	return s.exited
}

// History returns the command history.
func (s *Shell) History() *History {
	return s.history
}

// Terminal returns the rendering configuration, including visibility toggles.
func (s *Shell) Terminal() terminal.Config {
	return s.term
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}
