package shell_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/render/terminal"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
	"github.com/Sumatoshi-tech/segviz/pkg/shell"
	"github.com/Sumatoshi-tech/segviz/pkg/visualizer"
)

// Test constants.
const (
	testHistorySize = 2
	testWidth       = 80
)

func plainTerminal() terminal.Config {
	return terminal.Config{
		Width:        testWidth,
		NoColor:      true,
		ShowArray:    true,
		ShowNodeData: true,
		MinZoom:      0.1,
		MaxZoom:      2,
	}
}

func newShell(t *testing.T, opts shell.Options) (*shell.Shell, *visualizer.Visualizer, *bytes.Buffer) {
	t.Helper()

	viz, err := visualizer.New(visualizer.Options{Array: []int64{1, 3, -2, 8, -7}})
	require.NoError(t, err)

	opts.Terminal = plainTerminal()

	var out bytes.Buffer

	return shell.New(viz, &out, opts), viz, &out
}

func run(t *testing.T, sh *shell.Shell, lines ...string) {
	t.Helper()

	for _, line := range lines {
		require.NoError(t, sh.Execute(context.Background(), line), line)
	}
}

func TestRun_Script(t *testing.T) {
	t.Parallel()

	sh, viz, out := newShell(t, shell.Options{})

	script := strings.Join([]string{"insert 10", "query 0 5", "bogus", "", "exit", "insert 99"}, "\n")

	require.NoError(t, sh.Run(context.Background(), strings.NewReader(script)))

	assert.True(t, sh.Exited())
	assert.Equal(t, []int64{1, 3, -2, 8, -7, 10}, viz.Array())
	assert.Contains(t, out.String(), "13\n")
	assert.Contains(t, out.String(), "Error: command doesn't exist: bogus")
	assert.True(t, strings.HasPrefix(out.String(), shell.DefaultPrompt))
}

func TestRun_EndOfInput(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, shell.Options{Prompt: "> "})

	require.NoError(t, sh.Run(context.Background(), strings.NewReader("query 0 0")))
	assert.False(t, sh.Exited())
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, shell.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, sh.Run(ctx, strings.NewReader("query 0 0\n")), context.Canceled)
}

func TestExecute_NegativeArguments(t *testing.T) {
	t.Parallel()

	sh, viz, _ := newShell(t, shell.Options{})

	run(t, sh, "extend -1 -2 -i 0", "insert -5 1", "remove")

	assert.Equal(t, []int64{-1, -5, -2, 1, 3, -2, 8}, viz.Array())
}

func TestExecute_ExtendIndexForms(t *testing.T) {
	t.Parallel()

	sh, viz, _ := newShell(t, shell.Options{})

	run(t, sh, "clear", "extend 1 2", "extend 9 --index=1", "extend 7 -index 0")

	assert.Equal(t, []int64{7, 1, 9, 2}, viz.Array())

	err := sh.Execute(context.Background(), "extend 1 -i")
	require.ErrorIs(t, err, shell.ErrInvalidArgument)
}

func TestExecute_UpdateArgumentOrder(t *testing.T) {
	t.Parallel()

	sh, viz, out := newShell(t, shell.Options{})

	run(t, sh, "update 4 2", "replace 0 6", "update-range 1 3 5")

	assert.Equal(t, []int64{6, 8, 9, 13, -7}, viz.Array())
	assert.Contains(t, out.String(), "[-")
	assert.Contains(t, out.String(), "{+")
}

func TestExecute_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want error
	}{
		{"unknown command", "frobnicate", shell.ErrUnknownCommand},
		{"not a number", "insert ten", shell.ErrInvalidArgument},
		{"index out of range", "replace 17 1", segtree.ErrIndexOutOfRange},
		{"unknown function", "query-fn nope_f", segtree.ErrUnknownFunction},
		{"bad zoom", "zoom sideways", shell.ErrInvalidZoom},
		{"unknown node", "node 99", shell.ErrUnknownNode},
		{"bad format", "render pdf", scene.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sh, viz, _ := newShell(t, shell.Options{})

			err := sh.Execute(context.Background(), tt.line)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, []int64{1, 3, -2, 8, -7}, viz.Array())
		})
	}
}

func TestExecute_SuggestsCommand(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, shell.Options{})

	err := sh.Execute(context.Background(), "insrt 1")
	require.ErrorIs(t, err, shell.ErrUnknownCommand)
	assert.Contains(t, err.Error(), "did you mean insert?")
}

func TestExecute_ArgumentCount(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, shell.Options{})

	require.Error(t, sh.Execute(context.Background(), "query 1"))
	require.Error(t, sh.Execute(context.Background(), "propagate now"))
}

func TestExecute_HighlightAndShow(t *testing.T) {
	t.Parallel()

	sh, _, out := newShell(t, shell.Options{})

	run(t, sh, "highlight-range 0 2", "show")
	assert.Contains(t, out.String(), "5 highlighted")

	out.Reset()
	run(t, sh, "highlight-range", "show")
	assert.Contains(t, out.String(), "0 highlighted")
}

func TestExecute_VisibilityToggles(t *testing.T) {
	t.Parallel()

	sh, _, out := newShell(t, shell.Options{})

	run(t, sh, "view-array", "view-node-data")
	assert.False(t, sh.Terminal().ShowArray)
	assert.False(t, sh.Terminal().ShowNodeData)
	assert.Contains(t, out.String(), "view-array: hidden")

	out.Reset()
	run(t, sh, "show")

	shown := strings.ToUpper(out.String())
	assert.NotContains(t, shown, "INDEX")
	assert.NotContains(t, shown, "LAZY")

	run(t, sh, "view-node-info")
	out.Reset()
	run(t, sh, "node 1")
	assert.Empty(t, out.String())
}

func TestExecute_NodeInfo(t *testing.T) {
	t.Parallel()

	sh, _, out := newShell(t, shell.Options{})

	run(t, sh, "node 1")

	assert.Contains(t, out.String(), "node 1 [0, 4] (internal)")
	assert.Contains(t, out.String(), "data: 3")
}

func TestExecute_ViewOps(t *testing.T) {
	t.Parallel()

	sh, viz, out := newShell(t, shell.Options{})

	run(t, sh, "zoom in", "zoom 0.5", "pan -20 15", "home")

	assert.Contains(t, out.String(), "zoom 1.10")
	assert.Contains(t, out.String(), "zoom 0.50")
	assert.InDelta(t, 0.5, viz.ZoomLevel(), 1e-9)
}

func TestExecute_QueryFunctions(t *testing.T) {
	t.Parallel()

	sh, viz, out := newShell(t, shell.Options{})

	run(t, sh, "query-fn max_f", "list-queryfn", "query 0 4", "propagate")

	assert.Equal(t, "max_f", viz.FunctionName())
	assert.Contains(t, out.String(), "gcd_f")
	assert.Contains(t, out.String(), "8\n")
}

func TestExecute_RenderToFile(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, shell.Options{})
	path := filepath.Join(t.TempDir(), "scene.json")

	run(t, sh, "render json "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var s scene.Scene

	require.NoError(t, json.Unmarshal(data, &s))
	assert.Len(t, s.Nodes, 9)
	assert.Equal(t, "add_f", s.Function)
}

func TestExecute_RenderToTerminal(t *testing.T) {
	t.Parallel()

	sh, _, out := newShell(t, shell.Options{})

	run(t, sh, "render html")
	assert.Contains(t, out.String(), "<!DOCTYPE html>")

	out.Reset()
	run(t, sh, "render yml")
	assert.Contains(t, out.String(), "function: add_f")
}

func TestExecute_History(t *testing.T) {
	t.Parallel()

	sh, _, out := newShell(t, shell.Options{HistorySize: testHistorySize})

	run(t, sh, "query 0 0", "query  1   1", "history")

	assert.Equal(t, []string{"query 1 1", "history"}, sh.History().Entries())
	assert.Contains(t, out.String(), "   1  query 1 1")
}

func TestExecute_Help(t *testing.T) {
	t.Parallel()

	sh, _, out := newShell(t, shell.Options{})

	run(t, sh, "help")

	assert.Contains(t, out.String(), "update-range")
	assert.Contains(t, out.String(), "highlight-range")
}

func TestHistory_Bounded(t *testing.T) {
	t.Parallel()

	h := shell.NewHistory(testHistorySize)

	h.Add("a")
	h.Add("b")
	h.Add("c")

	assert.Equal(t, []string{"b", "c"}, h.Entries())
	assert.Equal(t, testHistorySize, h.Len())
	assert.Equal(t, testHistorySize, h.Limit())

	empty := shell.NewHistory(-1)
	empty.Add("a")
	assert.Zero(t, empty.Len())
}

func TestArrayDiff(t *testing.T) {
	t.Parallel()

	cfg := plainTerminal()

	assert.Empty(t, shell.ArrayDiff(cfg, []int64{1, 3}, []int64{1, 3}))

	diff := shell.ArrayDiff(cfg, []int64{1, 3}, []int64{1, 4})
	assert.Contains(t, diff, "[-3-]")
	assert.Contains(t, diff, "{+4+}")
	assert.True(t, strings.HasPrefix(diff, "[1, "))
}
