package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

// Output labels.
const (
	SceneTitle    = "SEGMENT TREE"
	msgEmptyArray = "Array is empty"
	zoomBarWidth  = 10

	// maxDescriptionWidth bounds the description column of FunctionTable.
	maxDescriptionWidth = 32
)

// newTable returns a borderless go-pretty writer.
func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}

// Summary is the one-line description of a scene.
func (cfg Config) Summary(s *scene.Scene) string {
	return fmt.Sprintf("function %s | %s elements | %s nodes | %s highlighted | zoom %s",
		cfg.Colorize(s.Function, ColorCyan),
		humanize.Comma(int64(len(s.Array))),
		humanize.Comma(int64(len(s.Nodes))),
		humanize.Comma(int64(s.HighlightedCount())),
		FormatZoomBar(s.Zoom, cfg.MinZoom, cfg.MaxZoom, zoomBarWidth),
	)
}

// ArrayTable renders the array as an index row over a value row. Indices
// covered by a highlighted leaf are colored.
func (cfg Config) ArrayTable(s *scene.Scene) string {
	if len(s.Array) == 0 {
		return cfg.Colorize(msgEmptyArray, ColorGray)
	}

	highlighted := make(map[int]bool)

	for _, n := range s.Nodes {
		if n.Leaf && n.Highlighted {
			highlighted[n.Low] = true
		}
	}

	header := make(table.Row, 0, len(s.Array)+1)
	values := make(table.Row, 0, len(s.Array)+1)

	header = append(header, "index")
	values = append(values, "value")

	for i, v := range s.Array {
		cell := strconv.FormatInt(v, 10)
		if highlighted[i] {
			cell = cfg.Highlight(cell)
		}

		header = append(header, i)
		values = append(values, cell)
	}

	tbl := newTable()
	tbl.AppendHeader(header)
	tbl.AppendRow(values)

	return tbl.Render()
}

// NodeTable renders one row per node in breadth-first order.
func (cfg Config) NodeTable(s *scene.Scene) string {
	header := table.Row{"ID", "Segment", "Depth"}
	if cfg.ShowNodeData {
		header = append(header, "Data", "Lazy")
	}

	header = append(header, "X", "Y")

	tbl := newTable()
	tbl.AppendHeader(header)

	nodes := s.Nodes
	if cfg.MaxRows > 0 && len(nodes) > cfg.MaxRows {
		nodes = nodes[:cfg.MaxRows]
	}

	for _, n := range nodes {
		tbl.AppendRow(cfg.nodeRow(n))
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %s nodes", humanize.Comma(int64(len(s.Nodes))))})

	return tbl.Render()
}

func (cfg Config) nodeRow(n scene.NodeView) table.Row {
	cells := []string{strconv.Itoa(n.ID), segment(n), strconv.Itoa(n.Depth)}
	if cfg.ShowNodeData {
		cells = append(cells, strconv.FormatInt(n.Data, 10), strconv.FormatInt(n.Lazy, 10))
	}

	cells = append(cells, strconv.Itoa(n.X), strconv.Itoa(n.Y))

	row := make(table.Row, len(cells))

	for i, c := range cells {
		if n.Highlighted {
			c = cfg.Highlight(c)
		}

		row[i] = c
	}

	return row
}

// NodeInfo describes a single node.
func (cfg Config) NodeInfo(n scene.NodeView) string {
	kind := "internal"
	if n.Leaf {
		kind = "leaf"
	}

	title := fmt.Sprintf("node %d %s (%s)", n.ID, segment(n), kind)

	lines := []string{
		title,
		DrawSeparator(len(title)),
		fmt.Sprintf("  data: %d  lazy: %d", n.Data, n.Lazy),
		fmt.Sprintf("  depth: %d  screen: (%d, %d)", n.Depth, n.X, n.Y),
	}

	if n.Highlighted {
		lines[0] = cfg.Highlight(title)
	}

	return strings.Join(lines, "\n")
}

// FunctionTable lists aggregate functions, marking the active one.
func (cfg Config) FunctionTable(fns []segtree.AggregateFunction, active string) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"", "Name", "Invalid", "Description"})

	for _, fn := range fns {
		marker := ""
		name := fn.Name

		if fn.Name == active {
			marker = "*"
			name = cfg.Result(name)
		}

		tbl.AppendRow(table.Row{marker, name, fn.Invalid, TruncateWithEllipsis(fn.Description, maxDescriptionWidth)})
	}

	return tbl.Render()
}

// RenderScene writes the header, summary, array table and node table.
func (cfg Config) RenderScene(w io.Writer, s *scene.Scene) error {
	parts := []string{
		DrawHeader(SceneTitle, s.Function, cfg.Width),
		cfg.Summary(s),
	}

	if cfg.ShowArray {
		parts = append(parts, cfg.ArrayTable(s))
	}

	if len(s.Nodes) > 0 {
		parts = append(parts, cfg.NodeTable(s))
	}

	_, err := io.WriteString(w, strings.Join(parts, "\n\n")+"\n")
	if err != nil {
		return fmt.Errorf("write scene: %w", err)
	}

	return nil
}

func segment(n scene.NodeView) string {
	return fmt.Sprintf("[%d, %d]", n.Low, n.High)
}
