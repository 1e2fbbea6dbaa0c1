package plotpage

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

// Graph geometry.
const (
	nodeSymbolSize = 52
	edgeWidth      = 2
	labelFontSize  = 11
	graphLayout    = "none"
	seriesTree     = "segment tree"
	seriesArray    = "array"
)

// NodeName is the unique chart label of a node: its data over its segment.
func NodeName(n scene.NodeView) string {
	return fmt.Sprintf("%d\n[%d, %d]", n.Data, n.Low, n.High)
}

// BuildTreeGraph builds a graph chart placing every node at its scene
// coordinates. Highlighted nodes use the theme highlight color.
func BuildTreeGraph(s *scene.Scene, style Style, theme Theme) *charts.Graph {
	themeConfig := GetThemeConfig(theme)
	graph := charts.NewGraph()

	graph.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(style, themeConfig)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make(map[int]string, len(s.Nodes))
	nodes := make([]opts.GraphNode, 0, len(s.Nodes))

	for _, n := range s.Nodes {
		name := NodeName(n)
		names[n.ID] = name

		nodes = append(nodes, opts.GraphNode{
			Name:       name,
			X:          float32(n.X),
			Y:          float32(n.Y),
			Value:      float32(n.Data),
			Fixed:      opts.Bool(true),
			SymbolSize: nodeSymbolSize,
			ItemStyle:  &opts.ItemStyle{Color: nodeColor(n, themeConfig)},
		})
	}

	links := make([]opts.GraphLink, 0, len(s.Edges))

	for _, e := range s.Edges {
		links = append(links, opts.GraphLink{Source: names[e.FromID], Target: names[e.ToID]})
	}

	graph.AddSeries(seriesTree, nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout: graphLayout,
			Roam:   opts.Bool(true),
		}),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "inside",
			Color:    themeConfig.ChartText,
			FontSize: labelFontSize,
		}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: themeConfig.Edge, Width: edgeWidth}),
	)

	return graph
}

// BuildArrayBar builds a bar chart of the array. Elements under a
// highlighted leaf use the theme highlight color.
func BuildArrayBar(s *scene.Scene, style Style, theme Theme) *charts.Bar {
	themeConfig := GetThemeConfig(theme)
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(style, themeConfig)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "index",
			AxisLabel: &opts.AxisLabel{Color: themeConfig.TextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "value",
			AxisLabel: &opts.AxisLabel{Color: themeConfig.TextSecondary},
		}),
	)

	highlighted := make(map[int]bool)

	for _, n := range s.Nodes {
		if n.Leaf && n.Highlighted {
			highlighted[n.Low] = true
		}
	}

	labels := make([]string, len(s.Array))
	data := make([]opts.BarData, len(s.Array))

	for i, v := range s.Array {
		color := themeConfig.Leaf
		if highlighted[i] {
			color = themeConfig.Highlight
		}

		labels[i] = strconv.Itoa(i)
		data[i] = opts.BarData{Value: v, ItemStyle: &opts.ItemStyle{Color: color}}
	}

	bar.SetXAxis(labels)
	bar.AddSeries(seriesArray, data)

	return bar
}

// ScenePage assembles the tree and array sections for s.
func ScenePage(s *scene.Scene, theme Theme) *Page {
	page := NewPage("Segment tree", "aggregate function "+s.Function).WithTheme(theme)

	page.Add(
		Section{
			Title:    "Tree",
			Subtitle: fmt.Sprintf("%d nodes laid out at zoom %.2f", len(s.Nodes), s.Zoom),
			Chart:    BuildTreeGraph(s, page.Style, theme),
			Hint: Hint{
				Title: "Reading the tree",
				Items: []string{
					"Each node shows its aggregate over the segment [low, high].",
					"Leaves cover a single array element.",
					"Highlighted nodes lie inside the highlight range.",
				},
			},
		},
		Section{
			Title:    "Array",
			Subtitle: fmt.Sprintf("%d elements", len(s.Array)),
			Chart:    BuildArrayBar(s, page.Style, theme),
		},
	)

	return page
}

// WriteScene renders s as a complete HTML page.
func WriteScene(w io.Writer, s *scene.Scene, theme Theme) error {
	return ScenePage(s, theme).Render(w)
}

func initOpts(style Style, themeConfig ThemeConfig) opts.Initialization {
	init := opts.Initialization{
		Width:           style.Width,
		Height:          style.Height,
		BackgroundColor: themeConfig.ChartBackground,
	}

	if themeConfig.EChartsTheme != "" {
		init.Theme = themeConfig.EChartsTheme
	}

	return init
}

func nodeColor(n scene.NodeView, themeConfig ThemeConfig) string {
	switch {
	case n.Highlighted:
		return themeConfig.Highlight
	case n.Leaf:
		return themeConfig.Leaf
	default:
		return themeConfig.Accent
	}
}
