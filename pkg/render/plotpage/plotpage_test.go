package plotpage_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/segviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

func sampleScene() *scene.Scene {
	return &scene.Scene{
		Function: "add_f",
		Array:    []int64{1, 3},
		Zoom:     1,
		Nodes: []scene.NodeView{
			{ID: 1, Low: 0, High: 1, Data: 4, X: 650, Y: 160},
			{ID: 2, Low: 0, High: 0, Data: 1, Depth: 1, X: 566, Y: 320, Leaf: true, Highlighted: true},
			{ID: 3, Low: 1, High: 1, Data: 3, Depth: 1, X: 734, Y: 320, Leaf: true},
		},
		Edges: []scene.Edge{
			{FromID: 1, ToID: 2, X1: 650, Y1: 160, X2: 566, Y2: 320},
			{FromID: 1, ToID: 3, X1: 650, Y1: 160, X2: 734, Y2: 320},
		},
	}
}

func TestNodeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "4\n[0, 1]", plotpage.NodeName(sampleScene().Nodes[0]))
}

func TestBuildTreeGraph(t *testing.T) {
	t.Parallel()

	s := sampleScene()
	graph := plotpage.BuildTreeGraph(s, plotpage.DefaultStyle(), plotpage.ThemeLight)

	require.NotNil(t, graph)
	require.Len(t, graph.MultiSeries, 1)

	series := graph.MultiSeries[0]
	assert.Equal(t, "none", series.Layout)

	nodes, ok := series.Data.([]opts.GraphNode)
	require.True(t, ok)
	require.Len(t, nodes, 3)

	light := plotpage.GetThemeConfig(plotpage.ThemeLight)

	assert.InDelta(t, 566, nodes[1].X, 1e-6)
	assert.InDelta(t, 320, nodes[1].Y, 1e-6)
	assert.Equal(t, light.Highlight, nodes[1].ItemStyle.Color)
	assert.Equal(t, light.Leaf, nodes[2].ItemStyle.Color)
	assert.Equal(t, light.Accent, nodes[0].ItemStyle.Color)

	links, ok := series.Links.([]opts.GraphLink)
	require.True(t, ok)
	require.Len(t, links, 2)
	assert.Equal(t, plotpage.NodeName(s.Nodes[0]), links[0].Source)
	assert.Equal(t, plotpage.NodeName(s.Nodes[2]), links[1].Target)
}

func TestBuildArrayBar(t *testing.T) {
	t.Parallel()

	bar := plotpage.BuildArrayBar(sampleScene(), plotpage.DefaultStyle(), plotpage.ThemeDark)

	require.Len(t, bar.MultiSeries, 1)

	data, ok := bar.MultiSeries[0].Data.([]opts.BarData)
	require.True(t, ok)
	require.Len(t, data, 2)

	dark := plotpage.GetThemeConfig(plotpage.ThemeDark)
	assert.Equal(t, dark.Highlight, data[0].ItemStyle.Color)
	assert.Equal(t, dark.Leaf, data[1].ItemStyle.Color)
}

func TestParseTheme(t *testing.T) {
	t.Parallel()

	assert.Equal(t, plotpage.ThemeLight, plotpage.ParseTheme("light"))
	assert.Equal(t, plotpage.ThemeDark, plotpage.ParseTheme("dark"))
	assert.Equal(t, plotpage.ThemeDark, plotpage.ParseTheme("neon"))
}

func TestGetThemeConfig(t *testing.T) {
	t.Parallel()

	light := plotpage.GetThemeConfig(plotpage.ThemeLight)
	dark := plotpage.GetThemeConfig(plotpage.ThemeDark)

	assert.NotEqual(t, light.Background, dark.Background)
	assert.Equal(t, light, plotpage.GetThemeConfig("unknown"))
}

func TestWriteScene(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, plotpage.WriteScene(&buf, sampleScene(), plotpage.ThemeDark))

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `class="dark"`)
	assert.Contains(t, html, "segviz")
	assert.Contains(t, html, "aggregate function add_f")
	assert.Contains(t, html, "echart-box")
	assert.Contains(t, html, "Reading the tree")
	assert.Equal(t, 1, strings.Count(html, "<!DOCTYPE"))
}

func TestPageRender_LightNoToggle(t *testing.T) {
	t.Parallel()

	page := plotpage.NewPage("Empty", "").WithTheme(plotpage.ThemeLight)
	page.ShowThemeToggle = false

	var buf bytes.Buffer

	require.NoError(t, page.Render(&buf))

	assert.NotContains(t, buf.String(), `class="dark"`)
	assert.NotContains(t, buf.String(), "theme-toggle\" type")
}
