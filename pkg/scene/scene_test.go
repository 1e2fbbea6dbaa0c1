package scene_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/layout"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

func sampleTree(t *testing.T) *segtree.Tree {
	t.Helper()

	fn, err := segtree.DefaultRegistry().Lookup("add_f")
	require.NoError(t, err)

	tree := segtree.New([]int64{1, 3, -2, 8, -7}, fn)
	layout.NewEngine(layout.DefaultConfig()).GeneratePositions(tree.Root())
	layout.NewTransform().CenterTree(tree.Root(), layout.DefaultConfig().HalfWidth())

	return tree
}

// TestBuild_Shape checks node and edge counts and coordinates.
func TestBuild_Shape(t *testing.T) {
	t.Parallel()

	tree := sampleTree(t)

	s := scene.Build(tree, 1, nil)

	assert.Equal(t, "add_f", s.Function)
	assert.Equal(t, []int64{1, 3, -2, 8, -7}, s.Array)
	require.Len(t, s.Nodes, 9)
	assert.Len(t, s.Edges, 8)

	root, ok := s.Node(segtree.RootID)
	require.True(t, ok)
	assert.Equal(t, int64(3), root.Data)
	assert.Equal(t, layout.DefaultConfig().HalfWidth(), root.X)
	assert.False(t, root.Leaf)
	assert.Zero(t, s.HighlightedCount())

	for _, e := range s.Edges {
		from, okFrom := s.Node(e.FromID)
		to, okTo := s.Node(e.ToID)

		require.True(t, okFrom)
		require.True(t, okTo)
		assert.Equal(t, from.X, e.X1)
		assert.Equal(t, to.Y, e.Y2)
		assert.Less(t, from.Y, to.Y)
	}

	_, ok = s.Node(99)
	assert.False(t, ok)
}

// TestBuild_Highlight checks the highlighter is applied per node.
func TestBuild_Highlight(t *testing.T) {
	t.Parallel()

	tree := sampleTree(t)

	s := scene.Build(tree, 1, func(n *segtree.Node) bool { return n.IsLeaf() })

	assert.Equal(t, 5, s.HighlightedCount())
}

// TestBuild_Empty checks an empty tree yields an empty scene.
func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	fn, err := segtree.DefaultRegistry().Lookup("add_f")
	require.NoError(t, err)

	s := scene.Build(segtree.New(nil, fn), 1, nil)

	assert.Empty(t, s.Nodes)
	assert.Empty(t, s.Edges)

	minX, minY, maxX, maxY := s.Bounds()
	assert.Zero(t, minX+minY+maxX+maxY)
}

// TestBounds covers the bounding box.
func TestBounds(t *testing.T) {
	t.Parallel()

	s := &scene.Scene{Nodes: []scene.NodeView{{X: 5, Y: 10}, {X: -3, Y: 40}, {X: 12, Y: 20}}}

	minX, minY, maxX, maxY := s.Bounds()

	assert.Equal(t, -3, minX)
	assert.Equal(t, 10, minY)
	assert.Equal(t, 12, maxX)
	assert.Equal(t, 40, maxY)
}

// TestEncode_JSON checks the JSON field names.
func TestEncode_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, scene.Encode(&buf, scene.Build(sampleTree(t), 1, nil), scene.FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "add_f", decoded["function"])
	assert.Len(t, decoded["nodes"], 9)
	assert.Contains(t, buf.String(), `"from_id"`)
}

// TestEncode_YAML checks the YAML output and the yml alias.
func TestEncode_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, scene.Encode(&buf, scene.Build(sampleTree(t), 1, nil), "YML"))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "add_f", decoded["function"])
	assert.Len(t, decoded["edges"], 8)
}

// TestEncode_Unsupported rejects unknown formats.
func TestEncode_Unsupported(t *testing.T) {
	t.Parallel()

	err := scene.Encode(&bytes.Buffer{}, &scene.Scene{}, "xml")
	require.ErrorIs(t, err, scene.ErrUnsupportedFormat)
}

// TestValidateFormat covers normalization against a support list.
func TestValidateFormat(t *testing.T) {
	t.Parallel()

	got, err := scene.ValidateFormat(" HTML ", scene.Formats())
	require.NoError(t, err)
	assert.Equal(t, scene.FormatHTML, got)

	_, err = scene.ValidateFormat("svg", scene.Formats())
	require.ErrorIs(t, err, scene.ErrUnsupportedFormat)
}
