package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/layout"
)

// Transform test constants.
const (
	testHalfWidth = 650
	testPanX      = 37
	testPanY      = -12
	zoomSteps     = 30
)

func assertScreenCoordinates(t *testing.T, tree *segtree.Tree, zoom float64) {
	t.Helper()

	tree.Walk(func(n *segtree.Node) {
		assert.Equal(t, int(float64(n.Pos.OriginalX)*zoom)+n.Pos.XOffset, n.Pos.X, "node %d x", n.ID)
		assert.Equal(t, int(float64(n.Pos.OriginalY)*zoom)+n.Pos.YOffset, n.Pos.Y, "node %d y", n.ID)
	})
}

// TestTransform_ApplyIdentity checks unit zoom without offsets.
func TestTransform_ApplyIdentity(t *testing.T) {
	t.Parallel()

	tree := newLaidOutTree(t, 6)
	transform := layout.NewTransform()

	transform.Apply(tree.Root())

	tree.Walk(func(n *segtree.Node) {
		assert.Equal(t, n.Pos.OriginalX, n.Pos.X)
		assert.Equal(t, n.Pos.OriginalY, n.Pos.Y)
	})
}

// TestTransform_CenterTree places the root at the viewport center.
func TestTransform_CenterTree(t *testing.T) {
	t.Parallel()

	tree := newLaidOutTree(t, 5)
	transform := layout.NewTransform()

	transform.CenterTree(tree.Root(), testHalfWidth)

	assert.Equal(t, testHalfWidth, tree.Root().Pos.X)
	assertScreenCoordinates(t, tree, transform.Zoom)

	assert.NotPanics(t, func() { transform.CenterTree(nil, testHalfWidth) })
}

// TestTransform_PanZoomIndependence checks pan and zoom never touch the
// layout and always compose into the same formula.
func TestTransform_PanZoomIndependence(t *testing.T) {
	t.Parallel()

	tree := newLaidOutTree(t, 7)
	transform := layout.NewTransform()

	original := make(map[int][2]int)
	tree.Walk(func(n *segtree.Node) { original[n.ID] = [2]int{n.Pos.OriginalX, n.Pos.OriginalY} })

	transform.Pan(tree.Root(), testPanX, testPanY)
	transform.ZoomBy(1)
	transform.Apply(tree.Root())
	assertScreenCoordinates(t, tree, transform.Zoom)

	transform.ZoomBy(-1)
	transform.ZoomBy(-1)
	transform.Pan(tree.Root(), -testPanX, 0)
	assertScreenCoordinates(t, tree, transform.Zoom)

	tree.Walk(func(n *segtree.Node) {
		assert.Equal(t, original[n.ID], [2]int{n.Pos.OriginalX, n.Pos.OriginalY})
		assert.Equal(t, 0, n.Pos.XOffset)
		assert.Equal(t, testPanY, n.Pos.YOffset)
	})
}

// TestTransform_ZoomClamp checks both zoom bounds.
func TestTransform_ZoomClamp(t *testing.T) {
	t.Parallel()

	transform := layout.NewTransform()

	for range zoomSteps {
		transform.ZoomBy(1)
	}

	assert.InDelta(t, layout.DefaultMaxZoom, transform.Zoom, floatTolerance)

	for range zoomSteps {
		transform.ZoomBy(-1)
	}

	assert.InDelta(t, layout.DefaultMinZoom, transform.Zoom, floatTolerance)

	assert.InDelta(t, 1.3, transform.SetZoom(1.3), floatTolerance)
	assert.InDelta(t, layout.DefaultMaxZoom, transform.SetZoom(9), floatTolerance)
	assert.InDelta(t, layout.DefaultMinZoom, transform.SetZoom(-1), floatTolerance)
}

// TestTransform_ZoomSteps checks that stepping does not drift.
func TestTransform_ZoomSteps(t *testing.T) {
	t.Parallel()

	transform := layout.NewTransform()

	for range 3 {
		transform.ZoomBy(1)
	}

	assert.Equal(t, 1.3, transform.Zoom) //nolint:testifylint // rounding makes the value exact

	for range 3 {
		transform.ZoomBy(-1)
	}

	assert.Equal(t, 1.0, transform.Zoom) //nolint:testifylint // rounding makes the value exact
}
