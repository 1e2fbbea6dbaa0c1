package layout

import (
	"math"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
)

// Default zoom bounds.
const (
	DefaultZoom     = 1.0
	DefaultMinZoom  = 0.1
	DefaultMaxZoom  = 2.0
	DefaultZoomStep = 0.1
)

// zoomPrecision rounds the zoom level so repeated steps do not drift.
const zoomPrecision = 1e6

// Transform maps layout coordinates to screen coordinates:
// X = int(OriginalX*Zoom) + XOffset, likewise for Y.
type Transform struct {
	Zoom     float64
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64
}

// NewTransform returns a transform at the default zoom with default bounds.
func NewTransform() *Transform {
	return &Transform{
		Zoom:     DefaultZoom,
		MinZoom:  DefaultMinZoom,
		MaxZoom:  DefaultMaxZoom,
		ZoomStep: DefaultZoomStep,
	}
}

// Apply recomputes the screen coordinates of every node.
func (t *Transform) Apply(root *segtree.Node) {
	breadthFirst(root, func(n *segtree.Node) {
		n.Pos.X = int(float64(n.Pos.OriginalX)*t.Zoom) + n.Pos.XOffset
		n.Pos.Y = int(float64(n.Pos.OriginalY)*t.Zoom) + n.Pos.YOffset
	})
}

// MoveByDelta adds the given pan to every node's offsets. Screen
// coordinates are stale until the next Apply.
func (t *Transform) MoveByDelta(root *segtree.Node, dx, dy int) {
	breadthFirst(root, func(n *segtree.Node) {
		n.Pos.XOffset += dx
		n.Pos.YOffset += dy
	})
}

// Pan moves the tree and refreshes the screen coordinates.
func (t *Transform) Pan(root *segtree.Node, dx, dy int) {
	t.MoveByDelta(root, dx, dy)
	t.Apply(root)
}

// CenterTree shifts the tree horizontally so the root sits at halfWidth.
func (t *Transform) CenterTree(root *segtree.Node, halfWidth int) {
	if root == nil {
		return
	}

	t.Apply(root)
	t.MoveByDelta(root, halfWidth-root.Pos.X, 0)
	t.Apply(root)
}

// ZoomBy steps the zoom in (direction > 0) or out (otherwise), clamped to
// [MinZoom, MaxZoom]. It returns the new zoom level.
func (t *Transform) ZoomBy(direction int) float64 {
	if direction > 0 {
		return t.SetZoom(t.Zoom + t.ZoomStep)
	}

	return t.SetZoom(t.Zoom - t.ZoomStep)
}

// SetZoom sets the zoom level clamped to [MinZoom, MaxZoom] and returns it.
func (t *Transform) SetZoom(zoom float64) float64 {
	zoom = math.Round(zoom*zoomPrecision) / zoomPrecision
	t.Zoom = min(max(zoom, t.MinZoom), t.MaxZoom)

	return t.Zoom
}

// breadthFirst visits the subtree level by level.
func breadthFirst(root *segtree.Node, visit func(*segtree.Node)) {
	if root == nil {
		return
	}

	queue := []*segtree.Node{root}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		visit(node)

		if !node.IsLeaf() {
			queue = append(queue, node.Left, node.Right)
		}
	}
}
