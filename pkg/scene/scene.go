// Package scene provides the render read model of a laid-out segment tree.
//
// A Scene is a flat snapshot of the tree: one NodeView per node in
// breadth-first order and one Edge per parent-child link, carrying the
// transformed screen coordinates. Renderers consume scenes; the tree itself
// is never handed to them.
package scene

import (
	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
)

// NodeView is the rendered state of one node.
type NodeView struct {
	ID          int   `json:"id"          yaml:"id"`
	Low         int   `json:"low"         yaml:"low"`
	High        int   `json:"high"        yaml:"high"`
	Data        int64 `json:"data"        yaml:"data"`
	Lazy        int64 `json:"lazy"        yaml:"lazy"`
	Depth       int   `json:"depth"       yaml:"depth"`
	X           int   `json:"x"           yaml:"x"`
	Y           int   `json:"y"           yaml:"y"`
	Leaf        bool  `json:"leaf"        yaml:"leaf"`
	Highlighted bool  `json:"highlighted" yaml:"highlighted"`
}

// Edge connects a parent node to one of its children.
type Edge struct {
	FromID int `json:"from_id" yaml:"from_id"`
	ToID   int `json:"to_id"   yaml:"to_id"`
	X1     int `json:"x1"      yaml:"x1"`
	Y1     int `json:"y1"      yaml:"y1"`
	X2     int `json:"x2"      yaml:"x2"`
	Y2     int `json:"y2"      yaml:"y2"`
}

// Scene is a snapshot of the visualized tree.
type Scene struct {
	Function string     `json:"function" yaml:"function"`
	Array    []int64    `json:"array"    yaml:"array"`
	Zoom     float64    `json:"zoom"     yaml:"zoom"`
	Nodes    []NodeView `json:"nodes"    yaml:"nodes"`
	Edges    []Edge     `json:"edges"    yaml:"edges"`
}

// Highlighter reports whether a node is highlighted.
type Highlighter func(n *segtree.Node) bool

// Build snapshots tree with the given zoom level. A nil highlighter
// highlights nothing.
func Build(tree *segtree.Tree, zoom float64, highlighted Highlighter) *Scene {
	s := &Scene{
		Function: tree.Function().Name,
		Array:    tree.Array(),
		Zoom:     zoom,
		Nodes:    make([]NodeView, 0, tree.NodeCount()),
		Edges:    make([]Edge, 0, max(tree.NodeCount()-1, 0)),
	}

	tree.Walk(func(n *segtree.Node) {
		s.Nodes = append(s.Nodes, NodeView{
			ID:          n.ID,
			Low:         n.Low,
			High:        n.High,
			Data:        n.Data,
			Lazy:        n.LazyData,
			Depth:       n.Depth,
			X:           n.Pos.X,
			Y:           n.Pos.Y,
			Leaf:        n.IsLeaf(),
			Highlighted: highlighted != nil && highlighted(n),
		})

		if n.IsLeaf() {
			return
		}

		s.Edges = append(s.Edges, edge(n, n.Left), edge(n, n.Right))
	})

	return s
}

// Node returns the view with the given ID.
func (s *Scene) Node(id int) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}

	return NodeView{}, false
}

// HighlightedCount returns the number of highlighted nodes.
func (s *Scene) HighlightedCount() int {
	count := 0

	for _, n := range s.Nodes {
		if n.Highlighted {
			count++
		}
	}

	return count
}

// Bounds returns the bounding box of the node coordinates.
func (s *Scene) Bounds() (minX, minY, maxX, maxY int) { //nolint:nonamedreturns // documents order
	for i, n := range s.Nodes {
		if i == 0 {
			minX, minY, maxX, maxY = n.X, n.Y, n.X, n.Y

			continue
		}

		minX, minY = min(minX, n.X), min(minY, n.Y)
		maxX, maxY = max(maxX, n.X), max(maxY, n.Y)
	}

	return minX, minY, maxX, maxY
}

func edge(from, to *segtree.Node) Edge {
	return Edge{
		FromID: from.ID,
		ToID:   to.ID,
		X1:     from.Pos.X,
		Y1:     from.Pos.Y,
		X2:     to.Pos.X,
		Y2:     to.Pos.Y,
	}
}
