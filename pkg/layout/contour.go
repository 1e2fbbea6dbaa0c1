package layout

import "github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"

// Side selects which outline of a subtree a contour follows.
type Side int

// Contour sides.
const (
	SideLeft Side = iota
	SideRight
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "invalid"
	}
}

// Contour maps each depth of the subtree rooted at node to its leftmost
// (SideLeft) or rightmost (SideRight) preliminary x, with pending modifiers
// of ancestors inside the subtree applied. The node's own modifier shifts
// its descendants but not the node itself. Any other side panics with
// ErrInvalidContourSide.
func Contour(node *segtree.Node, side Side) map[int]float64 {
	if side != SideLeft && side != SideRight {
		panicInvalidSide(side)
	}

	values := make(map[int]float64)
	stack := []modFrame{{node: node}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := frame.node
		x := n.Pos.PreliminaryX + frame.modSum

		current, seen := values[n.Depth]

		switch {
		case !seen:
			values[n.Depth] = x
		case side == SideLeft:
			values[n.Depth] = min(current, x)
		default:
			values[n.Depth] = max(current, x)
		}

		if n.IsLeaf() {
			continue
		}

		childSum := frame.modSum + n.Pos.Modifier
		stack = append(stack, modFrame{node: n.Right, modSum: childSum}, modFrame{node: n.Left, modSum: childSum})
	}

	return values
}
