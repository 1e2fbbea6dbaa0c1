package segtree

// RootID is the heap-style identifier of the root node.
const RootID = 1

// Position caches a node's layout and screen coordinates. The segment tree
// never writes it; the layout engine and the coordinate transform do.
type Position struct {
	// PreliminaryX is the layout-space x before modifiers are flushed.
	PreliminaryX float64
	// Modifier is the pending horizontal shift of the node's subtree.
	Modifier float64

	// OriginalX and OriginalY are the laid-out coordinates before zoom.
	OriginalX int
	OriginalY int

	// XOffset and YOffset accumulate panning.
	XOffset int
	YOffset int

	// X and Y are the screen coordinates: original*zoom + offset.
	X int
	Y int
}

// Node is a segment tree node aggregating array[Low..High].
// Internal nodes always have both children.
type Node struct {
	Left  *Node
	Right *Node

	// parent is a back-reference used for sibling lookups only.
	parent *Node

	Low  int
	High int

	Data     int64
	LazyData int64

	Depth int
	ID    int

	Pos Position
}

// IsLeaf reports whether the node covers a single element.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// IsLeftChild reports whether n is its parent's left child. The root counts
// as a left node so that it never has a previous sibling.
func (n *Node) IsLeftChild() bool {
	return n.parent == nil || n.parent.Left == n
}

// PreviousSibling returns the left sibling of a right child, or nil.
func (n *Node) PreviousSibling() *Node {
	if n.IsLeftChild() {
		return nil
	}

	return n.parent.Left
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the left and right children; both nil for a leaf.
func (n *Node) Children() (left, right *Node) { //nolint:nonamedreturns // documents order
	return n.Left, n.Right
}

// Size returns the number of array elements the node covers.
func (n *Node) Size() int {
	return n.High - n.Low + 1
}

// Mid returns the split point of the node's segment.
func (n *Node) Mid() int {
	return floorMid(n.Low, n.High)
}

// floorMid is (low+high)//2 rounded toward negative infinity.
func floorMid(low, high int) int {
	sum := low + high
	if sum < 0 && sum%2 != 0 {
		return sum/2 - 1
	}

	return sum / 2
}
