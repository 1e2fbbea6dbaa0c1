// Package layout assigns 2-D coordinates to segment tree nodes.
//
// The Engine runs a Reingold–Tilford layout specialized for full binary
// trees in two linear passes: a post-order pass computing preliminary x
// positions and subtree modifiers, and a pre-order pass flushing the
// accumulated modifiers into final layout coordinates. Transform maps the
// layout coordinates onto the screen with a zoom factor and pan offsets.
package layout

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
)

// ErrInvalidContourSide is the panic value for a contour side that is neither left nor right.
var ErrInvalidContourSide = errors.New("contour side must be left or right")

// Default layout constants.
const (
	DefaultNodeDistance    = 0.7
	DefaultSiblingDistance = 0.0
	DefaultTreeDistance    = 0.1
	DefaultScale           = 240
	DefaultVerticalScale   = 160
	DefaultDepthOffset     = 1
	DefaultViewportWidth   = 1300
)

// Config holds the spacing parameters of the layout.
type Config struct {
	// NodeDistance is the minimum horizontal gap between adjacent siblings.
	NodeDistance float64
	// SiblingDistance is added to NodeDistance when placing a right child.
	SiblingDistance float64
	// TreeDistance is the extra gap kept between neighbouring subtrees.
	TreeDistance float64
	// Scale converts layout units into horizontal pixels.
	Scale float64
	// VerticalScale converts depth into vertical pixels.
	VerticalScale float64
	// DepthOffset shifts every level down so the root is not at y=0.
	DepthOffset float64
	// ViewportWidth is the width used to center the root.
	ViewportWidth int
}

// DefaultConfig returns the stock layout parameters.
func DefaultConfig() Config {
	return Config{
		NodeDistance:    DefaultNodeDistance,
		SiblingDistance: DefaultSiblingDistance,
		TreeDistance:    DefaultTreeDistance,
		Scale:           DefaultScale,
		VerticalScale:   DefaultVerticalScale,
		DepthOffset:     DefaultDepthOffset,
		ViewportWidth:   DefaultViewportWidth,
	}
}

// HalfWidth returns the horizontal center of the viewport.
func (c Config) HalfWidth() int {
	return c.ViewportWidth / 2
}

// minDistance is the smallest allowed gap between two contours at one depth.
func (c Config) minDistance() float64 {
	return c.TreeDistance + c.NodeDistance
}

// siblingStep is the offset of a right child from its left sibling.
func (c Config) siblingStep() float64 {
	return c.SiblingDistance + c.NodeDistance
}

// Engine computes node layout coordinates.
type Engine struct {
	cfg Config
}

// NewEngine creates a layout engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// GeneratePositions lays out the tree rooted at root, writing
// Pos.OriginalX and Pos.OriginalY for every node. A nil root is a no-op.
func (e *Engine) GeneratePositions(root *segtree.Node) {
	if root == nil {
		return
	}

	e.computePrelimX(root)
	e.computeFinalCoordinates(root)
}

// computePrelimX assigns preliminary x positions bottom-up. Left subtrees are
// finished before their right siblings so every right node can be placed
// relative to its sibling.
func (e *Engine) computePrelimX(root *segtree.Node) {
	for _, node := range postOrder(root) {
		node.Pos.Modifier = 0

		if node.IsLeaf() {
			if node.IsLeftChild() {
				node.Pos.PreliminaryX = 0
			} else {
				node.Pos.PreliminaryX = node.PreviousSibling().Pos.PreliminaryX + e.cfg.siblingStep()
			}

			continue
		}

		mid := (node.Left.Pos.PreliminaryX + node.Right.Pos.PreliminaryX) / 2

		if node.IsLeftChild() {
			node.Pos.PreliminaryX = mid

			continue
		}

		node.Pos.PreliminaryX = node.PreviousSibling().Pos.PreliminaryX + e.cfg.siblingStep()
		node.Pos.Modifier = node.Pos.PreliminaryX - mid

		e.checkForConflicts(node)
	}
}

// checkForConflicts pushes a right subtree away from its left sibling until
// their contours are at least minDistance apart on every shared depth.
func (e *Engine) checkForConflicts(node *segtree.Node) {
	minDistance := e.cfg.minDistance()
	shift := 0.0

	nodeContour := Contour(node, SideLeft)
	siblingContour := Contour(node.PreviousSibling(), SideRight)

	deepest := min(maxDepth(nodeContour), maxDepth(siblingContour))

	for level := node.Depth + 1; level <= deepest; level++ {
		distance := nodeContour[level] - siblingContour[level]
		if distance+shift >= minDistance {
			continue
		}

		shift = max(minDistance-distance, shift)
	}

	if shift == 0 {
		return
	}

	node.Pos.PreliminaryX += shift
	node.Pos.Modifier += shift
}

// modFrame carries the modifier sum accumulated above a node.
type modFrame struct {
	node   *segtree.Node
	modSum float64
}

// computeFinalCoordinates flushes modifiers top-down and scales the result.
func (e *Engine) computeFinalCoordinates(root *segtree.Node) {
	stack := []modFrame{{node: root}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := frame.node
		node.Pos.PreliminaryX += frame.modSum
		childSum := frame.modSum + node.Pos.Modifier
		node.Pos.Modifier = 0

		node.Pos.OriginalX = int(node.Pos.PreliminaryX * e.cfg.Scale)
		node.Pos.OriginalY = int((float64(node.Depth) + e.cfg.DepthOffset) * e.cfg.VerticalScale)

		if node.IsLeaf() {
			continue
		}

		stack = append(stack, modFrame{node: node.Right, modSum: childSum}, modFrame{node: node.Left, modSum: childSum})
	}
}

// postOrder returns the subtree nodes with left subtrees before right
// subtrees and children before parents.
func postOrder(root *segtree.Node) []*segtree.Node {
	pending := []*segtree.Node{root}
	reversed := make([]*segtree.Node, 0)

	for len(pending) > 0 {
		node := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		reversed = append(reversed, node)

		if !node.IsLeaf() {
			pending = append(pending, node.Left, node.Right)
		}
	}

	order := make([]*segtree.Node, len(reversed))
	for i, node := range reversed {
		order[len(reversed)-1-i] = node
	}

	return order
}

func maxDepth(contour map[int]float64) int {
	deepest := 0

	for depth := range contour {
		deepest = max(deepest, depth)
	}

	return deepest
}

// panicInvalidSide reports a programming error in a contour request.
func panicInvalidSide(side Side) {
	panic(fmt.Errorf("%w: got %d", ErrInvalidContourSide, int(side)))
}
