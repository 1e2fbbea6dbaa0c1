// Package segtree provides a rebuildable segment tree over an integer array
// with point updates, lazy additive range updates, and range queries under
// an arbitrary associative aggregate function.
//
// The tree is rebuilt from its backing array after every structural change
// (insert, remove, extend, replace, clear, function switch); nodes are never
// inserted or deleted individually. Point and range updates mutate node data
// in place and mirror the change into the backing array, so the array and the
// tree never disagree when inspected directly.
package segtree

import (
	"errors"
	"fmt"
)

// Sentinel errors for tree operations.
var (
	// ErrIndexOutOfRange indicates an index outside the current array bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrEmptyArray indicates a point operation on an empty array.
	ErrEmptyArray = errors.New("array is empty")
)

// EndIndex selects the end of the array for Insert, Extend and Remove.
const EndIndex = -1

// Tree is a segment tree over an owned integer array.
type Tree struct {
	array []int64
	root  *Node
	fn    AggregateFunction
}

// New builds a tree over a copy of array using fn.
func New(array []int64, fn AggregateFunction) *Tree {
	t := &Tree{
		array: append([]int64(nil), array...),
		fn:    fn,
	}

	t.Rebuild()

	return t
}

// Len returns the length of the backing array.
func (t *Tree) Len() int {
	return len(t.array)
}

// Array returns a copy of the backing array.
func (t *Tree) Array() []int64 {
	return append([]int64(nil), t.array...)
}

// Root returns the root node, or nil when the array is empty.
func (t *Tree) Root() *Node {
	return t.root
}

// Function returns the active aggregate function.
func (t *Tree) Function() AggregateFunction {
	return t.fn
}

// SwitchFunction replaces the aggregate function. Node data computed under
// the previous operator is stale until Rebuild is called.
func (t *Tree) SwitchFunction(fn AggregateFunction) {
	t.fn = fn
}

// Rebuild discards the current nodes and rebuilds them from the array.
// Pending lazy values are dropped; the array already reflects them.
func (t *Tree) Rebuild() {
	if len(t.array) == 0 {
		t.root = nil

		return
	}

	t.root = &Node{}
	t.build(t.root, nil, 0, len(t.array)-1, RootID)
}

func (t *Tree) build(node, parent *Node, low, high, id int) {
	node.parent = parent
	node.Low = low
	node.High = high
	node.ID = id

	if parent != nil {
		node.Depth = parent.Depth + 1
	}

	if low == high {
		node.Data = t.array[low]

		return
	}

	node.Left = &Node{}
	node.Right = &Node{}

	mid := floorMid(low, high)
	t.build(node.Left, node, low, mid, 2*id)
	t.build(node.Right, node, mid+1, high, 2*id+1)

	node.Data = t.fn.Op(node.Left.Data, node.Right.Data)
}

// Query aggregates array[low..high]. Ranges that do not overlap the array,
// including low > high and any range over an empty array, yield the active
// function's Invalid value.
func (t *Tree) Query(low, high int) int64 {
	if t.root == nil {
		return t.fn.Invalid
	}

	return t.query(t.root, low, high)
}

func (t *Tree) query(node *Node, qLow, qHigh int) int64 {
	if isInvalid(node, qLow, qHigh) {
		return t.fn.Invalid
	}

	t.Propagate(node)

	if qLow <= node.Low && node.High <= qHigh {
		return node.Data
	}

	left := t.query(node.Left, qLow, qHigh)
	right := t.query(node.Right, qLow, qHigh)

	return t.fn.Op(left, right)
}

// Update sets array[pos] to val and recomputes the ancestors of its leaf.
func (t *Tree) Update(pos int, val int64) error {
	err := t.checkIndex(pos)
	if err != nil {
		return err
	}

	t.array[pos] = val
	t.update(t.root, pos, val)

	return nil
}

func (t *Tree) update(node *Node, pos int, val int64) {
	t.Propagate(node)

	if node.IsLeaf() {
		node.Data = val

		return
	}

	if pos <= node.Mid() {
		t.update(node.Left, pos, val)
	} else {
		t.update(node.Right, pos, val)
	}

	t.Propagate(node.Left)
	t.Propagate(node.Right)

	node.Data = t.fn.Op(node.Left.Data, node.Right.Data)
}

// UpdateSegmentLazy adds val to every element of array[low..high]. Covered
// nodes absorb the delta immediately and defer it to their children.
func (t *Tree) UpdateSegmentLazy(val int64, low, high int) error {
	if len(t.array) == 0 {
		return ErrEmptyArray
	}

	if low > high || low < 0 || high >= len(t.array) {
		return fmt.Errorf("%w: [%d, %d] not within [0, %d]", ErrIndexOutOfRange, low, high, len(t.array)-1)
	}

	for i := low; i <= high; i++ {
		t.array[i] += val
	}

	t.updateLazy(t.root, val, low, high)

	return nil
}

func (t *Tree) updateLazy(node *Node, val int64, segLow, segHigh int) {
	t.Propagate(node)

	if isInvalid(node, segLow, segHigh) {
		return
	}

	if segLow <= node.Low && node.High <= segHigh {
		node.Data += val * int64(node.Size())

		if !node.IsLeaf() {
			node.Left.LazyData += val
			node.Right.LazyData += val
		}

		return
	}

	t.updateLazy(node.Left, val, segLow, segHigh)
	t.updateLazy(node.Right, val, segLow, segHigh)

	node.Data = t.fn.Op(node.Left.Data, node.Right.Data)
}

// Propagate applies node's pending lazy value to its data and defers it to
// its children. It is a no-op for a clean node.
func (t *Tree) Propagate(node *Node) {
	if node == nil || node.LazyData == 0 {
		return
	}

	node.Data += int64(node.Size()) * node.LazyData

	if !node.IsLeaf() {
		node.Left.LazyData += node.LazyData
		node.Right.LazyData += node.LazyData
	}

	node.LazyData = 0
}

// PropagateAll flushes every pending lazy value, top-down.
func (t *Tree) PropagateAll() {
	t.Walk(t.Propagate)
}

// Walk visits every node breadth-first.
func (t *Tree) Walk(visit func(*Node)) {
	if t.root == nil {
		return
	}

	queue := []*Node{t.root}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		visit(node)

		if !node.IsLeaf() {
			queue = append(queue, node.Left, node.Right)
		}
	}
}

// NodeCount returns the number of nodes, 2n-1 for a non-empty array.
func (t *Tree) NodeCount() int {
	if len(t.array) == 0 {
		return 0
	}

	return 2*len(t.array) - 1
}

// Find returns the node with the given heap-style ID, or nil.
func (t *Tree) Find(id int) *Node {
	if id < RootID || t.root == nil {
		return nil
	}

	// The bits of id below its leading one spell the path from the root.
	top := 0
	for (id >> (top + 1)) != 0 {
		top++
	}

	node := t.root

	for bit := top - 1; bit >= 0 && node != nil; bit-- {
		if node.IsLeaf() {
			return nil
		}

		if id&(1<<bit) == 0 {
			node = node.Left
		} else {
			node = node.Right
		}
	}

	return node
}

func (t *Tree) checkIndex(pos int) error {
	if len(t.array) == 0 {
		return ErrEmptyArray
	}

	if pos < 0 || pos >= len(t.array) {
		return fmt.Errorf("%w: %d not within [0, %d]", ErrIndexOutOfRange, pos, len(t.array)-1)
	}

	return nil
}

// isInvalid reports whether node's segment does not overlap [qLow, qHigh].
func isInvalid(node *Node, qLow, qHigh int) bool {
	return node.Low > node.High || node.Low > qHigh || node.High < qLow
}
