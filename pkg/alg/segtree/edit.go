package segtree

import (
	"fmt"
	"slices"
)

// Insert places value before array[index] and rebuilds. EndIndex appends.
func (t *Tree) Insert(value int64, index int) error {
	return t.Extend([]int64{value}, index)
}

// Extend splices values in before array[index] and rebuilds. EndIndex appends.
func (t *Tree) Extend(values []int64, index int) error {
	if index == EndIndex {
		index = len(t.array)
	}

	if index < 0 || index > len(t.array) {
		return fmt.Errorf("%w: insertion point %d not within [0, %d]", ErrIndexOutOfRange, index, len(t.array))
	}

	t.array = slices.Insert(t.array, index, values...)
	t.Rebuild()

	return nil
}

// Remove deletes array[index] and rebuilds. EndIndex removes the last element.
func (t *Tree) Remove(index int) error {
	if index == EndIndex {
		index = len(t.array) - 1
	}

	err := t.checkIndex(index)
	if err != nil {
		return err
	}

	t.array = slices.Delete(t.array, index, index+1)
	t.Rebuild()

	return nil
}

// Replace overwrites array[index] with value and rebuilds.
func (t *Tree) Replace(index int, value int64) error {
	err := t.checkIndex(index)
	if err != nil {
		return err
	}

	t.array[index] = value
	t.Rebuild()

	return nil
}

// Clear empties the array and drops every node.
func (t *Tree) Clear() {
	t.array = t.array[:0]
	t.root = nil
}
