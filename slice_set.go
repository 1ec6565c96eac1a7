package turnip

import (
	"golang.org/x/exp/slices"
)

// sliceSet is an insertion-ordered set.
// It is not locked: only the strand that currently
// holds control touches it.
type sliceSet[T comparable] struct {
	items []T
}

func newSliceSet[T comparable]() *sliceSet[T] {
	return new(sliceSet[T])
}

func (slice *sliceSet[T]) Add(x T) {
	if slices.Contains(slice.items, x) {
		return
	}
	slice.items = append(slice.items, x)
}

func (slice *sliceSet[T]) Remove(x T) {
	index := slices.Index(slice.items, x)
	if index >= 0 {
		slice.items = slices.Delete(slice.items, index, index+1)
	}
}

func (slice *sliceSet[T]) Clear() {
	clear(slice.items)
	slice.items = slice.items[:0]
}

func (slice *sliceSet[T]) Len() int {
	return len(slice.items)
}

// Items returns a copy, so the set can be modified
// while iterating over the result.
func (slice *sliceSet[T]) Items() []T {
	return slices.Clone(slice.items)
}
