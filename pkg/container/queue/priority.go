package queue

import (
	"cmp"
	"container/heap"
)

// Less orders values ascending. A PriorityQueue built with Less pops the
// largest value first (max-heap).
func Less[T cmp.Ordered](a, b T) bool { return a < b }

// Greater orders values descending. A PriorityQueue built with Greater pops
// the smallest value first (min-heap).
func Greater[T cmp.Ordered](a, b T) bool { return a > b }

// PriorityQueue is an unbounded, goroutine-safe priority queue with blocking
// pops. Pops return the element that is greatest under the queue's less
// function; elements that compare equal come out in unspecified order.
type PriorityQueue[T any] struct {
	blocking[T]
}

// NewPriority creates an empty priority queue ordered by less. less must be a
// strict weak ordering and must not panic; a panicking comparator leaves the
// heap in an undefined state.
func NewPriority[T any](less func(a, b T) bool) *PriorityQueue[T] {
	return NewPriorityWithConfig(less, Config{})
}

// NewPriorityWithConfig creates an empty priority queue with instrumentation settings.
func NewPriorityWithConfig[T any](less func(a, b T) bool, config Config) *PriorityQueue[T] {
	if less == nil {
		panic("less function cannot be nil")
	}
	q := &PriorityQueue[T]{}
	q.init(&heapStore[T]{h: binaryHeap[T]{less: less}}, config)
	return q
}

// NewOrdered creates a max-heap priority queue over an ordered type.
func NewOrdered[T cmp.Ordered]() *PriorityQueue[T] {
	return NewPriority(Less[T])
}

// binaryHeap adapts a slice to container/heap. heap keeps its "smallest"
// element on top, so the comparison is flipped to surface the greatest
// element under less.
type binaryHeap[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *binaryHeap[T]) Len() int           { return len(h.items) }
func (h *binaryHeap[T]) Less(i, j int) bool { return h.less(h.items[j], h.items[i]) }
func (h *binaryHeap[T]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *binaryHeap[T]) Push(x any) {
	h.items = append(h.items, x.(T))
}

func (h *binaryHeap[T]) Pop() any {
	n := len(h.items) - 1
	item := h.items[n]
	var zero T
	h.items[n] = zero // Clear reference
	h.items = h.items[:n]
	return item
}

// heapStore is the store used by PriorityQueue.
type heapStore[T any] struct {
	h binaryHeap[T]
}

func (s *heapStore[T]) push(item T) { heap.Push(&s.h, item) }
func (s *heapStore[T]) pop() T      { return heap.Pop(&s.h).(T) }
func (s *heapStore[T]) len() int    { return len(s.h.items) }

func (s *heapStore[T]) clear() {
	clear(s.h.items)
	s.h.items = s.h.items[:0]
}
