// Package queue provides the distance-ordered priority queue used by every
// search algorithm: a plain min/max heap for graph traversal, a capped
// variant for bounded top-K collection, and a duplicate-free decorator for
// search paths that may reach the same candidate more than once.
package queue

import (
	"container/heap"

	"github.com/anndex/anndex/vector"
)

// Item is one (id, distance) entry in a PriorityQueue.
type Item[T vector.Float] struct {
	ID       uint32
	Distance T
	index    int
}

// PriorityQueue is a container/heap-backed priority queue over Items.
// Order=false is a min-heap (Top is nearest, ascending distance); Order=true
// is a max-heap (Top is farthest), used to track the current worst
// candidate in a bounded search.
type PriorityQueue[T vector.Float] struct {
	Order bool
	Items []*Item[T]
}

var _ heap.Interface = (*PriorityQueue[float32])(nil)

// New constructs an empty PriorityQueue with the given orientation.
func New[T vector.Float](order bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{Order: order}
}

// Len returns the number of elements in the queue.
func (pq *PriorityQueue[T]) Len() int { return len(pq.Items) }

// Less reports whether the element with index i should sort before j.
func (pq *PriorityQueue[T]) Less(i, j int) bool {
	if !pq.Order {
		return pq.Items[i].Distance < pq.Items[j].Distance
	}
	return pq.Items[i].Distance > pq.Items[j].Distance
}

// Swap swaps the elements with indexes i and j.
func (pq *PriorityQueue[T]) Swap(i, j int) {
	pq.Items[i], pq.Items[j] = pq.Items[j], pq.Items[i]
	pq.Items[i].index, pq.Items[j].index = i, j
}

// Push implements heap.Interface; use PushItem for the typed entry point.
func (pq *PriorityQueue[T]) Push(x any) {
	item := x.(*Item[T])
	item.index = len(pq.Items)
	pq.Items = append(pq.Items, item)
}

// Pop implements heap.Interface; use PopItem for the typed entry point.
func (pq *PriorityQueue[T]) Pop() any {
	old := pq.Items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	pq.Items = old[:n-1]
	return item
}

// PushItem pushes (id, distance) onto the queue, maintaining heap order.
func (pq *PriorityQueue[T]) PushItem(id uint32, distance T) {
	heap.Push(pq, &Item[T]{ID: id, Distance: distance})
}

// PopItem removes and returns the top item.
func (pq *PriorityQueue[T]) PopItem() *Item[T] {
	return heap.Pop(pq).(*Item[T])
}

// Top returns the top item without removing it. Callers must check Len
// first; Top panics on an empty queue.
func (pq *PriorityQueue[T]) Top() *Item[T] {
	return pq.Items[0]
}

// Bounded keeps the K closest (id, distance) pairs seen so far. It is a
// max-heap internally: Top is always the current worst of the retained K,
// so a new candidate can be compared against it in O(1) and admitted in
// O(log K).
type Bounded[T vector.Float] struct {
	pq *PriorityQueue[T]
	k  int
}

// NewBounded constructs a Bounded queue retaining at most k items.
func NewBounded[T vector.Float](k int) *Bounded[T] {
	return &Bounded[T]{pq: New[T](true), k: k}
}

// Push offers (id, distance) to the bounded set. It is admitted if the
// set has fewer than k items, or distance improves on the current worst.
// Returns true if the item was admitted.
func (b *Bounded[T]) Push(id uint32, distance T) bool {
	if b.pq.Len() < b.k {
		b.pq.PushItem(id, distance)
		return true
	}
	if b.pq.Len() == 0 {
		return false
	}
	if distance >= b.pq.Top().Distance {
		return false
	}
	b.pq.PopItem()
	b.pq.PushItem(id, distance)
	return true
}

// Len returns the number of items currently retained.
func (b *Bounded[T]) Len() int { return b.pq.Len() }

// Cap returns the maximum number of items this queue retains.
func (b *Bounded[T]) Cap() int { return b.k }

// Full reports whether the queue currently holds Cap items.
func (b *Bounded[T]) Full() bool { return b.pq.Len() >= b.k }

// Worst returns the current worst (largest) retained distance. Worst
// panics if the set is empty.
func (b *Bounded[T]) Worst() T { return b.pq.Top().Distance }

// Drain empties the set and returns its items in ascending distance order.
func (b *Bounded[T]) Drain() []Item[T] {
	out := make([]Item[T], b.pq.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = *b.pq.PopItem()
	}
	return out
}

// uniqueKey is the (id, distance) pair Unique deduplicates on.
type uniqueKey[T vector.Float] struct {
	id       uint32
	distance T
}

// Unique wraps a Bounded queue so that pushing an (id, distance) pair
// already seen is a no-op rather than a second, duplicate entry.
type Unique[T vector.Float] struct {
	bounded *Bounded[T]
	seen    map[uniqueKey[T]]struct{}
}

// NewUnique constructs a Unique queue retaining at most k distinct pairs.
func NewUnique[T vector.Float](k int) *Unique[T] {
	return &Unique[T]{bounded: NewBounded[T](k), seen: make(map[uniqueKey[T]]struct{})}
}

// Push offers (id, distance); a pair already seen is ignored, matching the
// set semantics of a std::set-backed unique priority queue.
func (u *Unique[T]) Push(id uint32, distance T) bool {
	key := uniqueKey[T]{id: id, distance: distance}
	if _, ok := u.seen[key]; ok {
		return false
	}
	u.seen[key] = struct{}{}
	return u.bounded.Push(id, distance)
}

// Len returns the number of items currently retained.
func (u *Unique[T]) Len() int { return u.bounded.Len() }

// Drain empties the set and returns its items in ascending distance order.
func (u *Unique[T]) Drain() []Item[T] {
	return u.bounded.Drain()
}
