package priority_queue

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// Item is a handle to a value stored in a Queue. It stays valid until the value is popped or removed.
type Item[V any, P constraints.Ordered] struct {
	object   V
	priority P
	seq      uint64
	index    int
}

// Value returns the stored value.
func (it *Item[V, P]) Value() V {
	return it.object
}

// Priority returns the priority the value was stored with.
func (it *Item[V, P]) Priority() P {
	return it.priority
}

type wrapper[V any, P constraints.Ordered] []*Item[V, P]

// Queue represents a priority queue with MINIMUM priority.
// Items of equal priority come out in insertion order.
type Queue[V any, P constraints.Ordered] struct {
	pq      wrapper[V, P]
	nextSeq uint64
}

func (pq wrapper[V, P]) Len() int {
	return len(pq)
}

func (pq wrapper[V, P]) Less(i, j int) bool {
	if pq[i].priority == pq[j].priority {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].priority < pq[j].priority
}

func (pq wrapper[V, P]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *wrapper[V, P]) Push(x any) {
	item := x.(*Item[V, P])
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *wrapper[V, P]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	*pq = old[0 : n-1]
	return item
}

// New creates a new priority queue. Not required to call.
func New[V any, P constraints.Ordered]() *Queue[V, P] {
	return &Queue[V, P]{}
}

// Len returns the length of the priority queue.
func (q *Queue[V, P]) Len() int {
	return len(q.pq)
}

// Push pushes the 'value' onto the priority queue and returns its handle.
func (q *Queue[V, P]) Push(value V, priority P) *Item[V, P] {
	ret := &Item[V, P]{
		object:   value,
		priority: priority,
		seq:      q.nextSeq,
	}
	q.nextSeq++
	heap.Push(&q.pq, ret)
	return ret
}

// Peek returns the minimum element of the priority queue without removing it.
func (q *Queue[V, P]) Peek() V {
	return q.pq[0].object
}

// PeekPriority returns the minimum element's priority.
func (q *Queue[V, P]) PeekPriority() P {
	return q.pq[0].priority
}

// Pop removes and returns the minimum element of the priority queue.
func (q *Queue[V, P]) Pop() V {
	return heap.Pop(&q.pq).(*Item[V, P]).object
}

// Update modifies the priority of the item in the queue.
func (q *Queue[V, P]) Update(item *Item[V, P], priority P) bool {
	if !q.Contains(item) {
		return false
	}
	item.priority = priority
	heap.Fix(&q.pq, item.index)
	return true
}

// Remove deletes the item from the queue. Returns false if it was not in the queue.
func (q *Queue[V, P]) Remove(item *Item[V, P]) bool {
	if !q.Contains(item) {
		return false
	}
	heap.Remove(&q.pq, item.index)
	return true
}

// Contains returns whether the item is still stored in the queue.
func (q *Queue[V, P]) Contains(item *Item[V, P]) bool {
	return item != nil && item.index >= 0 && item.index < len(q.pq) && q.pq[item.index] == item
}

// Clear removes all items.
func (q *Queue[V, P]) Clear() {
	for _, it := range q.pq {
		it.index = -1
	}
	q.pq = nil
}
