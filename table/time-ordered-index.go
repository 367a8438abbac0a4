/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/utils/priority_queue"
)

// TimeHandle is the position of an entry in a TimeOrderedIndex.
type TimeHandle[T any] struct {
	item *priority_queue.Item[T, core.Ticks]
}

// Valid returns whether the handle refers to an entry.
func (h TimeHandle[T]) Valid() bool {
	return h.item != nil
}

// Time returns the time the entry is ordered by.
func (h TimeHandle[T]) Time() core.Ticks {
	return h.item.Priority()
}

// TimeOrderedIndex orders entries by time. Entries with the same time are ordered by insertion, so that
// distinct entries never compare equal.
type TimeOrderedIndex[T any] struct {
	pq *priority_queue.Queue[T, core.Ticks]
}

// NewTimeOrderedIndex creates an empty index.
func NewTimeOrderedIndex[T any]() *TimeOrderedIndex[T] {
	return &TimeOrderedIndex[T]{pq: priority_queue.New[T, core.Ticks]()}
}

// Add inserts data at time t.
func (idx *TimeOrderedIndex[T]) Add(data T, t core.Ticks) TimeHandle[T] {
	return TimeHandle[T]{item: idx.pq.Push(data, t)}
}

// GetOldest returns the entry with the earliest time without removing it.
func (idx *TimeOrderedIndex[T]) GetOldest() (T, core.Ticks, bool) {
	if idx.pq.Len() == 0 {
		var zero T
		return zero, 0, false
	}
	return idx.pq.Peek(), idx.pq.PeekPriority(), true
}

// PopOldest removes and returns the entry with the earliest time.
func (idx *TimeOrderedIndex[T]) PopOldest() (T, core.Ticks, bool) {
	data, t, ok := idx.GetOldest()
	if ok {
		idx.pq.Pop()
	}
	return data, t, ok
}

// Update moves the entry to a new time.
func (idx *TimeOrderedIndex[T]) Update(h TimeHandle[T], t core.Ticks) bool {
	return idx.pq.Update(h.item, t)
}

// Remove deletes the entry. Returns false if it was no longer in the index.
func (idx *TimeOrderedIndex[T]) Remove(h TimeHandle[T]) bool {
	return idx.pq.Remove(h.item)
}

// Len returns the number of entries.
func (idx *TimeOrderedIndex[T]) Len() int {
	return idx.pq.Len()
}

// Clear removes all entries.
func (idx *TimeOrderedIndex[T]) Clear() {
	idx.pq.Clear()
}
