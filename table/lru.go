/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	list "github.com/bahlo/generic-list-go"
)

// LruHandle is the position of an entry in an LruList.
type LruHandle[T any] struct {
	elem *list.Element[T]
}

// Data returns the data stored at this position.
func (h LruHandle[T]) Data() T {
	return h.elem.Value
}

// Valid returns whether the handle refers to an entry.
func (h LruHandle[T]) Valid() bool {
	return h.elem != nil
}

// LruList orders entries from most recently used (head) to least recently used (tail). The list does not
// own its data.
type LruList[T any] struct {
	l *list.List[T]
}

// NewLruList creates an empty list.
func NewLruList[T any]() *LruList[T] {
	return &LruList[T]{l: list.New[T]()}
}

// NewHeadEntry inserts data at the head.
func (lru *LruList[T]) NewHeadEntry(data T) LruHandle[T] {
	return LruHandle[T]{elem: lru.l.PushFront(data)}
}

// MoveToHead marks the entry as most recently used.
func (lru *LruList[T]) MoveToHead(h LruHandle[T]) {
	lru.l.MoveToFront(h.elem)
}

// Tail returns the least recently used entry without removing it.
func (lru *LruList[T]) Tail() (LruHandle[T], bool) {
	e := lru.l.Back()
	return LruHandle[T]{elem: e}, e != nil
}

// PopTail unlinks and returns the least recently used entry.
func (lru *LruList[T]) PopTail() (LruHandle[T], bool) {
	e := lru.l.Back()
	if e == nil {
		return LruHandle[T]{}, false
	}
	lru.l.Remove(e)
	return LruHandle[T]{elem: e}, true
}

// EntryDestroy unlinks the entry wherever it is in the list. Destroying an entry twice is a no-op.
func (lru *LruList[T]) EntryDestroy(h LruHandle[T]) {
	if h.elem != nil {
		lru.l.Remove(h.elem)
	}
}

// Len returns the number of entries.
func (lru *LruList[T]) Len() int {
	return lru.l.Len()
}

// Clear removes all entries.
func (lru *LruList[T]) Clear() {
	lru.l = list.New[T]()
}
