/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/named-data/ccnfwd/ccn"
)

// MatchingKind is one of the CCNx matching rules.
type MatchingKind int

// Matching kinds, from least to most specific.
const (
	MatchByName MatchingKind = iota
	MatchByNameAndKeyId
	MatchByNameAndObjectHash
	numMatchingKinds
)

func (k MatchingKind) String() string {
	switch k {
	case MatchByName:
		return "Name"
	case MatchByNameAndKeyId:
		return "Name+KeyId"
	case MatchByNameAndObjectHash:
		return "Name+ObjectHash"
	default:
		return "Unknown"
	}
}

type matchingEntry[V comparable] struct {
	key   []byte
	value V
}

// matchingTable buckets entries by the hash of their key. Keys are compared byte by byte on collision.
type matchingTable[V comparable] struct {
	buckets map[uint64][]*matchingEntry[V]
	count   int
}

func (t *matchingTable[V]) find(key []byte) (*matchingEntry[V], uint64, int) {
	h := xxhash.Sum64(key)
	for i, e := range t.buckets[h] {
		if bytes.Equal(e.key, key) {
			return e, h, i
		}
	}
	return nil, h, -1
}

func (t *matchingTable[V]) insert(key []byte, value V) bool {
	e, h, _ := t.find(key)
	if e != nil {
		return false
	}
	t.buckets[h] = append(t.buckets[h], &matchingEntry[V]{key: key, value: value})
	t.count++
	return true
}

func (t *matchingTable[V]) removeAt(h uint64, i int) {
	bucket := t.buckets[h]
	bucket[i] = bucket[len(bucket)-1]
	bucket[len(bucket)-1] = nil
	if len(bucket) == 1 {
		delete(t.buckets, h)
	} else {
		t.buckets[h] = bucket[:len(bucket)-1]
	}
	t.count--
}

// MatchingRulesTable indexes values by the three CCNx matching keys of a message: Name, Name+KeyId and
// Name+ObjectHash. It is not safe for concurrent use.
type MatchingRulesTable[V comparable] struct {
	tables    [numMatchingKinds]matchingTable[V]
	destroyer func(V)
}

// NewMatchingRulesTable creates an empty table. The destroyer, if not nil, is called by the Destroy
// variants of the removal functions.
func NewMatchingRulesTable[V comparable](destroyer func(V)) *MatchingRulesTable[V] {
	m := &MatchingRulesTable[V]{destroyer: destroyer}
	for i := range m.tables {
		m.tables[i].buckets = make(map[uint64][]*matchingEntry[V])
	}
	return m
}

// matchingKeys returns the key of the message for each kind, nil where the message lacks key material.
// A message without a name has no key at all.
func matchingKeys(msg *ccn.Message) [numMatchingKinds][]byte {
	var keys [numMatchingKinds][]byte
	if !msg.HasName() {
		return keys
	}
	name := msg.NameBytes()
	keys[MatchByName] = name
	if msg.HasKeyID() {
		keys[MatchByNameAndKeyId] = compositeKey(name, msg.KeyID())
	}
	if msg.HasObjectHash() {
		keys[MatchByNameAndObjectHash] = compositeKey(name, msg.ObjectHash())
	}
	return keys
}

func compositeKey(name []byte, suffix []byte) []byte {
	key := make([]byte, 2, 2+len(name)+len(suffix))
	binary.BigEndian.PutUint16(key, uint16(len(name)))
	key = append(key, name...)
	return append(key, suffix...)
}

// BestKind returns the most specific matching kind the message has key material for.
func BestKind(msg *ccn.Message) (MatchingKind, bool) {
	keys := matchingKeys(msg)
	for k := numMatchingKinds - 1; k >= 0; k-- {
		if keys[k] != nil {
			return k, true
		}
	}
	return 0, false
}

// AddToBestTable inserts value into the most specific table the message has a key for. Returns false if
// the key is already present or the message has no key.
func (m *MatchingRulesTable[V]) AddToBestTable(msg *ccn.Message, value V) bool {
	keys := matchingKeys(msg)
	for k := numMatchingKinds - 1; k >= 0; k-- {
		if keys[k] != nil {
			return m.tables[k].insert(keys[k], value)
		}
	}
	return false
}

// AddToAllTables inserts value into every table the message has a key for, skipping tables where the key
// is already present. Returns the number of tables the value was inserted into.
func (m *MatchingRulesTable[V]) AddToAllTables(msg *ccn.Message, value V) int {
	keys := matchingKeys(msg)
	added := 0
	for k := range keys {
		if keys[k] != nil && m.tables[k].insert(keys[k], value) {
			added++
		}
	}
	return added
}

// Get probes the Name+ObjectHash table, then the Name+KeyId table, then the Name table, and returns the
// first hit. Only tables the message has key material for are probed.
func (m *MatchingRulesTable[V]) Get(msg *ccn.Message) (V, bool) {
	keys := matchingKeys(msg)
	for k := numMatchingKinds - 1; k >= 0; k-- {
		if keys[k] == nil {
			continue
		}
		if e, _, _ := m.tables[k].find(keys[k]); e != nil {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// GetExact probes only the most specific table the message has key material for.
func (m *MatchingRulesTable[V]) GetExact(msg *ccn.Message) (V, bool) {
	keys := matchingKeys(msg)
	for k := numMatchingKinds - 1; k >= 0; k-- {
		if keys[k] == nil {
			continue
		}
		if e, _, _ := m.tables[k].find(keys[k]); e != nil {
			return e.value, true
		}
		break
	}
	var zero V
	return zero, false
}

// GetUnion probes every table with the keys of the message and returns each distinct hit.
func (m *MatchingRulesTable[V]) GetUnion(msg *ccn.Message) []V {
	keys := matchingKeys(msg)
	var values []V
	for k := range keys {
		if keys[k] == nil {
			continue
		}
		e, _, _ := m.tables[k].find(keys[k])
		if e == nil {
			continue
		}
		duplicate := false
		for _, v := range values {
			if v == e.value {
				duplicate = true
				break
			}
		}
		if !duplicate {
			values = append(values, e.value)
		}
	}
	return values
}

// RemoveFromBest removes the entry keyed by the most specific key of the message and returns its value.
// Other tables are not touched.
func (m *MatchingRulesTable[V]) RemoveFromBest(msg *ccn.Message) (V, bool) {
	keys := matchingKeys(msg)
	for k := numMatchingKinds - 1; k >= 0; k-- {
		if keys[k] == nil {
			continue
		}
		if e, h, i := m.tables[k].find(keys[k]); e != nil {
			m.tables[k].removeAt(h, i)
			return e.value, true
		}
		break
	}
	var zero V
	return zero, false
}

// RemoveFromAll removes the entries keyed by every key of the message and returns their distinct values.
func (m *MatchingRulesTable[V]) RemoveFromAll(msg *ccn.Message) []V {
	return m.removeFromAll(msg, nil)
}

// RemoveValueFromAll removes the entries keyed by the keys of the message, but only where they hold value.
// Returns the number of entries removed.
func (m *MatchingRulesTable[V]) RemoveValueFromAll(msg *ccn.Message, value V) int {
	return len(m.removeFromAll(msg, &value))
}

func (m *MatchingRulesTable[V]) removeFromAll(msg *ccn.Message, only *V) []V {
	keys := matchingKeys(msg)
	var removed []V
	for k := range keys {
		if keys[k] == nil {
			continue
		}
		e, h, i := m.tables[k].find(keys[k])
		if e == nil || (only != nil && e.value != *only) {
			continue
		}
		m.tables[k].removeAt(h, i)
		removed = append(removed, e.value)
	}
	return removed
}

// DestroyFromBest is RemoveFromBest followed by a call to the destroyer on the removed value.
func (m *MatchingRulesTable[V]) DestroyFromBest(msg *ccn.Message) bool {
	v, ok := m.RemoveFromBest(msg)
	if ok && m.destroyer != nil {
		m.destroyer(v)
	}
	return ok
}

// DestroyFromAll is RemoveFromAll followed by one call to the destroyer per distinct removed value.
func (m *MatchingRulesTable[V]) DestroyFromAll(msg *ccn.Message) int {
	removed := m.RemoveFromAll(msg)
	if m.destroyer != nil {
		seen := make(map[V]struct{}, len(removed))
		for _, v := range removed {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				m.destroyer(v)
			}
		}
	}
	return len(removed)
}

// Len returns the number of entries in the table of the given kind.
func (m *MatchingRulesTable[V]) Len(kind MatchingKind) int {
	return m.tables[kind].count
}

// Each calls f once per distinct value stored in any table.
func (m *MatchingRulesTable[V]) Each(f func(V)) {
	seen := make(map[V]struct{})
	for k := range m.tables {
		for _, bucket := range m.tables[k].buckets {
			for _, e := range bucket {
				if _, ok := seen[e.value]; ok {
					continue
				}
				seen[e.value] = struct{}{}
				f(e.value)
			}
		}
	}
}

// Clear removes every entry without calling the destroyer.
func (m *MatchingRulesTable[V]) Clear() {
	for i := range m.tables {
		m.tables[i].buckets = make(map[uint64][]*matchingEntry[V])
		m.tables[i].count = 0
	}
}
