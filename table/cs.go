/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"bytes"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
)

// CsEntry is a cached Content Object.
type CsEntry struct {
	object  *ccn.Message
	lru     LruHandle[*CsEntry]
	expiry  TimeHandle[*CsEntry]
	expires core.Ticks
	hits    uint64
}

// Object returns the cached Content Object.
func (e *CsEntry) Object() *ccn.Message {
	return e.object
}

// Expiry returns the time after which the entry may no longer be served, if it has one.
func (e *CsEntry) Expiry() (core.Ticks, bool) {
	return e.expires, e.expiry.Valid()
}

// Hits returns how many times the entry was served.
func (e *CsEntry) Hits() uint64 {
	return e.hits
}

func (e *CsEntry) expired(now core.Ticks) bool {
	return e.expiry.Valid() && e.expires <= now
}

// CsCounters are the running counters of a Content Store.
type CsCounters struct {
	Adds          uint64 `json:"adds"`
	Refreshes     uint64 `json:"refreshes"`
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	EvictionsLRU  uint64 `json:"evictionsLru"`
	EvictionsTime uint64 `json:"evictionsTime"`
	Removes       uint64 `json:"removes"`
}

// ContentStore is a bounded cache of Content Objects. Capacity overflow evicts the least recently used
// object; objects carrying an expiry or recommended cache time are also removed by the time sweep once
// that time passes. It is not safe for concurrent use.
type ContentStore struct {
	capacity int
	table    *MatchingRulesTable[*CsEntry]
	lru      *LruList[*CsEntry]
	times    *TimeOrderedIndex[*CsEntry]
	// Entries sharing a name, oldest first
	sameName map[string][]*CsEntry
	count    int
	counters CsCounters
}

// NewContentStore creates a Content Store holding at most capacity objects.
func NewContentStore(capacity int) *ContentStore {
	if capacity < 0 {
		capacity = 0
	}
	return &ContentStore{
		capacity: capacity,
		table:    NewMatchingRulesTable[*CsEntry](nil),
		lru:      NewLruList[*CsEntry](),
		times:    NewTimeOrderedIndex[*CsEntry](),
		sameName: make(map[string][]*CsEntry),
	}
}

// NewConfiguredContentStore creates a Content Store with the configured capacity.
func NewConfiguredContentStore() *ContentStore {
	return NewContentStore(csCapacity)
}

func (cs *ContentStore) String() string {
	return "ContentStore"
}

// objectExpiry returns the earliest of the expiry time and the recommended cache time of the object.
func objectExpiry(object *ccn.Message) (core.Ticks, bool) {
	expiry, hasExpiry := object.ExpiryTime()
	cacheTime, hasCacheTime := object.RecommendedCacheTime()
	switch {
	case hasExpiry && hasCacheTime:
		if cacheTime < expiry {
			return cacheTime, true
		}
		return expiry, true
	case hasExpiry:
		return expiry, true
	case hasCacheTime:
		return cacheTime, true
	}
	return 0, false
}

// Save caches a Content Object. An object already cached is marked as recently used. When the store is
// full the least recently used object is evicted first. Returns false if the object cannot be stored:
// it is not a named Content Object, it is already expired, or the capacity is zero.
func (cs *ContentStore) Save(object *ccn.Message, now core.Ticks) bool {
	if object == nil {
		panic("ContentStore.Save called with nil object")
	}
	if object.Type() != ccn.ContentObject || !object.HasName() || cs.capacity == 0 {
		return false
	}
	expires, hasExpiry := objectExpiry(object)
	if hasExpiry && expires <= now {
		core.LogTrace(cs, "Not caching expired ", object.Name())
		return false
	}

	if existing, ok := cs.table.GetExact(object); ok {
		cs.lru.MoveToHead(existing.lru)
		cs.counters.Refreshes++
		return true
	}

	for cs.count >= cs.capacity {
		if !cs.evictLRU() {
			break
		}
	}

	entry := &CsEntry{object: object, expires: expires}
	if cs.table.AddToAllTables(object, entry) == 0 {
		return false
	}
	entry.lru = cs.lru.NewHeadEntry(entry)
	name := string(object.NameBytes())
	cs.sameName[name] = append(cs.sameName[name], entry)
	if hasExpiry {
		entry.expiry = cs.times.Add(entry, expires)
	}
	cs.count++
	cs.counters.Adds++
	core.LogTrace(cs, "Saved ", object.Name(), " count=", cs.count)
	return true
}

func (cs *ContentStore) evictLRU() bool {
	h, ok := cs.lru.PopTail()
	if !ok {
		return false
	}
	entry := h.Data()
	entry.lru = LruHandle[*CsEntry]{}
	cs.destroy(entry)
	cs.counters.EvictionsLRU++
	core.LogTrace(cs, "Evicted ", entry.object.Name(), " (LRU)")
	return true
}

// destroy removes the entry from every index it is still linked in. Name and KeyId slots it held are
// handed to the newest remaining entry with the same key.
func (cs *ContentStore) destroy(entry *CsEntry) {
	cs.table.RemoveValueFromAll(entry.object, entry)
	cs.lru.EntryDestroy(entry.lru)
	if entry.expiry.Valid() {
		cs.times.Remove(entry.expiry)
	}
	cs.count--

	name := string(entry.object.NameBytes())
	siblings := cs.sameName[name]
	for i, e := range siblings {
		if e == entry {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(siblings) == 0 {
		delete(cs.sameName, name)
		return
	}
	cs.sameName[name] = siblings
	for i := len(siblings) - 1; i >= 0; i-- {
		cs.table.AddToAllTables(siblings[i].object, siblings[i])
	}
}

// satisfies returns whether the object meets the KeyId and hash restrictions of the Interest.
func satisfies(interest *ccn.Message, object *ccn.Message) bool {
	if interest.HasKeyID() && !bytes.Equal(interest.KeyID(), object.KeyID()) {
		return false
	}
	if interest.HasObjectHash() && !bytes.Equal(interest.ObjectHash(), object.ObjectHash()) {
		return false
	}
	return true
}

// Fetch returns a cached object matching the Interest. The most specific key of the Interest is tried
// first. A hit marks the object as recently used. An expired object is removed and counts as a miss.
func (cs *ContentStore) Fetch(interest *ccn.Message, now core.Ticks) (*ccn.Message, bool) {
	if interest == nil {
		panic("ContentStore.Fetch called with nil interest")
	}
	entry, ok := cs.table.Get(interest)
	if !ok || !satisfies(interest, entry.object) {
		cs.counters.Misses++
		return nil, false
	}
	if entry.expired(now) {
		cs.destroy(entry)
		cs.counters.EvictionsTime++
		cs.counters.Misses++
		return nil, false
	}
	cs.lru.MoveToHead(entry.lru)
	entry.hits++
	cs.counters.Hits++
	return entry.object, true
}

// RemoveExpired removes every object whose expiry is at or before now. Returns the number removed.
func (cs *ContentStore) RemoveExpired(now core.Ticks) int {
	removed := 0
	for {
		entry, t, ok := cs.times.GetOldest()
		if !ok || t > now {
			break
		}
		cs.destroy(entry)
		cs.counters.EvictionsTime++
		removed++
	}
	if removed > 0 {
		core.LogTrace(cs, "Removed ", removed, " expired objects")
	}
	return removed
}

// Remove drops the cached copy of the object, if any.
func (cs *ContentStore) Remove(object *ccn.Message) bool {
	entry, ok := cs.table.GetExact(object)
	if !ok {
		return false
	}
	cs.destroy(entry)
	cs.counters.Removes++
	return true
}

// Clear drops every cached object.
func (cs *ContentStore) Clear() {
	cs.counters.Removes += uint64(cs.count)
	cs.table.Clear()
	cs.lru.Clear()
	cs.times.Clear()
	cs.sameName = make(map[string][]*CsEntry)
	cs.count = 0
}

// SetCapacity changes the capacity, evicting least recently used objects if the store holds too many.
func (cs *ContentStore) SetCapacity(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	cs.capacity = capacity
	for cs.count > cs.capacity {
		if !cs.evictLRU() {
			break
		}
	}
}

// Capacity returns the maximum number of objects.
func (cs *ContentStore) Capacity() int {
	return cs.capacity
}

// Len returns the number of cached objects.
func (cs *ContentStore) Len() int {
	return cs.count
}

// Counters returns a copy of the counters.
func (cs *ContentStore) Counters() CsCounters {
	return cs.counters
}
