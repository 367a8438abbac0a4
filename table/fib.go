/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"bytes"
	"time"

	"github.com/cespare/xxhash"
	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"golang.org/x/exp/slices"
)

// Route asks for nexthop ConnectionID to be used for names under Prefix.
type Route struct {
	Prefix       ccn.Name
	ConnectionID uint64
	Cost         uint16
}

// Strategy picks the nexthops of an Interest among the nexthops of a FIB entry.
type Strategy interface {
	// Name returns the registered name of the strategy.
	Name() string
	// ReceiveObject is called when a Content Object comes back from egress for an Interest forwarded with
	// this strategy.
	ReceiveObject(egress uint64, object *ccn.Message, rtt time.Duration)
	// LookupNexthops selects the connections an Interest is forwarded to. Never nil.
	LookupNexthops(interest *ccn.Message) NumberSet
	AddNexthop(route Route)
	RemoveNexthop(route Route)
	// Nexthops returns every configured nexthop.
	Nexthops() NumberSet
	Destroy()
}

// StrategyFactory creates a strategy instance by name for the FIB entry of prefix.
type StrategyFactory func(name string, prefix ccn.Name) (Strategy, error)

// FibNextHop is a nexthop in a FIB entry.
type FibNextHop struct {
	Nexthop uint64
	Cost    uint16
}

// FibEntry maps a prefix to its nexthops and strategy.
type FibEntry struct {
	prefix   ccn.Name
	key      []byte
	nexthops []FibNextHop
	strategy Strategy
}

// Prefix returns the name prefix of the entry.
func (e *FibEntry) Prefix() ccn.Name {
	return e.prefix
}

// Nexthops returns a copy of the nexthops of the entry.
func (e *FibEntry) Nexthops() []FibNextHop {
	out := make([]FibNextHop, len(e.nexthops))
	copy(out, e.nexthops)
	return out
}

// Strategy returns the strategy instance of the entry.
func (e *FibEntry) Strategy() Strategy {
	return e.strategy
}

// IsEmpty returns whether the entry has no nexthop left.
func (e *FibEntry) IsEmpty() bool {
	return len(e.nexthops) == 0
}

func (e *FibEntry) findNexthop(id uint64) int {
	for i, nh := range e.nexthops {
		if nh.Nexthop == id {
			return i
		}
	}
	return -1
}

func (e *FibEntry) removeNexthop(id uint64) bool {
	i := e.findNexthop(id)
	if i < 0 {
		return false
	}
	removed := e.nexthops[i]
	e.nexthops = append(e.nexthops[:i], e.nexthops[i+1:]...)
	e.strategy.RemoveNexthop(Route{Prefix: e.prefix, ConnectionID: removed.Nexthop, Cost: removed.Cost})
	return true
}

// Fib is a sparse forwarding table: entries exist only for prefixes with routes, and a lookup tries every
// prefix of the name from the longest to the shortest. It is not safe for concurrent use.
type Fib struct {
	entries         map[uint64][]*FibEntry
	count           int
	defaultStrategy string
	newStrategy     StrategyFactory
	pruneEmpty      bool
}

// NewFib creates an empty FIB. New entries use defaultStrategy, created through factory.
func NewFib(defaultStrategy string, factory StrategyFactory) *Fib {
	return &Fib{
		entries:         make(map[uint64][]*FibEntry),
		defaultStrategy: defaultStrategy,
		newStrategy:     factory,
		pruneEmpty:      fibPruneEmpty,
	}
}

func (f *Fib) String() string {
	return "FIB"
}

// SetPruneEmpty sets whether RemoveConnectionIdFromRoutes deletes entries it leaves without nexthops.
func (f *Fib) SetPruneEmpty(prune bool) {
	f.pruneEmpty = prune
}

// DefaultStrategy returns the strategy name given to new entries.
func (f *Fib) DefaultStrategy() string {
	return f.defaultStrategy
}

func (f *Fib) find(key []byte) (*FibEntry, uint64, int) {
	h := xxhash.Sum64(key)
	for i, e := range f.entries[h] {
		if bytes.Equal(e.key, key) {
			return e, h, i
		}
	}
	return nil, h, -1
}

func (f *Fib) delete(h uint64, i int) {
	bucket := f.entries[h]
	e := bucket[i]
	bucket[i] = bucket[len(bucket)-1]
	bucket[len(bucket)-1] = nil
	if len(bucket) == 1 {
		delete(f.entries, h)
	} else {
		f.entries[h] = bucket[:len(bucket)-1]
	}
	f.count--
	e.strategy.Destroy()
}

// AddOrUpdate adds the nexthop of the route to the entry of its prefix, creating the entry if needed.
// Adding an existing nexthop only updates its cost. Returns whether the nexthop was newly added.
func (f *Fib) AddOrUpdate(route Route) bool {
	key := route.Prefix.Encode()
	entry, h, _ := f.find(key)
	if entry == nil {
		strategy, err := f.newStrategy(f.defaultStrategy, route.Prefix)
		if err != nil {
			core.LogError(f, "Unable to create strategy ", f.defaultStrategy, " for ", route.Prefix, ": ", err)
			return false
		}
		entry = &FibEntry{prefix: route.Prefix, key: key, strategy: strategy}
		f.entries[h] = append(f.entries[h], entry)
		f.count++
		core.LogDebug(f, "Created entry ", route.Prefix, " with strategy ", strategy.Name())
	}

	if i := entry.findNexthop(route.ConnectionID); i >= 0 {
		if entry.nexthops[i].Cost != route.Cost {
			entry.nexthops[i].Cost = route.Cost
			entry.strategy.AddNexthop(route)
		}
		return false
	}
	entry.nexthops = append(entry.nexthops, FibNextHop{Nexthop: route.ConnectionID, Cost: route.Cost})
	entry.strategy.AddNexthop(route)
	core.LogDebug(f, "Added nexthop ", route.ConnectionID, " cost=", route.Cost, " to ", route.Prefix)
	return true
}

// Remove removes the nexthop of the route from the entry of its prefix. Returns true if that left the
// entry empty, in which case the entry is deleted.
func (f *Fib) Remove(route Route) bool {
	entry, h, i := f.find(route.Prefix.Encode())
	if entry == nil || !entry.removeNexthop(route.ConnectionID) {
		return false
	}
	core.LogDebug(f, "Removed nexthop ", route.ConnectionID, " from ", route.Prefix)
	if entry.IsEmpty() {
		f.delete(h, i)
		core.LogDebug(f, "Deleted entry ", route.Prefix)
		return true
	}
	return false
}

// RemoveConnectionIdFromRoutes strips the connection from every entry. Entries left empty are kept as
// placeholders unless pruning is enabled.
func (f *Fib) RemoveConnectionIdFromRoutes(id uint64) int {
	stripped := 0
	for h, bucket := range f.entries {
		for i := len(bucket) - 1; i >= 0; i-- {
			entry := bucket[i]
			if !entry.removeNexthop(id) {
				continue
			}
			stripped++
			if entry.IsEmpty() && f.pruneEmpty {
				f.delete(h, i)
				bucket = f.entries[h]
			}
		}
	}
	if stripped > 0 {
		core.LogDebug(f, "Removed connection ", id, " from ", stripped, " entries")
	}
	return stripped
}

// MatchEntry returns the entry with the longest prefix of the name of the Interest that has at least one
// nexthop.
func (f *Fib) MatchEntry(interest *ccn.Message) (*FibEntry, bool) {
	name := interest.NameBytes()
	ends, err := ccn.PrefixEnds(name)
	if err != nil {
		return nil, false
	}
	for i := len(ends) - 1; i >= 0; i-- {
		entry, _, _ := f.find(name[:ends[i]])
		if entry != nil && !entry.IsEmpty() {
			return entry, true
		}
	}
	return nil, false
}

// Match returns the nexthops the strategy of the longest matching entry selects for the Interest. The
// set is empty if no prefix matches.
func (f *Fib) Match(interest *ccn.Message) NumberSet {
	entry, ok := f.MatchEntry(interest)
	if !ok {
		return NumberSet{}
	}
	return entry.strategy.LookupNexthops(interest)
}

// FindExact returns the entry of exactly this prefix.
func (f *Fib) FindExact(prefix ccn.Name) (*FibEntry, bool) {
	entry, _, _ := f.find(prefix.Encode())
	return entry, entry != nil
}

// SetStrategy replaces the strategy of the entry of prefix. The nexthops are handed to the new instance.
func (f *Fib) SetStrategy(prefix ccn.Name, name string) error {
	entry, _, _ := f.find(prefix.Encode())
	if entry == nil {
		return ErrNoSuchEntry
	}
	strategy, err := f.newStrategy(name, prefix)
	if err != nil {
		return err
	}
	entry.strategy.Destroy()
	entry.strategy = strategy
	for _, nh := range entry.nexthops {
		strategy.AddNexthop(Route{Prefix: prefix, ConnectionID: nh.Nexthop, Cost: nh.Cost})
	}
	core.LogInfo(f, "Set strategy of ", prefix, " to ", name)
	return nil
}

// Entries returns all entries sorted by prefix.
func (f *Fib) Entries() []*FibEntry {
	out := make([]*FibEntry, 0, f.count)
	for _, bucket := range f.entries {
		out = append(out, bucket...)
	}
	slices.SortFunc(out, func(a, b *FibEntry) bool {
		return a.prefix.Compare(b.prefix) < 0
	})
	return out
}

// Len returns the number of entries, including empty placeholders.
func (f *Fib) Len() int {
	return f.count
}
