/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/utils/comparison"
)

// PitVerdict is the outcome of receiving an Interest in the PIT.
type PitVerdict int

const (
	// PitForward means the Interest must be forwarded.
	PitForward PitVerdict = iota
	// PitAggregate means an identical Interest is already pending and this one must not be forwarded.
	PitAggregate
)

func (v PitVerdict) String() string {
	if v == PitForward {
		return "Forward"
	}
	return "Aggregate"
}

// PitEntry is a pending Interest.
type PitEntry struct {
	interest *ccn.Message
	ingress  NumberSet
	egress   NumberSet
	sentAt   map[uint64]core.Ticks
	created  core.Ticks
	expires  core.Ticks
	timer    TimeHandle[*PitEntry]

	// FibEntry is the entry the Interest was forwarded with, if any.
	FibEntry *FibEntry
}

// Interest returns the Interest that created the entry.
func (e *PitEntry) Interest() *ccn.Message {
	return e.interest
}

// Ingress returns the connections waiting for a Content Object.
func (e *PitEntry) Ingress() NumberSet {
	return e.ingress.Clone()
}

// Egress returns the connections the Interest was forwarded to.
func (e *PitEntry) Egress() NumberSet {
	return e.egress.Clone()
}

// AddEgress records that the Interest was forwarded to the connection at now. Forwarding again to the
// same connection moves its send time.
func (e *PitEntry) AddEgress(id uint64, now core.Ticks) {
	e.egress.Add(id)
	if e.sentAt == nil {
		e.sentAt = make(map[uint64]core.Ticks, 1)
	}
	e.sentAt[id] = now
}

// SentAt returns when the Interest was last forwarded to the connection.
func (e *PitEntry) SentAt(id uint64) (core.Ticks, bool) {
	t, ok := e.sentAt[id]
	return t, ok
}

// Created returns the time the entry was created.
func (e *PitEntry) Created() core.Ticks {
	return e.created
}

// Expiry returns the time the entry expires.
func (e *PitEntry) Expiry() core.Ticks {
	return e.expires
}

// PIT is the Pending Interest Table. Interests are indexed by their most specific matching key, so an
// Interest only aggregates with a pending Interest that has the same name and the same restrictions.
// Expired entries are dropped silently. It is not safe for concurrent use.
type PIT struct {
	table    *MatchingRulesTable[*PitEntry]
	timers   *TimeOrderedIndex[*PitEntry]
	count    int
	expired  uint64
	lifetime time.Duration
	maxLife  time.Duration
	extend   time.Duration
}

// NewPIT creates an empty PIT using the configured lifetimes.
func NewPIT() *PIT {
	return &PIT{
		table:    NewMatchingRulesTable[*PitEntry](nil),
		timers:   NewTimeOrderedIndex[*PitEntry](),
		lifetime: pitDefaultLifetime,
		maxLife:  pitMaxLifetime,
		extend:   pitExtensionThreshold,
	}
}

func (p *PIT) String() string {
	return "PIT"
}

// SetExtensionThreshold sets how far past the expiry of a pending entry an aggregated Interest must
// reach to be forwarded again.
func (p *PIT) SetExtensionThreshold(d time.Duration) {
	p.extend = d
}

// SetDefaultLifetime sets the lifetime of Interests without an InterestLifetime.
func (p *PIT) SetDefaultLifetime(d time.Duration) {
	p.lifetime = d
}

func (p *PIT) expiryOf(interest *ccn.Message, now core.Ticks) core.Ticks {
	lifetime, ok := interest.InterestLifetime()
	if !ok {
		lifetime = p.lifetime
	}
	return now + core.TicksFromDuration(comparison.Min(lifetime, p.maxLife))
}

// ReceiveInterest records the Interest. A new entry is created, and the Interest forwarded, unless an
// entry with the same key is pending; then the ingress connection joins that entry and the Interest is
// aggregated. An aggregated Interest that extends the entry by more than the extension threshold refreshes
// the entry and is forwarded again.
func (p *PIT) ReceiveInterest(interest *ccn.Message, now core.Ticks) (PitVerdict, *PitEntry) {
	if interest == nil {
		panic("PIT.ReceiveInterest called with nil interest")
	}
	expires := p.expiryOf(interest, now)

	entry, ok := p.table.GetExact(interest)
	if ok && entry.expires <= now {
		// Expired but not swept yet
		p.remove(entry)
		p.expired++
		ok = false
	}

	if !ok {
		entry = &PitEntry{
			interest: interest,
			ingress:  NewNumberSet(interest.IngressID()),
			created:  now,
			expires:  expires,
		}
		if !p.table.AddToBestTable(interest, entry) {
			// Message without key material
			return PitForward, entry
		}
		entry.timer = p.timers.Add(entry, expires)
		p.count++
		core.LogTrace(p, "Created entry for ", interest.Name(), " expiry=", uint64(expires))
		return PitForward, entry
	}

	entry.ingress.Add(interest.IngressID())
	if expires <= entry.expires {
		return PitAggregate, entry
	}
	refresh := expires > entry.expires+core.TicksFromDuration(p.extend)
	entry.expires = expires
	p.timers.Update(entry.timer, expires)
	if refresh {
		core.LogTrace(p, "Refreshed entry for ", interest.Name(), " expiry=", uint64(expires))
		return PitForward, entry
	}
	return PitAggregate, entry
}

// SatisfyInterest removes every entry the Content Object satisfies and returns the union of their ingress
// connections. The set is empty if nothing was pending.
func (p *PIT) SatisfyInterest(object *ccn.Message) NumberSet {
	var reversePath NumberSet
	for _, entry := range p.SatisfyInterestEntries(object) {
		reversePath.AddSet(entry.ingress)
	}
	return reversePath
}

// SatisfyInterestEntries removes and returns every entry the Content Object satisfies.
func (p *PIT) SatisfyInterestEntries(object *ccn.Message) []*PitEntry {
	if object == nil {
		panic("PIT.SatisfyInterest called with nil object")
	}
	entries := p.table.GetUnion(object)
	for _, entry := range entries {
		p.remove(entry)
	}
	return entries
}

// RemoveInterest deletes the entry matching the most specific key of the Interest. Other keys are not
// considered.
func (p *PIT) RemoveInterest(interest *ccn.Message) bool {
	entry, ok := p.table.RemoveFromBest(interest)
	if !ok {
		return false
	}
	p.timers.Remove(entry.timer)
	p.count--
	return true
}

// GetPitEntry returns the pending entry matching the most specific key of the Interest.
func (p *PIT) GetPitEntry(interest *ccn.Message) (*PitEntry, bool) {
	return p.table.GetExact(interest)
}

func (p *PIT) remove(entry *PitEntry) {
	if p.table.RemoveValueFromAll(entry.interest, entry) > 0 {
		p.count--
	}
	p.timers.Remove(entry.timer)
}

// RemoveExpired drops every entry whose expiry is at or before now, without notifying anyone.
func (p *PIT) RemoveExpired(now core.Ticks) int {
	removed := 0
	for {
		entry, t, ok := p.timers.GetOldest()
		if !ok || t > now {
			break
		}
		p.remove(entry)
		removed++
	}
	p.expired += uint64(removed)
	if removed > 0 {
		core.LogTrace(p, "Expired ", removed, " entries")
	}
	return removed
}

// RemoveConnection strips the connection from every entry. Entries left without ingress connection are
// deleted.
func (p *PIT) RemoveConnection(id uint64) int {
	var emptied []*PitEntry
	p.table.Each(func(entry *PitEntry) {
		entry.egress.Remove(id)
		delete(entry.sentAt, id)
		if entry.ingress.Remove(id) && entry.ingress.IsEmpty() {
			emptied = append(emptied, entry)
		}
	})
	for _, entry := range emptied {
		p.remove(entry)
	}
	return len(emptied)
}

// Len returns the number of pending entries.
func (p *PIT) Len() int {
	return p.count
}

// ExpiredCount returns how many entries were dropped because they expired.
func (p *PIT) ExpiredCount() uint64 {
	return p.expired
}
