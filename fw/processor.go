/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/dispatch"
	"github.com/named-data/ccnfwd/strategy"
	"github.com/named-data/ccnfwd/table"
)

// ControlHandler handles the control messages received by a processor. It runs on the forwarding thread.
type ControlHandler interface {
	HandleControl(p *Processor, msg *ccn.Message)
}

// Processor routes messages through the PIT, the Content Store and the FIB. It is not safe for
// concurrent use: one forwarding thread owns it.
type Processor struct {
	pit      *table.PIT
	cs       *table.ContentStore
	fib      *table.Fib
	conns    dispatch.ConnectionTable
	control  ControlHandler
	clock    core.Clock
	counters Counters
	csAdmit  bool
	csServe  bool
}

// NewProcessor creates a processor with configured tables that sends through conns.
func NewProcessor(conns dispatch.ConnectionTable, clock core.Clock) *Processor {
	return &Processor{
		pit:     table.NewPIT(),
		cs:      table.NewConfiguredContentStore(),
		fib:     table.NewFib(defaultStrategy, strategy.New),
		conns:   conns,
		clock:   clock,
		csAdmit: csAdmit,
		csServe: csServe,
	}
}

func (p *Processor) String() string {
	return "Processor"
}

// SetControlHandler sets the handler of control messages.
func (p *Processor) SetControlHandler(h ControlHandler) {
	p.control = h
}

// SetContentStorePolicy sets whether objects are admitted to and served from the Content Store.
func (p *Processor) SetContentStorePolicy(admit bool, serve bool) {
	p.csAdmit = admit
	p.csServe = serve
}

// ContentStorePolicy returns whether objects are admitted to and served from the Content Store.
func (p *Processor) ContentStorePolicy() (admit bool, serve bool) {
	return p.csAdmit, p.csServe
}

// Pit returns the PIT.
func (p *Processor) Pit() *table.PIT {
	return p.pit
}

// ContentStore returns the Content Store.
func (p *Processor) ContentStore() *table.ContentStore {
	return p.cs
}

// Fib returns the FIB.
func (p *Processor) Fib() *table.Fib {
	return p.fib
}

// Connections returns the connection table.
func (p *Processor) Connections() dispatch.ConnectionTable {
	return p.conns
}

// Counters returns a copy of the counters.
func (p *Processor) Counters() Counters {
	return p.counters
}

// Now returns the current tick.
func (p *Processor) Now() core.Ticks {
	return p.clock.Now()
}

// ReceiveRaw parses a packet received on ingress and processes it.
func (p *Processor) ReceiveRaw(raw []byte, ingress uint64) {
	msg, err := ccn.NewMessage(raw, ingress, p.clock.Now())
	if err != nil {
		p.counters.DroppedParseError++
		core.LogDebug(p, "Unable to parse packet from ", ingress, ": ", err, " - DROP")
		return
	}
	p.Receive(msg)
}

// Receive processes a message.
func (p *Processor) Receive(msg *ccn.Message) {
	switch msg.Type() {
	case ccn.Interest:
		p.counters.InterestsReceived++
		p.receiveInterest(msg)
	case ccn.ContentObject:
		p.counters.ObjectsReceived++
		p.receiveObject(msg)
	case ccn.Control:
		p.receiveControl(msg)
	case ccn.InterestReturn:
		p.counters.InterestReturnsReceived++
		core.LogDebug(p, "Received InterestReturn from ", msg.IngressID(), " - DROP")
	default:
		p.counters.DroppedUnsupported++
		core.LogDebug(p, "Received unsupported ", msg.Type(), " from ", msg.IngressID(), " - DROP")
	}
}

func (p *Processor) isLocal(id uint64) bool {
	conn := p.conns.Get(id)
	return conn != nil && conn.IsLocal()
}

func (p *Processor) receiveInterest(interest *ccn.Message) {
	now := p.clock.Now()
	ingress := interest.IngressID()

	if hopLimit, ok := interest.HopLimit(); ok && !p.isLocal(ingress) {
		if hopLimit == 0 {
			p.counters.DroppedZeroHopLimitFromRemote++
			core.LogDebug(p, "Interest ", interest.Name(), " from ", ingress, " has HopLimit=0 - DROP")
			return
		}
		interest = interest.WithHopLimit(hopLimit - 1)
	}

	if p.csServe {
		if object, ok := p.cs.Fetch(interest, now); ok {
			p.counters.InterestsSatisfiedFromStore++
			core.LogTrace(p, "Interest ", interest.Name(), " satisfied from Content Store")
			p.sendObject(object, ingress)
			return
		}
	}

	verdict, entry := p.pit.ReceiveInterest(interest, now)
	if verdict == table.PitAggregate {
		p.counters.InterestsAggregated++
		core.LogTrace(p, "Interest ", interest.Name(), " from ", ingress, " aggregated")
		return
	}

	if !p.forwardInterest(interest, entry, now) && entry.Egress().IsEmpty() {
		// Went nowhere
		p.pit.RemoveInterest(interest)
	}
}

// forwardInterest sends the Interest to the nexthops the FIB selects. Returns whether it was sent at all.
func (p *Processor) forwardInterest(interest *ccn.Message, entry *table.PitEntry, now core.Ticks) bool {
	fibEntry, ok := p.fib.MatchEntry(interest)
	if !ok {
		p.counters.DroppedNoRoute++
		core.LogDebug(p, "No route for Interest ", interest.Name(), " - DROP")
		return false
	}
	nexthops := fibEntry.Strategy().LookupNexthops(interest)
	if nexthops.IsEmpty() {
		p.counters.DroppedNoRoute++
		core.LogDebug(p, "Strategy selected no nexthop for Interest ", interest.Name(), " - DROP")
		return false
	}
	entry.FibEntry = fibEntry

	hopLimit, hasHopLimit := interest.HopLimit()
	sent := false
	for _, nexthop := range nexthops.Slice() {
		if nexthop == interest.IngressID() {
			p.counters.DroppedNexthopIsIngress++
			continue
		}
		conn := p.conns.Get(nexthop)
		if conn == nil || !conn.IsUp() {
			p.counters.DroppedConnectionNotFound++
			core.LogDebug(p, "Nexthop ", nexthop, " for Interest ", interest.Name(), " not found or down")
			continue
		}
		if hasHopLimit && hopLimit == 0 && !conn.IsLocal() {
			p.counters.DroppedZeroHopLimitToRemote++
			core.LogDebug(p, "Interest ", interest.Name(), " has HopLimit=0, not forwarding to ", conn)
			continue
		}
		if !conn.Send(interest) {
			p.counters.SendFailures++
			core.LogDebug(p, "Unable to send Interest ", interest.Name(), " on ", conn)
			continue
		}
		p.counters.InterestsForwarded++
		entry.AddEgress(nexthop, now)
		sent = true
		core.LogTrace(p, "Forwarded Interest ", interest.Name(), " to ", conn)
	}
	return sent
}

func (p *Processor) receiveObject(object *ccn.Message) {
	now := p.clock.Now()
	egress := object.IngressID()

	var reversePath table.NumberSet
	for _, entry := range p.pit.SatisfyInterestEntries(object) {
		reversePath.AddSet(entry.Ingress())
		if sent, ok := entry.SentAt(egress); ok && entry.FibEntry != nil {
			entry.FibEntry.Strategy().ReceiveObject(egress, object, (now - sent).Duration())
		}
	}
	if reversePath.IsEmpty() {
		p.counters.DroppedNoReversePath++
		core.LogDebug(p, "Unsolicited Content Object ", object.Name(), " from ", egress, " - DROP")
		return
	}

	for _, id := range reversePath.Slice() {
		p.sendObject(object, id)
	}

	if p.csAdmit && !p.cs.Save(object, now) {
		core.LogTrace(p, "Content Object ", object.Name(), " not cached")
	}
}

func (p *Processor) sendObject(object *ccn.Message, id uint64) {
	conn := p.conns.Get(id)
	if conn == nil || !conn.IsUp() {
		p.counters.DroppedConnectionNotFound++
		core.LogDebug(p, "Reverse path ", id, " for Content Object ", object.Name(), " not found or down")
		return
	}
	if !conn.Send(object) {
		p.counters.SendFailures++
		core.LogDebug(p, "Unable to send Content Object ", object.Name(), " on ", conn)
		return
	}
	p.counters.ObjectsForwarded++
	core.LogTrace(p, "Forwarded Content Object ", object.Name(), " to ", conn)
}

func (p *Processor) receiveControl(msg *ccn.Message) {
	if p.control == nil {
		p.counters.DroppedControl++
		core.LogDebug(p, "No control handler for message from ", msg.IngressID(), " - DROP")
		return
	}
	p.counters.ControlReceived++
	p.control.HandleControl(p, msg)
}

// ProcessMissive applies a connection lifecycle event to the tables.
func (p *Processor) ProcessMissive(m dispatch.Missive) {
	switch m.Type {
	case dispatch.MissiveClosed, dispatch.MissiveDestroyed:
		routes := p.fib.RemoveConnectionIdFromRoutes(m.ConnectionID)
		entries := p.pit.RemoveConnection(m.ConnectionID)
		core.LogDebug(p, "Connection ", m.ConnectionID, " gone: removed from ", routes, " routes, dropped ", entries,
			" PIT entries")
	default:
		core.LogTrace(p, "Missive ", m)
	}
}

// Tick removes expired PIT entries and Content Objects.
func (p *Processor) Tick(now core.Ticks) {
	p.pit.RemoveExpired(now)
	p.cs.RemoveExpired(now)
}
