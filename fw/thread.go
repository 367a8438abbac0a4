/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"sync/atomic"
	"time"

	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/dispatch"
)

type pendingPacket struct {
	raw     []byte
	ingress uint64
}

type pendingCall struct {
	fn   func(*Processor)
	done chan struct{}
}

// Thread is the forwarding thread. It owns a Processor and feeds it packets, missives, management calls and
// expiry ticks, one at a time.
type Thread struct {
	processor    *Processor
	clock        core.Clock
	packets      chan pendingPacket
	missives     <-chan dispatch.Missive
	calls        chan pendingCall
	tickInterval time.Duration
	shouldQuit   chan interface{}
	HasQuit      chan interface{}

	// Packets dropped because the queue was full
	NQueueDrops atomic.Uint64
}

// NewThread creates a forwarding thread over a new processor. Missives are read from missives, which may
// be nil.
func NewThread(conns dispatch.ConnectionTable, missives <-chan dispatch.Missive, clock core.Clock) *Thread {
	t := new(Thread)
	t.processor = NewProcessor(conns, clock)
	t.clock = clock
	t.packets = make(chan pendingPacket, fwQueueSize)
	t.missives = missives
	t.calls = make(chan pendingCall, fwQueueSize)
	t.tickInterval = tickInterval
	t.shouldQuit = make(chan interface{}, 1)
	t.HasQuit = make(chan interface{})
	return t
}

func (t *Thread) String() string {
	return "FwThread"
}

// Processor returns the processor of the thread. It must only be used from the thread, or before Run.
func (t *Thread) Processor() *Processor {
	return t.processor
}

// QueuePacket queues a received packet for processing. It never blocks: the packet is dropped if the
// queue is full.
func (t *Thread) QueuePacket(raw []byte, ingress uint64) {
	select {
	case t.packets <- pendingPacket{raw: raw, ingress: ingress}:
	default:
		t.NQueueDrops.Add(1)
		core.LogDebug(t, "Queue full, packet from ", ingress, " - DROP")
	}
}

// Submit queues fn to run on the thread. The returned channel is closed once fn has run.
func (t *Thread) Submit(fn func(*Processor)) <-chan struct{} {
	call := pendingCall{fn: fn, done: make(chan struct{})}
	t.calls <- call
	return call.done
}

// TellToQuit tells the forwarding thread to quit.
func (t *Thread) TellToQuit() {
	core.LogInfo(t, "Told to quit")
	t.shouldQuit <- true
}

// Stop tells the thread to quit and waits until it has.
func (t *Thread) Stop() {
	t.TellToQuit()
	<-t.HasQuit
}

// Run runs the forwarding thread until told to quit.
func (t *Thread) Run() {
	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case p := <-t.packets:
			t.processor.ReceiveRaw(p.raw, p.ingress)
		case m, ok := <-t.missives:
			if !ok {
				t.missives = nil
				continue
			}
			t.processor.ProcessMissive(m)
		case call := <-t.calls:
			call.fn(t.processor)
			close(call.done)
		case <-ticker.C:
			t.processor.Tick(t.clock.Now())
		case <-t.shouldQuit:
			t.drain()
			core.LogInfo(t, "Stopping thread")
			t.HasQuit <- true
			return
		}
	}
}

// drain processes whatever is still queued.
func (t *Thread) drain() {
	for {
		select {
		case p := <-t.packets:
			t.processor.ReceiveRaw(p.raw, p.ingress)
		case m, ok := <-t.missives:
			if !ok {
				t.missives = nil
				continue
			}
			t.processor.ProcessMissive(m)
		case call := <-t.calls:
			call.fn(t.processor)
			close(call.done)
		default:
			return
		}
	}
}
