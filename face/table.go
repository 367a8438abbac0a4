/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"sync"
	"sync/atomic"

	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/dispatch"
	"golang.org/x/exp/slices"
)

// Table holds all connections of the forwarder and reports their lifecycle to the forwarding thread.
type Table struct {
	conns    sync.Map
	nextID   atomic.Uint64
	missives chan dispatch.Missive
	thread   atomic.Pointer[threadHolder]

	// Missives that found the channel full wait here, in order, until the pump hands them over
	backlogMutex sync.Mutex
	backlog      []dispatch.Missive
	pumping      bool

	// Missives deferred to the backlog because the channel was full
	NMissiveDeferred atomic.Uint64
}

type threadHolder struct {
	thread dispatch.FWThread
}

// NewTable creates an empty connection table. IDs start at 1.
func NewTable() *Table {
	return &Table{
		missives: make(chan dispatch.Missive, sendQueueSize),
	}
}

func (t *Table) String() string {
	return "ConnectionTable"
}

// SetThread sets the forwarding thread received packets are queued on.
func (t *Table) SetThread(thread dispatch.FWThread) {
	t.thread.Store(&threadHolder{thread: thread})
}

// Missives returns the channel lifecycle events are sent on.
func (t *Table) Missives() <-chan dispatch.Missive {
	return t.missives
}

// Add assigns an ID to the connection, registers it and brings it up.
func (t *Table) Add(c Connection) uint64 {
	id := t.nextID.Add(1)
	b := c.base()
	b.id.Store(id)
	b.table = t
	t.conns.Store(id, c)
	t.notify(dispatch.MissiveCreate, id)
	core.LogDebug(t, "Registered ConnectionID=", id, " remote=", c.RemoteURI())
	c.start()
	return id
}

// Get returns the connection with the ID, or nil.
func (t *Table) Get(id uint64) dispatch.Connection {
	if c := t.GetConnection(id); c != nil {
		return c
	}
	return nil
}

// GetConnection returns the connection with the ID, or nil.
func (t *Table) GetConnection(id uint64) Connection {
	c, ok := t.conns.Load(id)
	if !ok {
		return nil
	}
	return c.(Connection)
}

// GetByURI returns the connection with the remote URI, or nil.
func (t *Table) GetByURI(remote *URI) Connection {
	var found Connection
	t.conns.Range(func(_, c interface{}) bool {
		if c.(Connection).RemoteURI().String() == remote.String() {
			found = c.(Connection)
			return false
		}
		return true
	})
	return found
}

// GetAll returns every connection, ordered by ID.
func (t *Table) GetAll() []Connection {
	conns := make([]Connection, 0)
	t.conns.Range(func(_, c interface{}) bool {
		conns = append(conns, c.(Connection))
		return true
	})
	slices.SortFunc(conns, func(a, b Connection) bool {
		return a.ID() < b.ID()
	})
	return conns
}

// Len returns the number of connections.
func (t *Table) Len() int {
	n := 0
	t.conns.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Remove unregisters the connection. It does not close it.
func (t *Table) Remove(id uint64) {
	if _, ok := t.conns.LoadAndDelete(id); !ok {
		return
	}
	t.notify(dispatch.MissiveDestroyed, id)
	core.LogDebug(t, "Unregistered ConnectionID=", id)
}

// CloseAll closes every connection.
func (t *Table) CloseAll() {
	for _, c := range t.GetAll() {
		c.Close()
	}
}

// notify never blocks and never loses a missive. When the channel is full, the missive joins the backlog
// and later missives queue behind it.
func (t *Table) notify(typ dispatch.MissiveType, id uint64) {
	m := dispatch.Missive{Type: typ, ConnectionID: id}
	t.backlogMutex.Lock()
	defer t.backlogMutex.Unlock()

	if !t.pumping {
		select {
		case t.missives <- m:
			return
		default:
		}
	}
	t.backlog = append(t.backlog, m)
	t.NMissiveDeferred.Add(1)
	core.LogDebug(t, "Missive channel full, ", m, " deferred")
	if !t.pumping {
		t.pumping = true
		go t.pump()
	}
}

// pump moves the backlog onto the channel, blocking as long as the forwarding thread lags behind.
func (t *Table) pump() {
	for {
		t.backlogMutex.Lock()
		if len(t.backlog) == 0 {
			t.pumping = false
			t.backlogMutex.Unlock()
			return
		}
		m := t.backlog[0]
		t.backlog[0] = dispatch.Missive{}
		t.backlog = t.backlog[1:]
		t.backlogMutex.Unlock()

		t.missives <- m
	}
}

func (t *Table) deliver(raw []byte, id uint64) {
	h := t.thread.Load()
	if h == nil {
		core.LogDebug(t, "No forwarding thread, packet from ", id, " - DROP")
		return
	}
	h.thread.QueuePacket(raw, id)
}
