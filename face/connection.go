/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/dispatch"
)

// Connection is a link to a peer that messages are received from and sent to.
type Connection interface {
	dispatch.Connection

	LocalURI() *URI
	RemoteURI() *URI
	Persistency() Persistency
	State() State
	Counters() ConnectionCounters

	// Close closes the connection and removes it from its table.
	Close() error

	base() *connectionBase
	// start brings the connection up once it has an ID.
	start()
}

// ConnectionCounters are the traffic counters of a connection.
type ConnectionCounters struct {
	InPackets  uint64 `json:"inPackets"`
	InBytes    uint64 `json:"inBytes"`
	OutPackets uint64 `json:"outPackets"`
	OutBytes   uint64 `json:"outBytes"`
	SendDrops  uint64 `json:"sendDrops"`
}

// connectionBase holds what every kind of connection shares.
type connectionBase struct {
	self        Connection
	table       *Table
	id          atomic.Uint64
	state       atomic.Int32
	localURI    *URI
	remoteURI   *URI
	persistency Persistency
	local       bool

	sendQueue chan []byte
	done      chan struct{}
	closeOnce sync.Once

	nInPackets  atomic.Uint64
	nInBytes    atomic.Uint64
	nOutPackets atomic.Uint64
	nOutBytes   atomic.Uint64
	nSendDrops  atomic.Uint64
}

func (c *connectionBase) init(self Connection, localURI *URI, remoteURI *URI, persistency Persistency) {
	c.self = self
	c.localURI = localURI
	c.remoteURI = remoteURI
	c.persistency = persistency
	c.local = remoteURI.IsLocal()
	c.sendQueue = make(chan []byte, sendQueueSize)
	c.done = make(chan struct{})
	c.state.Store(int32(Down))
}

func (c *connectionBase) base() *connectionBase {
	return c
}

// ID returns the ID of the connection, or 0 if it was not added to a table.
func (c *connectionBase) ID() uint64 {
	return c.id.Load()
}

// IsUp returns whether the connection carries packets.
func (c *connectionBase) IsUp() bool {
	return c.State() == Up
}

// IsLocal returns whether the peer is on this host.
func (c *connectionBase) IsLocal() bool {
	return c.local
}

// LocalURI returns the local URI of the connection.
func (c *connectionBase) LocalURI() *URI {
	return c.localURI
}

// RemoteURI returns the URI of the peer.
func (c *connectionBase) RemoteURI() *URI {
	return c.remoteURI
}

// Persistency returns the persistency of the connection.
func (c *connectionBase) Persistency() Persistency {
	return c.persistency
}

// State returns the state of the connection.
func (c *connectionBase) State() State {
	return State(c.state.Load())
}

// Counters returns a snapshot of the traffic counters.
func (c *connectionBase) Counters() ConnectionCounters {
	return ConnectionCounters{
		InPackets:  c.nInPackets.Load(),
		InBytes:    c.nInBytes.Load(),
		OutPackets: c.nOutPackets.Load(),
		OutBytes:   c.nOutBytes.Load(),
		SendDrops:  c.nSendDrops.Load(),
	}
}

// Send queues the message for transmission. It never blocks.
func (c *connectionBase) Send(msg *ccn.Message) bool {
	if !c.IsUp() {
		return false
	}
	if msg.Len() > maxPacketSize {
		c.nSendDrops.Add(1)
		core.LogDebug(c.self, "Message of ", msg.Len(), " bytes exceeds maximum packet size - DROP")
		return false
	}
	select {
	case c.sendQueue <- msg.Bytes():
		return true
	default:
		c.nSendDrops.Add(1)
		core.LogDebug(c.self, "Send queue full - DROP")
		return false
	}
}

func (c *connectionBase) changeState(state State) {
	old := State(c.state.Swap(int32(state)))
	if old == state {
		return
	}
	core.LogInfo(c.self, "State changed from ", old, " to ", state)
	if c.table == nil {
		return
	}
	switch state {
	case Up:
		c.table.notify(dispatch.MissiveUp, c.ID())
	case Down:
		c.table.notify(dispatch.MissiveDown, c.ID())
	case Closed:
		c.table.notify(dispatch.MissiveClosed, c.ID())
	}
}

// runSend writes queued frames until the connection is closed. A write error closes the connection.
func (c *connectionBase) runSend(write func(frame []byte) error) {
	for {
		select {
		case frame := <-c.sendQueue:
			if err := write(frame); err != nil {
				core.LogWarn(c.self, "Unable to send on socket: ", err)
				c.self.Close()
				return
			}
			c.nOutPackets.Add(1)
			c.nOutBytes.Add(uint64(len(frame)))
		case <-c.done:
			return
		}
	}
}

// receive hands a received frame to the forwarding thread. The frame is copied.
func (c *connectionBase) receive(frame []byte) {
	c.nInPackets.Add(1)
	c.nInBytes.Add(uint64(len(frame)))
	if c.table == nil {
		return
	}
	raw := make([]byte, len(frame))
	copy(raw, frame)
	c.table.deliver(raw, c.ID())
}

// close runs closeTransport once, then removes the connection from its table.
func (c *connectionBase) close(closeTransport func() error) error {
	var err error
	c.closeOnce.Do(func() {
		c.changeState(Closed)
		close(c.done)
		err = closeTransport()
		if c.table != nil {
			c.table.Remove(c.ID())
		}
	})
	return err
}

// closed returns whether close was called.
func (c *connectionBase) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func itoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
