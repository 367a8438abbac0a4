/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/face/impl"
)

// UDPListener receives datagrams on one socket and creates an on-demand connection for every new peer.
// At most udpMaxPeers peers are tracked: the least recently active one is closed to make room.
type UDPListener struct {
	conn     *net.UDPConn
	localURI *URI
	table    *Table
	peers    *lru.Cache
	running  atomic.Bool
	stopped  chan bool
}

// NewUDPListener binds a UDP socket on the local URI.
func NewUDPListener(localURI *URI, table *Table) (*UDPListener, error) {
	listenConfig := &net.ListenConfig{Control: impl.SyscallReuseAddr}
	pc, err := listenConfig.ListenPacket(context.Background(), localURI.Network(), localURI.Address())
	if err != nil {
		return nil, err
	}

	l := &UDPListener{
		conn:    pc.(*net.UDPConn),
		table:   table,
		stopped: make(chan bool, 1),
	}
	l.localURI = MakeAddrURI(localURI.Scheme(), pc.LocalAddr())
	l.peers, err = lru.NewWithEvict(udpMaxPeers, func(_ interface{}, value interface{}) {
		c := value.(*UDPConnection)
		core.LogDebug(l, "Reclaiming idle peer ", c.RemoteURI())
		// Closing takes the cache lock again
		go c.Close()
	})
	if err != nil {
		pc.Close()
		return nil, err
	}
	return l, nil
}

func (l *UDPListener) String() string {
	return "UDPListener, " + l.localURI.String()
}

// URI returns the bound address of the listener.
func (l *UDPListener) URI() *URI {
	return l.localURI
}

// Run receives datagrams until the listener is closed.
func (l *UDPListener) Run() {
	l.running.Store(true)
	defer func() { l.stopped <- true }()
	core.LogInfo(l, "Listening")

	buf := getRecvBuffer()
	defer putRecvBuffer(buf)
	for {
		n, remote, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			core.LogWarn(l, "Unable to read from socket: ", err)
			continue
		}
		l.peer(remote).receiveDatagram(buf[:n])
	}
}

func (l *UDPListener) peer(remote *net.UDPAddr) *UDPConnection {
	key := remote.String()
	if value, ok := l.peers.Get(key); ok {
		return value.(*UDPConnection)
	}
	c := newAcceptedUDPConnection(l, remote)
	l.peers.Add(key, c)
	l.table.Add(c)
	core.LogInfo(l, "Accepted new UDP peer ", c.RemoteURI())
	return c
}

func (l *UDPListener) forget(c *UDPConnection) {
	key := c.remote.String()
	if value, ok := l.peers.Peek(key); ok && value == c {
		l.peers.Remove(key)
	}
}

// Peers returns the number of tracked peers.
func (l *UDPListener) Peers() int {
	return l.peers.Len()
}

// Close closes the socket and every peer accepted on it.
func (l *UDPListener) Close() error {
	err := l.conn.Close()
	if l.running.Load() {
		<-l.stopped
	}
	for _, key := range l.peers.Keys() {
		if value, ok := l.peers.Peek(key); ok {
			value.(*UDPConnection).Close()
		}
	}
	return err
}
