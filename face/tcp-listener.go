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

	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/face/impl"
)

// TCPListener listens for incoming TCP connections.
type TCPListener struct {
	ln       net.Listener
	localURI *URI
	table    *Table
	running  atomic.Bool
	stopped  chan bool
}

// NewTCPListener binds a TCP socket on the local URI.
func NewTCPListener(localURI *URI, table *Table) (*TCPListener, error) {
	listenConfig := &net.ListenConfig{Control: impl.SyscallReuseAddr}
	ln, err := listenConfig.Listen(context.Background(), localURI.Network(), localURI.Address())
	if err != nil {
		return nil, err
	}
	return &TCPListener{
		ln:       ln,
		localURI: MakeAddrURI(localURI.Scheme(), ln.Addr()),
		table:    table,
		stopped:  make(chan bool, 1),
	}, nil
}

func (l *TCPListener) String() string {
	return "TCPListener, " + l.localURI.String()
}

// URI returns the bound address of the listener.
func (l *TCPListener) URI() *URI {
	return l.localURI
}

// Run accepts connections until the listener is closed.
func (l *TCPListener) Run() {
	l.running.Store(true)
	defer func() { l.stopped <- true }()
	core.LogInfo(l, "Listening")

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			core.LogWarn(l, "Unable to accept connection: ", err)
			continue
		}
		remoteURI := MakeAddrURI(l.localURI.Scheme(), conn.RemoteAddr())
		core.LogInfo(l, "Accepting new TCP connection ", remoteURI)
		l.table.Add(NewStreamConnection(conn, l.localURI, remoteURI, PersistencyOnDemand))
	}
}

// Close stops accepting connections. Accepted connections stay open.
func (l *TCPListener) Close() error {
	err := l.ln.Close()
	if l.running.Load() {
		<-l.stopped
	}
	return err
}
