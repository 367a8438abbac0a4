/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"net"
	"os"
	"path"
	"sync/atomic"

	"github.com/named-data/ccnfwd/core"
)

// UnixStreamListener listens for incoming Unix stream connections.
type UnixStreamListener struct {
	ln       net.Listener
	localURI *URI
	table    *Table
	nextFD   int // We can't (at least easily) access the actual FD through net.Conn, so we'll make our own
	running  atomic.Bool
	stopped  chan bool
}

// NewUnixStreamListener creates the socket file of the local URI, replacing any stale one, and listens
// on it. The socket is writable by every local user.
func NewUnixStreamListener(localURI *URI, table *Table) (*UnixStreamListener, error) {
	sockPath := localURI.Path()
	os.Remove(sockPath)
	if err := os.MkdirAll(path.Dir(sockPath), os.ModePerm); err != nil {
		return nil, err
	}

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(sockPath, os.ModePerm); err != nil {
		ln.Close()
		return nil, err
	}

	return &UnixStreamListener{
		ln:       ln,
		localURI: localURI,
		table:    table,
		nextFD:   1,
		stopped:  make(chan bool, 1),
	}, nil
}

func (l *UnixStreamListener) String() string {
	return "UnixStreamListener, " + l.localURI.String()
}

// URI returns the socket path of the listener.
func (l *UnixStreamListener) URI() *URI {
	return l.localURI
}

// Run accepts connections until the listener is closed.
func (l *UnixStreamListener) Run() {
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

		remoteURI := MakeFDURI(l.nextFD)
		l.nextFD++
		core.LogInfo(l, "Accepting new Unix stream connection ", remoteURI)
		l.table.Add(NewStreamConnection(conn, l.localURI, remoteURI, PersistencyOnDemand))
	}
}

// Close stops accepting connections and removes the socket file.
func (l *UnixStreamListener) Close() error {
	err := l.ln.Close()
	if l.running.Load() {
		<-l.stopped
	}
	return err
}
