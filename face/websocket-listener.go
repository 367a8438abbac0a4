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
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/named-data/ccnfwd/core"
	"golang.org/x/exp/slices"
)

// WebSocketListener accepts WebSocket connections over HTTP.
type WebSocketListener struct {
	ln       net.Listener
	server   http.Server
	upgrader websocket.Upgrader
	localURI *URI
	table    *Table
	running  atomic.Bool
	stopped  chan bool
}

// NewWebSocketListener binds a TCP socket on the local URI. Upgrades are accepted on the URI path, or
// on every path if it has none.
func NewWebSocketListener(localURI *URI, table *Table) (*WebSocketListener, error) {
	ln, err := net.Listen("tcp", localURI.Address())
	if err != nil {
		return nil, err
	}

	l := &WebSocketListener{
		ln:      ln,
		table:   table,
		stopped: make(chan bool, 1),
	}
	l.localURI = MakeAddrURI("ws", ln.Addr())
	l.localURI.path = localURI.Path()
	l.upgrader = websocket.Upgrader{
		ReadBufferSize:  maxPacketSize,
		WriteBufferSize: maxPacketSize,
		CheckOrigin:     checkOrigin,
	}

	mux := http.NewServeMux()
	pattern := localURI.Path()
	if pattern == "" {
		pattern = "/"
	}
	mux.HandleFunc(pattern, l.handler)
	l.server.Handler = mux
	return l, nil
}

func checkOrigin(r *http.Request) bool {
	if len(wsAllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(wsAllowedOrigins, r.Header.Get("Origin"))
}

func (l *WebSocketListener) String() string {
	return "WebSocketListener, " + l.localURI.String()
}

// URI returns the bound address of the listener.
func (l *WebSocketListener) URI() *URI {
	return l.localURI
}

func (l *WebSocketListener) handler(w http.ResponseWriter, r *http.Request) {
	c, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		core.LogWarn(l, "Unable to upgrade connection from ", r.RemoteAddr, ": ", err)
		return
	}
	remoteURI := MakeAddrURI("ws", c.RemoteAddr())
	core.LogInfo(l, "Accepting new WebSocket connection ", remoteURI)
	l.table.Add(NewWebSocketConnection(c, l.localURI, remoteURI, PersistencyOnDemand))
}

// Run serves HTTP until the listener is closed.
func (l *WebSocketListener) Run() {
	l.running.Store(true)
	defer func() { l.stopped <- true }()
	core.LogInfo(l, "Listening")

	if err := l.server.Serve(l.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		core.LogWarn(l, "Unable to serve: ", err)
	}
}

// Close stops accepting connections. Accepted connections stay open.
func (l *WebSocketListener) Close() error {
	err := l.server.Close()
	l.ln.Close()
	if l.running.Load() {
		<-l.stopped
	}
	return err
}
