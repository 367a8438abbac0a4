/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"github.com/gorilla/websocket"
	"github.com/named-data/ccnfwd/core"
)

// WebSocketConnection is a connection over a WebSocket. Each binary message carries one packet.
type WebSocketConnection struct {
	connectionBase
	c *websocket.Conn
}

// NewWebSocketConnection wraps an established WebSocket.
func NewWebSocketConnection(c *websocket.Conn, localURI *URI, remoteURI *URI,
	persistency Persistency) *WebSocketConnection {
	conn := &WebSocketConnection{c: c}
	conn.init(conn, localURI, remoteURI, persistency)
	return conn
}

// DialWebSocket opens a connection to a ws URI.
func DialWebSocket(remoteURI *URI) (*WebSocketConnection, error) {
	c, _, err := websocket.DefaultDialer.Dial(remoteURI.String(), nil)
	if err != nil {
		return nil, err
	}
	localURI := MakeAddrURI("ws", c.LocalAddr())
	return NewWebSocketConnection(c, localURI, remoteURI, PersistencyPersistent), nil
}

func (t *WebSocketConnection) String() string {
	return "WebSocketConnection, ConnectionID=" + itoa(t.ID()) + ", RemoteURI=" + t.remoteURI.String()
}

func (t *WebSocketConnection) start() {
	t.changeState(Up)
	go t.runSend(func(frame []byte) error {
		return t.c.WriteMessage(websocket.BinaryMessage, frame)
	})
	go t.runReceive()
}

func (t *WebSocketConnection) runReceive() {
	t.c.SetReadLimit(int64(maxPacketSize))
	for {
		mt, message, err := t.c.ReadMessage()
		if err != nil {
			if !t.closed() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				core.LogWarn(t, "Unable to read from socket: ", err)
			}
			break
		}
		if mt != websocket.BinaryMessage {
			core.LogWarn(t, "Ignored non-binary message")
			continue
		}
		if frame, ok := trimDatagram(message); ok {
			t.receive(frame)
		} else {
			core.LogDebug(t, "Received invalid message of size ", len(message), " - DROP")
		}
	}
	t.Close()
}

// Close closes the WebSocket and removes the connection from its table.
func (t *WebSocketConnection) Close() error {
	return t.close(t.c.Close)
}
