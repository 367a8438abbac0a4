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

	"github.com/named-data/ccnfwd/core"
)

// UDPConnection is a connection to one UDP peer. On-demand connections share the socket of the listener
// that accepted them; dialed connections own a connected socket.
type UDPConnection struct {
	connectionBase
	conn     *net.UDPConn
	remote   *net.UDPAddr
	listener *UDPListener
}

// DialUDP opens a persistent connection to a udp URI.
func DialUDP(remoteURI *URI) (*UDPConnection, error) {
	remote, err := net.ResolveUDPAddr(remoteURI.Network(), remoteURI.Address())
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP(remoteURI.Network(), nil, remote)
	if err != nil {
		return nil, err
	}
	c := &UDPConnection{conn: conn, remote: remote}
	c.init(c, MakeAddrURI(remoteURI.Scheme(), conn.LocalAddr()), remoteURI, PersistencyPersistent)
	return c, nil
}

func newAcceptedUDPConnection(l *UDPListener, remote *net.UDPAddr) *UDPConnection {
	c := &UDPConnection{conn: l.conn, remote: remote, listener: l}
	c.init(c, l.localURI, MakeAddrURI(l.localURI.Scheme(), remote), PersistencyOnDemand)
	return c
}

func (c *UDPConnection) String() string {
	return "UDPConnection, ConnectionID=" + itoa(c.ID()) + ", RemoteURI=" + c.remoteURI.String()
}

func (c *UDPConnection) start() {
	c.changeState(Up)
	if c.listener != nil {
		go c.runSend(func(frame []byte) error {
			_, err := c.conn.WriteToUDP(frame, c.remote)
			return err
		})
		return
	}
	go c.runSend(func(frame []byte) error {
		_, err := c.conn.Write(frame)
		return err
	})
	go c.runReceive()
}

func (c *UDPConnection) runReceive() {
	buf := make([]byte, maxPacketSize)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			if c.closed() || errors.Is(err, net.ErrClosed) {
				break
			}
			// ICMP errors surface here on connected sockets
			core.LogDebug(c, "Unable to read from socket: ", err)
			continue
		}
		c.receiveDatagram(buf[:n])
	}
	c.Close()
}

func (c *UDPConnection) receiveDatagram(datagram []byte) {
	if frame, ok := trimDatagram(datagram); ok {
		c.receive(frame)
	} else {
		core.LogDebug(c, "Received invalid datagram of size ", len(datagram), " - DROP")
	}
}

// Close closes the connection. The socket of an accepted connection stays open for the listener.
func (c *UDPConnection) Close() error {
	return c.close(func() error {
		if c.listener != nil {
			c.listener.forget(c)
			return nil
		}
		return c.conn.Close()
	})
}
