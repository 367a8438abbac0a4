/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/named-data/ccnfwd/ccn/tlv"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/face/impl"
)

// ErrBadPacketLength is returned when a peer announces a packet shorter than its fixed header or larger
// than the maximum packet size.
var ErrBadPacketLength = errors.New("invalid packet length")

// StreamConnection is a connection over a TCP or Unix stream socket. Packets are delimited by the
// packet length in their fixed header.
type StreamConnection struct {
	connectionBase
	conn net.Conn
}

// NewStreamConnection wraps an established stream socket.
func NewStreamConnection(conn net.Conn, localURI *URI, remoteURI *URI, persistency Persistency) *StreamConnection {
	c := &StreamConnection{conn: conn}
	c.init(c, localURI, remoteURI, persistency)
	return c
}

// DialStream opens a stream connection to a tcp or unix URI.
func DialStream(remoteURI *URI) (*StreamConnection, error) {
	conn, err := net.Dial(remoteURI.Network(), remoteURI.Address())
	if err != nil {
		return nil, err
	}
	localURI := MakeAddrURI(remoteURI.Scheme(), conn.LocalAddr())
	return NewStreamConnection(conn, localURI, remoteURI, PersistencyPersistent), nil
}

func (c *StreamConnection) String() string {
	return "StreamConnection, ConnectionID=" + itoa(c.ID()) + ", RemoteURI=" + c.remoteURI.String()
}

func (c *StreamConnection) start() {
	c.changeState(Up)
	go c.runSend(func(frame []byte) error {
		_, err := c.conn.Write(frame)
		return err
	})
	go c.runReceive()
}

func (c *StreamConnection) runReceive() {
	buf := getRecvBuffer()
	defer putRecvBuffer(buf)

	err := readStream(c.conn, buf, c.receive)
	if c.closed() {
		return
	}
	if err != nil && !errors.Is(err, io.EOF) {
		core.LogWarn(c, "Unable to read from socket: ", err)
	} else {
		core.LogInfo(c, "Peer closed the connection")
	}
	c.Close()
}

// SendQueueBytes returns the number of bytes waiting in the kernel send queue of the socket.
func (c *StreamConnection) SendQueueBytes() uint64 {
	sc, ok := c.conn.(syscall.Conn)
	if !ok {
		return 0
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0
	}
	return impl.SyscallGetSocketSendQueueSize(raw)
}

// Close closes the socket and removes the connection from its table.
func (c *StreamConnection) Close() error {
	return c.close(c.conn.Close)
}

// readStream reads packets from reader into buf and passes each complete packet to frameCb. The slice
// passed to frameCb is only valid during the call.
func readStream(reader io.Reader, buf []byte, frameCb func([]byte)) error {
	recvOff := 0
	for {
		readSize, err := reader.Read(buf[recvOff:])
		recvOff += readSize
		if err != nil {
			return err
		}

		pktOff := 0
		for recvOff-pktOff >= tlv.FixedHeaderLength {
			pktSize, err := tlv.PeekPacketLength(buf[pktOff:recvOff])
			if err != nil {
				return err
			}
			if pktSize > maxPacketSize || pktSize < tlv.FixedHeaderLength {
				return ErrBadPacketLength
			}
			if recvOff-pktOff < pktSize {
				break
			}
			frameCb(buf[pktOff : pktOff+pktSize])
			pktOff += pktSize
		}

		copy(buf, buf[pktOff:recvOff])
		recvOff -= pktOff
	}
}
