//go:build linux

/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package impl

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"golang.org/x/sys/unix"
)

// afPacketHandle is a PacketHandle over an AF_PACKET socket bound to one interface and EtherType.
type afPacketHandle struct {
	fd        int
	buf       []byte
	closed    atomic.Bool
	closeOnce sync.Once
}

func htons(v uint16) uint16 {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return binary.NativeEndian.Uint16(b[:])
}

// OpenPacketHandle opens a packet socket on the interface receiving only frames of the EtherType.
func OpenPacketHandle(ifname string, etherType uint16) (PacketHandle, error) {
	iface, err := net.InterfaceByName(ifname)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW|unix.SOCK_CLOEXEC, int(htons(etherType)))
	if err != nil {
		return nil, err
	}
	// Reads wake up periodically so Close is noticed
	tv := unix.Timeval{Sec: 1}
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.Bind(fd, &unix.SockaddrLinklayer{Protocol: htons(etherType), Ifindex: iface.Index}); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &afPacketHandle{fd: fd, buf: make([]byte, iface.MTU+14)}, nil
}

func (h *afPacketHandle) ReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error) {
	for {
		if h.closed.Load() {
			return nil, ci, io.EOF
		}
		n, _, err := unix.Recvfrom(h.fd, h.buf, 0)
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, ci, err
		}
		data = make([]byte, n)
		copy(data, h.buf[:n])
		ci.Timestamp = time.Now()
		ci.CaptureLength = n
		ci.Length = n
		return data, ci, nil
	}
}

func (h *afPacketHandle) LinkType() layers.LinkType {
	return layers.LinkTypeEthernet
}

func (h *afPacketHandle) WritePacketData(data []byte) error {
	_, err := unix.Write(h.fd, data)
	return err
}

func (h *afPacketHandle) Close() {
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		unix.Close(h.fd)
	})
}
