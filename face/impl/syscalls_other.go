//go:build !linux

/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package impl

import (
	"errors"
	"syscall"
)

// ErrUnsupported is returned for link-layer access on platforms without packet sockets.
var ErrUnsupported = errors.New("link-layer sockets are not supported on this platform")

// SyscallGetSocketSendQueueSize is not available on this platform and returns 0.
func SyscallGetSocketSendQueueSize(c syscall.RawConn) uint64 {
	return 0
}

// OpenPacketHandle is not available on this platform.
func OpenPacketHandle(ifname string, etherType uint16) (PacketHandle, error) {
	return nil, ErrUnsupported
}
