/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package impl

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// PacketHandle reads and writes whole link-layer frames on one interface. It contains the subset of
// *pcap.Handle methods used by Ethernet connections.
type PacketHandle interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
	WritePacketData(data []byte) error
	Close()
}
