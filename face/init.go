/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"net"

	"github.com/named-data/ccnfwd/core"
)

// sendQueueSize is the maximum number of packets that can be buffered to be sent on a connection.
var sendQueueSize = 1024

// maxPacketSize is the largest packet accepted or sent on a connection.
var maxPacketSize = 8800

// poolSize is the number of receive buffers pre-allocated per listener.
var poolSize = 64

// udpMaxPeers is the number of on-demand UDP peers a listener keeps before reclaiming the least recently
// active one.
var udpMaxPeers = 1024

// wsAllowedOrigins are the Origin header values accepted by WebSocket listeners. Empty allows all.
var wsAllowedOrigins []string

// ccnxEtherType is the EtherType of CCNx frames.
const ccnxEtherType = 0x0801

// ethernetGroupAddress is the destination of frames sent on Ethernet connections.
var ethernetGroupAddress = net.HardwareAddr{0x01, 0x00, 0x5e, 0x00, 0x17, 0xaa}

// Configure configures the connection system.
func Configure() {
	c := core.GetConfig()
	if c.Faces.QueueSize > 0 {
		sendQueueSize = c.Faces.QueueSize
	}
	if c.Faces.MaxPacketSize > 0 {
		maxPacketSize = c.Faces.MaxPacketSize
	}
	if c.Faces.PoolSize > 0 {
		poolSize = c.Faces.PoolSize
	}
	if c.Faces.Udp.MaxPeers > 0 {
		udpMaxPeers = c.Faces.Udp.MaxPeers
	}
	wsAllowedOrigins = c.Faces.WebSocket.AllowedOrigins
	if c.Faces.Ethernet.GroupAddress != "" {
		addr, err := net.ParseMAC(c.Faces.Ethernet.GroupAddress)
		if err != nil {
			core.LogWarn("Faces", "Invalid Ethernet group address ", c.Faces.Ethernet.GroupAddress, ": ", err)
		} else {
			ethernetGroupAddress = addr
		}
	}
}
