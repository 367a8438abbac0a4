/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package dispatch

// FWThread is the forwarding thread as seen by connections.
type FWThread interface {
	String() string

	// QueuePacket hands a received packet to the forwarding thread. The thread takes ownership of raw.
	QueuePacket(raw []byte, ingress uint64)
}
