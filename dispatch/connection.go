/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package dispatch

import "github.com/named-data/ccnfwd/ccn"

// Connection provides an interface that connections can satisfy (to avoid circular dependency between
// connections and forwarding).
type Connection interface {
	String() string

	ID() uint64
	IsUp() bool
	IsLocal() bool

	// Send enqueues the message for transmission. It never blocks; false means the message was not queued.
	Send(msg *ccn.Message) bool
}

// ConnectionTable looks up connections by ID.
type ConnectionTable interface {
	// Get returns nil if no connection has that ID.
	Get(id uint64) Connection
}
