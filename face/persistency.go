/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

// Persistency represents the persistency of a connection.
type Persistency uint64

// Connection persistencies.
const (
	// PersistencyPersistent connections were created by configuration or management.
	PersistencyPersistent Persistency = 0
	// PersistencyOnDemand connections were accepted by a listener and may be reclaimed.
	PersistencyOnDemand Persistency = 1
)

func (p Persistency) String() string {
	switch p {
	case PersistencyPersistent:
		return "Persistent"
	case PersistencyOnDemand:
		return "OnDemand"
	default:
		return "Unknown"
	}
}
