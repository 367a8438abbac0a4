/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package dispatch

import "strconv"

// MissiveType is a connection lifecycle event.
type MissiveType int

const (
	// MissiveCreate is sent when a connection is added to the table.
	MissiveCreate MissiveType = iota
	// MissiveUp is sent when a connection starts carrying packets.
	MissiveUp
	// MissiveDown is sent when a connection stops carrying packets but may come back.
	MissiveDown
	// MissiveClosed is sent when a connection is closed for good.
	MissiveClosed
	// MissiveDestroyed is sent when a connection is removed from the table.
	MissiveDestroyed
)

func (t MissiveType) String() string {
	switch t {
	case MissiveCreate:
		return "Create"
	case MissiveUp:
		return "Up"
	case MissiveDown:
		return "Down"
	case MissiveClosed:
		return "Closed"
	case MissiveDestroyed:
		return "Destroyed"
	default:
		return "Unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// Missive reports a lifecycle event of a connection to the forwarding thread.
type Missive struct {
	Type         MissiveType
	ConnectionID uint64
}

func (m Missive) String() string {
	return m.Type.String() + "(" + strconv.FormatUint(m.ConnectionID, 10) + ")"
}
