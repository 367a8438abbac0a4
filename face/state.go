/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

// State indicates the state of a connection
type State int32

const (
	// Down indicates the connection is not carrying packets yet
	Down State = iota
	// Up indicates the connection is up
	Up
	// Closed indicates the connection is closed for good
	Closed
)

func (s State) String() string {
	switch s {
	case Down:
		return "Down"
	case Up:
		return "Up"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}
