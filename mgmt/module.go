/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import "github.com/named-data/ccnfwd/fw"

// Module represents a management module
type Module interface {
	String() string
	registerManager(manager *Manager)
	getManager() *Manager
	// commands returns the command names the module handles.
	commands() []string
	// handleCommand runs on the forwarding thread. A nil response means the module answers later.
	handleCommand(p *fw.Processor, cmd *Command) *Response
}
