/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"encoding/json"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/dispatch"
	"github.com/named-data/ccnfwd/face"
	"github.com/named-data/ccnfwd/fw"
)

// Manager answers management commands carried in Control messages. It is the control handler of a
// processor and runs on its forwarding thread.
type Manager struct {
	connections *face.Table
	listeners   *face.Listeners
	modules     map[string]Module
}

// NewManager creates a manager with every management module. Connection and listener commands are
// unavailable when connections or listeners is nil.
func NewManager(connections *face.Table, listeners *face.Listeners) *Manager {
	m := &Manager{
		connections: connections,
		listeners:   listeners,
		modules:     make(map[string]Module),
	}
	m.registerModule(&FibModule{})
	m.registerModule(&StrategyChoiceModule{})
	m.registerModule(&ContentStoreModule{})
	m.registerModule(&FaceModule{})
	m.registerModule(&ForwarderStatusModule{})
	return m
}

func (m *Manager) String() string {
	return "Management"
}

func (m *Manager) registerModule(module Module) {
	module.registerManager(m)
	for _, name := range module.commands() {
		m.modules[name] = module
	}
}

// HandleControl decodes the command in a Control message, runs it and sends the response back on the
// ingress connection.
func (m *Manager) HandleControl(p *fw.Processor, msg *ccn.Message) {
	ingress := msg.IngressID()
	conn := p.Connections().Get(ingress)
	if conn == nil {
		core.LogWarn(m, "Received command from unknown connection ", ingress, " - DROP")
		return
	}
	if !conn.IsLocal() && !allowRemote {
		core.LogWarn(m, "Received command from non-local connection ", ingress, " - REJECT")
		sendResponse(p.Connections(), ingress, MakeResponse(403, "Management is only allowed from local connections", nil))
		return
	}

	cmd, err := decodeCommand(msg.ControlPayload())
	if err != nil {
		core.LogInfo(m, "Unable to decode command from ", ingress, ": ", err)
		sendResponse(p.Connections(), ingress, MakeResponse(400, err.Error(), nil))
		return
	}
	cmd.ingress = ingress
	if resp := m.Execute(p, cmd); resp != nil {
		sendResponse(p.Connections(), ingress, resp)
	}
}

// Execute runs a command on the forwarding thread of p and returns its response. A nil response means
// the response is sent to the requester once the command completes.
func (m *Manager) Execute(p *fw.Processor, cmd *Command) *Response {
	module, ok := m.modules[cmd.Command]
	if !ok {
		core.LogWarn(m, "Received non-existent command '", cmd.Command, "'")
		return MakeResponse(501, "Unknown command", nil)
	}
	core.LogTrace(module, "Executing ", cmd.Command)
	return module.handleCommand(p, cmd)
}

// sendResponse encodes the response in a Control message sent on the connection. It is safe to call off
// the forwarding thread when conns is.
func sendResponse(conns dispatch.ConnectionTable, id uint64, resp *Response) {
	if id == 0 {
		return
	}
	body, err := json.Marshal(resp)
	if err != nil {
		core.LogError("Management", "Unable to encode response: ", err)
		return
	}
	raw, err := ccn.EncodeControl(body)
	if err != nil {
		core.LogError("Management", "Unable to encode response: ", err)
		return
	}
	msg, err := ccn.NewMessage(raw, 0, 0)
	if err != nil {
		core.LogError("Management", "Unable to parse response: ", err)
		return
	}
	conn := conns.Get(id)
	if conn == nil || !conn.Send(msg) {
		core.LogWarn("Management", "Unable to send response to ", id)
	}
}
