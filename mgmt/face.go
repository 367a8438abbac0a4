/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"errors"

	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/face"
	"github.com/named-data/ccnfwd/fw"
)

// FaceModule is the module that handles connection and listener management.
type FaceModule struct {
	manager *Manager
}

// ConnectionRecord describes a connection.
type ConnectionRecord struct {
	ID             uint64                  `json:"id"`
	LocalURI       string                  `json:"localUri"`
	RemoteURI      string                  `json:"remoteUri"`
	Persistency    string                  `json:"persistency"`
	State          string                  `json:"state"`
	Local          bool                    `json:"local"`
	Counters       face.ConnectionCounters `json:"counters"`
	SendQueueBytes uint64                  `json:"sendQueueBytes,omitempty"`
}

func makeConnectionRecord(c face.Connection) ConnectionRecord {
	record := ConnectionRecord{
		ID:          c.ID(),
		LocalURI:    c.LocalURI().String(),
		RemoteURI:   c.RemoteURI().String(),
		Persistency: c.Persistency().String(),
		State:       c.State().String(),
		Local:       c.IsLocal(),
		Counters:    c.Counters(),
	}
	if sq, ok := c.(interface{ SendQueueBytes() uint64 }); ok {
		record.SendQueueBytes = sq.SendQueueBytes()
	}
	return record
}

func (f *FaceModule) String() string {
	return "FaceMgmt"
}

func (f *FaceModule) registerManager(manager *Manager) {
	f.manager = manager
}

func (f *FaceModule) getManager() *Manager {
	return f.manager
}

func (f *FaceModule) commands() []string {
	return []string{
		"list-connections", "create-connection", "destroy-connection",
		"add-listener", "remove-listener", "list-listeners",
	}
}

func (f *FaceModule) handleCommand(p *fw.Processor, cmd *Command) *Response {
	connections := f.manager.connections
	listeners := f.manager.listeners
	switch cmd.Command {
	case "list-connections":
		if connections == nil {
			return MakeResponse(503, "Connection table unavailable", nil)
		}
		records := make([]ConnectionRecord, 0)
		for _, c := range connections.GetAll() {
			records = append(records, makeConnectionRecord(c))
		}
		return MakeResponse(200, "OK", records)
	case "create-connection":
		if connections == nil {
			return MakeResponse(503, "Connection table unavailable", nil)
		}
		f.create(p, cmd)
		return nil
	case "destroy-connection":
		if connections == nil {
			return MakeResponse(503, "Connection table unavailable", nil)
		}
		c := connections.GetConnection(cmd.Connection)
		if c == nil {
			return MakeResponse(404, "Connection not found", nil)
		}
		core.LogInfo(f, "Destroying connection ", c)
		c.Close()
		return MakeResponse(200, "OK", nil)
	case "add-listener":
		if listeners == nil {
			return MakeResponse(503, "Listeners unavailable", nil)
		}
		l, err := listeners.Add(cmd.URI)
		if err != nil {
			core.LogWarn(f, "Unable to add listener ", cmd.URI, ": ", err)
			return MakeResponse(uriErrorStatus(err), err.Error(), nil)
		}
		return MakeResponse(200, "OK", l.URI().String())
	case "remove-listener":
		if listeners == nil {
			return MakeResponse(503, "Listeners unavailable", nil)
		}
		if err := listeners.Remove(cmd.URI); err != nil {
			if errors.Is(err, face.ErrNoSuchListener) {
				return MakeResponse(404, err.Error(), nil)
			}
			return MakeResponse(uriErrorStatus(err), err.Error(), nil)
		}
		return MakeResponse(200, "OK", nil)
	default:
		if listeners == nil {
			return MakeResponse(503, "Listeners unavailable", nil)
		}
		return MakeResponse(200, "OK", listeners.List())
	}
}

// create dials the connection off the forwarding thread and answers once it is up.
func (f *FaceModule) create(p *fw.Processor, cmd *Command) {
	conns := p.Connections()
	go func() {
		c, err := face.Dial(f.manager.connections, cmd.URI)
		if err != nil {
			core.LogWarn(f, "Unable to create connection to ", cmd.URI, ": ", err)
			sendResponse(conns, cmd.ingress, MakeResponse(uriErrorStatus(err), err.Error(), nil))
			return
		}
		sendResponse(conns, cmd.ingress, MakeResponse(200, "OK", makeConnectionRecord(c)))
	}()
}

func uriErrorStatus(err error) int {
	switch {
	case errors.Is(err, face.ErrBadURI), errors.Is(err, face.ErrUnknownScheme), errors.Is(err, face.ErrCannotListen):
		return 400
	case errors.Is(err, face.ErrListenerExists):
		return 409
	default:
		return 500
	}
}
