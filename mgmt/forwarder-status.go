/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"time"

	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/fw"
)

// ForwarderStatusModule is the module that provides forwarder status information.
type ForwarderStatusModule struct {
	manager *Manager
}

// ForwarderStatus is the body of the stats response.
type ForwarderStatus struct {
	Version        string           `json:"version"`
	StartTimestamp time.Time        `json:"startTimestamp"`
	Uptime         string           `json:"uptime"`
	Counters       fw.Counters      `json:"counters"`
	PitEntries     int              `json:"pitEntries"`
	PitExpired     uint64           `json:"pitExpired"`
	FibEntries     int              `json:"fibEntries"`
	ContentStore   ContentStoreInfo `json:"contentStore"`
	Connections    int              `json:"connections"`
}

func (f *ForwarderStatusModule) String() string {
	return "StatusMgmt"
}

func (f *ForwarderStatusModule) registerManager(manager *Manager) {
	f.manager = manager
}

func (f *ForwarderStatusModule) getManager() *Manager {
	return f.manager
}

func (f *ForwarderStatusModule) commands() []string {
	return []string{"stats"}
}

func (f *ForwarderStatusModule) handleCommand(p *fw.Processor, cmd *Command) *Response {
	status := ForwarderStatus{
		Version:        core.Version,
		StartTimestamp: core.StartTimestamp,
		Uptime:         time.Since(core.StartTimestamp).Round(time.Second).String(),
		Counters:       p.Counters(),
		PitEntries:     p.Pit().Len(),
		PitExpired:     p.Pit().ExpiredCount(),
		FibEntries:     p.Fib().Len(),
		ContentStore:   contentStoreInfo(p),
	}
	if f.manager.connections != nil {
		status.Connections = f.manager.connections.Len()
	}
	return MakeResponse(200, "OK", status)
}
