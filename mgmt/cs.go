/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/fw"
	"github.com/named-data/ccnfwd/table"
)

// ContentStoreModule is the module that handles Content Store Management.
type ContentStoreModule struct {
	manager *Manager
}

// ContentStoreInfo describes the Content Store.
type ContentStoreInfo struct {
	Capacity int              `json:"capacity"`
	Entries  int              `json:"entries"`
	Admit    bool             `json:"admit"`
	Serve    bool             `json:"serve"`
	Counters table.CsCounters `json:"counters"`
}

func (c *ContentStoreModule) String() string {
	return "ContentStoreMgmt"
}

func (c *ContentStoreModule) registerManager(manager *Manager) {
	c.manager = manager
}

func (c *ContentStoreModule) getManager() *Manager {
	return c.manager
}

func (c *ContentStoreModule) commands() []string {
	return []string{"cache-clear", "cache-capacity", "cache-info"}
}

func (c *ContentStoreModule) handleCommand(p *fw.Processor, cmd *Command) *Response {
	cs := p.ContentStore()
	switch cmd.Command {
	case "cache-clear":
		n := cs.Len()
		cs.Clear()
		core.LogInfo(c, "Cleared ", n, " Content Objects")
	case "cache-capacity":
		core.LogInfo(c, "Setting CS capacity to ", *cmd.Capacity)
		cs.SetCapacity(*cmd.Capacity)
	}
	return MakeResponse(200, "OK", contentStoreInfo(p))
}

func contentStoreInfo(p *fw.Processor) ContentStoreInfo {
	cs := p.ContentStore()
	admit, serve := p.ContentStorePolicy()
	return ContentStoreInfo{
		Capacity: cs.Capacity(),
		Entries:  cs.Len(),
		Admit:    admit,
		Serve:    serve,
		Counters: cs.Counters(),
	}
}
