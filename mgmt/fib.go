/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"fmt"
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/face"
	"github.com/named-data/ccnfwd/fw"
	"github.com/named-data/ccnfwd/table"
	"go.uber.org/multierr"
)

// FibModule is the module that handles FIB management.
type FibModule struct {
	manager *Manager
}

// NexthopRecord is a nexthop in a route listing. Route listings also carry the round trip times measured
// by the strategy of the entry.
type NexthopRecord struct {
	Connection    uint64  `json:"connection"`
	Cost          uint16  `json:"cost"`
	SmoothedRttMs float64 `json:"smoothedRttMs,omitempty"`
	RttSamples    int     `json:"rttSamples,omitempty"`
}

// RouteRecord is a FIB entry in a route listing.
type RouteRecord struct {
	Prefix   string          `json:"prefix"`
	Strategy string          `json:"strategy"`
	Nexthops []NexthopRecord `json:"nexthops"`
}

func (f *FibModule) String() string {
	return "FibMgmt"
}

func (f *FibModule) registerManager(manager *Manager) {
	f.manager = manager
}

func (f *FibModule) getManager() *Manager {
	return f.manager
}

func (f *FibModule) commands() []string {
	return []string{"add-route", "remove-route", "list-routes"}
}

func (f *FibModule) handleCommand(p *fw.Processor, cmd *Command) *Response {
	switch cmd.Command {
	case "add-route":
		return f.add(p, cmd)
	case "remove-route":
		return f.remove(p, cmd)
	default:
		return f.list(p)
	}
}

// route builds the route named by the command. Connection 0 designates the requester.
func (f *FibModule) route(cmd *Command) (table.Route, *Response) {
	prefix, err := ccn.ParseName(cmd.Prefix)
	if err != nil {
		return table.Route{}, MakeResponse(400, "Invalid prefix: "+err.Error(), nil)
	}
	id := cmd.Connection
	if id == 0 {
		id = cmd.ingress
	}
	if id == 0 {
		return table.Route{}, MakeResponse(400, "Missing connection", nil)
	}
	return table.Route{Prefix: prefix, ConnectionID: id, Cost: cmd.Cost}, nil
}

func (f *FibModule) add(p *fw.Processor, cmd *Command) *Response {
	route, resp := f.route(cmd)
	if resp != nil {
		return resp
	}
	if p.Connections().Get(route.ConnectionID) == nil {
		core.LogWarn(f, "Cannot add route to non-existent connection ", route.ConnectionID)
		return MakeResponse(404, "Connection not found", nil)
	}

	p.Fib().AddOrUpdate(route)
	if _, ok := p.Fib().FindExact(route.Prefix); !ok {
		return MakeResponse(500, "Unable to create FIB entry", nil)
	}
	core.LogInfo(f, "Added route for ", route.Prefix, " to ", route.ConnectionID, " cost=", route.Cost)
	return MakeResponse(200, "OK", NexthopRecord{Connection: route.ConnectionID, Cost: route.Cost})
}

func (f *FibModule) remove(p *fw.Processor, cmd *Command) *Response {
	route, resp := f.route(cmd)
	if resp != nil {
		return resp
	}
	entry, ok := p.Fib().FindExact(route.Prefix)
	if !ok {
		return MakeResponse(404, "Route not found", nil)
	}
	found := false
	for _, nh := range entry.Nexthops() {
		found = found || nh.Nexthop == route.ConnectionID
	}
	if !found {
		return MakeResponse(404, "Route not found", nil)
	}

	p.Fib().Remove(route)
	core.LogInfo(f, "Removed route for ", route.Prefix, " to ", route.ConnectionID)
	return MakeResponse(200, "OK", nil)
}

func (f *FibModule) list(p *fw.Processor) *Response {
	entries := p.Fib().Entries()
	routes := make([]RouteRecord, 0, len(entries))
	for _, entry := range entries {
		record := RouteRecord{
			Prefix:   entry.Prefix().String(),
			Strategy: entry.Strategy().Name(),
			Nexthops: make([]NexthopRecord, 0),
		}
		for _, nh := range entry.Nexthops() {
			nexthop := NexthopRecord{
				Connection: nh.Nexthop,
				Cost:       nh.Cost,
				RttSamples: table.RttSampleCount(entry.Prefix(), nh.Nexthop),
			}
			if rtt, ok := table.SmoothedRtt(entry.Prefix(), nh.Nexthop); ok {
				nexthop.SmoothedRttMs = float64(rtt) / float64(time.Millisecond)
			}
			record.Nexthops = append(record.Nexthops, nexthop)
		}
		routes = append(routes, record)
	}
	return MakeResponse(200, "OK", routes)
}

// InstallStaticRoutes opens the connection of every configured route and adds the routes on the thread.
// Routes that cannot be installed are skipped; their errors are combined.
func InstallStaticRoutes(connections *face.Table, thread *fw.Thread, routes []core.RouteConfig) error {
	var err error
	for _, rc := range routes {
		prefix, e := ccn.ParseName(rc.Prefix)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("route %s: %w", rc.Prefix, e))
			continue
		}
		if rc.URI == "" {
			err = multierr.Append(err, fmt.Errorf("route %s: missing uri", rc.Prefix))
			continue
		}
		conn, e := face.Dial(connections, rc.URI)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("route %s via %s: %w", rc.Prefix, rc.URI, e))
			continue
		}

		route := table.Route{Prefix: prefix, ConnectionID: conn.ID(), Cost: rc.Cost}
		<-thread.Submit(func(p *fw.Processor) {
			p.Fib().AddOrUpdate(route)
		})
		core.LogInfo("FibMgmt", "Installed static route ", prefix, " via ", conn)
	}
	return err
}
