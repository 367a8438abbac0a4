/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package strategy

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/table"
	"golang.org/x/exp/slices"
)

// ErrUnknownStrategy is returned when no strategy is registered under a name.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy is a forwarding strategy that can be attached to a FIB entry.
type Strategy interface {
	table.Strategy
	Instantiate(prefix ccn.Name)
}

// strategyTypes contains the types of all registered strategies.
var strategyTypes = make([]reflect.Type, 0)

func newOfType(t reflect.Type) Strategy {
	return reflect.New(t.Elem()).Interface().(Strategy)
}

// New creates an instance of the named strategy for the FIB entry of prefix.
func New(name string, prefix ccn.Name) (table.Strategy, error) {
	for _, t := range strategyTypes {
		s := newOfType(t)
		if s.Name() == name {
			s.Instantiate(prefix)
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
}

// Names returns the names of all registered strategies, sorted.
func Names() []string {
	names := make([]string, 0, len(strategyTypes))
	for _, t := range strategyTypes {
		names = append(names, newOfType(t).Name())
	}
	slices.Sort(names)
	return names
}

// Exists returns whether a strategy is registered under name.
func Exists(name string) bool {
	for _, t := range strategyTypes {
		if newOfType(t).Name() == name {
			return true
		}
	}
	return false
}

// StrategyBase keeps the nexthops of a FIB entry and records round trip times. Strategies embed it and
// implement LookupNexthops.
type StrategyBase struct {
	prefix   ccn.Name
	name     string
	nexthops []table.FibNextHop
}

// NewStrategyBase is a helper that allows specific strategies to initialize the base.
func (s *StrategyBase) NewStrategyBase(name string, prefix ccn.Name) {
	s.name = name
	s.prefix = prefix
	s.nexthops = make([]table.FibNextHop, 0)
}

func (s *StrategyBase) String() string {
	return "Strategy-" + s.name + "(" + s.prefix.String() + ")"
}

// Prefix returns the prefix of the FIB entry the strategy serves.
func (s *StrategyBase) Prefix() ccn.Name {
	return s.prefix
}

func (s *StrategyBase) find(id uint64) int {
	for i, nh := range s.nexthops {
		if nh.Nexthop == id {
			return i
		}
	}
	return -1
}

// AddNexthop adds the nexthop of the route, or updates its cost.
func (s *StrategyBase) AddNexthop(route table.Route) {
	if i := s.find(route.ConnectionID); i >= 0 {
		s.nexthops[i].Cost = route.Cost
		return
	}
	s.nexthops = append(s.nexthops, table.FibNextHop{Nexthop: route.ConnectionID, Cost: route.Cost})
}

// RemoveNexthop removes the nexthop of the route and forgets its measurements.
func (s *StrategyBase) RemoveNexthop(route table.Route) {
	i := s.find(route.ConnectionID)
	if i < 0 {
		return
	}
	s.nexthops = append(s.nexthops[:i], s.nexthops[i+1:]...)
	table.ClearRtt(s.prefix, route.ConnectionID)
}

// Nexthops returns every nexthop.
func (s *StrategyBase) Nexthops() table.NumberSet {
	var set table.NumberSet
	for _, nh := range s.nexthops {
		set.Add(nh.Nexthop)
	}
	return set
}

// ReceiveObject records the round trip time of a Content Object received from egress.
func (s *StrategyBase) ReceiveObject(egress uint64, object *ccn.Message, rtt time.Duration) {
	if s.find(egress) < 0 {
		return
	}
	table.AddRttSample(s.prefix, egress, rtt)
	core.LogTrace(s, "RTT sample from ", egress, ": ", rtt)
}

// Destroy forgets the measurements of every nexthop.
func (s *StrategyBase) Destroy() {
	for _, nh := range s.nexthops {
		table.ClearRtt(s.prefix, nh.Nexthop)
	}
	s.nexthops = s.nexthops[:0]
}
