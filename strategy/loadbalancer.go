/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package strategy

import (
	"reflect"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/table"
	"github.com/named-data/ccnfwd/utils/comparison"
)

// LoadBalancer is a forwarding strategy that spreads Interests over the nexthops by smooth weighted round
// robin. Cheaper nexthops get proportionally more Interests.
type LoadBalancer struct {
	StrategyBase
	current map[uint64]int
}

func init() {
	strategyTypes = append(strategyTypes, reflect.TypeOf(new(LoadBalancer)))
}

// Instantiate creates a new instance of the LoadBalancer strategy.
func (s *LoadBalancer) Instantiate(prefix ccn.Name) {
	s.NewStrategyBase(s.Name(), prefix)
	s.current = make(map[uint64]int)
}

// Name ...
func (s *LoadBalancer) Name() string {
	return "loadbalancer"
}

// weight returns the share of a nexthop with the given route cost.
func weight(cost uint16) int {
	return comparison.Max(1, 256/(int(cost)+1))
}

// RemoveNexthop ...
func (s *LoadBalancer) RemoveNexthop(route table.Route) {
	s.StrategyBase.RemoveNexthop(route)
	delete(s.current, route.ConnectionID)
}

// LookupNexthops ...
func (s *LoadBalancer) LookupNexthops(interest *ccn.Message) table.NumberSet {
	if len(s.nexthops) == 0 {
		return table.NumberSet{}
	}

	total := 0
	best := -1
	for i, nh := range s.nexthops {
		w := weight(nh.Cost)
		total += w
		s.current[nh.Nexthop] += w
		if best < 0 || s.current[nh.Nexthop] > s.current[s.nexthops[best].Nexthop] {
			best = i
		}
	}
	chosen := s.nexthops[best].Nexthop
	s.current[chosen] -= total
	return table.NewNumberSet(chosen)
}

// Destroy ...
func (s *LoadBalancer) Destroy() {
	s.StrategyBase.Destroy()
	s.current = make(map[uint64]int)
}
