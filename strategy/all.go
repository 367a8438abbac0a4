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
)

// All is a forwarding strategy that forwards Interests to all nexthops.
type All struct {
	StrategyBase
}

func init() {
	strategyTypes = append(strategyTypes, reflect.TypeOf(new(All)))
}

// Instantiate creates a new instance of the All strategy.
func (s *All) Instantiate(prefix ccn.Name) {
	s.NewStrategyBase(s.Name(), prefix)
}

// Name ...
func (s *All) Name() string {
	return "all"
}

// LookupNexthops ...
func (s *All) LookupNexthops(interest *ccn.Message) table.NumberSet {
	return s.Nexthops()
}
