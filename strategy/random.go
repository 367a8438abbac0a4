/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package strategy

import (
	"math/rand"
	"reflect"
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/table"
)

// Random is a forwarding strategy that forwards each Interest to one nexthop picked uniformly at random.
type Random struct {
	StrategyBase
	rng *rand.Rand
}

func init() {
	strategyTypes = append(strategyTypes, reflect.TypeOf(new(Random)))
}

// Instantiate creates a new instance of the Random strategy.
func (s *Random) Instantiate(prefix ccn.Name) {
	s.NewStrategyBase(s.Name(), prefix)
	s.rng = rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(prefix.Hash())))
}

// Name ...
func (s *Random) Name() string {
	return "random"
}

// LookupNexthops ...
func (s *Random) LookupNexthops(interest *ccn.Message) table.NumberSet {
	if len(s.nexthops) == 0 {
		return table.NumberSet{}
	}
	return table.NewNumberSet(s.nexthops[s.rng.Intn(len(s.nexthops))].Nexthop)
}
