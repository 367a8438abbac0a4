/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"errors"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/fw"
	"github.com/named-data/ccnfwd/strategy"
	"github.com/named-data/ccnfwd/table"
)

// StrategyChoiceModule is the module that handles Strategy Choice Management.
type StrategyChoiceModule struct {
	manager *Manager
}

// StrategyChoice is the strategy of a FIB entry.
type StrategyChoice struct {
	Prefix   string `json:"prefix"`
	Strategy string `json:"strategy"`
}

// StrategyList describes the available strategies and their use.
type StrategyList struct {
	Available []string         `json:"available"`
	Default   string           `json:"default"`
	Choices   []StrategyChoice `json:"choices"`
}

func (s *StrategyChoiceModule) String() string {
	return "StrategyChoiceMgmt"
}

func (s *StrategyChoiceModule) registerManager(manager *Manager) {
	s.manager = manager
}

func (s *StrategyChoiceModule) getManager() *Manager {
	return s.manager
}

func (s *StrategyChoiceModule) commands() []string {
	return []string{"set-strategy", "list-strategies"}
}

func (s *StrategyChoiceModule) handleCommand(p *fw.Processor, cmd *Command) *Response {
	if cmd.Command == "set-strategy" {
		return s.set(p, cmd)
	}
	return s.list(p)
}

func (s *StrategyChoiceModule) set(p *fw.Processor, cmd *Command) *Response {
	prefix, err := ccn.ParseName(cmd.Prefix)
	if err != nil {
		return MakeResponse(400, "Invalid prefix: "+err.Error(), nil)
	}
	if !strategy.Exists(cmd.Strategy) {
		core.LogWarn(s, "Unknown strategy ", cmd.Strategy)
		return MakeResponse(404, "Unknown strategy", nil)
	}

	err = p.Fib().SetStrategy(prefix, cmd.Strategy)
	switch {
	case errors.Is(err, table.ErrNoSuchEntry):
		return MakeResponse(404, "No FIB entry for prefix", nil)
	case err != nil:
		core.LogError(s, "Unable to set strategy of ", prefix, ": ", err)
		return MakeResponse(500, "Unable to instantiate strategy", nil)
	}
	return MakeResponse(200, "OK", StrategyChoice{Prefix: prefix.String(), Strategy: cmd.Strategy})
}

func (s *StrategyChoiceModule) list(p *fw.Processor) *Response {
	list := StrategyList{
		Available: strategy.Names(),
		Default:   p.Fib().DefaultStrategy(),
		Choices:   make([]StrategyChoice, 0),
	}
	for _, entry := range p.Fib().Entries() {
		list.Choices = append(list.Choices, StrategyChoice{
			Prefix:   entry.Prefix().String(),
			Strategy: entry.Strategy().Name(),
		})
	}
	return MakeResponse(200, "OK", list)
}
