/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"time"

	"github.com/named-data/ccnfwd/core"
)

// fwQueueSize is the maxmimum number of packets that can be buffered to be processed by the forwarding thread.
var fwQueueSize = 1024

// tickInterval is the period of the PIT and Content Store expiry sweep.
var tickInterval = 100 * time.Millisecond

// defaultStrategy is the strategy of newly created FIB entries.
var defaultStrategy = "all"

// csAdmit indicates whether Content Objects are admitted to the Content Store.
var csAdmit = true

// csServe indicates whether Interests are answered from the Content Store.
var csServe = true

// Configure configures the forwarding system.
func Configure() {
	c := core.GetConfig()
	if c.Fw.QueueSize > 0 {
		fwQueueSize = c.Fw.QueueSize
	}
	if c.Fw.TickIntervalMs > 0 {
		tickInterval = time.Duration(c.Fw.TickIntervalMs) * time.Millisecond
	}
	if c.Fw.DefaultStrategy != "" {
		defaultStrategy = c.Fw.DefaultStrategy
	}
	csAdmit = c.Tables.ContentStore.Admit
	csServe = c.Tables.ContentStore.Serve
}
