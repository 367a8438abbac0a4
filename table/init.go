/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"time"

	"github.com/named-data/ccnfwd/core"
)

// csCapacity is the number of Content Objects a new Content Store holds.
var csCapacity = 65536

// pitDefaultLifetime is the lifetime of Interests without an InterestLifetime.
var pitDefaultLifetime = 4 * time.Second

// pitMaxLifetime bounds the lifetime of any Interest.
var pitMaxLifetime = 60 * time.Second

// pitExtensionThreshold is how far an aggregated Interest must extend a PIT entry to be forwarded again.
var pitExtensionThreshold = time.Second

// fibPruneEmpty controls whether connection cleanup removes FIB entries left without nexthops.
var fibPruneEmpty = false

// Configure configures the tables.
func Configure() {
	c := core.GetConfig()
	csCapacity = c.Tables.ContentStore.Capacity
	if c.Tables.Pit.DefaultLifetimeMs > 0 {
		pitDefaultLifetime = time.Duration(c.Tables.Pit.DefaultLifetimeMs) * time.Millisecond
	}
	if c.Tables.Pit.MaxLifetimeMs > 0 {
		pitMaxLifetime = time.Duration(c.Tables.Pit.MaxLifetimeMs) * time.Millisecond
	}
	if c.Tables.Pit.LifetimeExtensionThresholdMs >= 0 {
		pitExtensionThreshold = time.Duration(c.Tables.Pit.LifetimeExtensionThresholdMs) * time.Millisecond
	}
	fibPruneEmpty = c.Tables.Fib.PruneEmpty
	core.LogDebug("Tables", "Configured CS capacity=", csCapacity, " PIT lifetime=", pitDefaultLifetime,
		" max=", pitMaxLifetime, " extension threshold=", pitExtensionThreshold, " FIB prune=", fibPruneEmpty)
}
