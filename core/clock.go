/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"sync/atomic"
	"time"
)

// Ticks is a point in time expressed in milliseconds since the Unix epoch.
type Ticks uint64

// TicksFromDuration converts a duration into a tick count.
func TicksFromDuration(d time.Duration) Ticks {
	if d < 0 {
		return 0
	}
	return Ticks(d / time.Millisecond)
}

// Duration converts a tick count into a duration.
func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

// Clock supplies the tick value used for PIT expiry and Content Store time ordering.
type Clock interface {
	Now() Ticks
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in ticks.
func (SystemClock) Now() Ticks {
	return Ticks(time.Now().UnixMilli())
}

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	now atomic.Uint64
}

// NewManualClock creates a clock starting at the given tick.
func NewManualClock(start Ticks) *ManualClock {
	c := &ManualClock{}
	c.now.Store(uint64(start))
	return c
}

// Now returns the current tick.
func (c *ManualClock) Now() Ticks {
	return Ticks(c.now.Load())
}

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) Ticks {
	return Ticks(c.now.Add(uint64(TicksFromDuration(d))))
}

// Set moves the clock to the given tick.
func (c *ManualClock) Set(t Ticks) {
	c.now.Store(uint64(t))
}
