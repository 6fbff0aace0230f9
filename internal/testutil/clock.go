// Package testutil provides deterministic clocks and id generators for
// tests. The types satisfy the kernel's Clock and IDGenerator interfaces
// structurally; testutil imports nothing internal.
package testutil

import "time"

// ManualClock is a clock that only moves when told to.
//
// Unlike the system clock it can be positioned exactly, which makes
// time-window assertions (trim ordering, causal linking) reproducible.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a clock positioned at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current position.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set positions the clock at t.
func (c *ManualClock) Set(t time.Time) {
	c.now = t
}
