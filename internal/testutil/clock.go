// Package testutil provides deterministic helpers for harness tests.
package testutil

import (
	"sync"
	"time"
)

// StepClock is a thread-safe fake clock that advances by a fixed step on
// every reading. Injected in place of time.Now, it makes elapsed-time
// measurements exact: two consecutive readings are always one step apart.
type StepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStepClock creates a clock starting at start, advancing by step per
// reading.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{now: start, step: step}
}

// Now returns the current instant and advances the clock by one step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Current returns the clock's instant without advancing it.
func (c *StepClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
