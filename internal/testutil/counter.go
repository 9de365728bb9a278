package testutil

import "sync/atomic"

// Counter is a resettable sequence starting at 1. Safe for concurrent use.
type Counter struct {
	n atomic.Int64
}

// Next returns the next value.
func (c *Counter) Next() int64 { return c.n.Add(1) }

// Current returns the last value handed out, or 0.
func (c *Counter) Current() int64 { return c.n.Load() }

// Reset makes the next call to Next return 1.
func (c *Counter) Reset() { c.n.Store(0) }
