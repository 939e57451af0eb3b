package repo

import (
	"sync"
	"time"
)

// Clock hands out strictly increasing UTC instants at microsecond precision,
// the finest resolution Postgres keeps.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewClock wraps now; a nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now returns the next instant, bumping by 1µs when the source has not advanced.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.now().UTC().Truncate(time.Microsecond)
	if !next.After(c.last) {
		next = c.last.Add(time.Microsecond)
	}
	c.last = next
	return next
}

// After returns an instant strictly later than prev.
func (c *Clock) After(prev time.Time) time.Time {
	next := c.Now()
	if !next.After(prev) {
		next = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
		c.mu.Lock()
		if next.After(c.last) {
			c.last = next
		}
		c.mu.Unlock()
	}
	return next
}

var defaultClock = NewClock(nil)
