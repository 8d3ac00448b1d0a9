package model

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Clock counts down one side's thinking time. It only runs between Start
// and Stop.
type Clock struct {
	mu        sync.Mutex
	remaining time.Duration // as of the last Stop
	runningAt time.Time     // zero while stopped
	now       func() time.Time
}

func NewClock(total time.Duration) *Clock {
	return &Clock{remaining: total, now: time.Now}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.runningAt.IsZero() {
		c.runningAt = c.now()
		log.Debugf("clock running with %s left", c.remaining)
	}
}

// Stop banks the time used since Start.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.runningAt.IsZero() {
		return
	}
	c.remaining = c.leftAt(c.now())
	c.runningAt = time.Time{}
	log.Debugf("clock stopped with %s left", c.remaining)
}

// GetTimeLeft may go negative once the flag has fallen.
func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leftAt(c.now())
}

func (c *Clock) leftAt(t time.Time) time.Duration {
	if c.runningAt.IsZero() {
		return c.remaining
	}
	return c.remaining - t.Sub(c.runningAt)
}

// Expired reports whether the clock has run down to zero.
func (c *Clock) Expired() bool {
	return c.GetTimeLeft() <= 0
}

// tenths converts the remaining time to the client's tenths-of-a-second unit.
func (c *Clock) tenths() int {
	return int(max(c.GetTimeLeft(), 0).Milliseconds() / 100)
}
