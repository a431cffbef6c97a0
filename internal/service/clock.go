package service

import (
	"sync"
	"time"
)

// Clock accumulates the time one side spends thinking.
type Clock struct {
	mu          sync.Mutex
	used        time.Duration
	lastStarted time.Time
	isRunning   bool
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = time.Now()
		c.isRunning = true
	}
}

// Stop halts the clock and returns the length of the run it ended.
func (c *Clock) Stop() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return 0
	}
	run := time.Since(c.lastStarted)
	c.used += run
	c.isRunning = false
	return run
}

func (c *Clock) Used() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.used + time.Since(c.lastStarted)
	}
	return c.used
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}
