package layout

import (
	"sync"
	"time"
)

// Coalescer batches bursts of layout-affecting changes into a single
// recompute. Each flush carries a generation number; a result whose
// generation has been superseded by a newer trigger is dropped instead of
// being delivered, so a slow stale pass can never overwrite a newer one.
type Coalescer struct {
	mu      sync.Mutex
	delay   time.Duration
	compute func() []Page
	deliver func([]Page)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewCoalescer wires a debounce delay to a compute/deliver pair. compute
// runs outside the lock and may be slow; deliver runs only for the latest
// generation.
func NewCoalescer(delay time.Duration, compute func() []Page, deliver func([]Page)) *Coalescer {
	return &Coalescer{delay: delay, compute: compute, deliver: deliver}
}

// Trigger schedules a recompute after the debounce delay, resetting the
// timer if one is already pending.
func (c *Coalescer) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() { c.flush(gen) })
}

// Flush runs any pending recompute immediately. Useful in tests and on
// shutdown.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	gen := c.gen
	c.mu.Unlock()
	c.flush(gen)
}

// Stop cancels any pending recompute. Subsequent triggers are ignored.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coalescer) flush(gen uint64) {
	pages := c.compute()

	c.mu.Lock()
	stale := c.stopped || gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}
	c.deliver(pages)
}
