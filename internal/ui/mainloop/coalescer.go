package mainloop

import (
	"sync"

	"github.com/bnema/fickle/internal/application/port"
)

// Coalescer merges bursts of same-key main-loop tasks so that only the
// latest callback per key runs. Used for chrome updates that engines emit
// faster than the UI needs to repaint, like title and URI changes during a
// redirect chain.
type Coalescer struct {
	mu        sync.Mutex
	pending   map[string]bool
	callbacks map[string]func()
	dispatch  port.Dispatcher
	destroyed bool
}

// NewCoalescer builds a coalescer that schedules through dispatch.
func NewCoalescer(dispatch port.Dispatcher) *Coalescer {
	if dispatch == nil {
		panic("mainloop.NewCoalescer: dispatcher cannot be nil")
	}
	return &Coalescer{
		pending:   make(map[string]bool),
		callbacks: make(map[string]func()),
		dispatch:  dispatch,
	}
}

// Post schedules fn under key. A later Post with the same key before the
// main loop runs replaces the callback; only the newest one executes.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.callbacks[key] = fn
	if c.pending[key] {
		c.mu.Unlock()
		return
	}
	c.pending[key] = true
	c.mu.Unlock()

	c.dispatch.Post(func() { c.run(key) })
}

func (c *Coalescer) run(key string) {
	c.mu.Lock()
	fn := c.callbacks[key]
	delete(c.pending, key)
	delete(c.callbacks, key)
	destroyed := c.destroyed
	c.mu.Unlock()

	if destroyed || fn == nil {
		return
	}
	fn()
}

// Destroy drops all pending work; subsequent Posts are ignored.
func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.pending = map[string]bool{}
	c.callbacks = map[string]func(){}
	c.mu.Unlock()
}
