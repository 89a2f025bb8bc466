// Package mainloop bridges arbitrary goroutines onto the GTK main loop and
// merges redundant UI work.
package mainloop

import (
	"sync"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/jwijenbergh/puregotk/v4/glib"
)

// GlibDispatcher posts work onto the GLib main loop as idle sources. Safe to
// call from any goroutine.
type GlibDispatcher struct {
	mu   sync.Mutex
	refs []*glib.SourceFunc
}

var _ port.Dispatcher = (*GlibDispatcher)(nil)

// NewGlibDispatcher creates a dispatcher for the running main loop.
func NewGlibDispatcher() *GlibDispatcher {
	return &GlibDispatcher{}
}

// Post implements port.Dispatcher.
func (d *GlibDispatcher) Post(fn func()) {
	if fn == nil {
		return
	}
	var cb glib.SourceFunc
	cb = glib.SourceFunc(func(_ uintptr) bool {
		fn()
		d.release(&cb)
		return false
	})
	// Keep the callback reachable until the idle source fires.
	d.mu.Lock()
	d.refs = append(d.refs, &cb)
	d.mu.Unlock()

	glib.IdleAdd(&cb, 0)
}

func (d *GlibDispatcher) release(ref *glib.SourceFunc) {
	d.mu.Lock()
	for i, r := range d.refs {
		if r == ref {
			d.refs = append(d.refs[:i], d.refs[i+1:]...)
			break
		}
	}
	d.mu.Unlock()
}
