//go:build js

package executor

import (
	"sync"
	"syscall/js"
	"time"
)

// BrowserClock reads the page's monotonic performance.now and schedules
// callbacks with setTimeout, so they run on the browser event loop.
type BrowserClock struct {
	perf      js.Value
	wallStart time.Time
	perfStart float64
}

// NewBrowserClock creates a clock anchored at the current wall time.
func NewBrowserClock() *BrowserClock {
	perf := js.Global().Get("performance")
	return &BrowserClock{
		perf:      perf,
		wallStart: time.Now(),
		perfStart: perf.Call("now").Float(),
	}
}

// Now returns the wall time at construction plus the elapsed
// performance.now milliseconds.
func (c *BrowserClock) Now() time.Time {
	elapsed := c.perf.Call("now").Float() - c.perfStart
	return c.wallStart.Add(time.Duration(elapsed * float64(time.Millisecond)))
}

// AfterFunc calls f from a setTimeout callback after d.
func (c *BrowserClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &browserTimer{}
	t.fn = js.FuncOf(func(js.Value, []js.Value) any {
		if t.finish() {
			// Callbacks may block on channels; keep the event loop free.
			go f()
		}
		return nil
	})
	t.id = js.Global().Call("setTimeout", t.fn, d.Milliseconds())
	return t
}

type browserTimer struct {
	mu   sync.Mutex
	id   js.Value
	fn   js.Func
	done bool
}

// finish marks the timer done and releases its callback. It reports
// whether this call did so.
func (t *browserTimer) finish() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.fn.Release()
	return true
}

func (t *browserTimer) Stop() bool {
	if !t.finish() {
		return false
	}
	js.Global().Call("clearTimeout", t.id)
	return true
}

// DefaultClock returns the host clock.
func DefaultClock() Clock {
	return NewBrowserClock()
}
