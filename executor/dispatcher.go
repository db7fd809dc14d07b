package executor

import (
	"sync"
	"time"

	"github.com/gogpu/ggweb"
)

// Dispatcher provides the non-blocking half of an Executor: background
// spawning, a FIFO main-thread queue and clock-driven timers. The host's
// frame loop drains the main queue with RunMainQueue.
type Dispatcher struct {
	clock Clock

	mu   sync.Mutex
	main []func()
	wake func()
}

// NewDispatcher creates a dispatcher on clock. A nil clock selects
// DefaultClock.
func NewDispatcher(clock Clock) *Dispatcher {
	if clock == nil {
		clock = DefaultClock()
	}
	return &Dispatcher{clock: clock}
}

// SetWake installs a hook called whenever work is queued for the main
// thread. The platform frame loop uses it to drain the queue between
// frames. A nil hook removes it.
func (d *Dispatcher) SetWake(wake func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wake = wake
}

// Clock returns the dispatcher's clock.
func (d *Dispatcher) Clock() Clock {
	return d.clock
}

// Spawn runs fn on a new goroutine. On js/wasm goroutines are scheduled
// cooperatively on the single browser thread.
func (d *Dispatcher) Spawn(fn func()) {
	go fn()
}

// DispatchOnMain queues fn for the next RunMainQueue.
func (d *Dispatcher) DispatchOnMain(fn func()) {
	d.mu.Lock()
	d.main = append(d.main, fn)
	wake := d.wake
	d.mu.Unlock()

	if wake != nil {
		wake()
	}
}

// SpawnAfter queues fn for the main thread after dur.
func (d *Dispatcher) SpawnAfter(dur time.Duration, fn func()) Cancel {
	t := d.clock.AfterFunc(dur, func() {
		d.DispatchOnMain(fn)
	})
	return t.Stop
}

// Now returns the clock reading.
func (d *Dispatcher) Now() time.Time {
	return d.clock.Now()
}

// RunMainQueue runs the functions queued so far in FIFO order and returns
// how many ran. Functions queued while draining run on the next call.
// A panicking function is logged and does not stop the rest.
func (d *Dispatcher) RunMainQueue() int {
	d.mu.Lock()
	batch := d.main
	d.main = nil
	d.mu.Unlock()

	for _, fn := range batch {
		runMain(fn)
	}
	return len(batch)
}

// Pending returns the number of functions waiting for the main thread.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.main)
}

func runMain(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			ggweb.Logger().Error("executor: main-thread task panicked", "panic", r)
		}
	}()
	fn()
}
