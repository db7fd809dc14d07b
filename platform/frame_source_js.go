//go:build js

package platform

import (
	"sync"
	"syscall/js"
	"time"

	"github.com/gogpu/ggweb/executor"
)

// AnimationFrameSource delivers frames from the browser's
// requestAnimationFrame callback.
type AnimationFrameSource struct {
	clock executor.Clock
}

// NewAnimationFrameSource creates a source stamping frames with clock.
func NewAnimationFrameSource(clock executor.Clock) *AnimationFrameSource {
	if clock == nil {
		clock = executor.DefaultClock()
	}
	return &AnimationFrameSource{clock: clock}
}

// Start implements FrameSource.
func (s *AnimationFrameSource) Start(fn func(now time.Time)) func() {
	var (
		mu      sync.Mutex
		stopped bool
		handle  js.Value
		cb      js.Func
	)
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return nil
		}
		handle = js.Global().Call("requestAnimationFrame", cb)
		mu.Unlock()

		fn(s.clock.Now())
		return nil
	})

	mu.Lock()
	handle = js.Global().Call("requestAnimationFrame", cb)
	mu.Unlock()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		stopped = true
		js.Global().Call("cancelAnimationFrame", handle)
		cb.Release()
	}
}

// DefaultFrameSource returns requestAnimationFrame on the browser.
func DefaultFrameSource(_ int, clock executor.Clock) FrameSource {
	return NewAnimationFrameSource(clock)
}

// asyncHost reports whether GPU setup completes asynchronously.
func asyncHost() bool { return true }
