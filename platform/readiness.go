package platform

import "sync/atomic"

// Readiness is the renderer readiness gate of one window: a flag that
// starts false on hosts with asynchronous GPU setup, is flipped to true
// once by the backend initializer, and never reverts.
//
// Any goroutine may read it. Only this package can set it.
type Readiness struct {
	ready atomic.Bool
}

// NewReadiness creates a gate with the given initial value. Hosts that
// initialize synchronously start at true.
func NewReadiness(initial bool) *Readiness {
	r := &Readiness{}
	r.ready.Store(initial)
	return r
}

// IsReady reports whether the renderer can draw.
func (r *Readiness) IsReady() bool {
	return r.ready.Load()
}

// publish flips the gate. It reports whether this call did so; a gate
// that is already true is left alone.
func (r *Readiness) publish() bool {
	return r.ready.CompareAndSwap(false, true)
}
