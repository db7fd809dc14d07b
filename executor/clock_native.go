//go:build !js

package executor

// DefaultClock returns the host clock.
func DefaultClock() Clock {
	return SystemClock{}
}
