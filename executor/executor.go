package executor

import (
	"context"
	"fmt"
	"time"
)

// Task is a unit of asynchronous work whose result a caller may wait for.
type Task func(ctx context.Context) (any, error)

// Cancel stops a scheduled callback. It reports whether the callback was
// prevented from running.
type Cancel func() bool

// Executor schedules work for the UI toolkit. Every host provides Spawn,
// timers and a main-thread queue; whether Block may wait depends on the host.
type Executor interface {
	// Spawn runs fn in the background.
	Spawn(fn func())

	// SpawnAfter runs fn on the main queue once d has elapsed.
	SpawnAfter(d time.Duration, fn func()) Cancel

	// DispatchOnMain queues fn for the main thread. Queued functions run
	// in FIFO order.
	DispatchOnMain(fn func())

	// Now returns the host clock reading.
	Now() time.Time

	// Block runs task and waits for its result.
	Block(ctx context.Context, task Task) (any, error)

	// BlockWithTimeout is Block bounded by timeout.
	BlockWithTimeout(ctx context.Context, timeout time.Duration, task Task) (any, error)
}

// Await is a typed Block.
func Await[T any](ctx context.Context, e Executor, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := e.Block(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrUnexpectedResult, v, zero)
	}
	return t, nil
}
