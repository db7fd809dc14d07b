package executor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// NativeExecutor is the Executor for multi-threaded hosts. Block runs the
// task on its own goroutine and waits for it.
type NativeExecutor struct {
	*Dispatcher
}

// NewNativeExecutor creates a NativeExecutor scheduling through d.
func NewNativeExecutor(d *Dispatcher) *NativeExecutor {
	if d == nil {
		d = NewDispatcher(nil)
	}
	return &NativeExecutor{Dispatcher: d}
}

type result struct {
	v   any
	err error
}

// Block runs task and waits until it returns or ctx is done. When ctx
// ends first the task keeps running with a cancelled context.
func (e *NativeExecutor) Block(ctx context.Context, task Task) (any, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		v, err := task(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BlockWithTimeout is Block bounded by timeout.
func (e *NativeExecutor) BlockWithTimeout(ctx context.Context, timeout time.Duration, task Task) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := e.Block(ctx, task)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
		return nil, fmt.Errorf("executor: task did not finish within %v: %w", timeout, err)
	}
	return v, err
}

var _ Executor = (*NativeExecutor)(nil)
