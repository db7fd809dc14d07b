package executor

import (
	"context"
	"time"

	"github.com/gogpu/ggweb"
)

// WebExecutor is the Executor for hosts with a single thread that must
// never block, such as a browser tab. Block and BlockWithTimeout fail
// immediately with a BlockingNotSupportedError; nothing else changes.
type WebExecutor struct {
	*Dispatcher
}

// NewWebExecutor creates a WebExecutor scheduling through d.
func NewWebExecutor(d *Dispatcher) *WebExecutor {
	if d == nil {
		d = NewDispatcher(nil)
	}
	return &WebExecutor{Dispatcher: d}
}

// Block returns a BlockingNotSupportedError without running task.
func (e *WebExecutor) Block(_ context.Context, _ Task) (any, error) {
	return nil, refuse("Block")
}

// BlockWithTimeout returns a BlockingNotSupportedError without running
// task or waiting for the timeout.
func (e *WebExecutor) BlockWithTimeout(_ context.Context, _ time.Duration, _ Task) (any, error) {
	return nil, refuse("BlockWithTimeout")
}

func refuse(call string) error {
	err := &BlockingNotSupportedError{
		Call:        call,
		Alternative: "Spawn with a completion callback or DispatchOnMain",
	}
	ggweb.Logger().Error("executor: blocking call refused", "call", call, "err", err)
	return err
}

var _ Executor = (*WebExecutor)(nil)
