package executor

import (
	"errors"
	"fmt"
)

// ErrBlockingNotSupported is matched by every BlockingNotSupportedError.
var ErrBlockingNotSupported = errors.New("executor: blocking is not supported on this host")

// ErrUnexpectedResult is returned by Await when a task result has the wrong type.
var ErrUnexpectedResult = errors.New("executor: unexpected task result type")

// BlockingNotSupportedError is returned immediately when code calls a
// blocking wait on a host whose only thread must never block.
type BlockingNotSupportedError struct {
	// Call names the blocking entry point, e.g. "Block".
	Call string
	// Alternative names the non-blocking replacement.
	Alternative string
}

func (e *BlockingNotSupportedError) Error() string {
	return fmt.Sprintf("executor: %s would block the single UI thread of this host; use %s instead",
		e.Call, e.Alternative)
}

// Is matches ErrBlockingNotSupported.
func (e *BlockingNotSupportedError) Is(target error) bool {
	return target == ErrBlockingNotSupported
}
