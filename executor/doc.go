// Package executor adapts the toolkit's execution model to its host.
//
// A [Dispatcher] supplies what every host can do without blocking:
// spawning, a FIFO main-thread queue drained by the frame loop, and
// timers on a [Clock]. Two executors build on it:
//
//   - [NativeExecutor] lets Block and BlockWithTimeout wait on a goroutine.
//   - [WebExecutor] makes both fail fast with a [BlockingNotSupportedError],
//     since waiting would freeze the browser tab.
//
// Code that must run on both hosts uses Spawn with a callback instead of
// Block.
package executor
