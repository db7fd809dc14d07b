//go:build rust

package rust

import "errors"

var (
	// ErrLibraryNotFound is returned when the wgpu-native library cannot be loaded.
	ErrLibraryNotFound = errors.New("rust: wgpu-native library not found")

	// ErrNoQueue is returned when a device comes back without a queue.
	ErrNoQueue = errors.New("rust: device has no queue")

	// ErrNotImplemented is returned by operations the wgpu-native host
	// does not provide yet.
	ErrNotImplemented = errors.New("rust: operation not implemented")
)
