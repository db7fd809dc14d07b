package atlas

import (
	"errors"
	"fmt"
)

// Atlas errors.
var (
	// ErrInvalidSize is returned when a requested tile size is zero in
	// either dimension.
	ErrInvalidSize = errors.New("atlas: tile size must be nonzero")

	// ErrAllocationFailed is matched by every AllocationError.
	ErrAllocationFailed = errors.New("atlas: allocation failed")

	// ErrTileTooLarge is returned when a tile exceeds the maximum page size.
	ErrTileTooLarge = errors.New("atlas: tile exceeds maximum page size")

	// ErrPageLimit is returned when a texture kind already holds MaxPages pages.
	ErrPageLimit = errors.New("atlas: page limit reached")

	// ErrInvalidData is returned when rendered pixels do not cover the tile.
	ErrInvalidData = errors.New("atlas: rendered data does not match tile size")

	// ErrInvalidKind is returned for a key whose TextureKind is not one of Kinds.
	ErrInvalidKind = errors.New("atlas: unknown texture kind")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("atlas: invalid config")
)

// AllocationError reports a tile that could not be placed. Callers treat it
// as "skip this sprite this frame".
type AllocationError struct {
	Kind TextureKind
	Size Size
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("atlas: cannot allocate %s tile of %s: %v", e.Kind, e.Size, e.Err)
}

// Is matches ErrAllocationFailed.
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocationFailed
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// IsAllocationFailure reports whether err is a per-tile allocation failure.
func IsAllocationFailure(err error) bool {
	return errors.Is(err, ErrAllocationFailed)
}

// IsTransient reports whether err is an allocation failure that may
// succeed on a later frame, such as a device that failed to create a
// page. Oversized tiles and a full page limit fail the same way every
// time.
func IsTransient(err error) bool {
	return IsAllocationFailure(err) &&
		!errors.Is(err, ErrTileTooLarge) &&
		!errors.Is(err, ErrPageLimit)
}
