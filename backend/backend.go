package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested host is not registered
	// or cannot run in the current environment.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrAdapterUnavailable is returned when the host offers no suitable adapter.
	ErrAdapterUnavailable = errors.New("backend: no suitable adapter")

	// ErrDeviceRequestFailed is returned when an adapter refuses to create a device.
	ErrDeviceRequestFailed = errors.New("backend: device request failed")

	// ErrTextureCreation is returned when a device cannot create a texture.
	ErrTextureCreation = errors.New("backend: texture creation failed")

	// ErrInvalidUpload is returned when a texture write does not match the
	// destination texture or the supplied data is too short.
	ErrInvalidUpload = errors.New("backend: invalid texture upload")

	// ErrReleased is returned when operating on a released resource.
	ErrReleased = errors.New("backend: resource released")
)

// HostError attaches the host name to a failure from one acquisition step.
type HostError struct {
	Host string
	Step string
	Err  error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("backend: %s: %s: %v", e.Host, e.Step, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// Host is a GPU API entry point: the browser's WebGPU, a native wgpu HAL,
// or an in-memory emulation. RequestAdapter may complete asynchronously
// on the host; implementations honor ctx while waiting.
type Host interface {
	// Name returns the host identifier (e.g. "webgpu", "native", "software").
	Name() string

	// RequestAdapter selects a physical adapter.
	RequestAdapter(ctx context.Context, opts AdapterOptions) (Adapter, error)
}

// AdapterOptions selects among the adapters a host exposes.
type AdapterOptions struct {
	PowerPreference      gputypes.PowerPreference
	ForceFallbackAdapter bool
}

// AdapterInfo describes the selected adapter for logging.
type AdapterInfo struct {
	Name       string
	Backend    string
	DeviceType string
}

// Adapter is a physical GPU (or emulation) able to produce devices.
type Adapter interface {
	Info() AdapterInfo

	// RequestDevice opens a logical device. Like RequestAdapter it may
	// complete asynchronously on the host.
	RequestDevice(ctx context.Context, desc DeviceDescriptor) (Device, error)

	// Release frees the adapter. Devices already created stay valid.
	Release()
}

// DeviceDescriptor configures device creation.
type DeviceDescriptor struct {
	Label string

	// Limits requested from the adapter. Zero fields take the adapter default.
	Limits Limits
}

// Limits is the subset of device limits the platform layer depends on.
type Limits struct {
	// MaxTextureDimension2D bounds the side length of atlas pages.
	MaxTextureDimension2D uint32
}

// DefaultLimits returns the WebGPU baseline limits.
func DefaultLimits() Limits {
	return Limits{MaxTextureDimension2D: gputypes.DefaultLimits().MaxTextureDimension2D}
}

// Device creates GPU resources. Device methods are safe for concurrent use.
type Device interface {
	Limits() Limits
	Queue() Queue
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// Release destroys the device. Textures created by it become invalid.
	Release()
}

// TextureDescriptor describes a 2D sampled texture that can be written
// from the CPU.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// Texture is a 2D GPU texture.
type Texture interface {
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
	Release()
}

// Origin is a texel position inside a texture.
type Origin struct {
	X, Y uint32
}

// Queue submits work to the device.
type Queue interface {
	// WriteTexture copies tightly packed rows of data into the region of
	// dst starting at origin. bytesPerRow is width times the format's
	// texel size.
	WriteTexture(dst Texture, origin Origin, width, height uint32, data []byte) error
}

// BytesPerPixel returns the texel size of the formats used by the atlas.
// Unknown formats report 4.
func BytesPerPixel(format gputypes.TextureFormat) uint32 {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	default:
		return 4
	}
}

// ValidateUpload checks a WriteTexture call against the destination texture.
// Hosts call it before touching the GPU.
func ValidateUpload(dst Texture, origin Origin, width, height uint32, data []byte) error {
	if dst == nil {
		return fmt.Errorf("%w: nil texture", ErrInvalidUpload)
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: empty region %dx%d", ErrInvalidUpload, width, height)
	}
	if origin.X+width > dst.Width() || origin.Y+height > dst.Height() {
		return fmt.Errorf("%w: region (%d,%d %dx%d) outside %dx%d texture",
			ErrInvalidUpload, origin.X, origin.Y, width, height, dst.Width(), dst.Height())
	}
	need := int(width) * int(height) * int(BytesPerPixel(dst.Format()))
	if len(data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrInvalidUpload, len(data), need)
	}
	return nil
}
