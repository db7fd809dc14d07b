package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// init registers the software host on package import.
func init() {
	Register(HostSoftware, func() Host {
		return NewSoftwareHost(DefaultLimits())
	})
}

// SoftwareHost is an in-memory host. Textures are plain byte slices and
// queue writes are synchronous copies. It backs headless runs and tests.
type SoftwareHost struct {
	limits Limits
}

// NewSoftwareHost creates a software host whose devices report limits.
func NewSoftwareHost(limits Limits) *SoftwareHost {
	if limits.MaxTextureDimension2D == 0 {
		limits = DefaultLimits()
	}
	return &SoftwareHost{limits: limits}
}

// Name returns the host identifier.
func (h *SoftwareHost) Name() string {
	return HostSoftware
}

// RequestAdapter returns the single software adapter.
func (h *SoftwareHost) RequestAdapter(ctx context.Context, _ AdapterOptions) (Adapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &softwareAdapter{limits: h.limits}, nil
}

type softwareAdapter struct {
	limits Limits
}

func (a *softwareAdapter) Info() AdapterInfo {
	return AdapterInfo{Name: "ggweb software", Backend: HostSoftware, DeviceType: "CPU"}
}

func (a *softwareAdapter) RequestDevice(ctx context.Context, desc DeviceDescriptor) (Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limits := a.limits
	if want := desc.Limits.MaxTextureDimension2D; want != 0 {
		if want > limits.MaxTextureDimension2D {
			return nil, fmt.Errorf("%w: max texture dimension %d exceeds adapter limit %d",
				ErrDeviceRequestFailed, want, limits.MaxTextureDimension2D)
		}
		limits.MaxTextureDimension2D = want
	}
	return NewSoftwareDevice(desc.Label, limits), nil
}

func (a *softwareAdapter) Release() {}

// SoftwareDevice is the device of a SoftwareHost. It is exported so tests
// and headless tools can inspect texture contents.
type SoftwareDevice struct {
	mu       sync.Mutex
	label    string
	limits   Limits
	live     int
	created  int
	released bool
}

// NewSoftwareDevice creates a standalone software device.
func NewSoftwareDevice(label string, limits Limits) *SoftwareDevice {
	if limits.MaxTextureDimension2D == 0 {
		limits = DefaultLimits()
	}
	return &SoftwareDevice{label: label, limits: limits}
}

// Label returns the label the device was requested with.
func (d *SoftwareDevice) Label() string {
	return d.label
}

// Limits returns the device limits.
func (d *SoftwareDevice) Limits() Limits {
	return d.limits
}

// Queue returns the device queue.
func (d *SoftwareDevice) Queue() Queue {
	return softwareQueue{device: d}
}

// CreateTexture allocates a zeroed texture.
func (d *SoftwareDevice) CreateTexture(desc TextureDescriptor) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, ErrReleased
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrTextureCreation, desc.Width, desc.Height)
	}
	if desc.Width > d.limits.MaxTextureDimension2D || desc.Height > d.limits.MaxTextureDimension2D {
		return nil, fmt.Errorf("%w: %dx%d exceeds limit %d",
			ErrTextureCreation, desc.Width, desc.Height, d.limits.MaxTextureDimension2D)
	}

	d.live++
	d.created++
	bpp := BytesPerPixel(desc.Format)
	return &SoftwareTexture{
		device: d,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		pixels: make([]byte, int(desc.Width)*int(desc.Height)*int(bpp)),
	}, nil
}

// LiveTextures returns the number of textures created and not yet released.
func (d *SoftwareDevice) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// CreatedTextures returns the number of textures ever created.
func (d *SoftwareDevice) CreatedTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}

// Released reports whether Release was called.
func (d *SoftwareDevice) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// Release marks the device destroyed.
func (d *SoftwareDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = true
}

type softwareQueue struct {
	device *SoftwareDevice
}

func (q softwareQueue) WriteTexture(dst Texture, origin Origin, width, height uint32, data []byte) error {
	if err := ValidateUpload(dst, origin, width, height, data); err != nil {
		return err
	}
	tex, ok := dst.(*SoftwareTexture)
	if !ok || tex.device != q.device {
		return fmt.Errorf("%w: texture %T does not belong to this device", ErrInvalidUpload, dst)
	}

	q.device.mu.Lock()
	defer q.device.mu.Unlock()

	if tex.released {
		return ErrReleased
	}
	bpp := BytesPerPixel(tex.format)
	rowBytes := width * bpp
	stride := tex.width * bpp
	for row := uint32(0); row < height; row++ {
		dstOff := (origin.Y+row)*stride + origin.X*bpp
		srcOff := row * rowBytes
		copy(tex.pixels[dstOff:dstOff+rowBytes], data[srcOff:srcOff+rowBytes])
	}
	return nil
}

// SoftwareTexture is a texture held in CPU memory.
type SoftwareTexture struct {
	device   *SoftwareDevice
	label    string
	width    uint32
	height   uint32
	format   gputypes.TextureFormat
	pixels   []byte
	released bool
}

// Width returns the texture width in texels.
func (t *SoftwareTexture) Width() uint32 { return t.width }

// Height returns the texture height in texels.
func (t *SoftwareTexture) Height() uint32 { return t.height }

// Format returns the texel format.
func (t *SoftwareTexture) Format() gputypes.TextureFormat { return t.format }

// Label returns the texture label.
func (t *SoftwareTexture) Label() string { return t.label }

// Pixels returns a copy of the texture contents, row-major and tightly packed.
func (t *SoftwareTexture) Pixels() []byte {
	t.device.mu.Lock()
	defer t.device.mu.Unlock()
	return append([]byte(nil), t.pixels...)
}

// Released reports whether Release was called.
func (t *SoftwareTexture) Released() bool {
	t.device.mu.Lock()
	defer t.device.mu.Unlock()
	return t.released
}

// Release frees the texture. Releasing twice is a no-op.
func (t *SoftwareTexture) Release() {
	t.device.mu.Lock()
	defer t.device.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	t.pixels = nil
	t.device.live--
}
