//go:build js

package webgpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggweb/backend"
)

// Device is a browser GPUDevice.
type Device struct {
	mu       sync.Mutex
	raw      *wgpu.Device
	queue    *wgpu.Queue
	limits   backend.Limits
	textures map[*Texture]struct{}
	released bool
}

// Limits implements backend.Device.
func (d *Device) Limits() backend.Limits { return d.limits }

// Queue implements backend.Device.
func (d *Device) Queue() backend.Queue { return queue{device: d} }

// Raw returns the wgpu device for pipeline setup by the presenter.
func (d *Device) Raw() *wgpu.Device { return d.raw }

func textureFormat(f gputypes.TextureFormat) (wgpu.TextureFormat, error) {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return wgpu.TextureFormatR8Unorm, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm, nil
	case gputypes.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm, nil
	default:
		return 0, fmt.Errorf("%w: unsupported format %v", backend.ErrTextureCreation, f)
	}
}

// CreateTexture implements backend.Device.
func (d *Device) CreateTexture(desc backend.TextureDescriptor) (backend.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, backend.ErrReleased
	}
	if desc.Width == 0 || desc.Height == 0 ||
		desc.Width > d.limits.MaxTextureDimension2D || desc.Height > d.limits.MaxTextureDimension2D {
		return nil, fmt.Errorf("%w: %dx%d with limit %d",
			backend.ErrTextureCreation, desc.Width, desc.Height, d.limits.MaxTextureDimension2D)
	}
	format, err := textureFormat(desc.Format)
	if err != nil {
		return nil, err
	}

	raw, err := d.raw.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrTextureCreation, err)
	}
	t := &Texture{device: d, raw: raw, width: desc.Width, height: desc.Height, format: desc.Format}
	d.textures[t] = struct{}{}
	return t, nil
}

// Release destroys live textures and the device.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return
	}
	d.released = true
	for t := range d.textures {
		t.raw.Release()
		t.raw = nil
	}
	d.textures = nil
	d.queue.Release()
	d.raw.Release()
}

type queue struct {
	device *Device
}

// WriteTexture implements backend.Queue.
func (q queue) WriteTexture(dst backend.Texture, origin backend.Origin, width, height uint32, data []byte) error {
	t, ok := dst.(*Texture)
	if !ok {
		return fmt.Errorf("%w: texture %T does not belong to the webgpu host", backend.ErrInvalidUpload, dst)
	}
	if err := backend.ValidateUpload(dst, origin, width, height, data); err != nil {
		return err
	}

	d := q.device
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released || t.raw == nil {
		return backend.ErrReleased
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.raw,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: origin.X, Y: origin.Y, Z: 0},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * backend.BytesPerPixel(t.format),
			RowsPerImage: height,
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	return nil
}

// Texture is a GPUTexture owned by a Device.
type Texture struct {
	device *Device
	raw    *wgpu.Texture
	width  uint32
	height uint32
	format gputypes.TextureFormat
}

// Width implements backend.Texture.
func (t *Texture) Width() uint32 { return t.width }

// Height implements backend.Texture.
func (t *Texture) Height() uint32 { return t.height }

// Format implements backend.Texture.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Raw returns the wgpu texture, nil once released.
func (t *Texture) Raw() *wgpu.Texture {
	t.device.mu.Lock()
	defer t.device.mu.Unlock()
	return t.raw
}

// Release implements backend.Texture.
func (t *Texture) Release() {
	d := t.device
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.textures[t]; !ok {
		return
	}
	delete(d.textures, t)
	t.raw.Release()
	t.raw = nil
}

var (
	_ backend.Host    = (*Host)(nil)
	_ backend.Adapter = (*Adapter)(nil)
	_ backend.Device  = (*Device)(nil)
	_ backend.Texture = (*Texture)(nil)
)
