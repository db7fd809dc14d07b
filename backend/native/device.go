//go:build !js

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ggweb/backend"
)

// Device is a backend.Device on a HAL device and queue.
//
// Devices opened by this package own their HAL device and instance and
// destroy them on Release. Shared devices from FromProvider do not.
type Device struct {
	mu       sync.Mutex
	label    string
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	owned    bool
	limits   backend.Limits
	sprite   hal.ShaderModule
	textures map[*Texture]struct{}
	released bool
}

func newDevice(label string, device hal.Device, queue hal.Queue, instance hal.Instance, owned bool, limits backend.Limits) (*Device, error) {
	sprite, err := createSpriteModule(device)
	if err != nil {
		return nil, err
	}
	return &Device{
		label:    label,
		device:   device,
		queue:    queue,
		instance: instance,
		owned:    owned,
		limits:   limits,
		sprite:   sprite,
		textures: make(map[*Texture]struct{}),
	}, nil
}

// Limits implements backend.Device.
func (d *Device) Limits() backend.Limits { return d.limits }

// Queue implements backend.Device.
func (d *Device) Queue() backend.Queue { return queue{device: d} }

// SpriteShader returns the compiled atlas sprite shader module.
func (d *Device) SpriteShader() hal.ShaderModule { return d.sprite }

// Raw returns the HAL device and queue.
func (d *Device) Raw() (hal.Device, hal.Queue) { return d.device, d.queue }

// CreateTexture creates a sampled 2D texture that accepts queue writes.
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

	raw, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrTextureCreation, err)
	}
	t := &Texture{device: d, raw: raw, width: desc.Width, height: desc.Height, format: desc.Format}
	d.textures[t] = struct{}{}
	return t, nil
}

// Release destroys live textures, the sprite shader and, for owned
// devices, the HAL device and instance.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return
	}
	d.released = true
	for t := range d.textures {
		d.device.DestroyTexture(t.raw)
		t.raw = nil
	}
	d.textures = nil
	if d.sprite != nil {
		d.device.DestroyShaderModule(d.sprite)
		d.sprite = nil
	}
	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device, d.queue, d.instance = nil, nil, nil
}

func (d *Device) releaseTexture(t *Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.textures[t]; !ok {
		return
	}
	delete(d.textures, t)
	d.device.DestroyTexture(t.raw)
	t.raw = nil
}

type queue struct {
	device *Device
}

// WriteTexture uploads a tightly packed region.
func (q queue) WriteTexture(dst backend.Texture, origin backend.Origin, width, height uint32, data []byte) error {
	t, ok := dst.(*Texture)
	if !ok {
		return fmt.Errorf("%w: texture %T does not belong to the native host", backend.ErrInvalidUpload, dst)
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

	bpr := width * backend.BytesPerPixel(t.format)
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.raw,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: origin.X, Y: origin.Y, Z: 0},
		},
		data,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: bpr, RowsPerImage: height},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	return nil
}

// Texture is a HAL texture owned by a Device.
type Texture struct {
	device *Device
	raw    hal.Texture
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

// Raw returns the HAL texture, nil once released.
func (t *Texture) Raw() hal.Texture {
	t.device.mu.Lock()
	defer t.device.mu.Unlock()
	return t.raw
}

// Release implements backend.Texture.
func (t *Texture) Release() {
	t.device.releaseTexture(t)
}

var (
	_ backend.Host    = (*Host)(nil)
	_ backend.Adapter = (*Adapter)(nil)
	_ backend.Device  = (*Device)(nil)
	_ backend.Texture = (*Texture)(nil)
)
