//go:build rust

package rust

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/gogpu/ggweb/backend"
)

// Device is a wgpu-native device.
type Device struct {
	mu       sync.Mutex
	label    string
	raw      *wgpu.Device
	queue    *wgpu.Queue
	limits   backend.Limits
	released bool
}

// Limits implements backend.Device.
func (d *Device) Limits() backend.Limits { return d.limits }

// Queue implements backend.Device.
func (d *Device) Queue() backend.Queue { return queue{} }

// Raw returns the wgpu-native device and queue, nil after Release.
func (d *Device) Raw() (*wgpu.Device, *wgpu.Queue) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw, d.queue
}

// CreateTexture implements backend.Device. Atlas textures are not
// available on this host yet, so the initializer falls through to the
// next host.
// TODO: create sampled textures once the atlas presenter targets wgpu-native.
func (d *Device) CreateTexture(desc backend.TextureDescriptor) (backend.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return nil, backend.ErrReleased
	}
	return nil, fmt.Errorf("%w: %s: %w", backend.ErrTextureCreation, desc.Label, ErrNotImplemented)
}

// Release releases the queue and device in reverse order of creation.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return
	}
	d.released = true
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.raw != nil {
		d.raw.Release()
		d.raw = nil
	}
}

type queue struct{}

func (queue) WriteTexture(dst backend.Texture, _ backend.Origin, _, _ uint32, _ []byte) error {
	return fmt.Errorf("%w: texture %T does not belong to the rust host", backend.ErrInvalidUpload, dst)
}

var (
	_ backend.Host    = (*Host)(nil)
	_ backend.Adapter = (*Adapter)(nil)
	_ backend.Device  = (*Device)(nil)
)
