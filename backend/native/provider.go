//go:build !js

package native

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ggweb/backend"
)

// ErrNoHALAccess is returned by FromProvider when the provider does not
// expose its HAL device and queue.
var ErrNoHALAccess = errors.New("native: provider does not expose HAL types")

// halProvider is implemented by providers such as gogpu.App that share
// their HAL device.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// SharedHost hands out the device of a host application instead of
// opening one. Releasing the device leaves the application's device alive.
type SharedHost struct {
	device hal.Device
	queue  hal.Queue
	limits backend.Limits
	info   backend.AdapterInfo
}

// FromProvider wraps the GPU device of a host application. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider) (*SharedHost, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}
	return &SharedHost{
		device: device,
		queue:  queue,
		limits: backend.Limits{MaxTextureDimension2D: gputypes.DefaultLimits().MaxTextureDimension2D},
		info:   sharedAdapterInfo(provider.AdapterInfo()),
	}, nil
}

// sharedAdapterInfo reports the application's GPU as a native adapter.
func sharedAdapterInfo(info gpucontext.AdapterInfo) backend.AdapterInfo {
	name := info.Name
	if name == "" {
		name = "shared"
	}
	return backend.AdapterInfo{Name: name, Backend: backend.HostNative, DeviceType: info.Type.String()}
}

// Name implements backend.Host.
func (h *SharedHost) Name() string { return backend.HostNative }

// RequestAdapter implements backend.Host.
func (h *SharedHost) RequestAdapter(ctx context.Context, _ backend.AdapterOptions) (backend.Adapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sharedAdapter{host: h}, nil
}

type sharedAdapter struct {
	host *SharedHost
}

func (a sharedAdapter) Info() backend.AdapterInfo {
	return a.host.info
}

func (a sharedAdapter) RequestDevice(ctx context.Context, desc backend.DeviceDescriptor) (backend.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limits := a.host.limits
	if want := desc.Limits.MaxTextureDimension2D; want != 0 && want < limits.MaxTextureDimension2D {
		limits.MaxTextureDimension2D = want
	}
	return newDevice(desc.Label, a.host.device, a.host.queue, nil, false, limits)
}

func (a sharedAdapter) Release() {}

var _ backend.Host = (*SharedHost)(nil)
