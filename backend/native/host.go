//go:build !js

package native

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/backend"
)

// ErrNoAPI is returned when no HAL graphics API is compiled in.
var ErrNoAPI = errors.New("native: no HAL graphics API available")

func init() {
	backend.Register(backend.HostNative, func() backend.Host {
		if _, ok := hal.GetBackend(gputypes.BackendVulkan); !ok {
			return nil
		}
		return NewHost()
	})
}

// Host acquires GPUs through the Pure Go HAL of gogpu/wgpu.
type Host struct {
	api gputypes.Backend
}

// NewHost creates a host on the Vulkan HAL.
func NewHost() *Host {
	return &Host{api: gputypes.BackendVulkan}
}

// Name implements backend.Host.
func (h *Host) Name() string { return backend.HostNative }

// RequestAdapter enumerates the adapters of a fresh HAL instance and picks
// one by preference. Discrete GPUs win under high performance, integrated
// GPUs otherwise; ForceFallbackAdapter selects a software adapter.
func (h *Host) RequestAdapter(ctx context.Context, opts backend.AdapterOptions) (backend.Adapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	api, ok := hal.GetBackend(h.api)
	if !ok {
		return nil, ErrNoAPI
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	kinds := make([]gputypes.DeviceType, len(adapters))
	for i := range adapters {
		kinds[i] = adapters[i].Info.DeviceType
	}
	idx := selectAdapter(kinds, opts)
	if idx < 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %d adapters enumerated", backend.ErrAdapterUnavailable, len(adapters))
	}
	selected := &adapters[idx]
	ggweb.Logger().Debug("native: adapter selected",
		"name", selected.Info.Name, "type", selected.Info.DeviceType, "candidates", len(adapters))
	return &Adapter{instance: instance, exposed: selected}, nil
}

// selectAdapter returns the index of the preferred device type, or -1.
func selectAdapter(kinds []gputypes.DeviceType, opts backend.AdapterOptions) int {
	if len(kinds) == 0 {
		return -1
	}
	hardware := func(t gputypes.DeviceType) bool {
		return t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU
	}
	if opts.ForceFallbackAdapter {
		for i, k := range kinds {
			if !hardware(k) {
				return i
			}
		}
		return -1
	}

	order := []gputypes.DeviceType{gputypes.DeviceTypeIntegratedGPU, gputypes.DeviceTypeDiscreteGPU}
	if opts.PowerPreference == gputypes.PowerPreferenceHighPerformance {
		order[0], order[1] = order[1], order[0]
	}
	for _, want := range order {
		for i, k := range kinds {
			if k == want {
				return i
			}
		}
	}
	return 0
}

// Adapter is a HAL adapter together with the instance that exposed it.
// The instance moves to the device once one is opened.
type Adapter struct {
	instance hal.Instance
	exposed  *hal.ExposedAdapter
	opened   bool
}

// Info implements backend.Adapter.
func (a *Adapter) Info() backend.AdapterInfo {
	return backend.AdapterInfo{
		Name:       a.exposed.Info.Name,
		Backend:    backend.HostNative,
		DeviceType: fmt.Sprint(a.exposed.Info.DeviceType),
	}
}

// RequestDevice opens the adapter with the requested limits.
func (a *Adapter) RequestDevice(ctx context.Context, desc backend.DeviceDescriptor) (backend.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.opened {
		return nil, fmt.Errorf("%w: adapter already opened", backend.ErrDeviceRequestFailed)
	}
	limits := gputypes.DefaultLimits()
	if want := desc.Limits.MaxTextureDimension2D; want != 0 {
		limits.MaxTextureDimension2D = want
	}
	open, err := a.exposed.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrDeviceRequestFailed, err)
	}
	a.opened = true

	dev, err := newDevice(desc.Label, open.Device, open.Queue, a.instance, true,
		backend.Limits{MaxTextureDimension2D: limits.MaxTextureDimension2D})
	if err != nil {
		open.Device.Destroy()
		a.instance.Destroy()
		return nil, err
	}
	return dev, nil
}

// Release destroys the instance unless a device took it over.
func (a *Adapter) Release() {
	if !a.opened && a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}
}
