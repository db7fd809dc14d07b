//go:build js

package webgpu

import (
	"context"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/backend"
)

func init() {
	backend.Register(backend.HostWebGPU, func() backend.Host {
		if !Supported() {
			return nil
		}
		return NewHost()
	})
}

// Supported reports whether the browser exposes navigator.gpu.
func Supported() bool {
	nav := js.Global().Get("navigator")
	if nav.IsUndefined() || nav.IsNull() {
		return false
	}
	gpu := nav.Get("gpu")
	return !gpu.IsUndefined() && !gpu.IsNull()
}

// Host acquires the browser's WebGPU adapter and device.
type Host struct {
	once     sync.Once
	instance *wgpu.Instance
}

// NewHost creates a WebGPU host.
func NewHost() *Host {
	return &Host{}
}

// Name implements backend.Host.
func (h *Host) Name() string { return backend.HostWebGPU }

// RequestAdapter awaits navigator.gpu.requestAdapter. Call it off the
// frame callback: the promise resolves on a later turn of the event loop.
func (h *Host) RequestAdapter(ctx context.Context, opts backend.AdapterOptions) (backend.Adapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.once.Do(func() {
		h.instance = wgpu.CreateInstance(nil)
	})

	wopts := &wgpu.RequestAdapterOptions{ForceFallbackAdapter: opts.ForceFallbackAdapter}
	if opts.PowerPreference == gputypes.PowerPreferenceHighPerformance {
		wopts.PowerPreference = wgpu.PowerPreferenceHighPerformance
	}
	adapter, err := h.instance.RequestAdapter(wopts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrAdapterUnavailable, err)
	}
	if adapter == nil {
		return nil, backend.ErrAdapterUnavailable
	}
	ggweb.Logger().Debug("webgpu: adapter acquired")
	return &Adapter{raw: adapter}, nil
}

// Adapter is a browser GPUAdapter.
type Adapter struct {
	raw    *wgpu.Adapter
	opened bool
}

// Info implements backend.Adapter.
func (a *Adapter) Info() backend.AdapterInfo {
	return backend.AdapterInfo{Name: "browser WebGPU", Backend: backend.HostWebGPU, DeviceType: "browser"}
}

// RequestDevice awaits adapter.requestDevice with the WebGPU default
// limits, raised or lowered to the requested texture dimension.
func (a *Adapter) RequestDevice(ctx context.Context, desc backend.DeviceDescriptor) (backend.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limits := wgpu.DefaultLimits()
	if want := desc.Limits.MaxTextureDimension2D; want != 0 {
		limits.MaxTextureDimension2D = want
	}
	raw, err := a.raw.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          desc.Label,
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrDeviceRequestFailed, err)
	}
	a.opened = true
	return &Device{
		raw:      raw,
		queue:    raw.GetQueue(),
		limits:   backend.Limits{MaxTextureDimension2D: limits.MaxTextureDimension2D},
		textures: make(map[*Texture]struct{}),
	}, nil
}

// Release releases the adapter.
func (a *Adapter) Release() {
	if a.raw != nil {
		a.raw.Release()
		a.raw = nil
	}
}
