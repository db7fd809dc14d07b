//go:build rust

package rust

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/backend"
)

func init() {
	backend.Register(backend.HostRust, func() backend.Host {
		return NewHost()
	})
}

// Host acquires adapters through wgpu-native.
type Host struct {
	initOnce sync.Once
	initErr  error
}

// NewHost creates a wgpu-native host. The library is loaded on the first
// adapter request.
func NewHost() *Host {
	return &Host{}
}

// Name implements backend.Host.
func (h *Host) Name() string { return backend.HostRust }

// RequestAdapter implements backend.Host.
func (h *Host) RequestAdapter(ctx context.Context, opts backend.AdapterOptions) (backend.Adapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.initOnce.Do(func() {
		if err := wgpu.Init(); err != nil {
			h.initErr = fmt.Errorf("%w: %w", ErrLibraryNotFound, err)
		}
	})
	if h.initErr != nil {
		return nil, h.initErr
	}

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: instance: %w", backend.ErrAdapterUnavailable, err)
	}
	wopts := &wgpu.RequestAdapterOptions{}
	if opts.PowerPreference == gputypes.PowerPreferenceHighPerformance {
		wopts.PowerPreference = wgpu.PowerPreferenceHighPerformance
	}
	adapter, err := instance.RequestAdapter(wopts)
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: %w", backend.ErrAdapterUnavailable, err)
	}

	a := &Adapter{instance: instance, raw: adapter, info: adapterInfo(adapter)}
	if opts.ForceFallbackAdapter && a.info.DeviceType != adapterTypeToString(wgpu.AdapterTypeCPU) {
		a.Release()
		return nil, fmt.Errorf("%w: no fallback adapter", backend.ErrAdapterUnavailable)
	}
	ggweb.Logger().Info("rust: adapter selected",
		"name", a.info.Name, "backend", a.info.Backend, "type", a.info.DeviceType)
	return a, nil
}

// Adapter is a wgpu-native adapter.
type Adapter struct {
	instance *wgpu.Instance
	raw      *wgpu.Adapter
	info     backend.AdapterInfo
}

// Info implements backend.Adapter.
func (a *Adapter) Info() backend.AdapterInfo { return a.info }

// RequestDevice implements backend.Adapter. wgpu-native picks its default
// limits, which meet the WebGPU baseline.
func (a *Adapter) RequestDevice(ctx context.Context, desc backend.DeviceDescriptor) (backend.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := a.raw.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrDeviceRequestFailed, err)
	}
	queue := raw.GetQueue()
	if queue == nil {
		raw.Release()
		return nil, fmt.Errorf("%w: %w", backend.ErrDeviceRequestFailed, ErrNoQueue)
	}
	limits := backend.DefaultLimits()
	if want := desc.Limits.MaxTextureDimension2D; want != 0 && want < limits.MaxTextureDimension2D {
		limits.MaxTextureDimension2D = want
	}
	return &Device{label: desc.Label, raw: raw, queue: queue, limits: limits}, nil
}

// Release releases the adapter and its instance.
func (a *Adapter) Release() {
	if a.raw != nil {
		a.raw.Release()
		a.raw = nil
	}
	if a.instance != nil {
		a.instance.Release()
		a.instance = nil
	}
}

func adapterInfo(a *wgpu.Adapter) backend.AdapterInfo {
	info, err := a.GetInfo()
	if err != nil {
		return backend.AdapterInfo{Name: "unknown", Backend: backend.HostRust}
	}
	name := info.Device
	if info.Description != "" {
		name += " (" + info.Description + ")"
	}
	return backend.AdapterInfo{
		Name:       name,
		Backend:    backendTypeToString(info.BackendType),
		DeviceType: adapterTypeToString(info.AdapterType),
	}
}

func backendTypeToString(bt wgpu.BackendType) string {
	switch bt {
	case wgpu.BackendTypeNull:
		return "Null"
	case wgpu.BackendTypeWebGPU:
		return "WebGPU"
	case wgpu.BackendTypeD3D11:
		return "D3D11"
	case wgpu.BackendTypeD3D12:
		return "D3D12"
	case wgpu.BackendTypeMetal:
		return "Metal"
	case wgpu.BackendTypeVulkan:
		return "Vulkan"
	case wgpu.BackendTypeOpenGL:
		return "OpenGL"
	case wgpu.BackendTypeOpenGLES:
		return "OpenGLES"
	default:
		return "Unknown"
	}
}

func adapterTypeToString(at wgpu.AdapterType) string {
	switch at {
	case wgpu.AdapterTypeDiscreteGPU:
		return "DiscreteGPU"
	case wgpu.AdapterTypeIntegratedGPU:
		return "IntegratedGPU"
	case wgpu.AdapterTypeCPU:
		return "CPU"
	default:
		return "Unknown"
	}
}
