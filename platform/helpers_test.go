package platform

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gogpu/ggweb/atlas"
	"github.com/gogpu/ggweb/backend"
)

// gatedHost wraps the software host. RequestAdapter waits for release
// and then fails with adapterErr or deviceErr when set.
type gatedHost struct {
	name       string
	gate       chan struct{}
	adapterErr error
	deviceErr  error

	mu      sync.Mutex
	devices []*backend.SoftwareDevice
}

func newGatedHost(name string) *gatedHost {
	return &gatedHost{name: name, gate: make(chan struct{})}
}

func readyHost(name string) *gatedHost {
	h := newGatedHost(name)
	h.release()
	return h
}

func failingHost(name string, err error) *gatedHost {
	h := readyHost(name)
	h.adapterErr = err
	return h
}

func (h *gatedHost) release() { close(h.gate) }

func (h *gatedHost) Name() string { return h.name }

func (h *gatedHost) RequestAdapter(ctx context.Context, _ backend.AdapterOptions) (backend.Adapter, error) {
	select {
	case <-h.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if h.adapterErr != nil {
		return nil, h.adapterErr
	}
	return &gatedAdapter{host: h}, nil
}

func (h *gatedHost) lastDevice() *backend.SoftwareDevice {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.devices) == 0 {
		return nil
	}
	return h.devices[len(h.devices)-1]
}

type gatedAdapter struct {
	host *gatedHost
}

func (a *gatedAdapter) Info() backend.AdapterInfo {
	return backend.AdapterInfo{Name: a.host.name + " adapter", Backend: a.host.name, DeviceType: "CPU"}
}

func (a *gatedAdapter) RequestDevice(_ context.Context, desc backend.DeviceDescriptor) (backend.Device, error) {
	if a.host.deviceErr != nil {
		return nil, a.host.deviceErr
	}
	dev := backend.NewSoftwareDevice(desc.Label, desc.Limits)
	a.host.mu.Lock()
	a.host.devices = append(a.host.devices, dev)
	a.host.mu.Unlock()
	return dev, nil
}

func (a *gatedAdapter) Release() {}

var errBoom = errors.New("boom")

// glyphView draws one 16x16 monochrome sprite per frame.
type glyphView struct {
	mu    sync.Mutex
	draws int
	tiles []atlas.Tile
}

func (v *glyphView) Draw(dc *DrawContext) (FrameArtifacts, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draws++
	size := atlas.Size{Width: 16, Height: 16}
	key := atlas.GlyphKey{FontID: 1, GlyphID: 'A', FontSize: 16 * 64, ScaleFactor: 100}
	if tile, ok := dc.Tile(key, size, coverage(size, 0xff)); ok {
		v.tiles = append(v.tiles, tile)
		dc.sprites = append(dc.sprites, SpriteInstance{Tile: tile, Color: [4]uint8{0, 0, 0, 255}})
	}
	return FrameArtifacts{Elements: 1}, nil
}

func (v *glyphView) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draws
}

func coverage(size atlas.Size, v byte) atlas.RenderFunc {
	return func() ([]byte, error) {
		buf := make([]byte, int(size.Width)*int(size.Height))
		for i := range buf {
			buf[i] = v
		}
		return buf, nil
	}
}

// manualFrames is a FrameSource fired by the test.
type manualFrames struct {
	mu sync.Mutex
	fn func(time.Time)
}

func (m *manualFrames) Start(fn func(time.Time)) func() {
	m.mu.Lock()
	m.fn = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.fn = nil
		m.mu.Unlock()
	}
}

func (m *manualFrames) fire(now time.Time) bool {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(now)
	return true
}
