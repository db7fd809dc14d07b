package platform

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/atlas"
	"github.com/gogpu/ggweb/backend"
)

// Window errors.
var (
	// ErrWindowClosed is returned for operations on a closed window.
	ErrWindowClosed = errors.New("platform: window closed")

	// ErrAtlasSwapped is returned when a second atlas swap is attempted.
	ErrAtlasSwapped = errors.New("platform: atlas already swapped")
)

// WindowID identifies a window within its platform.
type WindowID uint64

// Size is a logical window size.
type Size struct {
	Width, Height int
}

// View is the toolkit window content. Draw runs only once the renderer is
// ready and paints through the DrawContext.
type View interface {
	Draw(dc *DrawContext) (FrameArtifacts, error)
}

// ViewFunc adapts a function to View.
type ViewFunc func(dc *DrawContext) (FrameArtifacts, error)

// Draw implements View.
func (f ViewFunc) Draw(dc *DrawContext) (FrameArtifacts, error) {
	return f(dc)
}

// FrameArtifacts summarizes a painted frame.
type FrameArtifacts struct {
	// Elements is the number of toolkit elements painted.
	Elements int
}

// WindowOptions configures a window.
type WindowOptions struct {
	Title       string
	Size        Size
	ScaleFactor float32
	View        View

	// CanvasID is the id of the canvas element the window draws into in
	// the browser. Empty selects DefaultCanvasID.
	CanvasID string
}

// DefaultCanvasID is the canvas element id used when none is configured.
const DefaultCanvasID = "ggweb"

// providerBox lets an interface value live in an atomic.Pointer.
type providerBox struct {
	p atlas.TileProvider
}

// Window is the platform side of a toolkit window. It owns the readiness
// gate and the active atlas handle, which starts as the no-op atlas and
// is replaced exactly once when the GPU backend comes up.
type Window struct {
	id    WindowID
	title string
	view  View

	readiness *Readiness
	atlas     atomic.Pointer[providerBox]
	swapped   atomic.Bool
	input     *InputRouter

	dirty  atomic.Bool
	force  atomic.Bool
	closed atomic.Bool

	mu       sync.Mutex
	size     Size
	scale    float32
	device   backend.Device
	adapter  backend.AdapterInfo
	onClose  []func()
	onResize []func(Size, float32)

	appearance   Appearance
	onAppearance []func(Appearance)
}

// NewWindow creates a window. It is normally called by Platform.OpenWindow.
// The window starts not ready on the no-op atlas; only an Initializer
// can install a renderer and open the readiness gate.
func NewWindow(id WindowID, opts WindowOptions) *Window {
	if opts.ScaleFactor <= 0 {
		opts.ScaleFactor = 1
	}
	w := &Window{
		id:        id,
		title:     opts.Title,
		view:      opts.View,
		readiness: NewReadiness(false),
		input:     NewInputRouter(),
		size:      opts.Size,
		scale:     opts.ScaleFactor,
	}
	w.atlas.Store(&providerBox{p: atlas.NoopAtlas{}})
	w.dirty.Store(true)
	return w
}

// ID returns the window id.
func (w *Window) ID() WindowID { return w.id }

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// View returns the window content.
func (w *Window) View() View { return w.view }

// Input returns the router that translates host input for the window.
func (w *Window) Input() *InputRouter { return w.input }

// Readiness returns the window's readiness gate.
func (w *Window) Readiness() *Readiness { return w.readiness }

// IsRendererReady reports whether the GPU backend is up.
func (w *Window) IsRendererReady() bool {
	return w.readiness.IsReady()
}

// SpriteAtlas returns the atlas currently allocating tiles.
func (w *Window) SpriteAtlas() atlas.TileProvider {
	return w.atlas.Load().p
}

// AdapterInfo returns the adapter the renderer runs on, once ready.
func (w *Window) AdapterInfo() backend.AdapterInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.adapter
}

// Size returns the logical size.
func (w *Window) Size() Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// ScaleFactor returns the device pixel ratio.
func (w *Window) ScaleFactor() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// Resize updates the size and scale factor and forces a render.
func (w *Window) Resize(size Size, scale float32) {
	if scale <= 0 {
		scale = 1
	}
	w.mu.Lock()
	w.size = size
	w.scale = scale
	hooks := slices.Clone(w.onResize)
	w.mu.Unlock()

	w.force.Store(true)
	for _, fn := range hooks {
		fn(size, scale)
	}
}

// OnResize registers fn to run after every Resize.
func (w *Window) OnResize(fn func(Size, float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = append(w.onResize, fn)
}

// Appearance returns the host color scheme.
func (w *Window) Appearance() Appearance {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.appearance
}

// OnAppearanceChanged registers fn to run when the host color scheme
// changes.
func (w *Window) OnAppearanceChanged(fn func(Appearance)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onAppearance = append(w.onAppearance, fn)
}

// setAppearance records the color scheme. A change runs the hooks and
// forces a render.
func (w *Window) setAppearance(a Appearance) {
	w.mu.Lock()
	if w.appearance == a {
		w.mu.Unlock()
		return
	}
	w.appearance = a
	hooks := slices.Clone(w.onAppearance)
	w.mu.Unlock()

	w.force.Store(true)
	for _, fn := range hooks {
		fn(a)
	}
}

// Invalidate marks the window dirty so the next ready frame draws.
func (w *Window) Invalidate() {
	w.dirty.Store(true)
}

// ForceRender makes the next ready frame draw even if nothing changed.
func (w *Window) ForceRender() {
	w.force.Store(true)
}

// IsDirty reports whether a draw is pending.
func (w *Window) IsDirty() bool {
	return w.dirty.Load() || w.force.Load()
}

// takeDrawRequest consumes the dirty and force flags.
func (w *Window) takeDrawRequest() bool {
	dirty := w.dirty.Swap(false)
	force := w.force.Swap(false)
	return dirty || force
}

// OnClose registers fn to run when the window closes.
func (w *Window) OnClose(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClose = append(w.onClose, fn)
}

// Closed reports whether Close was called.
func (w *Window) Closed() bool {
	return w.closed.Load()
}

// Close runs the close callbacks once and releases the renderer. An
// initialization still in flight is abandoned: it releases its own
// device when it finishes.
func (w *Window) Close() {
	w.mu.Lock()
	if !w.closed.CompareAndSwap(false, true) {
		w.mu.Unlock()
		return
	}
	hooks := w.onClose
	w.onClose = nil
	dev := w.device
	w.device = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if dev != nil {
		w.SpriteAtlas().Clear()
		dev.Release()
	}
	ggweb.Logger().Debug("platform: window closed", "window", w.id)
}

// installRenderer publishes a freshly built atlas: the handle is swapped
// first and the readiness gate flipped second, so a reader that sees the
// gate true also sees the new atlas.
func (w *Window) installRenderer(p atlas.TileProvider, dev backend.Device, info backend.AdapterInfo) error {
	w.mu.Lock()
	if w.closed.Load() {
		w.mu.Unlock()
		return ErrWindowClosed
	}
	if !w.swapped.CompareAndSwap(false, true) {
		w.mu.Unlock()
		return ErrAtlasSwapped
	}
	w.device = dev
	w.adapter = info
	w.atlas.Store(&providerBox{p: p})
	w.readiness.publish()
	w.force.Store(true)
	w.mu.Unlock()
	return nil
}
