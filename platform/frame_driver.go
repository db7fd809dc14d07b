package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/atlas"
)

// FrameState is the state of a FrameDriver.
type FrameState int

const (
	// AwaitingBackend means the GPU backend is not up yet. No draw happens.
	AwaitingBackend FrameState = iota
	// Ready means frames are drawn when the window asks for it. Absorbing.
	Ready
)

func (s FrameState) String() string {
	switch s {
	case AwaitingBackend:
		return "AwaitingBackend"
	case Ready:
		return "Ready"
	default:
		return fmt.Sprintf("FrameState(%d)", int(s))
	}
}

// Frame is a drawn frame handed to the Presenter.
type Frame struct {
	Number    uint64
	Time      time.Time
	Atlas     atlas.TileProvider
	Sprites   []SpriteInstance
	Artifacts FrameArtifacts
}

// Presenter puts a drawn frame on screen.
type Presenter interface {
	Present(f Frame) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Frame) error

// Present implements Presenter.
func (f PresenterFunc) Present(fr Frame) error { return f(fr) }

// TickResult reports what one Tick did.
type TickResult struct {
	State   FrameState
	Drawn   bool
	Skipped int
}

// FrameStats counts driver activity.
type FrameStats struct {
	Ticks          uint64
	Draws          uint64
	SkippedSprites uint64
	Errors         uint64
}

// FrameDriver decides on every animation frame whether to draw. Until
// the window's readiness gate is true it never calls the view; once it
// is, it re-reads the window atlas and draws whenever the window is dirty
// or a render is forced.
type FrameDriver struct {
	window    *Window
	presenter Presenter
	wake      chan struct{}

	mu    sync.Mutex
	state FrameState
	atlas atlas.TileProvider
	stats FrameStats
}

// NewFrameDriver creates a driver for w. The initial state follows the
// window's readiness gate.
func NewFrameDriver(w *Window, presenter Presenter) *FrameDriver {
	d := &FrameDriver{
		window:    w,
		presenter: presenter,
		wake:      make(chan struct{}, 1),
		state:     AwaitingBackend,
	}
	if w.IsRendererReady() {
		d.state = Ready
		d.atlas = w.SpriteAtlas()
	}
	return d
}

// State returns the current state.
func (d *FrameDriver) State() FrameState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Stats returns the counters.
func (d *FrameDriver) Stats() FrameStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Tick runs one animation frame. View and presenter errors are logged and
// returned; they do not stop the driver.
func (d *FrameDriver) Tick(now time.Time) (TickResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.Ticks++
	w := d.window
	if w.Closed() {
		return TickResult{State: d.state}, ErrWindowClosed
	}

	if d.state == AwaitingBackend {
		if !w.IsRendererReady() {
			return TickResult{State: AwaitingBackend}, nil
		}
		d.state = Ready
		d.atlas = w.SpriteAtlas()
		w.ForceRender()
		ggweb.Logger().Info("platform: renderer ready", "window", w.ID())
	}

	if !w.takeDrawRequest() {
		return TickResult{State: Ready}, nil
	}

	if err := d.atlas.BeforeFrame(); err != nil {
		d.stats.Errors++
		ggweb.Logger().Warn("platform: atlas upload failed", "err", err)
	}

	if w.View() == nil {
		return TickResult{State: Ready}, nil
	}

	dc := newDrawContext(d.atlas, now, w.Size(), w.ScaleFactor())
	artifacts, err := w.View().Draw(dc)
	d.stats.Draws++
	d.stats.SkippedSprites += uint64(dc.Skipped())
	res := TickResult{State: Ready, Drawn: true, Skipped: dc.Skipped()}

	if dc.Retries() > 0 {
		w.Invalidate()
	}
	if err != nil {
		d.stats.Errors++
		ggweb.Logger().Error("platform: draw failed", "window", w.ID(), "err", err)
		return res, fmt.Errorf("platform: draw: %w", err)
	}

	if d.presenter != nil {
		// Pixels of tiles created during this draw must reach the GPU first.
		if err := d.atlas.BeforeFrame(); err != nil {
			d.stats.Errors++
			ggweb.Logger().Warn("platform: atlas upload failed", "err", err)
		}
		err := d.presenter.Present(Frame{
			Number:    d.stats.Draws,
			Time:      now,
			Atlas:     d.atlas,
			Sprites:   dc.Sprites(),
			Artifacts: artifacts,
		})
		if err != nil {
			d.stats.Errors++
			return res, fmt.Errorf("platform: present: %w", err)
		}
	}
	return res, nil
}

// Wake makes a running Run call beforeTick without waiting for the next
// frame. It never blocks.
func (d *FrameDriver) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run ticks the driver on every frame of src until ctx is done or the
// window closes. beforeTick, if not nil, runs first on every frame and
// after every Wake; the platform drains its main-thread queue there.
func (d *FrameDriver) Run(ctx context.Context, src FrameSource, beforeTick func()) error {
	frames := make(chan time.Time, 1)
	stop := src.Start(func(now time.Time) {
		select {
		case frames <- now:
		default:
			// Previous frame still running; drop this one.
		}
	})
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
			if beforeTick != nil {
				beforeTick()
			}
		case now := <-frames:
			if beforeTick != nil {
				beforeTick()
			}
			if _, err := d.Tick(now); errors.Is(err, ErrWindowClosed) {
				return nil
			}
		}
	}
}
