package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/gogpu/ggweb/atlas"
	"github.com/gogpu/ggweb/backend"
	"github.com/gogpu/ggweb/config"
	"github.com/gogpu/ggweb/executor"
	"github.com/gogpu/ggweb/text"
)

func newTestPlatform(t *testing.T, async bool, opts ...Option) *Platform {
	t.Helper()
	cfg := config.Default()
	cfg.Text.Locale = "en-US"
	opts = append([]Option{
		WithAsyncInit(async),
		WithClock(executor.NewManualClock(epoch)),
		WithFrameSource(&manualFrames{}),
	}, opts...)
	p, err := New(cfg, opts...)
	require.NoError(t, err)
	return p
}

func TestPlatformSynchronousHost(t *testing.T) {
	p := newTestPlatform(t, false, WithHosts(readyHost("native")))

	w, task, err := p.OpenWindow(context.Background(), WindowOptions{Title: "sync"})
	require.NoError(t, err)
	assert.True(t, w.IsRendererReady(), "synchronous hosts are ready on return")
	require.NoError(t, task.Err())
	assert.IsType(t, &atlas.TileCache{}, w.SpriteAtlas())

	_, err = p.Executor().Block(context.Background(), func(context.Context) (any, error) { return 1, nil })
	assert.NoError(t, err)
	assert.False(t, text.SupportsURLFonts(p.TextSystem()))
}

func TestPlatformAsyncHost(t *testing.T) {
	host := newGatedHost("webgpu")
	p := newTestPlatform(t, true, WithHosts(host))

	w, task, err := p.OpenWindow(context.Background(), WindowOptions{Title: "async"})
	require.NoError(t, err)
	assert.False(t, w.IsRendererReady())
	assert.True(t, atlas.IsNoop(w.SpriteAtlas()))

	_, err = p.Executor().Block(context.Background(), func(context.Context) (any, error) {
		t.Fatal("blocking task must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, executor.ErrBlockingNotSupported)
	assert.True(t, text.SupportsURLFonts(p.TextSystem()))

	host.release()
	require.NoError(t, task.Wait(context.Background()))
	assert.True(t, w.IsRendererReady())
	assert.Equal(t, "webgpu adapter", w.AdapterInfo().Name)
}

func TestPlatformSingleWindow(t *testing.T) {
	p := newTestPlatform(t, false, WithHosts(readyHost("native"), readyHost("software")))

	w, _, err := p.OpenWindow(context.Background(), WindowOptions{})
	require.NoError(t, err)
	_, _, err = p.OpenWindow(context.Background(), WindowOptions{})
	assert.ErrorIs(t, err, ErrWindowOpen)

	w.Close()
	assert.Nil(t, p.Window())

	w2, task, err := p.OpenWindow(context.Background(), WindowOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, w.ID(), w2.ID())
	assert.Equal(t, "native", task.Host())
}

func TestPlatformInitFailureIsReportedByTask(t *testing.T) {
	p := newTestPlatform(t, false, WithHosts(failingHost("native", errBoom)))

	w, task, err := p.OpenWindow(context.Background(), WindowOptions{})
	require.NoError(t, err)
	assert.ErrorIs(t, task.Err(), backend.ErrAdapterUnavailable)
	assert.False(t, w.IsRendererReady())
}

func TestPlatformHostsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Renderer.Hosts = []string{backend.HostSoftware}
	cfg.Text.Locale = "de-DE"
	p, err := New(cfg, WithAsyncInit(false))
	require.NoError(t, err)

	require.Len(t, p.Hosts(), 1)
	assert.Equal(t, backend.HostSoftware, p.Hosts()[0].Name())
	assert.Equal(t, "de-DE", p.TextSystem().Locale().String())
}

func TestPlatformRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Frame.FPS = -1
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestPlatformRun(t *testing.T) {
	src := &manualFrames{}
	view := &glyphView{}
	var presented atomic.Int32
	p := newTestPlatform(t, false,
		WithHosts(readyHost("native")),
		WithFrameSource(src),
		WithPresenter(PresenterFunc(func(Frame) error {
			presented.Add(1)
			return nil
		})),
	)
	_, _, err := p.OpenWindow(context.Background(), WindowOptions{View: view})
	require.NoError(t, err)

	var mainRan, quit atomic.Bool
	p.Executor().DispatchOnMain(func() { mainRan.Store(true) })
	p.OnQuit(func() { quit.Store(true) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		src.fire(time.Now())
		return presented.Load() > 0
	}, time.Second, time.Millisecond)
	assert.True(t, mainRan.Load())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	assert.True(t, quit.Load())
}

func TestPlatformRunWithoutWindow(t *testing.T) {
	p := newTestPlatform(t, false, WithHosts(readyHost("native")))
	assert.ErrorIs(t, p.Run(context.Background()), ErrWindowClosed)
}

func TestPlatformLoadsFontURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(gomono.TTF)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Text.FontURLs = []string{srv.URL + "/mono.ttf"}
	p, err := New(cfg, WithAsyncInit(true), WithHosts(readyHost("webgpu")), WithFrameSource(&manualFrames{}))
	require.NoError(t, err)

	w, task, err := p.OpenWindow(context.Background(), WindowOptions{})
	require.NoError(t, err)
	require.NoError(t, task.Wait(context.Background()))

	require.Eventually(t, func() bool {
		_, err := p.TextSystem().FontID("Go Mono")
		return err == nil
	}, 5*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool { return p.Dispatcher().Pending() > 0 }, time.Second, time.Millisecond)
	w.takeDrawRequest()
	p.Dispatcher().RunMainQueue()
	assert.True(t, w.IsDirty())
}

func TestPlatformRunDrainsMainQueueBetweenFrames(t *testing.T) {
	p := newTestPlatform(t, false, WithHosts(readyHost("native")))
	_, _, err := p.OpenWindow(context.Background(), WindowOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// The frame source never fires; queued work still runs.
	for i := range 3 {
		ran := make(chan struct{})
		p.Executor().DispatchOnMain(func() { close(ran) })
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatalf("main-thread task %d did not run without a frame", i)
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestPlatformOpenURL(t *testing.T) {
	var opened []string
	p := newTestPlatform(t, false, WithHosts(readyHost("native")),
		WithURLOpener(func(u string) error {
			opened = append(opened, u)
			return nil
		}))

	require.NoError(t, p.OpenURL("https://example.com/docs?q=1"))
	assert.Equal(t, []string{"https://example.com/docs?q=1"}, opened)

	assert.ErrorIs(t, p.OpenURL("/relative/path"), ErrInvalidURL)
	assert.ErrorIs(t, p.OpenURL("http://bad host/"), ErrInvalidURL)
	assert.Len(t, opened, 1)

	p2 := newTestPlatform(t, false, WithURLOpener(func(string) error { return errBoom }))
	assert.ErrorIs(t, p2.OpenURL("mailto:someone@example.com"), errBoom)
}

func TestPlatformCursorAndAppearance(t *testing.T) {
	p := newTestPlatform(t, false, WithHosts(readyHost("native")))
	assert.Equal(t, CursorArrow, p.CursorStyle())
	p.SetCursorStyle(CursorIBeam)
	assert.Equal(t, CursorIBeam, p.CursorStyle())

	w, _, err := p.OpenWindow(context.Background(), WindowOptions{})
	require.NoError(t, err)
	assert.Equal(t, p.WindowAppearance(), w.Appearance())
	assert.NotNil(t, w.Input())
}
