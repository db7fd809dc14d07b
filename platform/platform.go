package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/atlas"
	"github.com/gogpu/ggweb/backend"
	"github.com/gogpu/ggweb/config"
	"github.com/gogpu/ggweb/executor"
	"github.com/gogpu/ggweb/httpclient"
	"github.com/gogpu/ggweb/text"
)

// Platform errors.
var (
	// ErrWindowOpen is returned by OpenWindow while another window is
	// open. The platform drives a single window.
	ErrWindowOpen = errors.New("platform: a window is already open")

	// ErrInvalidURL is returned by OpenURL for URLs that are not absolute.
	ErrInvalidURL = errors.New("platform: invalid URL")
)

// Option configures a Platform.
type Option func(*options)

type options struct {
	clock     executor.Clock
	hosts     []backend.Host
	text      text.TextSystem
	http      httpclient.Client
	frames    FrameSource
	presenter Presenter
	async     *bool
	openURL   func(string) error
}

// WithClock replaces the host clock, mainly for tests.
func WithClock(c executor.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithHosts replaces the backend hosts selected from the configuration.
func WithHosts(hosts ...backend.Host) Option {
	return func(o *options) { o.hosts = hosts }
}

// WithTextSystem replaces the default text system.
func WithTextSystem(ts text.TextSystem) Option {
	return func(o *options) { o.text = ts }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *options) { o.http = c }
}

// WithFrameSource replaces the host's animation-frame source.
func WithFrameSource(src FrameSource) Option {
	return func(o *options) { o.frames = src }
}

// WithPresenter sets where drawn frames go.
func WithPresenter(p Presenter) Option {
	return func(o *options) { o.presenter = p }
}

// WithAsyncInit overrides whether backend initialization runs in the
// background. Browser hosts default to true, native hosts to false.
func WithAsyncInit(async bool) Option {
	return func(o *options) { o.async = &async }
}

// WithURLOpener replaces how OpenURL hands a URL to the host.
func WithURLOpener(open func(url string) error) Option {
	return func(o *options) { o.openURL = open }
}

// Platform wires the host services a toolkit needs: an executor, a text
// system, an HTTP client, backend hosts and the window with its frame
// loop.
type Platform struct {
	config     config.Config
	dispatcher *executor.Dispatcher
	exec       executor.Executor
	text       text.TextSystem
	http       httpclient.Client
	hosts      []backend.Host
	frames     FrameSource
	presenter  Presenter
	async      bool
	openURL    func(string) error

	mu     sync.Mutex
	window *Window
	nextID WindowID
	quit   []func()
	cursor CursorStyle
}

// New creates a platform from cfg.
func New(cfg config.Config, opts ...Option) (*Platform, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Platform{config: cfg, presenter: o.presenter, async: asyncHost(), openURL: o.openURL}
	if o.async != nil {
		p.async = *o.async
	}
	if p.openURL == nil {
		p.openURL = openHostURL
	}

	p.dispatcher = executor.NewDispatcher(o.clock)
	if p.async {
		p.exec = executor.NewWebExecutor(p.dispatcher)
	} else {
		p.exec = executor.NewNativeExecutor(p.dispatcher)
	}

	p.http = o.http
	if p.http == nil {
		p.http = httpclient.NewFetchClient(
			httpclient.WithUserAgent(cfg.HTTP.UserAgent),
			httpclient.WithTimeout(cfg.HTTP.Timeout.Duration),
			httpclient.WithMaxBodySize(cfg.HTTP.MaxBodySize),
		)
	}

	p.text = o.text
	if p.text == nil {
		ts, err := newTextSystem(cfg.Text, p.async, p.http)
		if err != nil {
			return nil, err
		}
		p.text = ts
	}

	p.hosts = o.hosts
	if p.hosts == nil {
		p.hosts = backend.Candidates(cfg.Renderer.Hosts)
	}

	p.frames = o.frames
	if p.frames == nil {
		p.frames = DefaultFrameSource(cfg.Frame.FPS, p.dispatcher.Clock())
	}

	ggweb.Logger().Debug("platform: created", "async", p.async, "hosts", hostNames(p.hosts))
	return p, nil
}

func newTextSystem(cfg config.Text, web bool, client httpclient.Client) (text.TextSystem, error) {
	locale := text.DetectLocale()
	if cfg.Locale != "" {
		locale = text.ParseLocale(cfg.Locale)
	}
	if web {
		return text.NewWebFontSystem(locale, client)
	}
	fs, err := text.NewNativeFontSystem(locale)
	if err != nil {
		return nil, err
	}
	for _, path := range cfg.FontFiles {
		if err := fs.LoadFontFile(path); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

func hostNames(hosts []backend.Host) []string {
	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = h.Name()
	}
	return names
}

// Config returns the configuration the platform was created with.
func (p *Platform) Config() config.Config { return p.config }

// Executor returns the platform executor.
func (p *Platform) Executor() executor.Executor { return p.exec }

// Dispatcher returns the dispatcher behind the executor.
func (p *Platform) Dispatcher() *executor.Dispatcher { return p.dispatcher }

// TextSystem returns the text system.
func (p *Platform) TextSystem() text.TextSystem { return p.text }

// HTTPClient returns the HTTP client.
func (p *Platform) HTTPClient() httpclient.Client { return p.http }

// Hosts returns the backend hosts tried by OpenWindow, in order.
func (p *Platform) Hosts() []backend.Host { return p.hosts }

// Window returns the open window, or nil.
func (p *Platform) Window() *Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window
}

// initConfig builds the initializer configuration from the platform config.
func (p *Platform) initConfig() InitConfig {
	r := p.config.Renderer
	ic := InitConfig{
		Hosts: p.hosts,
		Adapter: backend.AdapterOptions{
			PowerPreference:      powerPreference(r.PowerPreference),
			ForceFallbackAdapter: r.ForceFallbackAdapter,
		},
		Device: backend.DeviceDescriptor{
			Label:  "ggweb",
			Limits: backend.Limits{MaxTextureDimension2D: r.MaxTextureDimension},
		},
		Atlas: atlas.Config{
			PageSize: p.config.Atlas.PageSize,
			MaxPages: p.config.Atlas.MaxPages,
			Padding:  p.config.Atlas.Padding,
			Label:    "ggweb atlas",
		},
		TileCacheLimit: p.config.Atlas.TileCacheLimit,
	}
	return ic
}

// powerPreference maps the configured preference. Low power and the
// default both leave the adapter choice to the host.
func powerPreference(s string) gputypes.PowerPreference {
	var pref gputypes.PowerPreference
	if s == config.PowerHighPerformance {
		pref = gputypes.PowerPreferenceHighPerformance
	}
	return pref
}

// OpenWindow creates the window and starts acquiring its GPU backend.
//
// On asynchronous hosts the window is returned at once with its
// readiness gate false; frames are skipped until the returned task
// completes. On synchronous hosts initialization finishes before
// OpenWindow returns, so the window is ready unless the task failed.
// Initialization failures are reported by the task, not by OpenWindow.
func (p *Platform) OpenWindow(ctx context.Context, opts WindowOptions) (*Window, *InitTask, error) {
	p.mu.Lock()
	if p.window != nil && !p.window.Closed() {
		p.mu.Unlock()
		return nil, nil, ErrWindowOpen
	}
	p.nextID++
	w := NewWindow(p.nextID, opts)
	p.window = w
	p.mu.Unlock()

	w.setAppearance(hostAppearance())
	canvasID := opts.CanvasID
	if canvasID == "" {
		canvasID = DefaultCanvasID
	}
	w.OnClose(attachHost(w, canvasID))
	w.OnClose(func() {
		p.mu.Lock()
		if p.window == w {
			p.window = nil
		}
		p.mu.Unlock()
	})

	in := NewInitializer(w, p.initConfig())
	var task *InitTask
	if p.async {
		task = in.Start(ctx)
	} else {
		_ = in.Run(ctx)
		task = in.Task()
	}
	ggweb.Logger().Info("platform: window opened", "window", w.ID(), "title", w.Title(), "async", p.async)

	p.loadFonts(ctx)
	return w, task, nil
}

// loadFonts fetches the configured font URLs in the background when the
// text system can load by URL. The window redraws after each font.
func (p *Platform) loadFonts(ctx context.Context) {
	urls := p.config.Text.FontURLs
	if len(urls) == 0 {
		return
	}
	if !text.SupportsURLFonts(p.text) {
		ggweb.Logger().Debug("platform: text system cannot load fonts by URL", "urls", len(urls))
		return
	}
	p.exec.Spawn(func() {
		for _, url := range urls {
			if err := text.LoadFontFromURL(ctx, p.text, url); err != nil {
				ggweb.Logger().Warn("platform: font load failed", "url", url, "err", err)
				continue
			}
			p.exec.DispatchOnMain(func() {
				if w := p.Window(); w != nil {
					w.Invalidate()
				}
			})
		}
	})
}

// WindowAppearance returns the host color scheme.
func (p *Platform) WindowAppearance() Appearance {
	return hostAppearance()
}

// SetCursorStyle changes the pointer shape.
func (p *Platform) SetCursorStyle(style CursorStyle) {
	p.mu.Lock()
	p.cursor = style
	p.mu.Unlock()
	setHostCursor(style)
}

// CursorStyle returns the last style set with SetCursorStyle.
func (p *Platform) CursorStyle() CursorStyle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// OpenURL opens an absolute URL in the user's browser: a new tab in the
// browser, the system handler natively.
func (p *Platform) OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, rawURL)
	}
	ggweb.Logger().Debug("platform: open url", "url", u.Redacted())
	return p.openURL(u.String())
}

// OnQuit registers fn to run when Run returns.
func (p *Platform) OnQuit(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quit = append(p.quit, fn)
}

// Run drives the open window's frames until ctx is done or the window
// closes. Main-thread work queued on the executor runs before every tick
// and as soon as it is queued. Quit callbacks run on return.
func (p *Platform) Run(ctx context.Context) error {
	w := p.Window()
	if w == nil {
		return fmt.Errorf("platform: run: %w", ErrWindowClosed)
	}
	defer p.runQuit()

	driver := NewFrameDriver(w, p.presenter)
	p.dispatcher.SetWake(driver.Wake)
	defer p.dispatcher.SetWake(nil)
	if p.dispatcher.Pending() > 0 {
		driver.Wake()
	}

	err := driver.Run(ctx, p.frames, func() { p.dispatcher.RunMainQueue() })
	stats := driver.Stats()
	ggweb.Logger().Info("platform: frame loop stopped",
		"ticks", stats.Ticks, "draws", stats.Draws, "skipped", stats.SkippedSprites)
	return err
}

func (p *Platform) runQuit() {
	p.mu.Lock()
	hooks := p.quit
	p.quit = nil
	p.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}
