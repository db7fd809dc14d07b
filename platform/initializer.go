package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/atlas"
	"github.com/gogpu/ggweb/backend"
)

// ErrNoHosts is returned when the initializer has no backend host to try.
var ErrNoHosts = errors.New("platform: no backend hosts configured")

// InitConfig configures backend initialization.
type InitConfig struct {
	// Hosts are tried in order until one yields a device.
	Hosts []backend.Host

	Adapter backend.AdapterOptions
	Device  backend.DeviceDescriptor
	Atlas   atlas.Config

	// TileCacheLimit bounds the live tiles of the atlas. Zero disables
	// eviction.
	TileCacheLimit int
}

// InitTask is the outcome of one backend initialization.
type InitTask struct {
	done    chan struct{}
	err     error
	adapter backend.AdapterInfo
	host    string
}

func newInitTask() *InitTask {
	return &InitTask{done: make(chan struct{})}
}

// Done is closed when initialization finished, successfully or not.
func (t *InitTask) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx is done. On a browser host
// call it from a spawned goroutine, never from a frame callback.
func (t *InitTask) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the outcome, or nil while still running.
func (t *InitTask) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Host returns the name of the host that produced the device.
func (t *InitTask) Host() string {
	<-t.done
	return t.host
}

// Adapter returns the adapter that produced the device.
func (t *InitTask) Adapter() backend.AdapterInfo {
	<-t.done
	return t.adapter
}

func (t *InitTask) finish(host string, info backend.AdapterInfo, err error) {
	t.host, t.adapter, t.err = host, info, err
	close(t.done)
}

// Initializer acquires a GPU device for a window, builds the atlas on it
// and publishes the atlas to the window. It runs at most once and is the
// only writer of the window's readiness gate.
type Initializer struct {
	window *Window
	config InitConfig

	once sync.Once
	task *InitTask
}

// NewInitializer creates an initializer for w.
func NewInitializer(w *Window, config InitConfig) *Initializer {
	if config.Atlas.PageSize == 0 {
		config.Atlas = atlas.DefaultConfig()
	}
	if config.Device.Label == "" {
		config.Device.Label = "ggweb"
	}
	return &Initializer{window: w, config: config, task: newInitTask()}
}

// Start runs initialization on a new goroutine and returns its task.
// Later calls return the same task.
func (in *Initializer) Start(ctx context.Context) *InitTask {
	in.once.Do(func() {
		go in.run(ctx)
	})
	return in.task
}

// Run initializes on the calling goroutine. Later calls, and calls after
// Start, wait for the first run and return its outcome.
func (in *Initializer) Run(ctx context.Context) error {
	in.once.Do(func() {
		in.run(ctx)
	})
	<-in.task.done
	return in.task.err
}

// Task returns the initialization task.
func (in *Initializer) Task() *InitTask {
	return in.task
}

func (in *Initializer) run(ctx context.Context) {
	log := ggweb.Logger()
	hosts := in.config.Hosts
	if len(hosts) == 0 {
		log.Error("platform: backend initialization failed", "err", ErrNoHosts)
		in.task.finish("", backend.AdapterInfo{}, ErrNoHosts)
		return
	}

	var errs []error
	for _, host := range hosts {
		info, err := in.tryHost(ctx, host)
		if err == nil {
			log.Info("platform: renderer initialized",
				"host", host.Name(), "adapter", info.Name, "type", info.DeviceType)
			in.task.finish(host.Name(), info, nil)
			return
		}
		if errors.Is(err, ErrWindowClosed) {
			log.Debug("platform: window closed during initialization", "host", host.Name())
			in.task.finish(host.Name(), info, err)
			return
		}
		log.Warn("platform: backend host failed", "host", host.Name(), "err", err)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	err := errors.Join(errs...)
	log.Error("platform: backend initialization failed", "err", err)
	in.task.finish("", backend.AdapterInfo{}, err)
}

// tryHost walks adapter, device and atlas creation on one host and
// publishes the result. Every failure releases what was acquired.
func (in *Initializer) tryHost(ctx context.Context, host backend.Host) (backend.AdapterInfo, error) {
	name := host.Name()

	adapter, err := host.RequestAdapter(ctx, in.config.Adapter)
	if err != nil {
		return backend.AdapterInfo{}, &backend.HostError{Host: name, Step: "request adapter",
			Err: wrapSentinel(backend.ErrAdapterUnavailable, err)}
	}
	if adapter == nil {
		return backend.AdapterInfo{}, &backend.HostError{Host: name, Step: "request adapter",
			Err: backend.ErrAdapterUnavailable}
	}
	defer adapter.Release()
	info := adapter.Info()

	device, err := adapter.RequestDevice(ctx, in.config.Device)
	if err != nil {
		return info, &backend.HostError{Host: name, Step: "request device",
			Err: wrapSentinel(backend.ErrDeviceRequestFailed, err)}
	}

	if err := checkTextures(device); err != nil {
		device.Release()
		return info, &backend.HostError{Host: name, Step: "create texture", Err: err}
	}

	a, err := atlas.New(device, in.config.Atlas)
	if err != nil {
		device.Release()
		return info, &backend.HostError{Host: name, Step: "create atlas", Err: err}
	}

	var provider atlas.TileProvider = a
	if in.config.TileCacheLimit > 0 {
		provider = atlas.NewTileCache(a, in.config.TileCacheLimit)
	}

	if err := in.window.installRenderer(provider, device, info); err != nil {
		a.Close()
		device.Release()
		return info, err
	}
	return info, nil
}

// checkTextures checks that device can create atlas pages. The atlas
// creates pages lazily, so a host without texture support would
// otherwise be published and fail on every sprite.
func checkTextures(device backend.Device) error {
	for _, kind := range atlas.Kinds() {
		tex, err := device.CreateTexture(backend.TextureDescriptor{
			Label:  "ggweb texture check",
			Width:  1,
			Height: 1,
			Format: kind.Format(),
		})
		if err != nil {
			return err
		}
		tex.Release()
	}
	return nil
}

// wrapSentinel makes err match sentinel without losing err.
func wrapSentinel(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
