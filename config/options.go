package config

import "time"

// Option adjusts a Config, typically on top of Default or a loaded file.
//
// Example:
//
//	cfg := config.New(
//		config.WithHosts("webgpu", "software"),
//		config.WithPageSize(2048),
//	)
type Option func(*Config)

// New returns Default with opts applied.
func New(opts ...Option) Config {
	c := Default()
	c.Apply(opts...)
	return c
}

// Apply applies opts in order.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithHosts sets the backend hosts to try, in order.
func WithHosts(names ...string) Option {
	return func(c *Config) {
		c.Renderer.Hosts = append([]string(nil), names...)
	}
}

// WithPowerPreference sets the adapter power preference.
func WithPowerPreference(p string) Option {
	return func(c *Config) {
		c.Renderer.PowerPreference = p
	}
}

// WithPageSize sets the atlas page size.
func WithPageSize(size uint32) Option {
	return func(c *Config) {
		c.Atlas.PageSize = size
	}
}

// WithMaxPages bounds atlas pages per texture kind.
func WithMaxPages(n int) Option {
	return func(c *Config) {
		c.Atlas.MaxPages = n
	}
}

// WithTileCacheLimit bounds live atlas tiles.
func WithTileCacheLimit(n int) Option {
	return func(c *Config) {
		c.Atlas.TileCacheLimit = n
	}
}

// WithFPS sets the native frame rate.
func WithFPS(fps int) Option {
	return func(c *Config) {
		c.Frame.FPS = fps
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.HTTP.UserAgent = ua
	}
}

// WithHTTPTimeout bounds HTTP requests.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.HTTP.Timeout = Duration{d}
	}
}

// WithFontURLs adds fonts fetched at startup.
func WithFontURLs(urls ...string) Option {
	return func(c *Config) {
		c.Text.FontURLs = append(c.Text.FontURLs, urls...)
	}
}

// WithLocale overrides the text locale.
func WithLocale(tag string) Option {
	return func(c *Config) {
		c.Text.Locale = tag
	}
}
