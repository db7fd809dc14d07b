package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Power preference values accepted in Renderer.PowerPreference.
const (
	PowerHighPerformance = "high-performance"
	PowerLowPower        = "low-power"
	PowerDefault         = ""
)

// Config is the complete ggweb configuration. The zero value is not
// valid; start from Default.
type Config struct {
	Renderer Renderer `toml:"renderer"`
	Atlas    Atlas    `toml:"atlas"`
	Frame    Frame    `toml:"frame"`
	Text     Text     `toml:"text"`
	HTTP     HTTP     `toml:"http"`
	Serve    Serve    `toml:"serve"`
}

// Renderer selects the GPU backend.
type Renderer struct {
	// Hosts lists backend hosts to try in order. Empty uses the
	// built-in priority.
	Hosts []string `toml:"hosts,omitempty"`
	// PowerPreference is "high-performance", "low-power" or empty.
	PowerPreference string `toml:"power_preference"`
	// ForceFallbackAdapter asks for a software adapter where the host has one.
	ForceFallbackAdapter bool `toml:"force_fallback_adapter"`
	// MaxTextureDimension requests a device limit. Zero takes the default.
	MaxTextureDimension uint32 `toml:"max_texture_dimension"`
}

// Atlas sizes the sprite atlas.
type Atlas struct {
	PageSize       uint32 `toml:"page_size"`
	MaxPages       int    `toml:"max_pages"`
	Padding        uint32 `toml:"padding"`
	TileCacheLimit int    `toml:"tile_cache_limit"`
}

// Frame configures the frame loop.
type Frame struct {
	// FPS is the native tick rate. Browsers follow requestAnimationFrame.
	FPS int `toml:"fps"`
}

// Text configures the text system.
type Text struct {
	// FontURLs are fetched and registered at startup on hosts that
	// support loading fonts by URL.
	FontURLs []string `toml:"font_urls,omitempty"`
	// FontFiles are loaded at startup on hosts with a filesystem.
	FontFiles []string `toml:"font_files,omitempty"`
	// Locale overrides the detected locale, as a BCP 47 tag.
	Locale string `toml:"locale"`
}

// HTTP configures the HTTP client.
type HTTP struct {
	UserAgent string   `toml:"user_agent"`
	Timeout   Duration `toml:"timeout"`

	// MaxBodySize rejects larger responses. Zero means unlimited.
	MaxBodySize int64 `toml:"max_body_size"`
}

// Serve configures the development server.
type Serve struct {
	Addr       string `toml:"addr"`
	Dir        string `toml:"dir"`
	LiveReload bool   `toml:"live_reload"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Renderer: Renderer{PowerPreference: PowerHighPerformance},
		Atlas:    Atlas{PageSize: 1024, TileCacheLimit: 4096},
		Frame:    Frame{FPS: 60},
		HTTP:     HTTP{UserAgent: "ggweb", Timeout: Duration{30 * time.Second}, MaxBodySize: 64 << 20},
		Serve:    Serve{Addr: "localhost:8080", Dir: "web", LiveReload: true},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	switch c.Renderer.PowerPreference {
	case PowerHighPerformance, PowerLowPower, PowerDefault:
	default:
		errs = append(errs, fmt.Errorf("%w: renderer.power_preference %q", ErrInvalid, c.Renderer.PowerPreference))
	}
	if c.Atlas.PageSize < 64 {
		errs = append(errs, fmt.Errorf("%w: atlas.page_size %d below 64", ErrInvalid, c.Atlas.PageSize))
	}
	if c.Atlas.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("%w: atlas.max_pages %d is negative", ErrInvalid, c.Atlas.MaxPages))
	}
	if c.Atlas.TileCacheLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: atlas.tile_cache_limit %d is negative", ErrInvalid, c.Atlas.TileCacheLimit))
	}
	if c.Atlas.Padding >= c.Atlas.PageSize {
		errs = append(errs, fmt.Errorf("%w: atlas.padding %d not below page size", ErrInvalid, c.Atlas.Padding))
	}
	if c.Frame.FPS <= 0 || c.Frame.FPS > 1000 {
		errs = append(errs, fmt.Errorf("%w: frame.fps %d out of range", ErrInvalid, c.Frame.FPS))
	}
	if c.HTTP.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: http.timeout is negative", ErrInvalid))
	}
	if c.HTTP.MaxBodySize < 0 {
		errs = append(errs, fmt.Errorf("%w: http.max_body_size %d is negative", ErrInvalid, c.HTTP.MaxBodySize))
	}
	return errors.Join(errs...)
}

// Parse decodes TOML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a TOML file. See Parse.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
