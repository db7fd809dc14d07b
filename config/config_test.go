package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[renderer]
hosts = ["webgpu", "software"]
power_preference = "low-power"

[atlas]
page_size = 2048
max_pages = 8

[http]
timeout = "5s"
max_body_size = 1048576
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"webgpu", "software"}, cfg.Renderer.Hosts)
	assert.Equal(t, PowerLowPower, cfg.Renderer.PowerPreference)
	assert.Equal(t, uint32(2048), cfg.Atlas.PageSize)
	assert.Equal(t, 8, cfg.Atlas.MaxPages)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout.Duration)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)

	// Untouched sections keep their defaults.
	assert.Equal(t, 60, cfg.Frame.FPS)
	assert.Equal(t, "ggweb", cfg.HTTP.UserAgent)
	assert.Equal(t, 4096, cfg.Atlas.TileCacheLimit)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[atlas]\npage_sise = 10\n"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := Parse([]byte("[frame]\nfps = 0\n[atlas]\npage_size = 8\n[http]\nmax_body_size = -1\n"))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "frame.fps")
	assert.Contains(t, err.Error(), "atlas.page_size")
	assert.Contains(t, err.Error(), "http.max_body_size")
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("[atlas\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggweb.toml")
	require.NoError(t, os.WriteFile(path, []byte("[frame]\nfps = 30\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Frame.FPS)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := New(WithHosts("native"), WithHTTPTimeout(time.Minute))
	data, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestOptions(t *testing.T) {
	cfg := New(
		WithHosts("software"),
		WithPowerPreference(PowerDefault),
		WithPageSize(512),
		WithMaxPages(3),
		WithTileCacheLimit(10),
		WithFPS(30),
		WithUserAgent("demo"),
		WithFontURLs("a.ttf", "b.ttf"),
		WithLocale("de-DE"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"software"}, cfg.Renderer.Hosts)
	assert.Equal(t, uint32(512), cfg.Atlas.PageSize)
	assert.Equal(t, 3, cfg.Atlas.MaxPages)
	assert.Equal(t, 10, cfg.Atlas.TileCacheLimit)
	assert.Equal(t, 30, cfg.Frame.FPS)
	assert.Equal(t, "demo", cfg.HTTP.UserAgent)
	assert.Equal(t, []string{"a.ttf", "b.ttf"}, cfg.Text.FontURLs)
	assert.Equal(t, "de-DE", cfg.Text.Locale)

	assert.Error(t, New(WithPowerPreference("turbo")).Validate())
}
