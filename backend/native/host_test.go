//go:build !js

package native

import (
	"context"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggweb/backend"
)

func TestSpriteShaderCompiles(t *testing.T) {
	words, err := SpriteShaderSPIRV()
	require.NoError(t, err)
	require.NotEmpty(t, words)
	assert.Equal(t, uint32(0x07230203), words[0], "SPIR-V magic number")

	again, err := SpriteShaderSPIRV()
	require.NoError(t, err)
	assert.Same(t, &words[0], &again[0])
}

func TestCompileWGSLRejectsGarbage(t *testing.T) {
	_, err := compileWGSL("fn main( {")
	assert.Error(t, err)
}

func TestSelectAdapter(t *testing.T) {
	software := gputypes.DeviceType(99)
	kinds := []gputypes.DeviceType{software, gputypes.DeviceTypeIntegratedGPU, gputypes.DeviceTypeDiscreteGPU}

	assert.Equal(t, 2, selectAdapter(kinds, backend.AdapterOptions{PowerPreference: gputypes.PowerPreferenceHighPerformance}))
	assert.Equal(t, 1, selectAdapter(kinds, backend.AdapterOptions{}))
	assert.Equal(t, 0, selectAdapter(kinds, backend.AdapterOptions{ForceFallbackAdapter: true}))
	assert.Equal(t, -1, selectAdapter(kinds[1:], backend.AdapterOptions{ForceFallbackAdapter: true}))
	assert.Equal(t, 0, selectAdapter([]gputypes.DeviceType{software}, backend.AdapterOptions{}))
	assert.Equal(t, -1, selectAdapter(nil, backend.AdapterOptions{}))
}

func TestHostRegistered(t *testing.T) {
	assert.True(t, backend.IsRegistered(backend.HostNative))
}

func TestFromProviderWithoutHAL(t *testing.T) {
	var p gpucontext.DeviceProvider = nullProvider{}
	_, err := FromProvider(p)
	assert.ErrorIs(t, err, ErrNoHALAccess)
}

type nullProvider struct{}

func (nullProvider) Device() gpucontext.Device   { return nil }
func (nullProvider) Queue() gpucontext.Queue     { return nil }
func (nullProvider) Adapter() gpucontext.Adapter { return nil }
func (nullProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}
func (nullProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "null", Type: gpucontext.AdapterTypeUnknown}
}

func TestSharedAdapterInfo(t *testing.T) {
	host := &SharedHost{info: sharedAdapterInfo(gpucontext.AdapterInfo{
		Name: "Intel Iris Xe", Type: gpucontext.AdapterTypeIntegrated,
	})}
	adapter, err := host.RequestAdapter(context.Background(), backend.AdapterOptions{})
	require.NoError(t, err)

	info := adapter.Info()
	assert.Equal(t, "Intel Iris Xe", info.Name)
	assert.Equal(t, backend.HostNative, info.Backend)
	assert.Equal(t, "Integrated", info.DeviceType)

	unnamed := sharedAdapterInfo(gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeSoftware})
	assert.Equal(t, "shared", unnamed.Name)
	assert.Equal(t, "Software", unnamed.DeviceType)
}

// TestHostUploadsToGPU runs only where a Vulkan device is present.
func TestHostUploadsToGPU(t *testing.T) {
	host := NewHost()
	adapter, err := host.RequestAdapter(context.Background(), backend.AdapterOptions{})
	if err != nil {
		t.Skipf("no GPU adapter: %v", err)
	}
	defer adapter.Release()

	dev, err := adapter.RequestDevice(context.Background(), backend.DeviceDescriptor{Label: "test"})
	require.NoError(t, err)
	defer dev.Release()

	tex, err := dev.CreateTexture(backend.TextureDescriptor{
		Label: "page", Width: 64, Height: 64, Format: gputypes.TextureFormatR8Unorm,
	})
	require.NoError(t, err)
	require.NoError(t, dev.Queue().WriteTexture(tex, backend.Origin{X: 8, Y: 8}, 4, 4, make([]byte, 16)))

	tex.Release()
	assert.ErrorIs(t, dev.Queue().WriteTexture(tex, backend.Origin{}, 1, 1, []byte{0}), backend.ErrReleased)
}
