//go:build rust

package rust

import (
	"context"
	"errors"
	"testing"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggweb/backend"
)

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, "Vulkan", backendTypeToString(wgpu.BackendTypeVulkan))
	assert.Equal(t, "CPU", adapterTypeToString(wgpu.AdapterTypeCPU))
	assert.Equal(t, "Unknown", adapterTypeToString(0xff))
}

func TestRegistered(t *testing.T) {
	assert.True(t, backend.IsRegistered(backend.HostRust))
}

func TestDeviceRefusesTextures(t *testing.T) {
	a, err := NewHost().RequestAdapter(context.Background(), backend.AdapterOptions{})
	if err != nil {
		t.Skipf("wgpu-native not available: %v", err)
	}
	defer a.Release()

	d, err := a.RequestDevice(context.Background(), backend.DeviceDescriptor{Label: "test"})
	require.NoError(t, err)
	defer d.Release()

	_, err = d.CreateTexture(backend.TextureDescriptor{Label: "page", Width: 64, Height: 64})
	assert.True(t, errors.Is(err, backend.ErrTextureCreation))
	assert.True(t, errors.Is(err, ErrNotImplemented))
}
