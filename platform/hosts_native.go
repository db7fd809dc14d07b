//go:build !js

package platform

// Native builds register the Pure Go HAL host and, with the rust tag,
// the wgpu-native host. The software host is registered by backend.
import (
	_ "github.com/gogpu/ggweb/backend/native"
	_ "github.com/gogpu/ggweb/backend/rust"
)
