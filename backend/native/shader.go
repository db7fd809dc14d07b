//go:build !js

package native

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/sprite.wgsl
var spriteShaderWGSL string

var (
	spriteOnce  sync.Once
	spriteSPIRV []uint32
	spriteErr   error
)

// SpriteShaderSPIRV returns the atlas sprite shader compiled to SPIR-V.
// Compilation happens once per process.
func SpriteShaderSPIRV() ([]uint32, error) {
	spriteOnce.Do(func() {
		spriteSPIRV, spriteErr = compileWGSL(spriteShaderWGSL)
	})
	return spriteSPIRV, spriteErr
}

// compileWGSL compiles WGSL to little-endian SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("native: compile shader: %w", err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("native: compile shader: SPIR-V length %d is not word aligned", len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	return words, nil
}

func createSpriteModule(device hal.Device) (hal.ShaderModule, error) {
	spirv, err := SpriteShaderSPIRV()
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ggweb sprite",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create sprite shader module: %w", err)
	}
	return module, nil
}
