package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL shader sources.

//go:embed shaders/simulate.wgsl
var simulateShaderSource string

//go:embed shaders/sprite.wgsl
var spriteShaderSource string

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ErrInvalidSPIRV is returned when compiled shader bytes are not a SPIR-V
// module.
var ErrInvalidSPIRV = errors.New("gpu: invalid SPIR-V module")

// SimulateShaderSource returns the WGSL source of the simulation kernel.
func SimulateShaderSource() string {
	return simulateShaderSource
}

// SpriteShaderSource returns the WGSL source of the sprite renderer.
func SpriteShaderSource() string {
	return spriteShaderSource
}

// CompileSPIRV translates WGSL to SPIR-V words with naga.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	b, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("naga compile: %w", err)
	}
	return spirvWords(b)
}

// spirvWords reinterprets little-endian SPIR-V bytes as words.
func spirvWords(b []byte) ([]uint32, error) {
	if len(b) < 4 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: magic %#08x", ErrInvalidSPIRV, words[0])
	}
	return words, nil
}

// createShader builds a shader module from WGSL, translating it to SPIR-V
// first when spirv is set.
func createShader(device hal.Device, label, wgsl string, spirv bool) (hal.ShaderModule, error) {
	src := hal.ShaderSource{WGSL: wgsl}
	if spirv {
		words, err := CompileSPIRV(wgsl)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", label, err)
		}
		src = hal.ShaderSource{SPIRV: words}
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader: %w", label, err)
	}
	slogger().Debug("shader module created", "label", label, "spirv", spirv)
	return module, nil
}
