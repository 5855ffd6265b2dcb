package kernel

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/internal/gpu"
)

// The compute shader and this package must integrate identically; these
// checks catch constants drifting apart.
func TestShaderSharesConstants(t *testing.T) {
	src := gpu.SimulateShaderSource()

	for _, c := range []string{"0x8da6b343u", "0xd8163841u", "0xcb1ab31fu", "0x7feb352du", "0x846ca68bu"} {
		if !strings.Contains(src, c) {
			t.Errorf("shader is missing hash constant %s", c)
		}
	}

	for _, want := range []string{
		fmt.Sprintf("VELOCITY_BIAS: f32 = %.1f;", float32(velocityBias)),
		fmt.Sprintf("NOISE_CELL: f32 = %.1f;", float32(noiseCell)),
	} {
		if !strings.Contains(src, want) {
			t.Errorf("shader is missing %q", want)
		}
	}
}

func TestShaderKindNumbers(t *testing.T) {
	src := gpu.SimulateShaderSource()
	for k := field.KindRadial; k.Valid(); k++ {
		name := "KIND_" + strings.ToUpper(snake(k.String()))
		want := fmt.Sprintf("const %s: u32 = %du;", name, k)
		if !strings.Contains(src, want) {
			t.Errorf("shader is missing %q", want)
		}
	}
}

// snake converts a camelCase kind name to snake_case.
func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
