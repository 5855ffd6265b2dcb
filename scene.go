package particlize

import "github.com/gogpu/particlize/field"

// Scene is a complete simulation input: what to show, which forces act on
// it and how it is drawn.
type Scene struct {
	Spawns     []Spawn
	Fields     []field.Field
	Controls   Controls
	Background Color
}

// NewScene returns an empty scene with default controls and a black
// background.
func NewScene() Scene {
	return Scene{
		Controls:   DefaultControls(),
		Background: Color{A: 1},
	}
}

// ParticleCount is the number of particles Compose would produce.
func (s Scene) ParticleCount() int {
	n := 0
	for _, sp := range s.Spawns {
		if sp.Item != nil {
			n += len(sp.Item.Particles())
		}
	}
	return n
}
