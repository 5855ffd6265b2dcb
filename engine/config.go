package engine

import (
	"slices"

	"github.com/gogpu/particlize"
	"github.com/gogpu/particlize/field"
)

// Apply publishes every part of scene. Each part becomes visible from the
// next frame; a frame already in progress keeps what it started with.
func (e *Engine) Apply(scene particlize.Scene) {
	e.SetSpawns(scene.Spawns)
	e.SetFields(scene.Fields)
	e.SetControls(scene.Controls)
	e.SetBackground(scene.Background)
}

// SetSpawns publishes the spawn list. The slice is copied.
func (e *Engine) SetSpawns(spawns []particlize.Spawn) {
	s := slices.Clone(spawns)
	e.spawns.Store(&s)
}

// SetFields publishes the field list. The slice is copied.
func (e *Engine) SetFields(fields []field.Field) {
	f := slices.Clone(fields)
	e.fields.Store(&f)
}

// SetControls publishes the simulation controls.
func (e *Engine) SetControls(c particlize.Controls) {
	e.controls.Store(&c)
}

// SetBackground publishes the clear colour.
func (e *Engine) SetBackground(c particlize.Color) {
	e.background.Store(&c)
}

// Controls returns the most recently published controls.
func (e *Engine) Controls() particlize.Controls {
	return *e.controls.Load()
}

// config is what one frame reads from the published snapshots.
type config struct {
	spawns     []particlize.Spawn
	fields     []field.Field
	controls   particlize.Controls
	background particlize.Color
}

func (e *Engine) loadConfig() config {
	return config{
		spawns:     *e.spawns.Load(),
		fields:     *e.fields.Load(),
		controls:   *e.controls.Load(),
		background: *e.background.Load(),
	}
}
