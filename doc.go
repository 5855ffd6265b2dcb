// Package particlize turns text and images into particles and animates them
// under composable force fields on the GPU.
//
// # Overview
//
// Content is rasterized into particles once, on the CPU: every sampled
// pixel with visible alpha becomes a particle carrying its color and a home
// position. Particles are composed into a scene by spawns, then handed to
// the simulation engine (package engine), which keeps them in GPU memory and
// runs one compute pass (forces and integration) and one render pass
// (instanced sprites) per frame.
//
// # Quick Start
//
//	item, err := particlize.NewText("Hello", particlize.WithFontSize(96))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	eng, err := engine.New(device, queue)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	eng.Apply(particlize.Scene{
//	    Spawns:   []particlize.Spawn{{Item: item}},
//	    Fields:   []field.Field{field.DefaultVortex()},
//	    Controls: particlize.DefaultControls(),
//	})
//
// # Coordinate System
//
// Particles live in view space:
//   - Origin (0,0) at the view center
//   - X increases right
//   - Y increases up
//   - One unit per pixel
//
// Rasterized content is centered on the origin; a spawn position moves the
// whole item.
package particlize

import "github.com/gogpu/particlize/geom"

// Vec2 is a view-space vector.
type Vec2 = geom.Vec2

// Color is a straight-alpha color with components in [0, 1].
type Color = geom.Color

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 {
	return geom.V2(x, y)
}
