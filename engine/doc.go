// Package engine runs particle simulation and rendering on a GPU device.
//
// An Engine owns every GPU resource of one particle scene: the particle
// buffer, the field buffer, per-frame uniform regions and the compute and
// render pipelines. Configuration (spawns, fields, controls, background) is
// published from any goroutine as immutable snapshots; the frame producer
// picks up the latest snapshot at the start of each frame, uploads only what
// changed and records one compute pass followed by one render pass into a
// single submission.
//
// # Frame Loop
//
// Hosts with a display link call [Engine.Frame] once per refresh. Headless
// hosts can use [Engine.Run], which paces Frame from a ticker:
//
//	eng, err := engine.New(device, queue)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	surface, err := engine.NewOffscreenSurface(device, queue, 800, 600)
//	if err != nil {
//	    return err
//	}
//	defer surface.Destroy()
//	if err := eng.Attach(surface); err != nil {
//	    return err
//	}
//
//	eng.Apply(scene)
//	err = eng.Run(ctx, 60)
//
// # Frames In Flight
//
// Per-frame parameters live in FramesInFlight uniform regions used in
// rotation, so the CPU never overwrites a region the GPU may still read.
// Replaced particle and field buffers are retired and destroyed only after
// the frames that referenced them have completed.
package engine
