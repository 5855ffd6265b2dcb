package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/particlize"
	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/internal/gpu"
	"github.com/gogpu/particlize/internal/kernel"
	"github.com/gogpu/wgpu/hal"
)

// minFieldCapacity is the smallest field buffer, in descriptors. The
// buffer always exists so the simulation bind group is complete even with
// no fields.
const minFieldCapacity = 4

// Frame advances the simulation to now and renders one frame.
//
// The first frame has a zero time step; later steps are the wall-clock
// delta clamped to the configured maximum. A frame whose surface has no
// drawable is dropped: it is counted in Stats, nothing is submitted and
// Frame returns nil.
func (e *Engine) Frame(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.surface == nil || e.sprites == nil {
		return ErrNoSurface
	}

	dt := e.step(now)
	e.collectRetired()

	slot := int(e.frame % uint64(len(e.slots)))
	if err := e.reclaimSlot(slot); err != nil {
		return err
	}

	cfg := e.loadConfig()
	if err := e.syncParticles(cfg.spawns); err != nil {
		return err
	}
	if err := e.syncFields(cfg.fields); err != nil {
		return err
	}
	if err := e.writeUniforms(slot, dt, cfg.controls); err != nil {
		return err
	}

	view, err := e.surface.AcquireView()
	if err != nil {
		if isNoDrawable(err) {
			e.stats.dropped.Add(1)
			particlize.Logger().Debug("frame dropped", "frame", e.frame)
			return nil
		}
		return fmt.Errorf("engine: acquire view: %w", err)
	}

	cmds, err := e.frameCommands(slot, view, cfg)
	if err != nil {
		return err
	}
	cmd, err := gpu.EncodeFrame(e.device, cmds)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	idx, err := e.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		e.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("engine: submit: %w", err)
	}
	e.slots[slot].cmd = cmd
	e.slots[slot].submission = idx
	e.lastSubmission = idx

	if cmds.Simulate != nil {
		e.stats.dispatches.Add(1)
	}
	if cmds.Sprites != nil {
		e.stats.draws.Add(1)
	}
	e.elapsed += dt
	e.frame++
	e.stats.frames.Add(1)

	if err := e.surface.Present(); err != nil {
		return fmt.Errorf("engine: present: %w", err)
	}
	return nil
}

// step returns the clamped time step for a frame at now.
func (e *Engine) step(now time.Time) float32 {
	if !e.started {
		e.started = true
		e.last = now
		return 0
	}
	d := now.Sub(e.last)
	e.last = now
	if d < 0 {
		d = 0
	}
	if d > e.opts.maxDelta {
		d = e.opts.maxDelta
	}
	return float32(d.Seconds())
}

// reclaimSlot waits until the GPU has finished the frame last submitted
// from slot and frees its command buffer.
func (e *Engine) reclaimSlot(slot int) error {
	s := &e.slots[slot]
	if s.cmd == nil {
		return nil
	}
	if err := gpu.WaitSubmission(e.device, e.queue, s.submission, submitTimeout); err != nil {
		return fmt.Errorf("engine: wait for slot %d: %w", slot, err)
	}
	e.device.FreeCommandBuffer(s.cmd)
	s.cmd = nil
	return nil
}

// syncParticles replaces the particle buffer when the spawn list changed.
func (e *Engine) syncParticles(spawns []particlize.Spawn) error {
	h := particlize.SpawnHash(spawns)
	if e.spawnsSynced && h == e.spawnHash {
		return nil
	}

	ps := particlize.Compose(spawns)
	var buf *gpu.Buffer
	if len(ps) > 0 {
		var err error
		buf, err = gpu.NewStorageBuffer(e.device, "particles", uint64(len(ps))*particlize.ParticleSize)
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		if err := e.queue.WriteBuffer(buf.Buffer, 0, particlize.MarshalParticles(ps)); err != nil {
			buf.Release(e.device)
			return fmt.Errorf("engine: upload particles: %w", err)
		}
		e.stats.particleUploads.Add(1)
	}

	if e.particles != nil {
		e.retire(retiredResource{buffer: e.particles})
	}
	e.retireGroupsLocked()
	e.particles = buf
	e.particleCount = len(ps)
	e.spawnHash = h
	e.spawnsSynced = true
	e.stats.particles.Store(int64(len(ps)))
	particlize.Logger().Debug("particles uploaded", "count", len(ps), "spawns", len(spawns))
	return nil
}

// syncFields rebuilds the descriptors and uploads them when their content
// changed. Returns without touching the GPU when nothing changed.
func (e *Engine) syncFields(fields []field.Field) error {
	descs := field.Build(fields, e.opts.registry)
	h := field.Hash(descs)

	if e.fieldBuf == nil || len(descs) > e.fieldCap {
		capacity := max(minFieldCapacity, e.fieldCap)
		for capacity < len(descs) {
			capacity *= 2
		}
		buf, err := gpu.NewStorageBuffer(e.device, "fields", uint64(capacity)*field.DescriptorSize)
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		if e.fieldBuf != nil {
			e.retire(retiredResource{buffer: e.fieldBuf})
		}
		e.retireGroupsLocked()
		e.fieldBuf = buf
		e.fieldCap = capacity
		e.fieldsSynced = false
	}

	if e.fieldsSynced && h == e.fieldHash && len(descs) == e.fieldCount {
		return nil
	}
	if len(descs) > 0 {
		if err := e.queue.WriteBuffer(e.fieldBuf.Buffer, 0, field.Marshal(descs)); err != nil {
			return fmt.Errorf("engine: upload fields: %w", err)
		}
		e.stats.fieldUploads.Add(1)
	}
	e.fieldHash = h
	e.fieldCount = len(descs)
	e.fieldsSynced = true
	e.stats.fields.Store(int64(len(descs)))
	particlize.Logger().Debug("fields uploaded", "count", len(descs), "capacity", e.fieldCap)
	return nil
}

// writeUniforms fills the params and uniforms regions of slot.
func (e *Engine) writeUniforms(slot int, dt float32, c particlize.Controls) error {
	params := kernel.Params{
		DeltaTime:              dt,
		Time:                   e.elapsed + dt,
		FieldCount:             uint32(e.fieldCount),
		HomingEnabled:          c.HomingEnabled,
		HomingOnlyWhenNoFields: c.HomingOnlyWhenNoFields,
		HomingStrength:         c.HomingStrength,
		HomingDamping:          c.HomingDamping,
		ParticleCount:          uint32(e.particleCount),
	}
	if err := e.queue.WriteBuffer(e.params.Buffer, gpu.SlotOffset(slot), params.AppendBinary(nil)); err != nil {
		return fmt.Errorf("engine: write params: %w", err)
	}

	w, h := e.surface.Size()
	u := gpu.Uniforms{ViewWidth: float32(w), ViewHeight: float32(h), Emitting: c.Emitting}
	if err := e.queue.WriteBuffer(e.uniforms.Buffer, gpu.SlotOffset(slot), u.AppendBinary(nil)); err != nil {
		return fmt.Errorf("engine: write uniforms: %w", err)
	}
	return nil
}

// frameCommands decides which passes the frame records. Simulation is
// skipped with no particles, or with no fields while homing is off; drawing
// is skipped with no particles. The target is always cleared.
func (e *Engine) frameCommands(slot int, view hal.TextureView, cfg config) (*gpu.FrameCommands, error) {
	bg := cfg.background.Premultiplied()
	cmds := &gpu.FrameCommands{
		Label:  "particlize_frame",
		Target: view,
		Clear:  gputypes.Color{R: float64(bg.R), G: float64(bg.G), B: float64(bg.B), A: float64(bg.A)},
	}
	if e.particleCount == 0 {
		return cmds, nil
	}

	s := &e.slots[slot]
	if e.fieldCount > 0 || cfg.controls.HomingEnabled {
		if s.simGroup == nil {
			g, err := e.sim.BindGroup(e.params, slot, e.fieldBuf, e.particles)
			if err != nil {
				return nil, fmt.Errorf("engine: %w", err)
			}
			s.simGroup = g
		}
		cmds.Simulate = &gpu.Dispatch{Pipeline: e.sim, Group: s.simGroup, Count: uint32(e.particleCount)}
	}

	if s.drawGroup == nil {
		g, err := e.sprites.BindGroup(e.uniforms, slot, e.particles)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		s.drawGroup = g
	}
	cmds.Sprites = &gpu.Draw{Pipeline: e.sprites, Group: s.drawGroup, Count: uint32(e.particleCount)}
	return cmds, nil
}

// Run calls Frame fps times per second until ctx is done, reading time from
// the engine clock. It returns ctx.Err(), or the first error from Frame.
func (e *Engine) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	if err := e.Frame(e.opts.clock()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.Frame(e.opts.clock()); err != nil {
				return err
			}
		}
	}
}
