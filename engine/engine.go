package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/particlize"
	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// submitTimeout bounds how long a frame waits for the GPU to release a
// frame slot before the device is drained.
const submitTimeout = 2 * time.Second

// Engine simulates and draws one particle scene.
//
// Configuration methods (Apply, SetSpawns, SetFields, SetControls,
// SetBackground) may be called from any goroutine. Frame, Run, Attach and
// Close are serialized internally; only one goroutine should drive frames.
type Engine struct {
	device hal.Device
	queue  hal.Queue
	owned  *gpu.Device
	opts   options

	// Published configuration.
	spawns     atomic.Pointer[[]particlize.Spawn]
	fields     atomic.Pointer[[]field.Field]
	controls   atomic.Pointer[particlize.Controls]
	background atomic.Pointer[particlize.Color]

	mu      sync.Mutex
	closed  bool
	sim     *gpu.SimulatePipeline
	sprites *gpu.SpritePipeline
	surface Surface

	params   *gpu.Buffer
	uniforms *gpu.Buffer
	slots    []frameSlot

	particles     *gpu.Buffer
	particleCount int
	spawnHash     uint64
	spawnsSynced  bool

	fieldBuf     *gpu.Buffer
	fieldCap     int
	fieldCount   int
	fieldHash    uint64
	fieldsSynced bool

	retired        []retiredResource
	lastSubmission uint64

	frame   uint64
	last    time.Time
	started bool
	elapsed float32

	stats counters
}

// frameSlot is one rotation entry: its uniform regions, the bind groups
// that read them and the command buffer last submitted from it.
type frameSlot struct {
	simGroup   hal.BindGroup
	drawGroup  hal.BindGroup
	cmd        hal.CommandBuffer
	submission uint64
}

// retiredResource is a buffer or bind group that in-flight frames may still
// reference. It is destroyed once submission has completed and the slot
// rotation has moved past frame.
type retiredResource struct {
	buffer     *gpu.Buffer
	group      hal.BindGroup
	submission uint64
	frame      uint64
}

// New creates an engine on an existing device and builds its compute
// pipeline. Rendering starts once a surface is attached.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Engine, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{device: device, queue: queue, opts: o}
	e.Apply(particlize.NewScene())

	sim, err := gpu.NewSimulatePipeline(device, o.spirv)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	e.sim = sim

	if err := e.createUniforms(); err != nil {
		e.sim.Destroy()
		return nil, err
	}
	e.slots = make([]frameSlot, o.framesInFlight)

	particlize.Logger().Info("engine created",
		"framesInFlight", o.framesInFlight, "maxDelta", o.maxDelta, "spirv", o.spirv)
	return e, nil
}

// MustNew is like New but panics on error.
func MustNew(device hal.Device, queue hal.Queue, opts ...Option) *Engine {
	e, err := New(device, queue, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// NewFromProvider creates an engine on the device of a host that exposes
// its hal device and queue (HalDevice and HalQueue methods).
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, ErrNoDevice
	}
	device, queue, err := gpu.FromProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	return New(device, queue, opts...)
}

// OpenDevice opens a standalone Vulkan device and creates an engine that
// owns it; Close releases the device too.
func OpenDevice(opts ...Option) (*Engine, error) {
	return openBackend(gputypes.BackendVulkan, opts...)
}

func openBackend(backend gputypes.Backend, opts ...Option) (*Engine, error) {
	d, err := gpu.Open(backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	e, err := New(d.Device, d.Queue, opts...)
	if err != nil {
		d.Close()
		return nil, err
	}
	e.owned = d
	return e, nil
}

// Device returns the device the engine renders with.
func (e *Engine) Device() hal.Device { return e.device }

// Queue returns the queue the engine submits to.
func (e *Engine) Queue() hal.Queue { return e.queue }

func (e *Engine) createUniforms() error {
	params, err := gpu.NewUniformBuffer(e.device, "sim_params", e.opts.framesInFlight)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	uniforms, err := gpu.NewUniformBuffer(e.device, "render_uniforms", e.opts.framesInFlight)
	if err != nil {
		params.Release(e.device)
		return fmt.Errorf("engine: %w", err)
	}
	e.params, e.uniforms = params, uniforms
	return nil
}

// Attach builds the render pipeline for surface and makes it the frame
// target. Attaching a surface with a different format rebuilds the
// pipeline.
func (e *Engine) Attach(surface Surface) error {
	if surface == nil {
		return ErrNoSurface
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	format := surface.Format()
	if e.sprites == nil || e.sprites.Format() != format {
		sprites, err := gpu.NewSpritePipeline(e.device, format, e.opts.spirv)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPipeline, err)
		}
		if e.sprites != nil {
			e.drainLocked()
			e.releaseGroupsLocked()
			e.sprites.Destroy()
		}
		e.sprites = sprites
	}
	e.surface = surface
	w, h := surface.Size()
	particlize.Logger().Info("surface attached", "format", format, "width", w, "height", h)
	return nil
}

// Close waits for the GPU, then releases every resource the engine
// created, including a device opened by OpenDevice. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true

	e.drainLocked()
	e.releaseGroupsLocked()
	for _, r := range e.retired {
		e.destroyRetired(r)
	}
	e.retired = nil

	e.particles.Release(e.device)
	e.fieldBuf.Release(e.device)
	e.params.Release(e.device)
	e.uniforms.Release(e.device)
	e.sprites.Destroy()
	e.sim.Destroy()
	e.surface = nil

	if e.owned != nil {
		e.owned.Close()
		e.owned = nil
	}
	particlize.Logger().Info("engine closed", "frames", e.stats.frames.Load())
}

// drainLocked waits for all submitted frames and frees their command
// buffers.
func (e *Engine) drainLocked() {
	if err := e.device.WaitIdle(); err != nil {
		particlize.Logger().Warn("wait idle failed", "err", err)
	}
	for i := range e.slots {
		if e.slots[i].cmd != nil {
			e.device.FreeCommandBuffer(e.slots[i].cmd)
			e.slots[i].cmd = nil
		}
	}
}

// releaseGroupsLocked destroys the bind groups of every slot. Callers have
// drained the device first.
func (e *Engine) releaseGroupsLocked() {
	for i := range e.slots {
		s := &e.slots[i]
		if s.simGroup != nil {
			e.device.DestroyBindGroup(s.simGroup)
			s.simGroup = nil
		}
		if s.drawGroup != nil {
			e.device.DestroyBindGroup(s.drawGroup)
			s.drawGroup = nil
		}
	}
}

// retireGroupsLocked hands the bind groups of every slot to the retirement
// list. Used when a buffer they reference is replaced.
func (e *Engine) retireGroupsLocked() {
	for i := range e.slots {
		s := &e.slots[i]
		if s.simGroup != nil {
			e.retire(retiredResource{group: s.simGroup})
			s.simGroup = nil
		}
		if s.drawGroup != nil {
			e.retire(retiredResource{group: s.drawGroup})
			s.drawGroup = nil
		}
	}
}

func (e *Engine) retire(r retiredResource) {
	r.submission = e.lastSubmission
	r.frame = e.frame
	e.retired = append(e.retired, r)
}

// collectRetired destroys retired resources that no frame in flight can
// still reference.
func (e *Engine) collectRetired() {
	if len(e.retired) == 0 {
		return
	}
	completed := e.queue.PollCompleted()
	n := uint64(len(e.slots))
	kept := e.retired[:0]
	for _, r := range e.retired {
		if r.submission <= completed && e.frame >= r.frame+n {
			e.destroyRetired(r)
			continue
		}
		kept = append(kept, r)
	}
	clear(e.retired[len(kept):])
	e.retired = kept
}

func (e *Engine) destroyRetired(r retiredResource) {
	if r.group != nil {
		e.device.DestroyBindGroup(r.group)
	}
	r.buffer.Release(e.device)
}

// Stats is a snapshot of engine counters.
type Stats struct {
	// Frames is the number of frames submitted.
	Frames uint64
	// Dropped is the number of frames skipped for lack of a drawable.
	Dropped uint64
	// FieldUploads counts writes of the field buffer.
	FieldUploads uint64
	// ParticleUploads counts writes of a new particle buffer.
	ParticleUploads uint64
	// Dispatches counts recorded compute passes.
	Dispatches uint64
	// Draws counts recorded sprite draws.
	Draws uint64
	// Particles is the current particle count.
	Particles int
	// Fields is the current number of field descriptors.
	Fields int
}

type counters struct {
	frames          atomic.Uint64
	dropped         atomic.Uint64
	fieldUploads    atomic.Uint64
	particleUploads atomic.Uint64
	dispatches      atomic.Uint64
	draws           atomic.Uint64
	particles       atomic.Int64
	fields          atomic.Int64
}

// Stats returns the current counters. Safe for concurrent use.
func (e *Engine) Stats() Stats {
	return Stats{
		Frames:          e.stats.frames.Load(),
		Dropped:         e.stats.dropped.Load(),
		FieldUploads:    e.stats.fieldUploads.Load(),
		ParticleUploads: e.stats.particleUploads.Load(),
		Dispatches:      e.stats.dispatches.Load(),
		Draws:           e.stats.draws.Load(),
		Particles:       int(e.stats.particles.Load()),
		Fields:          int(e.stats.fields.Load()),
	}
}

// Particles reads the current particle state back from the GPU. It waits
// for all submitted frames.
func (e *Engine) Particles() ([]particlize.Particle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.particles == nil || e.particleCount == 0 {
		return nil, nil
	}
	raw, err := gpu.ReadBuffer(e.device, e.queue, e.particles, uint64(e.particleCount)*particlize.ParticleSize)
	if err != nil {
		return nil, fmt.Errorf("engine: read particles: %w", err)
	}
	return particlize.UnmarshalParticles(raw), nil
}

// isNoDrawable reports whether err means the frame should be dropped.
func isNoDrawable(err error) bool {
	return errors.Is(err, ErrNoDrawable)
}
