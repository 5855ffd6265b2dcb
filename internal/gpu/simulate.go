package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// SimulatePipeline runs the particle simulation kernel.
//
// Bindings:
//
//	0: SimParams           uniform
//	1: array<Field>        read-only storage
//	2: array<Particle>     read-write storage
type SimulatePipeline struct {
	device     hal.Device
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// NewSimulatePipeline compiles the simulation kernel. With spirv set the
// WGSL is translated by naga before it reaches the device.
func NewSimulatePipeline(device hal.Device, spirv bool) (*SimulatePipeline, error) {
	p := &SimulatePipeline{device: device}
	if err := p.create(spirv); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *SimulatePipeline) create(spirv bool) error {
	shader, err := createShader(p.device, "simulate", simulateShaderSource, spirv)
	if err != nil {
		return err
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "simulate_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create simulate bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "simulate_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create simulate pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "simulate_pipeline",
		Layout:  p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create simulate pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// BindGroup binds one params slot, the field buffer and the particle
// buffer.
func (p *SimulatePipeline) BindGroup(params *Buffer, slot int, fields, particles *Buffer) (hal.BindGroup, error) {
	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "simulate_bind_group",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: params.Binding(SlotOffset(slot), ParamsSize)},
			{Binding: 1, Resource: fields.Binding(0, 0)},
			{Binding: 2, Resource: particles.Binding(0, 0)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create simulate bind group: %w", err)
	}
	return bg, nil
}

// Record encodes one compute pass that advances count particles.
func (p *SimulatePipeline) Record(encoder hal.CommandEncoder, bg hal.BindGroup, count uint32) {
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "simulate_pass"})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(WorkgroupCount(count), 1, 1)
	pass.End()
}

// Destroy releases the pipeline objects. Safe to call more than once.
func (p *SimulatePipeline) Destroy() {
	if p == nil || p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
