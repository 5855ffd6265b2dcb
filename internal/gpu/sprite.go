package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// verticesPerSprite is the vertex count of one instanced quad.
const verticesPerSprite = 6

// SpritePipeline draws every particle as an instanced quad, reading the
// particle buffer directly; there are no vertex buffers.
//
// Bindings:
//
//	0: Uniforms            uniform (vertex)
//	1: array<Particle>     read-only storage (vertex)
type SpritePipeline struct {
	device     hal.Device
	format     gputypes.TextureFormat
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewSpritePipeline builds the sprite pipeline for a colour target format.
func NewSpritePipeline(device hal.Device, format gputypes.TextureFormat, spirv bool) (*SpritePipeline, error) {
	p := &SpritePipeline{device: device, format: format}
	if err := p.create(spirv); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// Format is the colour target format the pipeline was built for.
func (p *SpritePipeline) Format() gputypes.TextureFormat {
	return p.format
}

func (p *SpritePipeline) create(spirv bool) error {
	shader, err := createShader(p.device, "sprite", spriteShaderSource, spirv)
	if err != nil {
		return err
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageVertex, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageVertex, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create sprite pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// BindGroup binds one uniforms slot and the particle buffer.
func (p *SpritePipeline) BindGroup(uniforms *Buffer, slot int, particles *Buffer) (hal.BindGroup, error) {
	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sprite_bind_group",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: uniforms.Binding(SlotOffset(slot), UniformsSize)},
			{Binding: 1, Resource: particles.Binding(0, 0)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create sprite bind group: %w", err)
	}
	return bg, nil
}

// Record draws count sprites into an open render pass.
func (p *SpritePipeline) Record(rp hal.RenderPassEncoder, bg hal.BindGroup, count uint32) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bg, nil)
	rp.Draw(verticesPerSprite, count, 0, 0)
}

// Destroy releases the pipeline objects. Safe to call more than once.
func (p *SpritePipeline) Destroy() {
	if p == nil || p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
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
