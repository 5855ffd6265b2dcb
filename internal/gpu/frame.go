package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Dispatch is one recorded simulation step.
type Dispatch struct {
	Pipeline *SimulatePipeline
	Group    hal.BindGroup
	Count    uint32
}

// Draw is one recorded sprite draw.
type Draw struct {
	Pipeline *SpritePipeline
	Group    hal.BindGroup
	Count    uint32
}

// FrameCommands describes everything a frame records: an optional compute
// pass followed by a render pass that clears Target to Clear and optionally
// draws sprites.
type FrameCommands struct {
	Label    string
	Simulate *Dispatch
	Target   hal.TextureView
	Clear    gputypes.Color
	Sprites  *Draw
}

// EncodeFrame records cmds into a single command buffer. Compute runs
// before render because both passes share one encoder.
func EncodeFrame(device hal.Device, cmds *FrameCommands) (hal.CommandBuffer, error) {
	if cmds.Target == nil {
		return nil, fmt.Errorf("encode frame: no target view")
	}
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: cmds.Label + "_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(cmds.Label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	if d := cmds.Simulate; d != nil && d.Count > 0 {
		d.Pipeline.Record(encoder, d.Group, d.Count)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: cmds.Label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       cmds.Target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: cmds.Clear,
		}},
	})
	if d := cmds.Sprites; d != nil && d.Count > 0 {
		d.Pipeline.Record(rp, d.Group, d.Count)
	}
	rp.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmd, nil
}
