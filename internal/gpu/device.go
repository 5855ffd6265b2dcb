package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan backend for standalone devices.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Errors returned while acquiring a device.
var (
	// ErrNoBackend is returned when the requested backend is not compiled in.
	ErrNoBackend = errors.New("gpu: backend not available")

	// ErrNoAdapter is returned when the backend exposes no adapter.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrNoHAL is returned when a device provider does not expose hal types.
	ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")
)

// Device is a device opened by this package. Close releases it.
type Device struct {
	Device   hal.Device
	Queue    hal.Queue
	Name     string
	instance hal.Instance
}

// Open creates an instance of backend, picks a discrete or integrated
// adapter when there is one and opens it with default limits.
func Open(backend gputypes.Backend) (*Device, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNoBackend, backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	slogger().Info("gpu device opened", "adapter", selected.Info.Name, "backend", backend)
	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Name:     selected.Info.Name,
		instance: instance,
	}, nil
}

// Close waits for the device to go idle and releases it.
func (d *Device) Close() {
	if d.Device != nil {
		_ = d.Device.WaitIdle()
		d.Device.Destroy()
		d.Device = nil
		d.Queue = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}

// FromProvider extracts the hal device and queue from a host that exposes
// them through HalDevice and HalQueue.
func FromProvider(provider any) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}
	return device, queue, nil
}
