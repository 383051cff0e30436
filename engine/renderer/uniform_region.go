package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/uniform_ring"
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformRegion is a ring region backed by a GPU uniform buffer.
// Provider exposes the bind group that binds the region's buffer for a draw call.
type UniformRegion interface {
	uniform_ring.Region

	// Provider returns the BindGroupProvider holding the region's buffer and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider to pass to DrawCall
	Provider() bind_group_provider.BindGroupProvider
}

// bufferWriter is the part of the Renderer a region writes through.
type bufferWriter interface {
	WriteBuffers(writes []bind_group_provider.BufferWrite)
}

type uniformRegion struct {
	provider bind_group_provider.BindGroupProvider
	binding  int
	size     uint64
	writer   bufferWriter
}

var _ UniformRegion = &uniformRegion{}

func (u *uniformRegion) Label() string {
	return u.provider.Label()
}

func (u *uniformRegion) Size() uint64 {
	return u.size
}

func (u *uniformRegion) Provider() bind_group_provider.BindGroupProvider {
	return u.provider
}

func (u *uniformRegion) Write(data []byte) error {
	if u.provider.Buffer(u.binding) == nil {
		return fmt.Errorf("region %q has been released", u.provider.Label())
	}
	u.writer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: u.provider,
		Binding:  u.binding,
		Offset:   0,
		Data:     data,
	}})
	return nil
}

func (u *uniformRegion) Release() {
	u.provider.Release()
}

// firstBinding returns the lowest binding index declared by descriptor, which is where the region's buffer is stored.
func firstBinding(descriptor wgpu.BindGroupLayoutDescriptor) (int, error) {
	if len(descriptor.Entries) == 0 {
		return 0, fmt.Errorf("uniform layout %q has no entries", descriptor.Label)
	}
	first := int(descriptor.Entries[0].Binding)
	for _, e := range descriptor.Entries[1:] {
		if int(e.Binding) < first {
			first = int(e.Binding)
		}
	}
	return first, nil
}
