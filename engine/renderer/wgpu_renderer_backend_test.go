package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestSamplerDescriptorNearestClamp(t *testing.T) {
	desc := samplerDescriptor("Palette Sampler", NearestClampSampler)

	if desc.Label != "Palette Sampler" {
		t.Errorf("Label = %q", desc.Label)
	}
	if desc.MagFilter != wgpu.FilterModeNearest || desc.MinFilter != wgpu.FilterModeNearest {
		t.Errorf("filters = %v/%v, want nearest", desc.MagFilter, desc.MinFilter)
	}
	if desc.MipmapFilter != wgpu.MipmapFilterModeNearest {
		t.Errorf("MipmapFilter = %v, want nearest", desc.MipmapFilter)
	}
	for i, mode := range []wgpu.AddressMode{desc.AddressModeU, desc.AddressModeV, desc.AddressModeW} {
		if mode != wgpu.AddressModeClampToEdge {
			t.Errorf("address mode %d = %v, want clamp to edge", i, mode)
		}
	}
}

func TestSamplerDescriptorDefaults(t *testing.T) {
	desc := samplerDescriptor("s", SamplerStagingData{})

	if desc.LodMaxClamp != 32 {
		t.Errorf("LodMaxClamp = %v, want 32", desc.LodMaxClamp)
	}
	if desc.MaxAnisotropy != 1 {
		t.Errorf("MaxAnisotropy = %v, want 1", desc.MaxAnisotropy)
	}
	if desc.MagFilter != wgpu.FilterModeNearest || desc.AddressModeU != wgpu.AddressModeRepeat {
		t.Errorf("zero staging data = %v/%v, want nearest and repeat", desc.MagFilter, desc.AddressModeU)
	}

	linear := samplerDescriptor("s", SamplerStagingData{
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   4,
		MaxAnisotropy: 8,
	})
	if linear.MagFilter != wgpu.FilterModeLinear || linear.MipmapFilter != wgpu.MipmapFilterModeLinear {
		t.Errorf("linear filters not kept: %v/%v", linear.MagFilter, linear.MipmapFilter)
	}
	if linear.LodMaxClamp != 4 || linear.MaxAnisotropy != 8 {
		t.Errorf("clamp/anisotropy = %v/%v, want 4/8", linear.LodMaxClamp, linear.MaxAnisotropy)
	}
}
