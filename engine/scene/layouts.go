package scene

import (
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/fractal"
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformLayout is bind group 0: the parameter block, bound once for the vertex stage and once for the fragment stage.
// Both bindings alias the same ring region.
func UniformLayout() wgpu.BindGroupLayoutDescriptor {
	buffer := wgpu.BufferBindingLayout{
		Type:           wgpu.BufferBindingTypeUniform,
		MinBindingSize: fractal.GPUFractalUniformSize,
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Fractal Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex, Buffer: buffer},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Buffer: buffer},
		},
	}
}

// PaletteLayout is bind group 1: the palette strip and its sampler.
func PaletteLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Palette Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// QuadVertexLayout describes the quad's vertex buffer: one vec3 position per vertex.
func QuadVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: fractal.QuadVertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	}
}
