package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const source = `
@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }
@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`

func uniformEntry(binding uint32, stage wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: stage,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
	}
}

func TestBindGroupLayoutDescriptorsMerge(t *testing.T) {
	vs, err := shader.NewShader("vs", shader.ShaderTypeVertex, shader.WithSource(source),
		shader.WithBindGroupLayout(0, wgpu.BindGroupLayoutDescriptor{
			Label:   "params",
			Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex), uniformEntry(2, wgpu.ShaderStageVertex)},
		}))
	if err != nil {
		t.Fatal(err)
	}
	fs, err := shader.NewShader("fs", shader.ShaderTypeFragment, shader.WithSource(source),
		shader.WithBindGroupLayout(0, wgpu.BindGroupLayoutDescriptor{
			Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(1, wgpu.ShaderStageFragment), uniformEntry(2, wgpu.ShaderStageFragment)},
		}),
		shader.WithBindGroupLayout(1, wgpu.BindGroupLayoutDescriptor{Label: "palette"}))
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline("test", WithVertexShader(vs), WithFragmentShader(fs))
	merged := p.BindGroupLayoutDescriptors()

	if len(merged) != 2 {
		t.Fatalf("merged %d groups, want 2", len(merged))
	}
	if merged[1].Label != "palette" {
		t.Errorf("group 1 label = %q", merged[1].Label)
	}

	g0 := merged[0]
	if g0.Label != "params" {
		t.Errorf("group 0 label = %q", g0.Label)
	}
	if len(g0.Entries) != 3 {
		t.Fatalf("group 0 has %d entries, want 3", len(g0.Entries))
	}
	want := []wgpu.ShaderStage{
		wgpu.ShaderStageVertex,
		wgpu.ShaderStageFragment,
		wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	for i, e := range g0.Entries {
		if e.Binding != uint32(i) {
			t.Errorf("entry %d binding = %d, entries not sorted", i, e.Binding)
		}
		if e.Visibility != want[i] {
			t.Errorf("binding %d visibility = %v, want %v", i, e.Visibility, want[i])
		}
	}
}

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("defaults")

	if p.PipelineKey() != "defaults" {
		t.Errorf("PipelineKey = %q", p.PipelineKey())
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList || p.CullMode() != wgpu.CullModeNone {
		t.Error("unexpected fixed-function defaults")
	}
	if p.Shader(shader.ShaderTypeVertex) != nil || p.RenderPipeline() != nil {
		t.Error("new pipeline should have no shaders or GPU pipeline")
	}
	if len(p.BindGroupLayoutDescriptors()) != 0 {
		t.Error("pipeline without shaders should have no layouts")
	}
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline("opts",
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
	)
	if p.CullMode() != wgpu.CullModeBack || p.Topology() != wgpu.PrimitiveTopologyTriangleStrip {
		t.Error("fixed-function options not applied")
	}
}
