package shader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = `
// @vertex fn commented_out() {}
/* @fragment fn also_commented() {} */
@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position, 1.0);
}

@fragment fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestNewShaderParsesEntryPoints(t *testing.T) {
	tests := []struct {
		shaderType ShaderType
		want       string
	}{
		{ShaderTypeVertex, "vs_main"},
		{ShaderTypeFragment, "fs_main"},
	}
	for _, tt := range tests {
		s, err := NewShader("test", tt.shaderType, WithSource(testSource))
		if err != nil {
			t.Fatalf("NewShader(%d): %v", tt.shaderType, err)
		}
		if s.EntryPoint() != tt.want {
			t.Errorf("EntryPoint = %q, want %q", s.EntryPoint(), tt.want)
		}
	}
}

func TestNewShaderOptions(t *testing.T) {
	layout := wgpu.BindGroupLayoutDescriptor{
		Label: "uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		},
	}
	s, err := NewShader("custom", ShaderTypeVertex,
		WithSource("struct A { x: f32 };", testSource),
		WithBindGroupLayout(0, layout),
		WithVertexLayout(wgpu.VertexBufferLayout{ArrayStride: 12}),
	)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.EntryPoint() != "vs_main" {
		t.Errorf("EntryPoint = %q, want vs_main", s.EntryPoint())
	}
	if s.Source()[:20] != "struct A { x: f32 };" {
		t.Errorf("source parts not joined in order: %q", s.Source()[:20])
	}
	if got := s.BindGroupLayoutDescriptors()[0].Label; got != "uniforms" {
		t.Errorf("group 0 label = %q", got)
	}
	if len(s.VertexLayouts()) != 1 || s.VertexLayouts()[0].ArrayStride != 12 {
		t.Errorf("VertexLayouts = %+v", s.VertexLayouts())
	}
	if s.Key() != "custom" || s.ShaderType() != ShaderTypeVertex {
		t.Errorf("Key/ShaderType = %q/%d", s.Key(), s.ShaderType())
	}
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wgsl")
	if err := os.WriteFile(path, []byte(testSource), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewShader("file", ShaderTypeFragment, WithSourceFromPath(path))
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.EntryPoint() != "fs_main" {
		t.Errorf("EntryPoint = %q", s.EntryPoint())
	}
}

func TestNewShaderPrependsSourceToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.wgsl")
	if err := os.WriteFile(path, []byte(testSource), 0o644); err != nil {
		t.Fatal(err)
	}
	const prefix = "struct A { x: f32 };"
	s, err := NewShader("prefixed", ShaderTypeVertex, WithSource(prefix), WithSourceFromPath(path))
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if want := prefix + "\n" + testSource; s.Source() != want {
		t.Errorf("Source = %q, want prefix then file body", s.Source())
	}
	if s.EntryPoint() != "vs_main" {
		t.Errorf("EntryPoint = %q, want vs_main", s.EntryPoint())
	}
}

func TestNewShaderErrors(t *testing.T) {
	if _, err := NewShader("empty", ShaderTypeVertex); !errors.Is(err, ErrMissingSource) {
		t.Errorf("no source: err = %v, want ErrMissingSource", err)
	}
	if _, err := NewShader("missing", ShaderTypeVertex, WithSourceFromPath(filepath.Join(t.TempDir(), "nope.wgsl"))); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want os.ErrNotExist", err)
	}
	if _, err := NewShader("no entry", ShaderTypeVertex, WithSource("struct A { x: f32 };")); err == nil {
		t.Error("no entry point: expected error")
	}
}
