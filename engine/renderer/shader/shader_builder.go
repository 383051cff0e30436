package shader

import (
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithSource sets the WGSL source. Several parts are joined with newlines, so shared struct
// definitions can be prepended to a shader body.
//
// Parameters:
//   - parts: the WGSL source fragments in order
//
// Returns:
//   - ShaderBuilderOption: a function that sets the shader source
func WithSource(parts ...string) ShaderBuilderOption {
	return func(s *shader) {
		s.source = strings.Join(parts, "\n")
	}
}

// WithSourceFromPath reads WGSL from a file when the shader is created. The file's contents are
// appended after any WithSource parts.
//
// Parameters:
//   - path: the file path to read WGSL source from
//
// Returns:
//   - ShaderBuilderOption: a function that sets the source path
func WithSourceFromPath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.sourcePath = path
	}
}

// WithBindGroupLayout declares the layout of one bind group used by this stage.
//
// Parameters:
//   - group: the @group index
//   - descriptor: the layout entries of the group
//
// Returns:
//   - ShaderBuilderOption: a function that records the bind group layout
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayout appends a vertex buffer layout. Only meaningful for vertex shaders.
//
// Parameters:
//   - layout: the layout of the next vertex buffer slot
//
// Returns:
//   - ShaderBuilderOption: a function that appends the vertex layout
func WithVertexLayout(layout wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = append(s.vertexLayouts, layout)
	}
}
