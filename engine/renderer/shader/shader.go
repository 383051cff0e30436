package shader

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// ErrMissingSource is returned by NewShader when no WGSL source was provided.
var ErrMissingSource = errors.New("shader has no source")

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation.
type shader struct {
	key        string
	source     string
	sourcePath string
	shaderType ShaderType
	entryPoint string

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
}

// Shader is one WGSL entry point together with the resource layout it expects: the bind group
// layouts per group index and, for vertex shaders, the vertex buffer layouts.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and debug labels.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// BindGroupLayoutDescriptors retrieves the bind group layout descriptors this stage uses, keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts retrieves the vertex buffer layouts consumed by a vertex shader.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts in vertex buffer slot order
	VertexLayouts() []wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader creates a new Shader from WithSource parts followed by the WithSourceFromPath file, if any.
// The entry point is the first function carrying the stage's attribute.
// When no entry point is configured it is parsed from the first @vertex or @fragment function.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage of the shader
//   - options: functional options (source, layouts)
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
//   - error: ErrMissingSource, a read error, or an error if no entry point could be found
func NewShader(key string, shaderType ShaderType, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:                        key,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	for _, opt := range options {
		opt(s)
	}

	if s.sourcePath != "" {
		data, err := os.ReadFile(s.sourcePath)
		if err != nil {
			return nil, fmt.Errorf("shader %s: failed to read source file %q: %w", key, s.sourcePath, err)
		}
		if s.source == "" {
			s.source = string(data)
		} else {
			s.source += "\n" + string(data)
		}
	}
	if strings.TrimSpace(s.source) == "" {
		return nil, fmt.Errorf("shader %s: %w", key, ErrMissingSource)
	}

	s.entryPoint = parseEntryPoint(s.source, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point found for stage %d", key, shaderType)
	}

	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

// parseEntryPoint finds the name of the first function tagged with the stage attribute.
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := lineCommentRegex.ReplaceAllString(blockCommentRegex.ReplaceAllString(source, ""), "")

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}
