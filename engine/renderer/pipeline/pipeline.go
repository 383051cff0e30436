package pipeline

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the underlying WebGPU render pipeline and the state used to create it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// vertexShader and fragmentShader are required before the pipeline is registered with the Renderer.
	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the Renderer registers this pipeline.
	renderPipeline *wgpu.RenderPipeline

	// The following properties configure the pipeline during creation and can be set with the builder options.

	cullMode wgpu.CullMode
	topology wgpu.PrimitiveTopology
}

// Pipeline describes a render pipeline made of a vertex and a fragment shader plus the fixed-function
// state (topology, culling) used to create it. Output is opaque with counter-clockwise front faces.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for a stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for the stage, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayoutDescriptors merges the bind group layouts of both stages.
	// Entries with the same binding in both stages have their visibility ORed together.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// RenderPipeline returns the created GPU pipeline, or nil if not yet registered.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// SetRenderPipeline stores the GPU pipeline created by the Renderer.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the GPU pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline description. Nothing is created on the GPU until the
// pipeline is registered with the Renderer.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: pipelineKey,
		cullMode:    wgpu.CullModeNone,
		topology:    wgpu.PrimitiveTopologyTriangleList,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	var vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor
	if p.vertexShader != nil {
		vertexLayouts = p.vertexShader.BindGroupLayoutDescriptors()
	}
	if p.fragmentShader != nil {
		fragmentLayouts = p.fragmentShader.BindGroupLayoutDescriptors()
	}
	return mergeBindGroupLayouts(vertexLayouts, fragmentLayouts)
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}

// mergeBindGroupLayouts merges the bind group layout descriptors from a vertex and fragment shader
// into a unified set of descriptors suitable for a render pipeline layout.
//
// For each group index present in either shader:
//   - Entries with the same binding number have their Visibility flags ORed together
//   - Entries unique to one shader are included with their original visibility
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	for g, vDesc := range vertexLayouts {
		merged[g] = vDesc
	}

	for g, fDesc := range fragmentLayouts {
		vDesc, ok := merged[g]
		if !ok {
			merged[g] = fDesc
			continue
		}

		entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry, len(vDesc.Entries)+len(fDesc.Entries))
		for _, e := range vDesc.Entries {
			entryMap[e.Binding] = e
		}
		for _, e := range fDesc.Entries {
			if existing, found := entryMap[e.Binding]; found {
				existing.Visibility |= e.Visibility
				entryMap[e.Binding] = existing
			} else {
				entryMap[e.Binding] = e
			}
		}

		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
		for _, e := range entryMap {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})

		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   vDesc.Label,
			Entries: entries,
		}
	}

	return merged
}
