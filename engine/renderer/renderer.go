package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/uniform_ring"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           ClearColor
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device and the window surface, caches registered pipelines by key,
// and drives a single render pass per frame: BeginFrame, DrawCall, EndFrame, then Present.
// Work submitted by EndFrame completes asynchronously; its callback is dispatched from Poll.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each Pipeline via the backend and caches
	// it by PipelineKey. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size.
	// A zero width or height leaves the surface unconfigured; BeginFrame then reports ErrSurfaceUnavailable.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads vertex data into an immutable vertex buffer stored on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffer on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - vertexCount: the number of vertices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error

	// InitBindGroup creates a bind group from a layout descriptor and stores it on the given
	// BindGroupProvider. Textures and samplers must be initialized via InitTextureView and
	// InitSampler before calling this method.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView creates a GPU texture from staging data and stores the resulting texture view
	// on the given BindGroupProvider at the specified binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData SamplerStagingData) error

	// UniformRegionAllocator returns a RegionAllocator that backs each ring region with its own
	// zero-initialized uniform buffer and bind group. Every buffer binding in descriptor refers to the
	// region's single buffer, so the same bytes are visible to each declared shader stage.
	//
	// Parameters:
	//   - descriptor: the bind group layout the regions are bound with
	//
	// Returns:
	//   - uniform_ring.RegionAllocator: the allocator to pass to uniform_ring.NewUniformRing
	UniformRegionAllocator(descriptor wgpu.BindGroupLayoutDescriptor) uniform_ring.RegionAllocator

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and begins the frame's render pass.
	//
	// Returns:
	//   - error: ErrSurfaceUnavailable when no surface texture can be acquired this frame
	BeginFrame() error

	// DrawCall encodes a single draw of the mesh with the cached pipeline.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached Pipeline
	//   - meshProvider: the BindGroupProvider holding the vertex buffer
	//   - bindGroups: bind group providers set at group indices 0..n-1
	//
	// Returns:
	//   - error: ErrPipelineNotFound if the pipeline is not cached, or ErrNoFrame outside a frame
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits it. onDone runs from a later Poll once the GPU
	// has finished the submitted work.
	//
	// Parameters:
	//   - onDone: the completion callback, may be nil
	//
	// Returns:
	//   - error: an error if the frame could not be submitted; onDone will not run
	EndFrame(onDone func()) error

	// AbortFrame discards the encoded frame without submitting it.
	AbortFrame()

	// Present presents the submitted frame to the display.
	Present()

	// Poll dispatches completion callbacks for finished GPU work without blocking.
	Poll()

	// WaitIdle blocks until all submitted GPU work has finished and dispatches its completion callbacks.
	WaitIdle()

	// Release waits for outstanding GPU work, then frees the pipelines and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer bound to the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and framebuffer size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured Renderer
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		sampleCount:   MSAAOff,
		clearColor:    DefaultClearColor,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	descriptor := window.SurfaceDescriptor()
	if descriptor == nil {
		return nil, fmt.Errorf("%w: window has no surface", ErrSurfaceUnavailable)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(descriptor, r.forceFallbackAdapter, r.sampleCount, r.clearColor)
	}
	if err != nil {
		return nil, fmt.Errorf("create renderer backend: %w", err)
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(window.Width(), window.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("configure surface: %w", err)
	}

	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, vertexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) UniformRegionAllocator(descriptor wgpu.BindGroupLayoutDescriptor) uniform_ring.RegionAllocator {
	return func(index int, size uint64, label string) (uniform_ring.Region, error) {
		binding, err := firstBinding(descriptor)
		if err != nil {
			return nil, err
		}

		provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s %d", label, index))
		if err := r.backend.InitUniformBuffer(provider, descriptor, size); err != nil {
			provider.Release()
			return nil, err
		}

		return &uniformRegion{
			provider: provider,
			binding:  binding,
			size:     size,
			writer:   r,
		}, nil
	}
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %q", ErrPipelineNotFound, pipelineKey)
	}

	return r.backend.DrawCall(p, meshProvider, bindGroups)
}

func (r *renderer) EndFrame(onDone func()) error {
	return r.backend.EndFrame(onDone)
}

func (r *renderer) AbortFrame() {
	r.backend.AbortFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Poll() {
	r.backend.Poll()
}

func (r *renderer) WaitIdle() {
	r.backend.WaitIdle()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()

	r.backend.Release()
}
