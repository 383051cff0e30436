package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-mandelbrot/common"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	width, height int
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount
	clearColor    ClearColor

	// Frame state between BeginFrame and Present.
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	// A zero width or height leaves the surface unconfigured until the next non-zero size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the MSAA target could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the shader modules, bind group layouts, pipeline layout, and render
	// pipeline for p, and stores the GPU pipeline on p.
	//
	// Parameters:
	//   - p: the pipeline object containing the shaders and configuration for the pipeline
	//
	// Returns:
	//   - error: an error if the pipeline could not be created, otherwise nil
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex data into an immutable vertex buffer stored on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created vertex buffer on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - vertexCount: the number of vertices represented in vertexData
	//
	// Returns:
	//   - error: an error if the buffer could not be created, otherwise nil
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error

	// InitBindGroup creates the bind group described by descriptor from the texture views, samplers, and
	// buffers already stored on the provider. Missing uniform buffers are created at MinBindingSize.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding the resources and receiving the bind group
	//   - descriptor: the BindGroupLayoutDescriptor describing the layout of the bind group
	//
	// Returns:
	//   - error: an error if the bind group could not be initialized, otherwise nil
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitUniformBuffer creates one zero-initialized uniform buffer of the given size and a bind group
	// in which every buffer binding of descriptor refers to that same buffer.
	//
	// Parameters:
	//   - provider: the BindGroupProvider receiving the buffer and bind group
	//   - descriptor: the layout whose buffer entries all alias the new buffer
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: an error if the buffer or bind group could not be created
	InitUniformBuffer(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, size uint64) error

	// InitTextureView creates a GPU texture and texture view based on the provided staging data, and stores them on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the raw RGBA texels and size
	//
	// Returns:
	//   - error: an error if the texture view could not be created or initialized, otherwise nil
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData TextureStagingData) error

	// InitSampler creates a GPU sampler based on the provided staging data, and stores it on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if the sampler could not be created or initialized, otherwise nil
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass. A swapchain texture held by an aborted frame is reused.
	//
	// Returns:
	//   - error: ErrSurfaceUnavailable if no swapchain texture is available this frame
	BeginFrame() error

	// DrawCall encodes one non-indexed draw of the mesh within the current render pass.
	//
	// Parameters:
	//   - p: the registered Pipeline to draw with
	//   - meshProvider: the BindGroupProvider holding the vertex buffer
	//   - bindGroups: BindGroupProviders set at group indices 0..n-1
	//
	// Returns:
	//   - error: ErrNoFrame if called outside BeginFrame/EndFrame
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass, submits the command buffer, and registers onDone to run once the
	// GPU finished the submitted work. onDone runs during a later Poll. If EndFrame fails, onDone never runs.
	//
	// Parameters:
	//   - onDone: the completion callback, may be nil
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame(onDone func()) error

	// AbortFrame ends the render pass without submitting it. The swapchain texture stays
	// acquired and is reused by the next BeginFrame.
	AbortFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Poll dispatches pending GPU callbacks without blocking.
	Poll()

	// WaitIdle blocks until all submitted work has finished, then dispatches its callbacks.
	WaitIdle()

	// Release frees the device, surface, and every frame resource.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor ClearColor) (wgpuRendererBackend, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  clearColor,
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		w.surface.Release()
		w.instance.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		w.adapter.Release()
		w.surface.Release()
		w.instance.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	common.Logger().Info("gpu device ready",
		"fallback_adapter", forceFallbackAdapter,
		"msaa", uint32(sampleCount))

	return w, nil
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.width, b.height = width, height
	return b.configureSurfaceLocked()
}

// configureSurfaceLocked (re)configures the surface for b.width x b.height. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) configureSurfaceLocked() error {
	b.releaseFrameLocked()

	if b.width <= 0 || b.height <= 0 {
		return nil
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	if b.surfaceFormat == nil {
		b.surfaceFormat = &capabilities.Formats[0]
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(b.width),
		Height:      uint32(b.height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(b.width),
				Height:             uint32(b.height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("create msaa texture: %w", err)
		}
		view, err := msaaTexture.CreateView(nil)
		if err != nil {
			msaaTexture.Release()
			return fmt.Errorf("create msaa texture view: %w", err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView = view
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // resolved into the swapchain view
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		Label: "Fractal Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue: wgpu.Color{
					R: b.clearColor.R, G: b.clearColor.G, B: b.clearColor.B, A: b.clearColor.A,
				},
			},
		},
	}

	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before registering a render pipeline")
	}

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: vertexShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexShader.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("compile %s: %w", vertexShader.Key(), err)
	}
	defer vs.Release()

	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fragmentShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fragmentShader.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("compile %s: %w", fragmentShader.Key(), err)
	}
	defer fs.Release()

	merged := p.BindGroupLayoutDescriptors()
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, len(merged))
	defer func() {
		for _, layout := range bindGroupLayouts {
			if layout != nil {
				layout.Release()
			}
		}
	}()
	for g := range bindGroupLayouts {
		desc, ok := merged[g]
		if !ok {
			return fmt.Errorf("pipeline %s: bind group %d is not declared but a higher group is", p.PipelineKey(), g)
		}
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	target := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline %s: %w", p.PipelineKey(), err)
	}

	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) == 0 {
		return fmt.Errorf("%s: no vertex data", provider.Label())
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            provider.Label() + " Vertex Buffer",
		Size:             uint64(len(vertexData)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(buf, 0, vertexData)
	provider.SetVertexBuffer(buf, vertexCount)

	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		switch {
		case isTexture:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("texture binding %d has no texture view, call InitTextureView first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tv,
			}
		case isSampler:
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("sampler binding %d has no sampler, call InitSampler first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		default:
			buf := provider.Buffer(binding)
			if buf == nil {
				var bufErr error
				buf, bufErr = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: fmt.Sprintf("%s Buffer %d", provider.Label(), binding),
					Size:  entry.Buffer.MinBindingSize,
					Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
				})
				if bufErr != nil {
					return bufErr
				}
				provider.SetBuffer(binding, buf)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	return b.createBindGroupLocked(provider, descriptor, bindGroupEntries)
}

func (b *wgpuRendererBackendImpl) InitUniformBuffer(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return fmt.Errorf("%s: uniform layout has no entries", provider.Label())
	}

	// WebGPU zero-initializes new buffers.
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label(),
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	first := -1
	for i, entry := range descriptor.Entries {
		if entry.Buffer.Type == wgpu.BufferBindingTypeUndefined {
			buf.Release()
			return fmt.Errorf("%s: binding %d is not a buffer binding", provider.Label(), entry.Binding)
		}
		if first < 0 || int(entry.Binding) < first {
			first = int(entry.Binding)
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Offset:  0,
			Size:    size,
		}
	}
	provider.SetBuffer(first, buf)

	return b.createBindGroupLocked(provider, descriptor, entries)
}

// createBindGroupLocked creates the provider's layout on first use and then its bind group. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) createBindGroupLocked(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, entries []wgpu.BindGroupEntry) error {
	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if want := int(stagingData.Width * stagingData.Height * 4); len(stagingData.Pixels) != want {
		return fmt.Errorf("%s: texture data is %d bytes, want %d", provider.Label(), len(stagingData.Pixels), want)
	}

	size := wgpu.Extent3D{
		Width:              stagingData.Width,
		Height:             stagingData.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         provider.Label() + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	provider.SetTexture(bindingKey, tex, view)

	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	desc := samplerDescriptor(provider.Label()+" Sampler", samplerStagingData)
	samp, err := b.device.CreateSampler(&desc)
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)

	return nil
}

// samplerDescriptor builds the descriptor for a staged sampler. Address and filter modes pass through
// as given; only the LOD ceiling and the anisotropy level get defaults.
func samplerDescriptor(label string, data SamplerStagingData) wgpu.SamplerDescriptor {
	return wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  data.AddressModeU,
		AddressModeV:  data.AddressModeV,
		AddressModeW:  data.AddressModeW,
		MagFilter:     data.MagFilter,
		MinFilter:     data.MinFilter,
		MipmapFilter:  data.MipmapFilter,
		LodMinClamp:   data.LodMinClamp,
		LodMaxClamp:   common.Coalesce(data.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(data.MaxAnisotropy, 1),
	}
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass != nil {
		return errors.New("previous frame not ended")
	}
	if b.width <= 0 || b.height <= 0 || b.renderPassDescriptor == nil {
		return fmt.Errorf("%w: surface is %dx%d", ErrSurfaceUnavailable, b.width, b.height)
	}

	// An aborted frame keeps its swapchain texture; acquiring a second one would fail.
	if b.frameSurface == nil {
		surfaceTexture, err := b.surface.GetCurrentTexture()
		if err != nil {
			// Outdated or lost surfaces recover after a reconfigure; try again next frame.
			if cfgErr := b.configureSurfaceLocked(); cfgErr != nil {
				return cfgErr
			}
			return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
		}

		view, err := surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return err
		}
		b.frameSurface = surfaceTexture
		b.frameView = view
	}

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "Frame Encoder",
	})
	if err != nil {
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = b.frameView
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = b.frameView
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)

	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	bindGroups []bind_group_provider.BindGroupProvider,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	renderPipeline := p.RenderPipeline()
	if renderPipeline == nil {
		return fmt.Errorf("%w: %s is not registered", ErrPipelineNotFound, p.PipelineKey())
	}

	b.framePass.SetPipeline(renderPipeline)

	for i, bg := range bindGroups {
		if bg.BindGroup() == nil {
			return fmt.Errorf("bind group %d (%s) is not initialized", i, bg.Label())
		}
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}

	b.framePass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.Draw(uint32(meshProvider.VertexCount()), 1, 0, 0)

	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame(onDone func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}

	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		return fmt.Errorf("finish frame encoder: %w", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	if onDone != nil {
		b.queue.OnSubmittedWorkDone(func(status wgpu.QueueWorkDoneStatus) {
			if status != wgpu.QueueWorkDoneStatusSuccess {
				common.Logger().Warn("submitted work finished with non-success status", "status", status)
			}
			onDone()
		})
	}

	return nil
}

func (b *wgpuRendererBackendImpl) AbortFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass != nil {
		b.framePass.End()
		b.framePass = nil
	}
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()
	b.releaseSurfaceTextureLocked()
}

func (b *wgpuRendererBackendImpl) Poll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.device.Poll(false, nil)
}

func (b *wgpuRendererBackendImpl) WaitIdle() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.device.Poll(true, nil)
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device != nil {
		// Flush outstanding completion callbacks before the device goes away.
		b.device.Poll(true, nil)
	}

	b.releaseFrameLocked()
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// releaseFrameLocked drops any half-built frame and the held swapchain texture. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) releaseFrameLocked() {
	if b.framePass != nil {
		b.framePass.End()
		b.framePass = nil
	}
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	b.releaseSurfaceTextureLocked()
}

func (b *wgpuRendererBackendImpl) releaseSurfaceTextureLocked() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}
