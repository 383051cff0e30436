package scene

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-mandelbrot/common"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/fractal"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/uniform_ring"
	"github.com/cogentcore/webgpu/wgpu"
)

// MandelbrotPipelineKey is the renderer cache key of the fractal pipeline.
const MandelbrotPipelineKey = "mandelbrot"

// Scene is the interactive Mandelbrot view: one full-screen quad whose per-frame parameters stream
// through a ring of uniform regions. It owns the GPU resources of the view and forwards window input
// to the interaction tracker.
// Input and Tick must be called from the goroutine that owns the renderer.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering. Activating marks the view dirty.
	SetActive(active bool)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Tracker returns the interaction state that drives the view.
	Tracker() fractal.InteractionTracker

	// Scheduler returns the frame scheduler.
	Scheduler() fractal.Scheduler

	// Ring returns the ring of uniform regions the parameter block is written into.
	Ring() uniform_ring.UniformRing

	// Tick dispatches finished GPU work, then runs one scheduler tick.
	//
	// Parameters:
	//   - ctx: cancels a blocked region acquire
	//
	// Returns:
	//   - bool: true if a frame was submitted
	//   - error: a frame failure reported by the scheduler
	Tick(ctx context.Context) (bool, error)

	// Resize reconfigures the surface and the aspect ratio for a new framebuffer size.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// OnDrag pans the view by a cursor delta in framebuffer pixels.
	//
	// Parameters:
	//   - dx: horizontal cursor delta
	//   - dy: vertical cursor delta
	OnDrag(dx, dy float32)

	// OnScroll zooms the view by a scroll wheel delta.
	//
	// Parameters:
	//   - delta: the vertical scroll delta
	OnScroll(delta float32)

	// HandleKey applies the view's key bindings: F toggles always-draw, R resets the view,
	// and I logs the view status.
	//
	// Parameters:
	//   - keyCode: the key code from the window
	//
	// Returns:
	//   - bool: true if the key is bound by the view
	HandleKey(keyCode uint32) bool

	// Release closes the ring, waiting for the GPU to return every region first,
	// and frees the view's GPU resources. The renderer itself is not released.
	Release()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	r         renderer.Renderer
	ring      uniform_ring.UniformRing
	tracker   fractal.InteractionTracker
	scheduler fractal.Scheduler
	target    *frameTarget

	width, height int

	// Builder configuration
	inFlightBuffers int
	alwaysDraw      bool
	maxIterations   float32
	dragSensitivity float32
	palette         fractal.Palette
	shaderPath      string

	releaseOnce sync.Once
}

var _ Scene = &scene{}

// NewScene builds the Mandelbrot view on the given renderer: it registers the pipeline, uploads the
// quad and the palette, and allocates the uniform ring.
//
// Parameters:
//   - name: the scene identifier, used in debug labels
//   - r: the renderer to draw with (must not be nil)
//   - width: the initial framebuffer width in pixels
//   - height: the initial framebuffer height in pixels
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error if any GPU resource could not be created; nothing is leaked
func NewScene(name string, r renderer.Renderer, width, height int, options ...SceneBuilderOption) (Scene, error) {
	if r == nil {
		return nil, errors.New("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:              &sync.RWMutex{},
		name:            name,
		active:          true,
		r:               r,
		width:           width,
		height:          height,
		inFlightBuffers: uniform_ring.DefaultInFlightBuffers,
		maxIterations:   fractal.DefaultMaxIterations,
		dragSensitivity: fractal.DefaultDragSensitivity,
		palette:         fractal.Palette{Name: "default"},
	}

	for _, option := range options {
		option(s)
	}

	target := &frameTarget{
		r:           r,
		pipelineKey: MandelbrotPipelineKey,
		mesh:        bind_group_provider.NewBindGroupProvider(name + " Quad"),
		palette:     bind_group_provider.NewBindGroupProvider(name + " Palette " + s.palette.Name),
	}
	target.bindGroups = make([]bind_group_provider.BindGroupProvider, 2)
	s.target = target

	if err := s.init(); err != nil {
		s.Release()
		return nil, err
	}

	common.Logger().Info("scene ready",
		"name", name,
		"regions", s.ring.Size(),
		"max_iterations", s.maxIterations,
		"always_draw", s.alwaysDraw)
	return s, nil
}

// shaderSource returns the source options shared by both stages.
func (s *scene) shaderSource() []shader.ShaderBuilderOption {
	if s.shaderPath != "" {
		return []shader.ShaderBuilderOption{
			shader.WithSource(fractal.GPUFractalUniformSource),
			shader.WithSourceFromPath(s.shaderPath),
		}
	}
	return []shader.ShaderBuilderOption{
		shader.WithSource(fractal.GPUFractalUniformSource, fractal.MandelbrotShaderSource),
	}
}

// init creates the scene's GPU resources in dependency order.
func (s *scene) init() error {
	uniformLayout := UniformLayout()
	paletteLayout := PaletteLayout()

	vs, err := shader.NewShader("Mandelbrot Vertex", shader.ShaderTypeVertex,
		append(s.shaderSource(),
			shader.WithBindGroupLayout(0, uniformLayout),
			shader.WithVertexLayout(QuadVertexLayout()),
		)...)
	if err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	fs, err := shader.NewShader("Mandelbrot Fragment", shader.ShaderTypeFragment,
		append(s.shaderSource(),
			shader.WithBindGroupLayout(0, uniformLayout),
			shader.WithBindGroupLayout(1, paletteLayout),
		)...)
	if err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}

	p := pipeline.NewPipeline(s.target.pipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
	)
	if err := s.r.RegisterPipelines(p); err != nil {
		return fmt.Errorf("register %s pipeline: %w", s.target.pipelineKey, err)
	}

	if err := s.r.InitMeshBuffers(s.target.mesh, fractal.QuadVertexData(), fractal.QuadVertexCount); err != nil {
		return fmt.Errorf("upload quad: %w", err)
	}

	pixels, w, h, err := s.palette.Decode()
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	if err := s.r.InitTextureView(s.target.palette, 0, renderer.TextureStagingData{Pixels: pixels, Width: w, Height: h}); err != nil {
		return fmt.Errorf("palette texture: %w", err)
	}
	if err := s.r.InitSampler(s.target.palette, 1, renderer.NearestClampSampler); err != nil {
		return fmt.Errorf("palette sampler: %w", err)
	}
	if err := s.r.InitBindGroup(s.target.palette, paletteLayout); err != nil {
		return fmt.Errorf("palette bind group: %w", err)
	}

	s.ring, err = uniform_ring.NewUniformRing(
		s.r.UniformRegionAllocator(uniformLayout),
		uniform_ring.WithInFlightBuffers(s.inFlightBuffers),
		uniform_ring.WithRegionSize(fractal.GPUFractalUniformSize),
		uniform_ring.WithLabel(s.name+" Uniforms"),
	)
	if err != nil {
		return fmt.Errorf("uniform ring: %w", err)
	}

	s.tracker = fractal.NewInteractionTracker(
		fractal.WithMaxIterations(s.maxIterations),
		fractal.WithViewSize(s.width, s.height),
		fractal.WithDragSensitivity(s.dragSensitivity),
	)

	s.scheduler, err = fractal.NewScheduler(s.ring, s.tracker, s.target,
		fractal.WithAlwaysDraw(s.alwaysDraw),
		fractal.WithStallHandler(s.r.WaitIdle),
	)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	return nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active && !s.active {
		s.tracker.MarkDirty()
	}
	s.active = active
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Tracker() fractal.InteractionTracker {
	return s.tracker
}

func (s *scene) Scheduler() fractal.Scheduler {
	return s.scheduler
}

func (s *scene) Ring() uniform_ring.UniformRing {
	return s.ring
}

func (s *scene) Tick(ctx context.Context) (bool, error) {
	s.r.Poll()
	if !s.Active() {
		return false, nil
	}
	return s.scheduler.Tick(ctx)
}

func (s *scene) Resize(width, height int) error {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()

	if err := s.r.Resize(width, height); err != nil {
		return err
	}
	s.tracker.OnResize(width, height)
	return nil
}

func (s *scene) OnDrag(dx, dy float32) {
	s.mu.RLock()
	w, h := s.width, s.height
	s.mu.RUnlock()
	s.tracker.OnDrag(dx, dy, float32(w), float32(h))
}

func (s *scene) OnScroll(delta float32) {
	s.tracker.OnScroll(delta)
}

func (s *scene) HandleKey(keyCode uint32) bool {
	switch keyCode {
	case common.KeyF:
		enabled := !s.scheduler.AlwaysDraw()
		s.scheduler.SetAlwaysDraw(enabled)
		common.Logger().Info("always draw", "enabled", enabled)
	case common.KeyR:
		s.tracker.Reset()
	case common.KeyI:
		common.Logger().Info(s.tracker.Status(), "state", s.scheduler.State().String(),
			"drawn", s.scheduler.Drawn(), "skipped", s.scheduler.Skipped())
	default:
		return false
	}
	return true
}

func (s *scene) Release() {
	s.releaseOnce.Do(func() {
		if s.ring != nil {
			// Regions must not be freed while the GPU may still read them.
			s.r.WaitIdle()
			_ = s.ring.Close()
		}
		s.target.mesh.Release()
		s.target.palette.Release()
		common.Logger().Info("scene released", "name", s.name)
	})
}

// frameTarget draws the view into the renderer's surface. It is the scheduler's FrameTarget.
type frameTarget struct {
	r           renderer.Renderer
	pipelineKey string
	mesh        bind_group_provider.BindGroupProvider
	palette     bind_group_provider.BindGroupProvider

	// bindGroups is reused every frame: [uniform region, palette].
	bindGroups []bind_group_provider.BindGroupProvider
}

var _ fractal.FrameTarget = &frameTarget{}

func (t *frameTarget) BeginFrame() error {
	err := t.r.BeginFrame()
	if errors.Is(err, renderer.ErrSurfaceUnavailable) {
		return fmt.Errorf("%w: %w", fractal.ErrTargetUnavailable, err)
	}
	return err
}

func (t *frameTarget) Draw(h uniform_ring.Handle) error {
	region, ok := h.Region.(renderer.UniformRegion)
	if !ok {
		return fmt.Errorf("region %d is not backed by a uniform buffer", h.Index)
	}
	t.bindGroups[0] = region.Provider()
	t.bindGroups[1] = t.palette
	return t.r.DrawCall(t.pipelineKey, t.mesh, t.bindGroups)
}

func (t *frameTarget) EndFrame(onComplete func()) error {
	return t.r.EndFrame(onComplete)
}

func (t *frameTarget) Present() {
	t.r.Present()
}

func (t *frameTarget) AbortFrame() {
	t.r.AbortFrame()
}
