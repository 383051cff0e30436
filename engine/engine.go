package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mandelbrot/common"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/scene"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/window"
)

// DefaultRenderFrameLimit is the render loop rate cap in frames per second.
const DefaultRenderFrameLimit = 60

// engine implements the Engine interface.
// Drives the window message loop and the scene from a single goroutine.
type engine struct {
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	scene  scene.Scene

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It owns the render loop: each window message loop iteration polls the GPU, ticks the scene,
// and sleeps out the rest of the frame budget.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene the engine drives.
	//
	// Returns:
	//   - scene.Scene: the scene instance
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets the render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the render loop on the calling goroutine, which must be the goroutine that created
	// the window and renderer. Blocks until the window closes, Quit is called, or ctx is cancelled.
	//
	// Parameters:
	//   - ctx: cancels the loop and any blocked region acquire
	//
	// Returns:
	//   - error: the frame error that stopped the loop, or nil on a normal shutdown
	Run(ctx context.Context) error

	// Quit signals the render loop to stop.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Window input is routed to the scene: drags pan, scroll zooms, resizes reconfigure the surface,
// Escape quits, and other keys go to the scene's key bindings.
//
// Parameters:
//   - options: functional options for engine configuration (window, scene, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel:      make(chan struct{}),
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		renderFrameLimit: time.Second / DefaultRenderFrameLimit,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil && e.scene != nil {
		e.bindInput()
	}

	return e
}

// bindInput registers the window callbacks that feed the scene.
func (e *engine) bindInput() {
	e.window.SetResizeCallback(func(width, height int) {
		if err := e.scene.Resize(width, height); err != nil {
			common.Logger().Warn("resize failed", "width", width, "height", height, "err", err)
		}
	})
	e.window.SetDragCallback(e.scene.OnDrag)
	e.window.SetScrollCallback(e.scene.OnScroll)
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == common.KeyEsc {
			e.Quit()
			return
		}
		e.scene.HandleKey(keyCode)
	})
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Run(ctx context.Context) error {
	if e.window == nil {
		return errors.New("engine has no window")
	}
	if e.scene == nil {
		return errors.New("engine has no scene")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Quit may come from another goroutine; cancelling also unblocks a tick waiting on a region.
	go func() {
		select {
		case <-e.quitChannel:
			cancel()
		case <-ctx.Done():
		}
	}()

	var runErr error
	lastFrame := time.Now()

	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
			return
		default:
		}
		if ctx.Err() != nil {
			e.window.RequestClose()
			return
		}

		drawn, err := e.scene.Tick(ctx)
		if err != nil {
			if ctx.Err() == nil {
				runErr = fmt.Errorf("scene %q: %w", e.scene.Name(), err)
			}
			e.window.RequestClose()
			return
		}

		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick(drawn)
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(lastFrame); remaining > 0 {
				time.Sleep(remaining)
			}
		}
		lastFrame = time.Now()
	})
	defer e.window.SetUpdateCallback(nil)

	common.Logger().Info("engine running", "scene", e.scene.Name(), "frame_limit", e.renderFrameLimit)
	e.window.ProcessMessages()

	common.Logger().Info("engine stopped",
		"drawn", e.scene.Scheduler().Drawn(),
		"skipped", e.scene.Scheduler().Skipped(),
		"err", runErr)
	return runErr
}

// Quit signals the render loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
