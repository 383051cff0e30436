package renderer

import "errors"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1). This is the default.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

var (
	// ErrSurfaceUnavailable is returned by BeginFrame when no swapchain image can be acquired this
	// frame, for example while the window is minimized or the surface is being reconfigured.
	ErrSurfaceUnavailable = errors.New("surface unavailable")

	// ErrNoFrame is returned by frame operations called outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrPipelineNotFound is returned by DrawCall for an unregistered pipeline key.
	ErrPipelineNotFound = errors.New("render pipeline not found")
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
