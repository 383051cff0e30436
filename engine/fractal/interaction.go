package fractal

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mandelbrot/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultDragSensitivity scales a full-view drag into fractal-space units.
	DefaultDragSensitivity float32 = 3

	// scrollDivisor converts a raw scroll delta into a zoom step.
	scrollDivisor float32 = 20

	// zoomStep is the zoom level width after which scrolling accelerates by one more multiple.
	zoomStep float32 = 100

	// minZoom is the smallest allowed zoom level.
	minZoom float32 = 1
)

// interactionTracker is the unexported implementation of InteractionTracker.
// It is touched only by the render goroutine and therefore holds no lock.
type interactionTracker struct {
	pan         mgl32.Vec2
	zoom        float32
	sensitivity float32
	dirty       bool

	// uniform is the single live parameter block. Only AspectRatio and MaxIterations are stored here;
	// scale and translation are derived from pan and zoom in Snapshot.
	uniform GPUFractalUniform
}

// InteractionTracker turns pointer drag, scroll, and resize events into pan/zoom view state and a
// dirty flag. All methods are pure state transitions and perform no GPU work.
type InteractionTracker interface {
	// OnDrag pans the view by a pointer delta expressed in pixels.
	// The shift is normalized by the view size and divided by the zoom level, so a deeper zoom pans
	// proportionally less. Events with a zero-sized view are ignored.
	//
	// Parameters:
	//   - dx, dy: pointer delta in pixels (y grows downward)
	//   - viewWidth, viewHeight: the view size in pixels
	OnDrag(dx, dy, viewWidth, viewHeight float32)

	// OnScroll zooms the view. Zooming accelerates by one multiple for every 100 zoom levels.
	// The zoom level never drops below 1.
	//
	// Parameters:
	//   - deltaY: the vertical scroll delta; positive zooms in
	OnScroll(deltaY float32)

	// OnResize records the new framebuffer aspect ratio. A zero height is ignored.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	OnResize(width, height int)

	// Reset returns to the initial view (no pan, zoom 1) and marks the view dirty.
	Reset()

	// Pan returns the current translation.
	//
	// Returns:
	//   - mgl32.Vec2: the pan offset in fractal space
	Pan() mgl32.Vec2

	// Zoom returns the current zoom level.
	//
	// Returns:
	//   - float32: the zoom level, never below 1
	Zoom() float32

	// Snapshot derives the parameter block to upload for the next frame.
	//
	// Returns:
	//   - GPUFractalUniform: scale 1/zoom, translation = pan, the tracked aspect ratio and iteration budget
	Snapshot() GPUFractalUniform

	// Dirty reports whether the view changed since the last submitted frame.
	//
	// Returns:
	//   - bool: true if a redraw is needed
	Dirty() bool

	// MarkDirty requests a redraw without changing the view.
	MarkDirty()

	// ClearDirty is called by the scheduler once a frame has been submitted.
	ClearDirty()

	// Status returns a one-line description of the current view for diagnostics.
	//
	// Returns:
	//   - string: "Coordinates: X:<x> Y:<y>, Zoom: <zoom>"
	Status() string
}

var _ InteractionTracker = &interactionTracker{}

// NewInteractionTracker creates a tracker showing the initial view.
// The tracker starts dirty so the first tick always draws.
//
// Parameters:
//   - options: functional options (iteration budget, drag sensitivity, initial aspect ratio)
//
// Returns:
//   - InteractionTracker: the new tracker
func NewInteractionTracker(options ...InteractionTrackerBuilderOption) InteractionTracker {
	t := &interactionTracker{
		zoom:        minZoom,
		sensitivity: DefaultDragSensitivity,
		dirty:       true,
		uniform:     NewGPUFractalUniform(),
	}

	for _, opt := range options {
		opt(t)
	}

	return t
}

func (t *interactionTracker) OnDrag(dx, dy, viewWidth, viewHeight float32) {
	if viewWidth == 0 || viewHeight == 0 {
		return
	}

	t.pan[0] += t.sensitivity * (dx / viewWidth) / t.zoom
	t.pan[1] -= t.sensitivity * (dy / viewHeight) / t.zoom
	t.dirty = true
}

func (t *interactionTracker) OnScroll(deltaY float32) {
	step := deltaY / scrollDivisor
	multiplier := common.FloorMultiplier(t.zoom, zoomStep)

	t.zoom = common.ClampMin(t.zoom+step*multiplier, minZoom)
	t.dirty = true

	common.Logger().Debug("zoom changed", "delta", deltaY, "zoom", t.zoom)
}

func (t *interactionTracker) OnResize(width, height int) {
	if height == 0 {
		return
	}

	t.uniform.AspectRatio = float32(width) / float32(height)
	t.dirty = true
}

func (t *interactionTracker) Reset() {
	t.pan = mgl32.Vec2{}
	t.zoom = minZoom
	t.dirty = true
}

func (t *interactionTracker) Pan() mgl32.Vec2 {
	return t.pan
}

func (t *interactionTracker) Zoom() float32 {
	return t.zoom
}

func (t *interactionTracker) Snapshot() GPUFractalUniform {
	u := t.uniform
	u.Scale = 1 / t.zoom
	u.TranslationX = t.pan.X()
	u.TranslationY = t.pan.Y()
	return u
}

func (t *interactionTracker) Dirty() bool {
	return t.dirty
}

func (t *interactionTracker) MarkDirty() {
	t.dirty = true
}

func (t *interactionTracker) ClearDirty() {
	t.dirty = false
}

func (t *interactionTracker) Status() string {
	return fmt.Sprintf("Coordinates: X:%g Y:%g, Zoom: %g", t.pan.X(), t.pan.Y(), t.zoom)
}
