package fractal

// InteractionTrackerBuilderOption is a functional option used to configure an InteractionTracker during construction.
type InteractionTrackerBuilderOption func(*interactionTracker)

// WithMaxIterations sets the escape iteration budget written into every parameter block.
//
// Parameters:
//   - n: the iteration budget (default 5000)
//
// Returns:
//   - InteractionTrackerBuilderOption: a function that sets the iteration budget
func WithMaxIterations(n float32) InteractionTrackerBuilderOption {
	return func(t *interactionTracker) {
		if n > 0 {
			t.uniform.MaxIterations = n
		}
	}
}

// WithDragSensitivity sets the multiplier applied to normalized drag deltas.
//
// Parameters:
//   - s: the sensitivity (default 3)
//
// Returns:
//   - InteractionTrackerBuilderOption: a function that sets the drag sensitivity
func WithDragSensitivity(s float32) InteractionTrackerBuilderOption {
	return func(t *interactionTracker) {
		t.sensitivity = s
	}
}

// WithViewSize seeds the aspect ratio from an initial framebuffer size.
//
// Parameters:
//   - width, height: the framebuffer size in pixels
//
// Returns:
//   - InteractionTrackerBuilderOption: a function that sets the initial aspect ratio
func WithViewSize(width, height int) InteractionTrackerBuilderOption {
	return func(t *interactionTracker) {
		if height > 0 {
			t.uniform.AspectRatio = float32(width) / float32(height)
		}
	}
}
