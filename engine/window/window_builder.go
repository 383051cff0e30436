package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size in screen coordinates.
// The framebuffer may be larger on high-DPI displays; Width and Height report the framebuffer.
//
// Parameters:
//   - width: the initial width
//   - height: the initial height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithSizeLimits bounds the size the user can resize the window to.
//
// Parameters:
//   - minWidth: minimum width
//   - minHeight: minimum height
//   - maxWidth: maximum width
//   - maxHeight: maximum height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth, w.minHeight = minWidth, minHeight
		w.maxWidth, w.maxHeight = maxWidth, maxHeight
	}
}

// WithScrollScale sets how many scroll points one mouse wheel notch reports.
// Non-positive values are ignored.
//
// Parameters:
//   - scale: points per wheel notch
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithScrollScale(scale float32) WindowBuilderOption {
	return func(w *engineWindow) {
		if scale > 0 {
			w.scrollScale = scale
		}
	}
}
