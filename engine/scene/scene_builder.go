package scene

import "github.com/Carmen-Shannon/oxy-mandelbrot/engine/fractal"

// SceneBuilderOption is a functional option for configuring a Scene during construction.
type SceneBuilderOption func(*scene)

// WithDragSensitivity sets how many fractal units a drag across the whole view pans at zoom 1.
//
// Parameters:
//   - sensitivity: pan units per view width (default 3)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDragSensitivity(sensitivity float32) SceneBuilderOption {
	return func(s *scene) {
		s.dragSensitivity = sensitivity
	}
}

// WithShaderPath replaces the built-in Mandelbrot shader with a WGSL file. The FractalUniform struct
// is prepended; the file declares the bindings of UniformLayout and PaletteLayout plus vs_main and fs_main.
//
// Parameters:
//   - path: the WGSL file to read
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShaderPath(path string) SceneBuilderOption {
	return func(s *scene) {
		s.shaderPath = path
	}
}

// WithInFlightBuffers sets how many uniform regions the ring holds, which bounds how many frames
// may be in flight on the GPU at once.
//
// Parameters:
//   - n: the region count (default 3)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInFlightBuffers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.inFlightBuffers = n
	}
}

// WithAlwaysDraw makes the scene draw every tick instead of only after input.
//
// Parameters:
//   - enabled: true to draw every tick
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAlwaysDraw(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.alwaysDraw = enabled
	}
}

// WithMaxIterations sets the escape iteration budget of the fractal shader.
//
// Parameters:
//   - n: the iteration budget (default 5000)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaxIterations(n float32) SceneBuilderOption {
	return func(s *scene) {
		s.maxIterations = n
	}
}

// WithPalette sets the colour palette. Without it the built-in gradient is used.
//
// Parameters:
//   - p: the palette source
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPalette(p fractal.Palette) SceneBuilderOption {
	return func(s *scene) {
		s.palette = p
	}
}
