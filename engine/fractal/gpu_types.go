package fractal

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFractalUniformSource is the canonical WGSL definition of the FractalUniform struct.
// Matches GPUFractalUniform layout exactly (32 bytes, uniform aligned).
//
//go:embed assets/fractal_uniform.wgsl
var GPUFractalUniformSource string

// MandelbrotShaderSource holds the vertex and fragment entry points of the Mandelbrot pipeline.
// It expects GPUFractalUniformSource to be prepended.
//
//go:embed assets/mandelbrot.wgsl
var MandelbrotShaderSource string

const (
	// DefaultMaxIterations is the iteration budget used unless configured otherwise.
	DefaultMaxIterations float32 = 5000

	// GPUFractalUniformSize is the serialized size of GPUFractalUniform in bytes.
	GPUFractalUniformSize = 32
)

// GPUFractalUniform is the GPU-aligned representation of the per-frame fractal parameters.
// Matches the WGSL FractalUniform struct layout exactly (see GPUFractalUniformSource).
// Size: 32 bytes (8 x f32, little-endian).
type GPUFractalUniform struct {
	Scale         float32    // offset  0: 1 / zoom level
	TranslationX  float32    // offset  4: pan x in fractal space
	TranslationY  float32    // offset  8: pan y in fractal space
	MaxIterations float32    // offset 12: escape iteration budget
	AspectRatio   float32    // offset 16: framebuffer width / height
	_pad          [3]float32 // offset 20: padding to 32 bytes
}

// NewGPUFractalUniform returns the parameter block for the initial view.
//
// Returns:
//   - GPUFractalUniform: scale 1, no translation, DefaultMaxIterations, aspect ratio 1
func NewGPUFractalUniform() GPUFractalUniform {
	return GPUFractalUniform{
		Scale:         1,
		MaxIterations: DefaultMaxIterations,
		AspectRatio:   1,
	}
}

// Size returns the size of the GPUFractalUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUFractalUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFractalUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFractalUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes into buf, which must be at least Size() bytes long.
// The render loop reuses one buffer across frames through this method.
//
// Parameters:
//   - buf: the destination buffer
func (g *GPUFractalUniform) MarshalTo(buf []byte) {
	_ = buf[GPUFractalUniformSize-1]
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Scale))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.TranslationX))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.TranslationY))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.MaxIterations))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.AspectRatio))
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[20+i*4:], 0) // _pad
	}
}
