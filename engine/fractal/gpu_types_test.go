package fractal

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestGPUFractalUniformSize(t *testing.T) {
	var u GPUFractalUniform
	if u.Size() != GPUFractalUniformSize {
		t.Fatalf("Size = %d, want %d", u.Size(), GPUFractalUniformSize)
	}

	values := []GPUFractalUniform{
		{},
		NewGPUFractalUniform(),
		{Scale: 1e-9, TranslationX: -1.75, TranslationY: 0.0001, MaxIterations: 1 << 20, AspectRatio: 16.0 / 9},
		{Scale: float32(math.Inf(1)), TranslationX: float32(math.NaN()), AspectRatio: -1},
	}
	for i, v := range values {
		if n := len(v.Marshal()); n != GPUFractalUniformSize {
			t.Errorf("value %d: Marshal length = %d, want %d", i, n, GPUFractalUniformSize)
		}
	}
}

func TestGPUFractalUniformMarshal(t *testing.T) {
	u := GPUFractalUniform{
		Scale:         0.5,
		TranslationX:  -1.25,
		TranslationY:  0.75,
		MaxIterations: 5000,
		AspectRatio:   1.5,
	}
	buf := u.Marshal()

	want := []float32{0.5, -1.25, 0.75, 5000, 1.5, 0, 0, 0}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestGPUFractalUniformMarshalToClearsPadding(t *testing.T) {
	buf := make([]byte, GPUFractalUniformSize)
	for i := range buf {
		buf[i] = 0xff
	}
	u := NewGPUFractalUniform()
	u.MarshalTo(buf)

	for i := 20; i < GPUFractalUniformSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("padding byte %d = %#x, want 0", i, buf[i])
		}
	}
}

func TestNewGPUFractalUniformDefaults(t *testing.T) {
	u := NewGPUFractalUniform()
	if u.Scale != 1 || u.TranslationX != 0 || u.TranslationY != 0 || u.MaxIterations != DefaultMaxIterations || u.AspectRatio != 1 {
		t.Errorf("defaults = %+v", u)
	}
}

func TestShaderSourcesEmbedded(t *testing.T) {
	if GPUFractalUniformSource == "" {
		t.Error("uniform WGSL source is empty")
	}
	if MandelbrotShaderSource == "" {
		t.Error("mandelbrot WGSL source is empty")
	}
}
