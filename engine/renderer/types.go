package renderer

import "github.com/cogentcore/webgpu/wgpu"

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the pixel data in RGBA format, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero address and filter fields mean repeat addressing and nearest filtering, as in wgpu.
// A zero LodMaxClamp becomes 32 and a zero MaxAnisotropy becomes 1.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp bound the level of detail used for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy is the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// NearestClampSampler is the sampler used for lookup textures: no filtering and no wrap-around.
var NearestClampSampler = SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
	MagFilter:    wgpu.FilterModeNearest,
	MinFilter:    wgpu.FilterModeNearest,
	MipmapFilter: wgpu.MipmapFilterModeNearest,
	LodMaxClamp:  32,
}

// ClearColor is the colour a frame is cleared to before the draw.
type ClearColor struct {
	R, G, B, A float64
}

// DefaultClearColor is used unless WithClearColor overrides it.
var DefaultClearColor = ClearColor{R: 1.0, G: 0.4, B: 0.6, A: 1.0}
