package fractal

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// PaletteWidth is the number of texels in every uploaded palette strip.
const PaletteWidth = 256

// Palette is the colour lookup strip sampled by the fragment shader.
// Either Path or Data describes the source image; with neither set the built-in gradient is used.
type Palette struct {
	// Name is an identifier used in debug labels.
	Name string

	// Path is the image file on disk.
	Path string

	// Data contains raw encoded image bytes (PNG/JPEG).
	Data []byte
}

// Decode loads the source image and resamples it to a PaletteWidth x 1 RGBA strip.
// The middle row of the source is used, so both horizontal strips and full images work.
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per texel)
//   - uint32: strip width in texels (PaletteWidth)
//   - uint32: strip height in texels (1)
//   - error: error if the source cannot be opened or decoded
func (p *Palette) Decode() ([]byte, uint32, uint32, error) {
	if p == nil {
		return nil, 0, 0, fmt.Errorf("palette is nil")
	}

	var img image.Image
	var err error

	switch {
	case len(p.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(p.Data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode embedded palette: %w", err)
		}
	case p.Path != "":
		file, fileErr := os.Open(p.Path)
		if fileErr != nil {
			return nil, 0, 0, fmt.Errorf("failed to open palette file %s: %w", p.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode palette file %s: %w", p.Path, err)
		}
	default:
		img = DefaultPalette()
	}

	strip := ResamplePalette(img)
	return strip.Pix, PaletteWidth, 1, nil
}

// ResamplePalette scales the middle row of img to a PaletteWidth x 1 strip.
//
// Parameters:
//   - img: the source image; must not be empty
//
// Returns:
//   - *image.RGBA: the resampled strip
func ResamplePalette(img image.Image) *image.RGBA {
	b := img.Bounds()
	row := image.Rect(b.Min.X, b.Min.Y+b.Dy()/2, b.Max.X, b.Min.Y+b.Dy()/2+1)

	dst := image.NewRGBA(image.Rect(0, 0, PaletteWidth, 1))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, row, xdraw.Src, nil)
	return dst
}

// DefaultPalette generates the built-in gradient used when no palette image is configured.
//
// Returns:
//   - *image.RGBA: a PaletteWidth x 1 gradient strip
func DefaultPalette() *image.RGBA {
	stops := []color.RGBA{
		{R: 0, G: 7, B: 100, A: 255},
		{R: 32, G: 107, B: 203, A: 255},
		{R: 237, G: 255, B: 255, A: 255},
		{R: 255, G: 170, B: 0, A: 255},
		{R: 0, G: 2, B: 0, A: 255},
	}

	img := image.NewRGBA(image.Rect(0, 0, PaletteWidth, 1))
	segments := len(stops) - 1
	for x := range PaletteWidth {
		t := float32(x) / float32(PaletteWidth-1) * float32(segments)
		i := min(int(t), segments-1)
		f := t - float32(i)
		a, b := stops[i], stops[i+1]
		img.SetRGBA(x, 0, color.RGBA{
			R: lerp8(a.R, b.R, f),
			G: lerp8(a.G, b.G, f),
			B: lerp8(a.B, b.B, f),
			A: 255,
		})
	}
	return img
}

func lerp8(a, b uint8, f float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*f + 0.5)
}
