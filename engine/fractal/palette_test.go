package fractal

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodeStrip(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / max(width-1, 1)), G: uint8(y), B: 7, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPaletteDecodeData(t *testing.T) {
	p := &Palette{Name: "test", Data: encodeStrip(t, 64, 4)}

	pix, w, h, err := p.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != PaletteWidth || h != 1 {
		t.Fatalf("size = %dx%d, want %dx1", w, h, PaletteWidth)
	}
	if len(pix) != PaletteWidth*4 {
		t.Fatalf("len(pix) = %d, want %d", len(pix), PaletteWidth*4)
	}
	if pix[0] != 0 || pix[(PaletteWidth-1)*4] != 255 {
		t.Errorf("endpoints red = %d, %d; want 0, 255", pix[0], pix[(PaletteWidth-1)*4])
	}
	if pix[2] != 7 || pix[3] != 255 {
		t.Errorf("first texel = %v", pix[:4])
	}
}

func TestPaletteDecodePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pal.png")
	if err := os.WriteFile(path, encodeStrip(t, 512, 1), 0o644); err != nil {
		t.Fatal(err)
	}

	_, w, h, err := (&Palette{Path: path}).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != PaletteWidth || h != 1 {
		t.Errorf("size = %dx%d", w, h)
	}
}

func TestPaletteDecodeErrors(t *testing.T) {
	var nilPalette *Palette
	if _, _, _, err := nilPalette.Decode(); err == nil {
		t.Error("nil palette: expected error")
	}
	if _, _, _, err := (&Palette{Path: filepath.Join(t.TempDir(), "missing.png")}).Decode(); err == nil {
		t.Error("missing file: expected error")
	}
	if _, _, _, err := (&Palette{Data: []byte("not an image")}).Decode(); err == nil {
		t.Error("bad data: expected error")
	}
}

func TestPaletteDecodeDefault(t *testing.T) {
	pix, w, _, err := (&Palette{}).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != PaletteWidth || len(pix) != PaletteWidth*4 {
		t.Fatalf("width = %d len = %d", w, len(pix))
	}
}

func TestDefaultPalette(t *testing.T) {
	img := DefaultPalette()
	if img.Bounds().Dx() != PaletteWidth || img.Bounds().Dy() != 1 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	first := img.RGBAAt(0, 0)
	last := img.RGBAAt(PaletteWidth-1, 0)
	if first != (color.RGBA{R: 0, G: 7, B: 100, A: 255}) {
		t.Errorf("first = %v", first)
	}
	if last != (color.RGBA{R: 0, G: 2, B: 0, A: 255}) {
		t.Errorf("last = %v", last)
	}
	for x := range PaletteWidth {
		if img.RGBAAt(x, 0).A != 255 {
			t.Fatalf("texel %d not opaque", x)
		}
	}
}

func TestQuadVertexData(t *testing.T) {
	v := QuadVertices()
	if len(v) != QuadVertexCount {
		t.Fatalf("len = %d, want %d", len(v), QuadVertexCount)
	}
	if v[1] != v[3] || v[2] != v[5] {
		t.Error("triangles should share the B and C corners")
	}
	if n := len(QuadVertexData()); n != QuadVertexCount*QuadVertexStride {
		t.Errorf("vertex data = %d bytes, want %d", n, QuadVertexCount*QuadVertexStride)
	}
}
