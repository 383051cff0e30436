package renderer

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

type recordingWriter struct {
	writes []bind_group_provider.BufferWrite
}

func (w *recordingWriter) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	w.writes = append(w.writes, writes...)
}

func TestFirstBinding(t *testing.T) {
	desc := wgpu.BindGroupLayoutDescriptor{
		Label: "params",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 3}, {Binding: 1}, {Binding: 2},
		},
	}
	got, err := firstBinding(desc)
	if err != nil {
		t.Fatalf("firstBinding: %v", err)
	}
	if got != 1 {
		t.Fatalf("firstBinding = %d, want 1", got)
	}

	if _, err := firstBinding(wgpu.BindGroupLayoutDescriptor{Label: "empty"}); err == nil {
		t.Fatal("expected error for a layout without entries")
	}
}

func TestUniformRegionWrite(t *testing.T) {
	provider := bind_group_provider.NewBindGroupProvider("Uniform Buffer 0")
	w := &recordingWriter{}
	region := &uniformRegion{provider: provider, binding: 1, size: 4, writer: w}

	if err := region.Write([]byte{1, 2, 3, 4}); err == nil {
		t.Fatal("expected error writing a region without a buffer")
	}
	if len(w.writes) != 0 {
		t.Fatalf("got %d writes, want 0", len(w.writes))
	}

	provider.SetBuffer(1, &wgpu.Buffer{})
	data := []byte{1, 2, 3, 4}
	if err := region.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(w.writes) != 1 {
		t.Fatalf("got %d writes, want 1", len(w.writes))
	}
	got := w.writes[0]
	if got.Provider != provider || got.Binding != 1 || got.Offset != 0 || !bytes.Equal(got.Data, data) {
		t.Fatalf("unexpected write %+v", got)
	}
	if region.Label() != "Uniform Buffer 0" || region.Size() != 4 || region.Provider() != provider {
		t.Fatal("region accessors do not reflect construction")
	}
}
