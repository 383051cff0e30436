package fractal

import (
	"math"
	"strings"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestNewInteractionTracker(t *testing.T) {
	tr := NewInteractionTracker()

	if !tr.Dirty() {
		t.Error("new tracker should be dirty")
	}
	if tr.Zoom() != 1 {
		t.Errorf("Zoom = %v, want 1", tr.Zoom())
	}
	s := tr.Snapshot()
	if s.Scale != 1 || s.TranslationX != 0 || s.TranslationY != 0 || s.MaxIterations != DefaultMaxIterations || s.AspectRatio != 1 {
		t.Errorf("initial snapshot = %+v", s)
	}
}

func TestInteractionTrackerOptions(t *testing.T) {
	tr := NewInteractionTracker(WithMaxIterations(250), WithViewSize(800, 400), WithDragSensitivity(1))

	s := tr.Snapshot()
	if s.MaxIterations != 250 {
		t.Errorf("MaxIterations = %v, want 250", s.MaxIterations)
	}
	if s.AspectRatio != 2 {
		t.Errorf("AspectRatio = %v, want 2", s.AspectRatio)
	}

	tr.OnDrag(100, 0, 100, 100)
	if !approx(tr.Pan().X(), 1) {
		t.Errorf("pan x = %v, want 1 with sensitivity 1", tr.Pan().X())
	}
}

func TestOnScroll(t *testing.T) {
	tests := []struct {
		name   string
		start  []float32
		delta  float32
		expect float32
	}{
		{name: "negative scroll at floor clamps to one", delta: -40, expect: 1},
		{name: "positive scroll at floor", delta: 40, expect: 3},
		{name: "no acceleration below one hundred", start: []float32{1960}, delta: 20, expect: 100},
		{name: "acceleration doubles at two hundred", start: []float32{3980}, delta: 20, expect: 202},
		{name: "large negative scroll clamps", start: []float32{200}, delta: -10000, expect: 1},
		{name: "NaN delta clamps", delta: float32(math.NaN()), expect: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewInteractionTracker()
			for _, d := range tt.start {
				tr.OnScroll(d)
			}
			tr.ClearDirty()

			tr.OnScroll(tt.delta)
			if !approx(tr.Zoom(), tt.expect) {
				t.Errorf("Zoom = %v, want %v", tr.Zoom(), tt.expect)
			}
			if !tr.Dirty() {
				t.Error("scroll should mark dirty")
			}
		})
	}
}

func TestZoomNeverBelowOne(t *testing.T) {
	tr := NewInteractionTracker()
	deltas := []float32{-1, 30, -500, 2000, -7, -99999, 12, -3}
	for _, d := range deltas {
		tr.OnScroll(d)
		if tr.Zoom() < 1 {
			t.Fatalf("Zoom = %v after delta %v", tr.Zoom(), d)
		}
	}
}

func TestOnDrag(t *testing.T) {
	tr := NewInteractionTracker()
	tr.ClearDirty()

	tr.OnDrag(100, 50, 300, 200)
	if !approx(tr.Pan().X(), 1) {
		t.Errorf("pan x = %v, want 1", tr.Pan().X())
	}
	if !approx(tr.Pan().Y(), -0.75) {
		t.Errorf("pan y = %v, want -0.75", tr.Pan().Y())
	}
	if !tr.Dirty() {
		t.Error("drag should mark dirty")
	}

	s := tr.Snapshot()
	if s.TranslationX != tr.Pan().X() || s.TranslationY != tr.Pan().Y() {
		t.Errorf("snapshot translation = (%v, %v), want pan", s.TranslationX, s.TranslationY)
	}
}

func TestDragScalesWithZoom(t *testing.T) {
	shift := func(zoomDeltas ...float32) float32 {
		tr := NewInteractionTracker()
		for _, d := range zoomDeltas {
			tr.OnScroll(d)
		}
		tr.OnDrag(60, 0, 600, 600)
		return tr.Pan().X()
	}

	// One step of +20 reaches zoom 2 from zoom 1.
	atOne := shift()
	atTwo := shift(20)
	if !approx(atTwo*2, atOne) {
		t.Errorf("pan at zoom 2 = %v, want half of %v", atTwo, atOne)
	}
}

func TestOnDragZeroSizedView(t *testing.T) {
	tr := NewInteractionTracker()
	tr.ClearDirty()

	tr.OnDrag(10, 10, 0, 100)
	tr.OnDrag(10, 10, 100, 0)
	if tr.Pan().X() != 0 || tr.Pan().Y() != 0 {
		t.Errorf("pan = %v, want unchanged", tr.Pan())
	}
	if tr.Dirty() {
		t.Error("ignored drag should not mark dirty")
	}
}

func TestOnResize(t *testing.T) {
	tr := NewInteractionTracker()
	tr.ClearDirty()

	tr.OnResize(1920, 1080)
	if !approx(tr.Snapshot().AspectRatio, 1920.0/1080.0) {
		t.Errorf("AspectRatio = %v", tr.Snapshot().AspectRatio)
	}
	if !tr.Dirty() {
		t.Error("resize should mark dirty")
	}

	tr.ClearDirty()
	tr.OnResize(640, 0)
	if tr.Dirty() {
		t.Error("zero height resize should be ignored")
	}
	if !approx(tr.Snapshot().AspectRatio, 1920.0/1080.0) {
		t.Error("zero height resize changed the aspect ratio")
	}
}

func TestSnapshotScale(t *testing.T) {
	tr := NewInteractionTracker()
	tr.OnScroll(60) // zoom 1 -> 4
	if !approx(tr.Snapshot().Scale, 0.25) {
		t.Errorf("Scale = %v, want 0.25", tr.Snapshot().Scale)
	}
}

func TestReset(t *testing.T) {
	tr := NewInteractionTracker(WithViewSize(400, 200))
	tr.OnScroll(100)
	tr.OnDrag(5, 5, 10, 10)
	tr.ClearDirty()

	tr.Reset()
	if tr.Zoom() != 1 || tr.Pan().X() != 0 || tr.Pan().Y() != 0 {
		t.Errorf("after Reset zoom = %v pan = %v", tr.Zoom(), tr.Pan())
	}
	if !tr.Dirty() {
		t.Error("Reset should mark dirty")
	}
	if tr.Snapshot().AspectRatio != 2 {
		t.Error("Reset should keep the aspect ratio")
	}
}

func TestStatus(t *testing.T) {
	tr := NewInteractionTracker()
	tr.OnDrag(30, 0, 90, 90)

	got := tr.Status()
	if !strings.HasPrefix(got, "Coordinates: X:1 Y:") || !strings.HasSuffix(got, ", Zoom: 1") {
		t.Errorf("Status = %q", got)
	}
}
