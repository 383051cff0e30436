package common

import (
	"math"
	"testing"
)

func TestClampMin(t *testing.T) {
	tests := []struct {
		name  string
		v     float32
		floor float32
		want  float32
	}{
		{"above floor", 3.5, 1, 3.5},
		{"at floor", 1, 1, 1},
		{"below floor", -1, 1, 1},
		{"nan", float32(math.NaN()), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampMin(tt.v, tt.floor); got != tt.want {
				t.Errorf("ClampMin(%v, %v) = %v, want %v", tt.v, tt.floor, got, tt.want)
			}
		})
	}
}

func TestFloorMultiplier(t *testing.T) {
	tests := []struct {
		v    float32
		want float32
	}{
		{1, 1},
		{99.9, 1},
		{100, 1},
		{199, 1},
		{200, 2},
		{1050, 10},
	}
	for _, tt := range tests {
		if got := FloorMultiplier(tt.v, 100); got != tt.want {
			t.Errorf("FloorMultiplier(%v, 100) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSliceToBytes(t *testing.T) {
	if SliceToBytes[float32](nil) != nil {
		t.Error("SliceToBytes(nil) should return nil")
	}
	got := SliceToBytes([]float32{1, 2, 3})
	if len(got) != 12 {
		t.Errorf("len(SliceToBytes) = %d, want 12", len(got))
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 7, 9); got != 7 {
		t.Errorf("Coalesce = %d, want 7", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce of zero values = %q, want empty", got)
	}
}
