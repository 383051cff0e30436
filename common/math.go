package common

import (
	"math"
	"unsafe"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// ClampMin returns v, or floor when v is below floor.
// NaN inputs are returned as floor so a bad delta can never poison the state.
//
// Parameters:
//   - v: the value to clamp
//   - floor: the smallest allowed value
//
// Returns:
//   - float32: the clamped value
func ClampMin(v, floor float32) float32 {
	if math.IsNaN(float64(v)) || v < floor {
		return floor
	}
	return v
}

// FloorMultiplier returns max(floor(v/step), 1) as a float32.
// It is used for step-wise acceleration curves where anything below the first step counts as one.
//
// Parameters:
//   - v: the current value
//   - step: the width of one acceleration step (must be > 0)
//
// Returns:
//   - float32: the integral multiplier, never less than 1
func FloorMultiplier(v, step float32) float32 {
	m := int(v / step)
	if m < 1 {
		m = 1
	}
	return float32(m)
}
