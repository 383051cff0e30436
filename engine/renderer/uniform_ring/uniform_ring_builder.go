package uniform_ring

// UniformRingBuilderOption is a functional option used to configure a UniformRing during construction.
type UniformRingBuilderOption func(*uniformRing)

// WithInFlightBuffers sets the number of regions in the ring (default 3).
//
// Parameters:
//   - n: the number of regions; values below 1 make NewUniformRing fail
//
// Returns:
//   - UniformRingBuilderOption: a function that sets the region count
func WithInFlightBuffers(n int) UniformRingBuilderOption {
	return func(r *uniformRing) {
		r.inFlight = n
	}
}

// WithRegionSize sets the byte size of every region. Required.
//
// Parameters:
//   - size: the region size in bytes
//
// Returns:
//   - UniformRingBuilderOption: a function that sets the region size
func WithRegionSize(size uint64) UniformRingBuilderOption {
	return func(r *uniformRing) {
		r.regionSize = size
	}
}

// WithLabel sets the debug label prefix for the ring and its regions.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - UniformRingBuilderOption: a function that sets the label
func WithLabel(label string) UniformRingBuilderOption {
	return func(r *uniformRing) {
		r.label = label
	}
}
