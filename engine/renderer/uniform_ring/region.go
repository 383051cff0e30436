package uniform_ring

import "fmt"

// Region is a fixed-size block of GPU-visible memory that the CPU writes and the GPU reads.
// A Region is owned by exactly one UniformRing for its whole lifetime.
type Region interface {
	// Label returns the debug label attached to the region.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Size returns the byte length the region was allocated with.
	//
	// Returns:
	//   - uint64: the region size in bytes
	Size() uint64

	// Write copies data into the region starting at offset zero.
	// Callers pass exactly Size() bytes; the ring enforces this before calling Write.
	//
	// Parameters:
	//   - data: the bytes to copy into the region
	//
	// Returns:
	//   - error: an error if the copy could not be staged
	Write(data []byte) error

	// Release frees the memory backing the region.
	Release()
}

// RegionAllocator allocates one zero-initialized region of the given size.
// It is invoked exactly Size() times while a UniformRing is constructed.
//
// Parameters:
//   - index: the position of the region in the ring
//   - size: the region size in bytes
//   - label: the debug label to attach to the region
//
// Returns:
//   - Region: the allocated region
//   - error: an error if allocation fails; construction of the ring is abandoned
type RegionAllocator func(index int, size uint64, label string) (Region, error)

// Handle is a region loaned to one in-flight frame.
// The caller must not write through a Handle again after the frame that used it has been submitted.
type Handle struct {
	// Index is the region's position in the ring.
	Index int
	// Region is the loaned region.
	Region Region
}

// Write copies a serialized payload into the loaned region.
// The payload length must equal the region size exactly.
//
// Parameters:
//   - data: the serialized payload
//
// Returns:
//   - error: ErrSizeMismatch if the payload has the wrong length, or the region's write error
func (h Handle) Write(data []byte) error {
	if h.Region == nil {
		return ErrNoRegion
	}
	if uint64(len(data)) != h.Region.Size() {
		return fmt.Errorf("%w: got %d bytes, region %q holds %d", ErrSizeMismatch, len(data), h.Region.Label(), h.Region.Size())
	}
	return h.Region.Write(data)
}
