package uniform_ring

import "errors"

var (
	// ErrClosed is returned by AcquireNext once the ring has been closed.
	ErrClosed = errors.New("uniform ring closed")

	// ErrSizeMismatch is returned when a payload does not match the region size.
	ErrSizeMismatch = errors.New("payload size does not match region size")

	// ErrNoRegion is returned when writing through an empty Handle.
	ErrNoRegion = errors.New("handle holds no region")

	// ErrInvalidBufferCount is returned when a ring is configured with fewer than one buffer.
	ErrInvalidBufferCount = errors.New("uniform ring needs at least one buffer")

	// ErrInvalidRegionSize is returned when a ring is configured with a zero region size.
	ErrInvalidRegionSize = errors.New("uniform ring region size must be greater than zero")
)
