// Package uniform_ring provides N-buffered uniform upload: a fixed pool of GPU-visible regions handed
// out in round-robin order and gated by a counting semaphore, so the CPU never rewrites a region the
// GPU may still be reading.
//
// For N == 3, frame 0 uses region 0, frame 1 region 1, frame 2 region 2 and frame 3 region 0 again,
// but only after the GPU signalled that one of the earlier frames completed.
package uniform_ring

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-mandelbrot/common"
	"golang.org/x/sync/semaphore"
)

// DefaultInFlightBuffers is the number of regions a ring holds unless configured otherwise.
const DefaultInFlightBuffers = 3

// uniformRing is the unexported implementation of UniformRing.
type uniformRing struct {
	// label is the debug label prefix given to every region.
	label string

	// inFlight is the number of regions, fixed at construction.
	inFlight int

	// regionSize is the byte size of every region.
	regionSize uint64

	// regions is the ordered pool. It is never resized.
	regions []Region

	// next is the index handed out by the following AcquireNext. Only the producer touches it.
	next int

	// available starts with inFlight credits. AcquireNext takes one, Complete returns one.
	available *semaphore.Weighted

	// held counts credits taken but not yet returned. Close uses it to restore the semaphore.
	held atomic.Int64

	closed atomic.Bool
}

// UniformRing hands out fixed-size GPU-visible regions in round-robin order.
//
// Usage pattern:
//  1. The render loop calls AcquireNext once per drawn frame; it blocks while every region is in flight
//  2. The caller writes the frame parameters through the returned Handle and submits GPU work using it
//  3. When the GPU reports that submitted work completed, Complete returns one credit
//  4. On shutdown Close restores all held credits and releases the regions
//
// The ring does not check that callers only touch regions they currently hold; a region must not be
// rewritten before the GPU finished the prior read of it.
type UniformRing interface {
	// AcquireNext blocks until a region is no longer needed by the GPU, then returns the next region
	// in round-robin order.
	//
	// Parameters:
	//   - ctx: cancels a blocked acquire
	//
	// Returns:
	//   - Handle: the loaned region and its index
	//   - error: ErrClosed after Close, or the context's error if ctx ends first
	AcquireNext(ctx context.Context) (Handle, error)

	// TryAcquireNext is the non-blocking form of AcquireNext.
	//
	// Returns:
	//   - Handle: the loaned region and its index
	//   - bool: false if every region is in flight or the ring is closed
	TryAcquireNext() (Handle, bool)

	// Complete signals that the GPU finished with one previously acquired region and returns its credit.
	// Calls beyond the number of held credits, or after Close, are ignored.
	Complete()

	// Close restores every held credit, then releases all regions.
	// Safe to call multiple times; subsequent calls are no-ops.
	//
	// Returns:
	//   - error: always nil, present to satisfy io.Closer
	Close() error

	// Label returns the debug label of the ring.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Size returns the number of regions in the ring.
	//
	// Returns:
	//   - int: the region count
	Size() int

	// RegionSize returns the byte size of each region.
	//
	// Returns:
	//   - uint64: the region size in bytes
	RegionSize() uint64

	// InFlight returns how many regions are currently loaned out and not yet completed.
	//
	// Returns:
	//   - int: the number of held credits
	InFlight() int

	// Region returns the region at the given index, or nil if the index is out of range or the ring is closed.
	//
	// Parameters:
	//   - index: the region index
	//
	// Returns:
	//   - Region: the region or nil
	Region(index int) Region
}

var _ UniformRing = &uniformRing{}

// NewUniformRing allocates a ring of regions using allocate.
// Allocation is all-or-nothing: if any region fails, the regions already allocated are released and
// the error is returned.
//
// Parameters:
//   - allocate: the allocation capability used for every region
//   - options: functional options (buffer count, region size, label)
//
// Returns:
//   - UniformRing: the ring, ready for AcquireNext
//   - error: a configuration error or the first allocation error
func NewUniformRing(allocate RegionAllocator, options ...UniformRingBuilderOption) (UniformRing, error) {
	r := &uniformRing{
		label:    "Uniform Buffer",
		inFlight: DefaultInFlightBuffers,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.inFlight < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBufferCount, r.inFlight)
	}
	if r.regionSize == 0 {
		return nil, ErrInvalidRegionSize
	}
	if allocate == nil {
		return nil, fmt.Errorf("uniform ring %q: nil region allocator", r.label)
	}

	r.regions = make([]Region, 0, r.inFlight)
	for i := range r.inFlight {
		region, err := allocate(i, r.regionSize, fmt.Sprintf("%s %d", r.label, i))
		if err == nil && region == nil {
			err = fmt.Errorf("allocator returned no region")
		}
		if err != nil {
			for _, allocated := range r.regions {
				allocated.Release()
			}
			r.regions = nil
			return nil, fmt.Errorf("uniform ring %q: allocate region %d: %w", r.label, i, err)
		}
		r.regions = append(r.regions, region)
	}

	r.available = semaphore.NewWeighted(int64(r.inFlight))

	common.Logger().Info("uniform ring created",
		"label", r.label,
		"buffers", r.inFlight,
		"regionSize", r.regionSize)

	return r, nil
}

func (r *uniformRing) AcquireNext(ctx context.Context) (Handle, error) {
	if r.closed.Load() {
		return Handle{}, ErrClosed
	}
	if err := r.available.Acquire(ctx, 1); err != nil {
		return Handle{}, err
	}
	return r.take()
}

func (r *uniformRing) TryAcquireNext() (Handle, bool) {
	if r.closed.Load() {
		return Handle{}, false
	}
	if !r.available.TryAcquire(1) {
		return Handle{}, false
	}
	h, err := r.take()
	return h, err == nil
}

// take records a credit that was just acquired and advances the round-robin cursor.
// A credit acquired concurrently with Close is handed straight back.
func (r *uniformRing) take() (Handle, error) {
	r.held.Add(1)
	if r.closed.Load() {
		r.Complete()
		return Handle{}, ErrClosed
	}

	h := Handle{Index: r.next, Region: r.regions[r.next]}
	r.next = (r.next + 1) % r.inFlight
	return h, nil
}

func (r *uniformRing) Complete() {
	for {
		held := r.held.Load()
		if held <= 0 {
			return
		}
		if r.held.CompareAndSwap(held, held-1) {
			r.available.Release(1)
			return
		}
	}
}

func (r *uniformRing) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	// Restore the count to inFlight first so nothing stays blocked on a completion that never fires.
	if held := r.held.Swap(0); held > 0 {
		r.available.Release(held)
	}

	for _, region := range r.regions {
		region.Release()
	}

	common.Logger().Info("uniform ring closed", "label", r.label)
	return nil
}

func (r *uniformRing) Label() string {
	return r.label
}

func (r *uniformRing) Size() int {
	return r.inFlight
}

func (r *uniformRing) RegionSize() uint64 {
	return r.regionSize
}

func (r *uniformRing) InFlight() int {
	return int(r.held.Load())
}

func (r *uniformRing) Region(index int) Region {
	if r.closed.Load() || index < 0 || index >= len(r.regions) {
		return nil
	}
	return r.regions[index]
}
