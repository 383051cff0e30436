package uniform_ring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeRegion struct {
	mu       sync.Mutex
	label    string
	size     uint64
	data     []byte
	writes   int
	released bool
}

func (f *fakeRegion) Label() string { return f.label }
func (f *fakeRegion) Size() uint64  { return f.size }

func (f *fakeRegion) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.data, data)
	f.writes++
	return nil
}

func (f *fakeRegion) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
}

func (f *fakeRegion) isReleased() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

type fakeAllocator struct {
	regions []*fakeRegion
	failAt  int
}

func (a *fakeAllocator) allocate(index int, size uint64, label string) (Region, error) {
	if a.failAt >= 0 && index == a.failAt {
		return nil, errors.New("out of device memory")
	}
	r := &fakeRegion{label: label, size: size, data: make([]byte, size)}
	a.regions = append(a.regions, r)
	return r, nil
}

func newTestRing(t *testing.T, n int) (UniformRing, *fakeAllocator) {
	t.Helper()
	alloc := &fakeAllocator{failAt: -1}
	ring, err := NewUniformRing(alloc.allocate, WithInFlightBuffers(n), WithRegionSize(32), WithLabel("test"))
	if err != nil {
		t.Fatalf("NewUniformRing: %v", err)
	}
	t.Cleanup(func() { _ = ring.Close() })
	return ring, alloc
}

func mustAcquire(t *testing.T, ring UniformRing) Handle {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	h, err := ring.AcquireNext(ctx)
	if err != nil {
		t.Fatalf("AcquireNext: %v", err)
	}
	return h
}

func TestNewUniformRing(t *testing.T) {
	ring, alloc := newTestRing(t, 3)

	if ring.Size() != 3 {
		t.Errorf("Size = %d, want 3", ring.Size())
	}
	if ring.RegionSize() != 32 {
		t.Errorf("RegionSize = %d, want 32", ring.RegionSize())
	}
	if ring.InFlight() != 0 {
		t.Errorf("InFlight = %d, want 0", ring.InFlight())
	}
	if len(alloc.regions) != 3 {
		t.Fatalf("allocated %d regions, want 3", len(alloc.regions))
	}
	for i, r := range alloc.regions {
		if r.size != 32 {
			t.Errorf("region %d size = %d, want 32", i, r.size)
		}
		if ring.Region(i) != r {
			t.Errorf("Region(%d) does not match allocated region", i)
		}
	}
	if alloc.regions[1].label != "test 1" {
		t.Errorf("region label = %q, want %q", alloc.regions[1].label, "test 1")
	}
	if ring.Region(3) != nil || ring.Region(-1) != nil {
		t.Error("out of range Region should be nil")
	}
}

func TestNewUniformRingConfigErrors(t *testing.T) {
	alloc := &fakeAllocator{failAt: -1}

	if _, err := NewUniformRing(alloc.allocate, WithInFlightBuffers(0), WithRegionSize(32)); !errors.Is(err, ErrInvalidBufferCount) {
		t.Errorf("zero buffers: err = %v, want ErrInvalidBufferCount", err)
	}
	if _, err := NewUniformRing(alloc.allocate); !errors.Is(err, ErrInvalidRegionSize) {
		t.Errorf("no region size: err = %v, want ErrInvalidRegionSize", err)
	}
	if _, err := NewUniformRing(nil, WithRegionSize(32)); err == nil {
		t.Error("nil allocator: expected error")
	}
	if len(alloc.regions) != 0 {
		t.Errorf("config errors allocated %d regions", len(alloc.regions))
	}
}

func TestNewUniformRingAllocationFailure(t *testing.T) {
	alloc := &fakeAllocator{failAt: 2}

	ring, err := NewUniformRing(alloc.allocate, WithInFlightBuffers(3), WithRegionSize(32))
	if err == nil {
		t.Fatal("expected allocation error")
	}
	if ring != nil {
		t.Error("ring should be nil on failure")
	}
	if len(alloc.regions) != 2 {
		t.Fatalf("allocated %d regions before failure, want 2", len(alloc.regions))
	}
	for i, r := range alloc.regions {
		if !r.isReleased() {
			t.Errorf("region %d not released after failed construction", i)
		}
	}
}

func TestAcquireRoundRobin(t *testing.T) {
	ring, _ := newTestRing(t, 3)

	want := []int{0, 1, 2, 0, 1, 2, 0}
	for i, w := range want {
		h := mustAcquire(t, ring)
		if h.Index != w {
			t.Fatalf("acquire %d: index = %d, want %d", i, h.Index, w)
		}
		if h.Region != ring.Region(w) {
			t.Fatalf("acquire %d: handle region does not match ring region %d", i, w)
		}
		ring.Complete()
	}
	if ring.InFlight() != 0 {
		t.Errorf("InFlight = %d, want 0", ring.InFlight())
	}
}

func TestAcquireBlocksWhenAllInFlight(t *testing.T) {
	ring, _ := newTestRing(t, 3)

	for i := range 3 {
		if h := mustAcquire(t, ring); h.Index != i {
			t.Fatalf("acquire %d: index = %d", i, h.Index)
		}
	}
	if ring.InFlight() != 3 {
		t.Fatalf("InFlight = %d, want 3", ring.InFlight())
	}

	got := make(chan Handle, 1)
	go func() {
		h, err := ring.AcquireNext(context.Background())
		if err == nil {
			got <- h
		}
		close(got)
	}()

	select {
	case <-got:
		t.Fatal("fourth acquire returned before any completion")
	case <-time.After(50 * time.Millisecond):
	}

	ring.Complete()

	select {
	case h, ok := <-got:
		if !ok {
			t.Fatal("fourth acquire failed")
		}
		if h.Index != 0 {
			t.Errorf("fourth acquire index = %d, want 0", h.Index)
		}
	case <-time.After(time.Second):
		t.Fatal("fourth acquire still blocked after completion")
	}
}

func TestTryAcquireNext(t *testing.T) {
	ring, _ := newTestRing(t, 2)

	if h, ok := ring.TryAcquireNext(); !ok || h.Index != 0 {
		t.Fatalf("first TryAcquireNext = (%d, %v)", h.Index, ok)
	}
	if h, ok := ring.TryAcquireNext(); !ok || h.Index != 1 {
		t.Fatalf("second TryAcquireNext = (%d, %v)", h.Index, ok)
	}
	if _, ok := ring.TryAcquireNext(); ok {
		t.Fatal("TryAcquireNext succeeded with every region in flight")
	}
	ring.Complete()
	if h, ok := ring.TryAcquireNext(); !ok || h.Index != 0 {
		t.Fatalf("TryAcquireNext after Complete = (%d, %v)", h.Index, ok)
	}
}

func TestAcquireContextCancel(t *testing.T) {
	ring, _ := newTestRing(t, 1)
	mustAcquire(t, ring)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := ring.AcquireNext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
	if ring.InFlight() != 1 {
		t.Errorf("InFlight = %d after cancelled acquire, want 1", ring.InFlight())
	}
}

func TestCompleteIgnoresExtraSignals(t *testing.T) {
	ring, _ := newTestRing(t, 2)

	ring.Complete()
	ring.Complete()
	if ring.InFlight() != 0 {
		t.Fatalf("InFlight = %d, want 0", ring.InFlight())
	}

	// Spurious completions must not grow the pool beyond its size.
	mustAcquire(t, ring)
	mustAcquire(t, ring)
	if _, ok := ring.TryAcquireNext(); ok {
		t.Fatal("ring handed out more regions than it holds")
	}
}

func TestClose(t *testing.T) {
	t.Run("releases regions and is idempotent", func(t *testing.T) {
		alloc := &fakeAllocator{failAt: -1}
		ring, err := NewUniformRing(alloc.allocate, WithRegionSize(32))
		if err != nil {
			t.Fatal(err)
		}
		mustAcquire(t, ring)
		mustAcquire(t, ring)

		if err := ring.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if err := ring.Close(); err != nil {
			t.Fatalf("second Close: %v", err)
		}
		if ring.InFlight() != 0 {
			t.Errorf("InFlight = %d after Close, want 0", ring.InFlight())
		}
		for i, r := range alloc.regions {
			if !r.isReleased() {
				t.Errorf("region %d not released", i)
			}
		}
		if _, err := ring.AcquireNext(context.Background()); !errors.Is(err, ErrClosed) {
			t.Errorf("AcquireNext after Close: err = %v, want ErrClosed", err)
		}
		if _, ok := ring.TryAcquireNext(); ok {
			t.Error("TryAcquireNext succeeded after Close")
		}
		if ring.Region(0) != nil {
			t.Error("Region should be nil after Close")
		}
	})

	t.Run("unblocks a waiting acquire", func(t *testing.T) {
		ring, _ := newTestRing(t, 1)
		mustAcquire(t, ring)

		done := make(chan error, 1)
		go func() {
			_, err := ring.AcquireNext(context.Background())
			done <- err
		}()

		time.Sleep(20 * time.Millisecond)
		_ = ring.Close()

		select {
		case err := <-done:
			if !errors.Is(err, ErrClosed) {
				t.Errorf("err = %v, want ErrClosed", err)
			}
		case <-time.After(time.Second):
			t.Fatal("acquire still blocked after Close")
		}
	})
}

func TestHandleWrite(t *testing.T) {
	ring, alloc := newTestRing(t, 3)
	h := mustAcquire(t, ring)

	payload := make([]byte, 32)
	for i := range payload {
		payload[i] = byte(i)
	}
	if err := h.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if alloc.regions[0].data[31] != 31 {
		t.Error("payload not copied into region")
	}

	for _, n := range []int{0, 16, 31, 33, 64} {
		if err := h.Write(make([]byte, n)); !errors.Is(err, ErrSizeMismatch) {
			t.Errorf("Write(%d bytes): err = %v, want ErrSizeMismatch", n, err)
		}
	}
	if alloc.regions[0].writes != 1 {
		t.Errorf("region writes = %d, want 1", alloc.regions[0].writes)
	}

	if err := (Handle{}).Write(payload); !errors.Is(err, ErrNoRegion) {
		t.Errorf("empty handle: err = %v, want ErrNoRegion", err)
	}
}
