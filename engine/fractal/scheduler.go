package fractal

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-mandelbrot/common"
	"github.com/Carmen-Shannon/oxy-mandelbrot/engine/renderer/uniform_ring"
)

// ErrTargetUnavailable is returned by FrameTarget.BeginFrame when there is nothing to draw into this
// tick, for example while the surface is being reconfigured after a resize.
var ErrTargetUnavailable = errors.New("frame target unavailable")

// FrameState is the redraw state of the scheduler.
type FrameState int

const (
	// StateIdle means the last submitted frame still matches the view; ticks do no GPU work.
	StateIdle FrameState = iota
	// StateDirty means the view changed and the next tick draws.
	StateDirty
)

// String returns the state name.
func (s FrameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	default:
		return fmt.Sprintf("FrameState(%d)", int(s))
	}
}

// FrameTarget is the GPU side of one frame: a single render pass with exactly one full-screen draw.
type FrameTarget interface {
	// BeginFrame acquires the next presentable image and opens the render pass.
	//
	// Returns:
	//   - error: ErrTargetUnavailable if no image can be drawn this tick, or a fatal error
	BeginFrame() error

	// Draw binds the region at the vertex and fragment uniform slots and issues the six-vertex draw.
	//
	// Parameters:
	//   - h: the region holding this frame's parameter block
	//
	// Returns:
	//   - error: an error if the region cannot be bound
	Draw(h uniform_ring.Handle) error

	// EndFrame closes the pass and submits it. onComplete fires once the GPU finished the submitted
	// work. If EndFrame returns an error, onComplete is never called.
	//
	// Parameters:
	//   - onComplete: the completion callback
	//
	// Returns:
	//   - error: an error if submission failed
	EndFrame(onComplete func()) error

	// Present shows the submitted image.
	Present()

	// AbortFrame abandons a frame opened by BeginFrame without submitting it.
	AbortFrame()
}

// scheduler is the unexported implementation of Scheduler.
type scheduler struct {
	ring    uniform_ring.UniformRing
	tracker InteractionTracker
	target  FrameTarget

	alwaysDraw bool
	onStall    func()

	// payload is reused for every serialized parameter block.
	payload []byte

	drawn   uint64
	skipped uint64
}

// Scheduler decides once per display tick whether to draw, and drives the frame when it does.
//
// Per tick:
//  1. Nothing to do unless the view is dirty or always-draw is on
//  2. Snapshot the parameter block from the tracker
//  3. Begin the frame; an unavailable target skips the tick and keeps the view dirty
//  4. Acquire the next uniform region; this is where backpressure from the GPU blocks the loop,
//     after the stall handler has had a chance to collect completions
//  5. Write the snapshot, draw, submit with a completion that returns the region, present
//  6. Clear the dirty flag
type Scheduler interface {
	// Tick runs one display tick.
	//
	// Parameters:
	//   - ctx: cancels a blocked region acquire
	//
	// Returns:
	//   - bool: true if a frame was submitted
	//   - error: a failure that abandoned the frame; the view stays dirty
	Tick(ctx context.Context) (bool, error)

	// SetAlwaysDraw forces every tick to draw regardless of the dirty flag.
	//
	// Parameters:
	//   - enabled: true to draw every tick
	SetAlwaysDraw(enabled bool)

	// AlwaysDraw reports whether every tick draws.
	//
	// Returns:
	//   - bool: the always-draw override
	AlwaysDraw() bool

	// State returns the current redraw state.
	//
	// Returns:
	//   - FrameState: StateDirty if the next tick will draw because the view changed
	State() FrameState

	// Drawn returns how many frames were submitted.
	//
	// Returns:
	//   - uint64: the submitted frame count
	Drawn() uint64

	// Skipped returns how many ticks did no GPU work.
	//
	// Returns:
	//   - uint64: the skipped tick count
	Skipped() uint64
}

var _ Scheduler = &scheduler{}

// NewScheduler wires a uniform ring, a tracker, and a frame target into a scheduler.
//
// Parameters:
//   - ring: the ring that supplies per-frame uniform regions
//   - tracker: the interaction state that decides what to draw
//   - target: the GPU frame target
//   - options: functional options (always draw, stall handler)
//
// Returns:
//   - Scheduler: the new scheduler, initially dirty through the tracker
//   - error: an error if a collaborator is missing or the ring region size does not fit the parameter block
func NewScheduler(ring uniform_ring.UniformRing, tracker InteractionTracker, target FrameTarget, options ...SchedulerBuilderOption) (Scheduler, error) {
	if ring == nil || tracker == nil || target == nil {
		return nil, fmt.Errorf("scheduler needs a ring, a tracker, and a frame target")
	}
	if ring.RegionSize() != GPUFractalUniformSize {
		return nil, fmt.Errorf("%w: ring regions hold %d bytes, parameter block is %d", uniform_ring.ErrSizeMismatch, ring.RegionSize(), GPUFractalUniformSize)
	}

	s := &scheduler{
		ring:    ring,
		tracker: tracker,
		target:  target,
		payload: make([]byte, GPUFractalUniformSize),
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

func (s *scheduler) Tick(ctx context.Context) (bool, error) {
	if !s.tracker.Dirty() && !s.alwaysDraw {
		s.skipped++
		return false, nil
	}

	snapshot := s.tracker.Snapshot()

	if err := s.target.BeginFrame(); err != nil {
		if errors.Is(err, ErrTargetUnavailable) {
			s.skipped++
			common.Logger().Debug("frame skipped", "reason", err)
			return false, nil
		}
		return false, fmt.Errorf("begin frame: %w", err)
	}

	h, ok := s.ring.TryAcquireNext()
	if !ok {
		// Every region is in flight. The stall handler gives a single-threaded loop the
		// chance to dispatch GPU completions before blocking on one.
		if s.onStall != nil {
			s.onStall()
		}
		var err error
		if h, err = s.ring.AcquireNext(ctx); err != nil {
			s.target.AbortFrame()
			return false, fmt.Errorf("acquire uniform region: %w", err)
		}
	}

	snapshot.MarshalTo(s.payload)
	if err := h.Write(s.payload); err != nil {
		s.abandon()
		return false, fmt.Errorf("write uniform region %d: %w", h.Index, err)
	}

	if err := s.target.Draw(h); err != nil {
		s.abandon()
		return false, fmt.Errorf("draw with uniform region %d: %w", h.Index, err)
	}

	if err := s.target.EndFrame(s.ring.Complete); err != nil {
		s.ring.Complete()
		return false, fmt.Errorf("submit frame: %w", err)
	}

	s.target.Present()
	s.tracker.ClearDirty()
	s.drawn++

	common.Logger().Debug("frame drawn", "region", h.Index, "status", s.tracker.Status())
	return true, nil
}

// abandon drops an open frame and returns the credit taken for it.
func (s *scheduler) abandon() {
	s.target.AbortFrame()
	s.ring.Complete()
}

func (s *scheduler) SetAlwaysDraw(enabled bool) {
	s.alwaysDraw = enabled
}

func (s *scheduler) AlwaysDraw() bool {
	return s.alwaysDraw
}

func (s *scheduler) State() FrameState {
	if s.tracker.Dirty() {
		return StateDirty
	}
	return StateIdle
}

func (s *scheduler) Drawn() uint64 {
	return s.drawn
}

func (s *scheduler) Skipped() uint64 {
	return s.skipped
}
