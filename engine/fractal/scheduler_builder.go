package fractal

// SchedulerBuilderOption is a functional option used to configure a Scheduler during construction.
type SchedulerBuilderOption func(*scheduler)

// WithAlwaysDraw makes every tick draw regardless of the dirty flag.
//
// Parameters:
//   - enabled: true to draw every tick
//
// Returns:
//   - SchedulerBuilderOption: a function that sets the always-draw override
func WithAlwaysDraw(enabled bool) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.alwaysDraw = enabled
	}
}

// WithStallHandler registers a function called when every uniform region is in flight, before the
// tick blocks waiting for one. A loop that dispatches GPU completions on its own goroutine must use it
// to wait for the GPU, or the tick can never unblock.
//
// Parameters:
//   - onStall: the handler, typically a blocking device poll
//
// Returns:
//   - SchedulerBuilderOption: a function that sets the stall handler
func WithStallHandler(onStall func()) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.onStall = onStall
	}
}
