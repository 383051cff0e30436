package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-mandelbrot/common"
)

// Profiler tracks tick rate, drawn frames, and memory statistics for performance monitoring.
// Outputs stats to the package logger at a configurable interval.
type Profiler struct {
	tickCount      int
	drawnCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now func() time.Time
}

// Sample is one reporting interval's worth of statistics.
type Sample struct {
	// TicksPerSecond is how often the render loop ran.
	TicksPerSecond float64
	// DrawsPerSecond is how many of those ticks submitted a frame.
	DrawsPerSecond float64
	// Skipped is the number of ticks in the interval that did no GPU work.
	Skipped int
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		now:            time.Now,
	}
}

// Tick should be called once per render loop iteration.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: ticks and draws per second, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - drawn: true if this iteration submitted a frame
//
// Returns:
//   - Sample: the interval's statistics, valid only when the bool is true
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(drawn bool) (Sample, bool) {
	p.tickCount++
	if drawn {
		p.drawnCount++
	}

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Sample{}, false
	}

	sample := Sample{
		TicksPerSecond: float64(p.tickCount) / elapsed.Seconds(),
		DrawsPerSecond: float64(p.drawnCount) / elapsed.Seconds(),
		Skipped:        p.tickCount - p.drawnCount,
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	common.Logger().Info("profiler",
		"ticks_per_sec", sample.TicksPerSecond,
		"draws_per_sec", sample.DrawsPerSecond,
		"skipped", sample.Skipped,
		"heap_mb", allocMB,
		"alloc_rate_mb_s", allocRateMB,
		"gc", gcCount,
		"gc_last_us", lastPauseUs,
		"gc_max_us", maxPauseUs,
		"sys_mb", sysMB)

	p.tickCount = 0
	p.drawnCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return sample, true
}
