package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
)

// Stats is one sample of frame rate and memory statistics.
type Stats struct {
	FPS         float64
	HeapMB      float64 // live heap
	AllocRateMB float64 // MB allocated per second since the previous sample
	SysMB       float64 // memory obtained from the OS
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64 // longest GC pause since the previous sample
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Logs a sample at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now    func() time.Time
	logger *slog.Logger
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame.
// Logs a Stats sample when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were sampled this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	stats := Stats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	stats.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		stats.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > stats.MaxPauseUs {
				stats.MaxPauseUs = pause
			}
		}
	}

	p.log().Info("frame stats",
		"fps", stats.FPS,
		"heap_mb", stats.HeapMB,
		"alloc_rate_mb_s", stats.AllocRateMB,
		"gc", stats.GCCount,
		"gc_last_pause_us", stats.LastPauseUs,
		"gc_max_pause_us", stats.MaxPauseUs,
		"sys_mb", stats.SysMB,
	)

	p.last = stats
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent sample, or the zero Stats before the first one.
func (p *Profiler) Last() Stats {
	return p.last
}

func (p *Profiler) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return common.Logger()
}
