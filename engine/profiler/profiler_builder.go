package profiler

import (
	"log/slog"
	"time"
)

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithUpdateInterval sets how often a sample is logged. Non-positive values keep the default.
//
// Parameters:
//   - interval: the sampling interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithUpdateInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces time.Now as the profiler's time source.
//
// Parameters:
//   - now: the function returning the current time
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the logger samples are written to instead of the shared common.Logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}
