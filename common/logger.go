package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards every record.
// Enabled reports false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger shared by the engine packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: per-step GPU initialization and release detail
//   - [slog.LevelInfo]: lifecycle events (adapter selected, renderer ready, shutdown)
//   - [slog.LevelWarn]: non-fatal fallbacks (no display mode matched the screen size)
//   - [slog.LevelError]: fatal initialization or presentation failures
//
// Parameters:
//   - l: the logger to install, or nil for silence
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current shared logger. Safe for concurrent use.
//
// Returns:
//   - *slog.Logger: the active logger (never nil)
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
