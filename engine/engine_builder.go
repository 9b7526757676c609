package engine

import (
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/input"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/profiler"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window the engine presents into and receives key events from.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer used instead of a default WebGPU renderer.
//
// Parameters:
//   - r: an uninitialized Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithKeyState sets the key state fed by the window's key events.
//
// Parameters:
//   - ks: the KeyState to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithKeyState(ks input.KeyState) EngineBuilderOption {
	return func(e *engine) {
		e.keys = ks
	}
}

// WithVSync enables or disables presenting on the vertical blank (default true).
//
// Parameters:
//   - enabled: true to synchronize presentation with the display refresh rate
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithVSync(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.vsync = enabled
	}
}

// WithFullscreen makes the renderer take the output into exclusive fullscreen.
//
// Parameters:
//   - enabled: true for fullscreen
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFullscreen(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.fullscreen = enabled
	}
}

// WithScreenDepth sets the far clip plane distance (default 1000).
//
// Parameters:
//   - depth: the far plane distance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScreenDepth(depth float32) EngineBuilderOption {
	return func(e *engine) {
		e.screenDepth = depth
	}
}

// WithScreenNear sets the near clip plane distance (default 0.1).
//
// Parameters:
//   - near: the near plane distance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScreenNear(near float32) EngineBuilderOption {
	return func(e *engine) {
		e.screenNear = near
	}
}

// WithClearColor sets the RGBA colour each frame is cleared to (default opaque mid grey).
//
// Parameters:
//   - color: RGBA colour, each channel in [0, 1]
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClearColor(color [4]float32) EngineBuilderOption {
	return func(e *engine) {
		e.clearColor = color
	}
}

// WithQuitKey sets the virtual key that ends the loop (default common.KeyEscape).
//
// Parameters:
//   - code: the virtual key code
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithQuitKey(code uint32) EngineBuilderOption {
	return func(e *engine) {
		e.quitKey = code
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the Profiler ticked once per frame when profiling is enabled
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}

// WithErrorReporter sets the function told about renderer initialization failures,
// for example to show the user a dialog.
//
// Parameters:
//   - report: the reporting function
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithErrorReporter(report func(err error)) EngineBuilderOption {
	return func(e *engine) {
		e.reportError = report
	}
}
