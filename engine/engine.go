package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/input"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/profiler"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
)

const (
	// DefaultScreenDepth is the default far clip plane distance.
	DefaultScreenDepth = 1000.0

	// DefaultScreenNear is the default near clip plane distance.
	DefaultScreenNear = 0.1
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine: no window")

// engine implements the Engine interface.
// Runs the window message loop and one frame per loop iteration on the calling goroutine.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	keys     input.KeyState

	vsync       bool
	fullscreen  bool
	screenDepth float32
	screenNear  float32
	clearColor  [4]float32
	quitKey     uint32

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	reportError func(err error)

	running       atomic.Bool
	quitRequested atomic.Bool
}

// Engine owns the window, key state and renderer of an application and drives the frame loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Keys returns the key state fed by the window's key events.
	//
	// Returns:
	//   - input.KeyState: the key state instance
	Keys() input.KeyState

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run initializes the key state and the renderer, then runs the message loop until the
	// window closes, the quit key is pressed, Quit is called or a frame fails. Everything is
	// shut down before Run returns: renderer first, then key input, then the window.
	// Must be called from the goroutine that created the window.
	//
	// Returns:
	//   - error: the initialization or frame error that ended the loop, nil on a normal quit
	Run() error

	// Quit asks the loop to end at its next iteration.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A key state and a WebGPU renderer are created when not supplied.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		vsync:       true,
		screenDepth: DefaultScreenDepth,
		screenNear:  DefaultScreenNear,
		clearColor:  DefaultClearColor,
		quitKey:     common.KeyEscape,
		profiler:    profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.keys == nil {
		e.keys = input.NewKeyState()
	}
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Keys() input.KeyState {
	return e.keys
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("engine: already running")
	}
	defer e.running.Store(false)

	log := common.Logger()

	e.keys.Initialize()
	e.window.SetKeyDownCallback(e.keys.OnKeyDown)
	e.window.SetKeyUpCallback(e.keys.OnKeyUp)

	if err := e.renderer.Initialize(e.window.Width(), e.window.Height(), e.vsync, e.window, e.fullscreen, e.screenDepth, e.screenNear); err != nil {
		err = fmt.Errorf("could not initialize the renderer: %w", err)
		if e.reportError != nil {
			e.reportError(err)
		}
		e.shutdown()
		return err
	}

	driver := NewFrameDriver(e.keys, e.renderer,
		WithFrameQuitKey(e.quitKey),
		WithFrameClearColor(e.clearColor),
	)

	var frameErr error
	frames := 0
	e.window.SetUpdateCallback(func() bool {
		if e.quitRequested.Load() {
			return false
		}

		frameStart := time.Now()
		status, err := driver.RunFrame()
		if err != nil {
			frameErr = fmt.Errorf("frame %d: %w", frames, err)
			log.Error("frame failed", "frame", frames, "error", err)
			return false
		}
		if status == FrameStop {
			return false
		}
		frames++

		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick()
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
		return true
	})

	log.Info("engine running", "width", e.window.Width(), "height", e.window.Height())
	e.window.ProcessMessages()
	log.Info("engine stopped", "frames", frames)

	e.shutdown()
	return frameErr
}

// shutdown releases in reverse dependency order: renderer, key input, window.
func (e *engine) shutdown() {
	e.renderer.Shutdown()

	e.window.SetUpdateCallback(nil)
	e.window.SetKeyDownCallback(nil)
	e.window.SetKeyUpCallback(nil)
	e.keys.Initialize()

	if err := e.window.Close(); err != nil {
		common.Logger().Warn("failed to close window", "error", err)
	}
}

func (e *engine) Quit() {
	e.quitRequested.Store(true)
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

// frameDuration converts a frame rate cap to the minimum frame duration, 0 meaning uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
