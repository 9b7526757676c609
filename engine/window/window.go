package window

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and keyboard event delivery.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration, after pending
	// platform events have been dispatched. Returning false ends the loop.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func() bool)

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the 8-bit virtual key code (see common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the 8-bit virtual key code (see common.Key*)
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// VideoModes lists the display modes supported by the monitor the window is on
	// (the primary monitor while windowed).
	//
	// Returns:
	//   - []VideoMode: the supported modes, or nil if the window is not initialized
	VideoModes() []VideoMode

	// SetFullscreen switches the window between exclusive fullscreen on its monitor and windowed mode.
	//
	// Parameters:
	//   - fullscreen: true for fullscreen, false for windowed
	//   - refreshRate: refresh rate in Hz for fullscreen, or <= 0 for the driver default
	//
	// Returns:
	//   - error: error if the window is not initialized
	SetFullscreen(fullscreen bool, refreshRate int) error

	// Fullscreen reports whether the window currently covers a monitor in fullscreen mode.
	//
	// Returns:
	//   - bool: true if fullscreen
	Fullscreen() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed or the update callback returns false.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// VideoMode describes one display mode of a monitor.
type VideoMode struct {
	Width       int
	Height      int
	RedBits     int
	GreenBits   int
	BlueBits    int
	RefreshRate int // Hz
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current window client area width in pixels.
	width int

	// height is the current window client area height in pixels.
	height int

	// fullscreen is true while the window covers a monitor.
	fullscreen bool

	// hideCursor hides the mouse cursor while it is over the window.
	hideCursor bool

	// windowedX and windowedY remember the windowed position for leaving fullscreen.
	windowedX, windowedY int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func() bool

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
// Must be called from the main goroutine; the calling OS thread is locked for GLFW.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:      "Game Engine",
		width:      800,
		height:     600,
		hideCursor: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func() bool) {
	w.onUpdate = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) VideoModes() []VideoMode {
	return platformVideoModes(w)
}

func (w *engineWindow) SetFullscreen(fullscreen bool, refreshRate int) error {
	return platformSetFullscreen(w, fullscreen, refreshRate)
}

func (w *engineWindow) Fullscreen() bool {
	return w.fullscreen
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil && !w.onUpdate() {
			break
		}
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// keyDown forwards a translated key press to the registered callback.
func (w *engineWindow) keyDown(code uint32) {
	if w.onKeyDown != nil {
		w.onKeyDown(code)
	}
}

// keyUp forwards a translated key release to the registered callback.
func (w *engineWindow) keyUp(code uint32) {
	if w.onKeyUp != nil {
		w.onKeyUp(code)
	}
}
