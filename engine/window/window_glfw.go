package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// glfwKeyMap translates the non-printable GLFW keys that have a virtual key code.
// Letters, digits, space and function keys are translated arithmetically in translateKey.
var glfwKeyMap = map[glfw.Key]uint32{
	glfw.KeyBackspace:    common.KeyBackspace,
	glfw.KeyTab:          common.KeyTab,
	glfw.KeyEnter:        common.KeyEnter,
	glfw.KeyKPEnter:      common.KeyEnter,
	glfw.KeyPause:        common.KeyPause,
	glfw.KeyCapsLock:     common.KeyCapsLock,
	glfw.KeyEscape:       common.KeyEscape,
	glfw.KeyPageUp:       common.KeyPageUp,
	glfw.KeyPageDown:     common.KeyPageDown,
	glfw.KeyEnd:          common.KeyEnd,
	glfw.KeyHome:         common.KeyHome,
	glfw.KeyLeft:         common.KeyLeft,
	glfw.KeyUp:           common.KeyUp,
	glfw.KeyRight:        common.KeyRight,
	glfw.KeyDown:         common.KeyDown,
	glfw.KeyInsert:       common.KeyInsert,
	glfw.KeyDelete:       common.KeyDelete,
	glfw.KeyLeftShift:    common.KeyLeftShift,
	glfw.KeyRightShift:   common.KeyRightShift,
	glfw.KeyLeftControl:  common.KeyLeftControl,
	glfw.KeyRightControl: common.KeyRightControl,
	glfw.KeyLeftAlt:      common.KeyLeftAlt,
	glfw.KeyRightAlt:     common.KeyRightAlt,
}

// translateKey maps a GLFW key to its 8-bit virtual key code.
// GLFW shares ASCII values with the virtual key codes for letters, digits and space.
//
// Parameters:
//   - key: the GLFW key
//
// Returns:
//   - uint32: the virtual key code
//   - bool: false if the key has no virtual key code and should be dropped
func translateKey(key glfw.Key) (uint32, bool) {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ,
		key >= glfw.Key0 && key <= glfw.Key9,
		key == glfw.KeySpace:
		return uint32(key), true
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return uint32(common.KeyF1 + int(key-glfw.KeyF1)), true
	}
	code, ok := glfwKeyMap[key]
	return code, ok
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
// In fullscreen the window takes the primary monitor's current resolution; otherwise it is centred
// on the primary monitor at the requested size.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// The swap chain is sized once at initialization, so the window is not resizable.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	monitor := glfw.GetPrimaryMonitor()
	var desktop *glfw.VidMode
	if monitor != nil {
		desktop = monitor.GetVideoMode()
	}

	var target *glfw.Monitor
	if w.fullscreen {
		if desktop == nil {
			glfw.Terminate()
			return fmt.Errorf("failed to create fullscreen window: no primary monitor")
		}
		w.width = desktop.Width
		w.height = desktop.Height
		target = monitor
	}

	win, err := glfw.CreateWindow(w.width, w.height, w.title, target, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}

	if !w.fullscreen && desktop != nil {
		w.windowedX = (desktop.Width - w.width) / 2
		w.windowedY = (desktop.Height - w.height) / 2
		win.SetPos(w.windowedX, w.windowedY)
	}
	if w.hideCursor {
		win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	// The callback closes over the engineWindow, so events reach their owner without any
	// process-wide window registry.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		code, ok := translateKey(key)
		if !ok {
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			w.keyDown(code)
		case glfw.Release:
			w.keyUp(code)
		}
	})

	// Closing the window is the platform quit signal; the message loop observes it on its next iteration.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCloseCallback
	win.SetCloseCallback(func(_ *glfw.Window) {
		gw.running = false
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformMonitor returns the monitor the window is fullscreen on, or the primary monitor.
func platformMonitor(gw *glfwWindow) *glfw.Monitor {
	if m := gw.window.GetMonitor(); m != nil {
		return m
	}
	return glfw.GetPrimaryMonitor()
}

// platformVideoModes lists the monitor's supported video modes.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Monitor.GetVideoModes
func platformVideoModes(w *engineWindow) []VideoMode {
	if w.internalWindow == nil {
		return nil
	}
	monitor := platformMonitor(w.internalWindow.(*glfwWindow))
	if monitor == nil {
		return nil
	}

	modes := monitor.GetVideoModes()
	out := make([]VideoMode, 0, len(modes))
	for _, m := range modes {
		out = append(out, VideoMode{
			Width:       m.Width,
			Height:      m.Height,
			RedBits:     m.RedBits,
			GreenBits:   m.GreenBits,
			BlueBits:    m.BlueBits,
			RefreshRate: m.RefreshRate,
		})
	}
	return out
}

// platformSetFullscreen moves the window onto the primary monitor, or back to its windowed position.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMonitor
func platformSetFullscreen(w *engineWindow, fullscreen bool, refreshRate int) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)

	if !fullscreen {
		if !w.fullscreen {
			return nil
		}
		gw.window.SetMonitor(nil, w.windowedX, w.windowedY, w.width, w.height, 0)
		w.fullscreen = false
		return nil
	}

	monitor := platformMonitor(gw)
	if monitor == nil {
		return fmt.Errorf("no monitor available for fullscreen")
	}
	if refreshRate <= 0 {
		refreshRate = glfw.DontCare
	}
	if !w.fullscreen {
		w.windowedX, w.windowedY = gw.window.GetPos()
	}
	gw.window.SetMonitor(monitor, 0, 0, w.width, w.height, refreshRate)
	w.fullscreen = true
	return nil
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
//
// Parameters:
//   - w: the engineWindow to check
//
// Returns:
//   - bool: true if the window is still running
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
// Safe to call more than once; later calls are no-ops.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: always nil
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	if w.hideCursor {
		gw.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	w.fullscreen = false
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
// This is the GLFW equivalent of the Win32 PeekMessage loop.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
