package engine

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-bootstrap/engine/input"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// eventLog is shared by the fakes so tests can check cross-component ordering.
type eventLog struct {
	entries []string
}

func (l *eventLog) add(e string) {
	l.entries = append(l.entries, e)
}

// fakeWindow runs a scripted message loop. script[i] runs before iteration i's update callback.
type fakeWindow struct {
	log *eventLog

	width, height int
	fullscreen    bool

	onUpdate  func() bool
	onKeyDown func(uint32)
	onKeyUp   func(uint32)

	script        map[int]func(w *fakeWindow)
	maxIterations int
	iterations    int
	userClosed    bool
	closed        bool
}

var _ window.Window = &fakeWindow{}

func newFakeWindow(log *eventLog) *fakeWindow {
	return &fakeWindow{
		log:           log,
		width:         800,
		height:        600,
		script:        map[int]func(w *fakeWindow){},
		maxIterations: 1000,
	}
}

func (w *fakeWindow) pressKey(code uint32) {
	if w.onKeyDown != nil {
		w.onKeyDown(code)
	}
}

func (w *fakeWindow) releaseKey(code uint32) {
	if w.onKeyUp != nil {
		w.onKeyUp(code)
	}
}

func (w *fakeWindow) SetUpdateCallback(callback func() bool)     { w.onUpdate = callback }
func (w *fakeWindow) SetKeyDownCallback(callback func(uint32))   { w.onKeyDown = callback }
func (w *fakeWindow) SetKeyUpCallback(callback func(uint32))     { w.onKeyUp = callback }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) VideoModes() []window.VideoMode             { return nil }
func (w *fakeWindow) Fullscreen() bool                           { return w.fullscreen }
func (w *fakeWindow) IsRunning() bool                            { return !w.closed && !w.userClosed }
func (w *fakeWindow) Width() int                                 { return w.width }
func (w *fakeWindow) Height() int                                { return w.height }

func (w *fakeWindow) SetFullscreen(fullscreen bool, refreshRate int) error {
	w.fullscreen = fullscreen
	return nil
}

func (w *fakeWindow) Close() error {
	w.log.add("window close")
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for ; w.iterations < w.maxIterations && w.IsRunning(); w.iterations++ {
		if event := w.script[w.iterations]; event != nil {
			event(w)
		}
		if !w.IsRunning() {
			return
		}
		if w.onUpdate != nil && !w.onUpdate() {
			return
		}
	}
}

// recordingKeys logs Initialize calls on top of a real key state.
type recordingKeys struct {
	input.KeyState
	log *eventLog
}

func (k *recordingKeys) Initialize() {
	k.log.add("keys initialize")
	k.KeyState.Initialize()
}

// fakeRenderer counts frames and fails on request.
type fakeRenderer struct {
	log *eventLog

	initErr     error
	beginErrAt  int // frame index whose BeginFrame fails, -1 for never
	endErr      error
	initialized bool

	width, height int
	vsync         bool
	target        window.Window
	fullscreen    bool
	depth, near   float32

	begins      int
	ends        int
	clearColors [][4]float32
}

var _ renderer.Renderer = &fakeRenderer{}

var errInjected = errors.New("injected failure")

func newFakeRenderer(log *eventLog) *fakeRenderer {
	return &fakeRenderer{log: log, beginErrAt: -1}
}

func (r *fakeRenderer) Initialize(screenWidth, screenHeight int, vsync bool, target window.Window, fullscreen bool, screenDepth, screenNear float32) error {
	r.log.add("renderer initialize")
	r.width, r.height = screenWidth, screenHeight
	r.vsync = vsync
	r.target = target
	r.fullscreen = fullscreen
	r.depth, r.near = screenDepth, screenNear
	if r.initErr != nil {
		return r.initErr
	}
	r.initialized = true
	return nil
}

func (r *fakeRenderer) Shutdown() {
	r.log.add("renderer shutdown")
	r.initialized = false
}

func (r *fakeRenderer) BeginFrame(clearColor [4]float32) error {
	if r.begins == r.beginErrAt {
		return errInjected
	}
	r.begins++
	r.clearColors = append(r.clearColors, clearColor)
	return nil
}

func (r *fakeRenderer) EndFrame() error {
	if r.endErr != nil {
		return r.endErr
	}
	r.ends++
	return nil
}

func (r *fakeRenderer) Device() renderer.Device       { return nil }
func (r *fakeRenderer) Context() renderer.Context     { return nil }
func (r *fakeRenderer) ProjectionMatrix() [16]float32 { return [16]float32{} }
func (r *fakeRenderer) WorldMatrix() [16]float32      { return [16]float32{} }
func (r *fakeRenderer) OrthoMatrix() [16]float32      { return [16]float32{} }
func (r *fakeRenderer) VideoCardInfo() (string, int)  { return "", 0 }
func (r *fakeRenderer) Initialized() bool             { return r.initialized }
