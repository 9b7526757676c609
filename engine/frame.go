package engine

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
)

// FrameStatus tells the host loop whether to keep running after a frame.
type FrameStatus int

const (
	// FrameContinue requests another frame.
	FrameContinue FrameStatus = iota

	// FrameStop ends the loop, either because the quit key is held or because rendering failed.
	FrameStop
)

func (s FrameStatus) String() string {
	switch s {
	case FrameContinue:
		return "continue"
	case FrameStop:
		return "stop"
	default:
		return "unknown"
	}
}

// KeyReader reports whether a virtual key is currently held.
type KeyReader interface {
	IsPressed(code uint32) bool
}

// FrameRenderer clears and presents one frame.
type FrameRenderer interface {
	BeginFrame(clearColor [4]float32) error
	EndFrame() error
}

// FrameDriver runs one iteration of the per-frame work: poll the quit key, then render.
type FrameDriver interface {
	// RunFrame checks the quit key and, if it is not held, clears and presents one frame.
	// The renderer is not touched when the quit key is held.
	//
	// Returns:
	//   - FrameStatus: FrameContinue to keep running, FrameStop to end the loop
	//   - error: the render error that caused FrameStop, if any
	RunFrame() (FrameStatus, error)
}

// frameDriver is the implementation of the FrameDriver interface.
type frameDriver struct {
	keys       KeyReader
	target     FrameRenderer
	quitKey    uint32
	clearColor [4]float32
}

var _ FrameDriver = &frameDriver{}

// DefaultClearColor is the colour each frame is cleared to: opaque mid grey.
var DefaultClearColor = [4]float32{0.5, 0.5, 0.5, 1.0}

// NewFrameDriver creates a FrameDriver that quits on Escape and clears to DefaultClearColor
// unless configured otherwise.
//
// Parameters:
//   - keys: the key state polled for the quit key (nil disables quitting by key)
//   - target: the renderer each frame is drawn with
//   - options: functional options to configure the driver
//
// Returns:
//   - FrameDriver: the created driver
func NewFrameDriver(keys KeyReader, target FrameRenderer, options ...FrameDriverOption) FrameDriver {
	d := &frameDriver{
		keys:       keys,
		target:     target,
		quitKey:    common.KeyEscape,
		clearColor: DefaultClearColor,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *frameDriver) RunFrame() (FrameStatus, error) {
	if d.keys != nil && d.keys.IsPressed(d.quitKey) {
		return FrameStop, nil
	}
	if d.target == nil {
		return FrameStop, errors.New("frame driver has no renderer")
	}

	if err := d.target.BeginFrame(d.clearColor); err != nil {
		return FrameStop, err
	}
	if err := d.target.EndFrame(); err != nil {
		return FrameStop, err
	}
	return FrameContinue, nil
}
