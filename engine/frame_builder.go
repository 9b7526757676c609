package engine

// FrameDriverOption is a functional option for configuring a FrameDriver.
type FrameDriverOption func(*frameDriver)

// WithFrameQuitKey sets the virtual key that stops the loop (default common.KeyEscape).
//
// Parameters:
//   - code: the virtual key code
//
// Returns:
//   - FrameDriverOption: option function to apply
func WithFrameQuitKey(code uint32) FrameDriverOption {
	return func(d *frameDriver) {
		d.quitKey = code
	}
}

// WithFrameClearColor sets the RGBA colour each frame is cleared to.
//
// Parameters:
//   - color: RGBA colour, each channel in [0, 1]
//
// Returns:
//   - FrameDriverOption: option function to apply
func WithFrameClearColor(color [4]float32) FrameDriverOption {
	return func(d *frameDriver) {
		d.clearColor = color
	}
}
