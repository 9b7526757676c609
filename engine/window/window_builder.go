package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the initial window width. Ignored in fullscreen, where the
// primary monitor's current resolution is used.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height. Ignored in fullscreen, where the
// primary monitor's current resolution is used.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithFullscreen creates the window fullscreen on the primary monitor at the desktop resolution.
//
// Parameters:
//   - fullscreen: true to start fullscreen
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithFullscreen(fullscreen bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.fullscreen = fullscreen
	}
}

// WithHiddenCursor hides the mouse cursor while it is over the window (default true).
//
// Parameters:
//   - hidden: true to hide the cursor
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHiddenCursor(hidden bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.hideCursor = hidden
	}
}
