package renderer

import "errors"

// Sentinel errors returned by the Renderer. Failures from a backend are wrapped
// so both the category and the backend cause survive errors.Is / errors.As.
var (
	ErrInvalidArgument    = errors.New("renderer: invalid argument")
	ErrAlreadyInitialized = errors.New("renderer: already initialized")
	ErrNotInitialized     = errors.New("renderer: not initialized")
	ErrAdapter            = errors.New("renderer: adapter enumeration failed")
	ErrDeviceCreation     = errors.New("renderer: device creation failed")
	ErrResourceCreation   = errors.New("renderer: resource creation failed")
	ErrPresent            = errors.New("renderer: present failed")
)
