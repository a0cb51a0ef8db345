package hal

import "errors"

var (
	// ErrConnection is returned when the windowing system cannot be reached.
	ErrConnection = errors.New("hal: cannot open display")

	// ErrUnsupportedPlatform is returned when the GLX version is below the floor.
	ErrUnsupportedPlatform = errors.New("hal: GLX version too old")

	// ErrNoConfigurations is returned when no framebuffer configuration meets
	// the requirements.
	ErrNoConfigurations = errors.New("hal: no matching framebuffer configuration")

	// ErrClosed is returned by operations on a closed display.
	ErrClosed = errors.New("hal: display closed")
)
