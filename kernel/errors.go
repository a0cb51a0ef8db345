package kernel

import "errors"

var (
	// ErrNoUsableConfiguration is returned when no candidate configuration
	// resolves to a visual.
	ErrNoUsableConfiguration = errors.New("kernel: no usable framebuffer configuration")

	// ErrVisualScreenMismatch is returned when the chosen visual lives on a
	// screen other than the display's.
	ErrVisualScreenMismatch = errors.New("kernel: visual screen does not match display screen")

	// ErrContextCreation is returned when neither context creation path
	// produced a context.
	ErrContextCreation = errors.New("kernel: cannot create GL context")

	// ErrApplicationInit is returned when the application fails to initialize.
	ErrApplicationInit = errors.New("kernel: application initialize failed")
)
