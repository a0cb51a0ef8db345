// Package app defines the application hosted by the frame loop and ships a
// small demo implementation.
package app

import (
	"errors"

	"lumen/hal"
)

// ErrTerminate is returned by Update to end the loop gracefully.
var ErrTerminate = errors.New("app: terminate")

// Application is driven by the loop once a GL context is current.
//
// Initialize runs once before the window is shown; an error aborts startup.
// Update receives the seconds elapsed since the previous call and returns a
// non-nil error to stop the loop. Shutdown runs exactly once, and only if
// Initialize succeeded.
type Application interface {
	Initialize(width, height int) error
	Update(dt float64) error
	Render()
	Resize(width, height int)
	Shutdown()
}

// Factory builds an Application bound to the GL of the current context.
type Factory func(gl hal.GL) Application
