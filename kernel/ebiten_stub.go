//go:build !cgo

package kernel

import (
	"errors"

	"lumen/app"
)

// RunEbiten needs cgo for ebiten's desktop backend.
func RunEbiten(cfg Config, title string, factory app.Factory) (Result, error) {
	return Result{ExitCode: 1}, errors.New("ebiten backend requires cgo (build with CGO_ENABLED=1)")
}
