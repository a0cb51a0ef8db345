//go:build !linux

package kernel

// NewPreciseTimer falls back to the system timer where clock_nanosleep is
// not available.
func NewPreciseTimer() Timer {
	return NewSystemTimer()
}
