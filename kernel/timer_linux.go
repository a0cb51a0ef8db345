//go:build linux

package kernel

import (
	"time"

	"golang.org/x/sys/unix"
)

// PreciseTimer sleeps to an absolute CLOCK_MONOTONIC deadline with
// clock_nanosleep, so sleeps are not rounded to milliseconds and do not
// drift when interrupted.
type PreciseTimer struct {
	base int64
}

// NewPreciseTimer returns a Timer whose origin is now.
func NewPreciseTimer() Timer {
	return &PreciseTimer{base: monotonicNanos()}
}

func monotonicNanos() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return time.Now().UnixNano()
	}
	return ts.Nano()
}

func (t *PreciseTimer) Now() time.Duration {
	return time.Duration(monotonicNanos() - t.base)
}

func (t *PreciseTimer) SleepUntil(deadline time.Duration) {
	if deadline <= t.Now() {
		return
	}
	ts := unix.NsecToTimespec(t.base + int64(deadline))
	for {
		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, unix.TIMER_ABSTIME, &ts, nil)
		if err != unix.EINTR {
			return
		}
	}
}
