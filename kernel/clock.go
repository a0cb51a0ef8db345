package kernel

import (
	"fmt"
	"time"
)

// Timer is the loop's only source of time and its only suspension point.
// Now is measured from an arbitrary fixed origin and never goes backwards.
type Timer interface {
	Now() time.Duration
	SleepUntil(deadline time.Duration)
}

// SystemTimer sleeps with millisecond granularity using the runtime's
// monotonic clock.
type SystemTimer struct {
	start time.Time
}

// NewSystemTimer returns a timer whose origin is now.
func NewSystemTimer() *SystemTimer {
	return &SystemTimer{start: time.Now()}
}

func (t *SystemTimer) Now() time.Duration { return time.Since(t.start) }

// SleepUntil sleeps for the whole milliseconds left before deadline. A
// deadline already passed returns at once.
func (t *SystemTimer) SleepUntil(deadline time.Duration) {
	d := (deadline - t.Now()).Truncate(time.Millisecond)
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// NewTimer returns the timer named by kind: "system" or "precise".
func NewTimer(kind string) (Timer, error) {
	switch kind {
	case "", "system":
		return NewSystemTimer(), nil
	case "precise":
		return NewPreciseTimer(), nil
	default:
		return nil, fmt.Errorf("kernel: unknown timer %q", kind)
	}
}

// Interval returns the tick interval for fps as whole milliseconds.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(1000/fps) * time.Millisecond
}

// FrameClock measures frame deltas and paces frames to a fixed interval.
// All arithmetic is in whole milliseconds. The deadline advances by one
// interval per frame whether or not the frame was on time, so a slow frame
// is followed by frames that do not sleep rather than by dropped ones.
type FrameClock struct {
	timer    Timer
	interval time.Duration

	prev time.Duration
	next time.Duration

	frames int
	late   int
	busy   time.Duration
}

// NewFrameClock starts a clock paced at fps.
func NewFrameClock(timer Timer, fps int) *FrameClock {
	now := timer.Now().Truncate(time.Millisecond)
	return &FrameClock{
		timer:    timer,
		interval: Interval(fps),
		prev:     now,
		next:     now,
	}
}

// Tick returns the seconds since the previous Tick, or since the clock
// was started for the first one.
func (c *FrameClock) Tick() float64 {
	now := c.timer.Now().Truncate(time.Millisecond)
	dt := now - c.prev
	if dt < 0 {
		dt = 0
	}
	c.prev = now
	return float64(dt.Milliseconds()) / 1000
}

// Wait advances the deadline by one interval and sleeps until it.
func (c *FrameClock) Wait() {
	c.frames++
	c.next += c.interval

	now := c.timer.Now().Truncate(time.Millisecond)
	if spent := now - (c.next - c.interval); spent > 0 {
		c.busy += spent
	}
	if now > c.next {
		c.late++
	}
	c.timer.SleepUntil(c.next)
}

// Interval returns the tick interval.
func (c *FrameClock) Interval() time.Duration { return c.interval }

// Deadline returns the current frame deadline.
func (c *FrameClock) Deadline() time.Duration { return c.next }

// FrameStats summarizes a clock's history.
type FrameStats struct {
	Frames int
	Late   int

	// AvgBusy is the mean time from a deadline to the next Wait.
	AvgBusy time.Duration
}

// Stats returns the frames paced so far.
func (c *FrameClock) Stats() FrameStats {
	s := FrameStats{Frames: c.frames, Late: c.late}
	if c.frames > 0 {
		s.AvgBusy = c.busy / time.Duration(c.frames)
	}
	return s
}
