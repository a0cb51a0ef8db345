package kernel

import (
	"errors"
	"time"

	"lumen/app"
	"lumen/hal"
	"lumen/internal/glproto"
)

// fakeTimer is a virtual clock: sleeping jumps straight to the deadline.
type fakeTimer struct {
	now    time.Duration
	sleeps int
}

func (t *fakeTimer) Now() time.Duration { return t.now }

func (t *fakeTimer) SleepUntil(deadline time.Duration) {
	if deadline > t.now {
		t.now = deadline
		t.sleeps++
	}
}

var errScripted = errors.New("scripted failure")

// scriptApp counts hook calls and fails or reacts on chosen iterations.
type scriptApp struct {
	gl    hal.GL
	timer *fakeTimer

	initErr  error
	failAt   int // Update returns failErr on this call, 1-based.
	failErr  error
	cost     time.Duration
	onUpdate func(n int)
	panicAt  int

	inits     int
	updates   int
	renders   int
	shutdowns int
	dts       []float64
	sizes     [][2]int
}

func (a *scriptApp) Initialize(width, height int) error {
	a.inits++
	if a.initErr != nil {
		return a.initErr
	}
	a.gl.Viewport(0, 0, width, height)
	return nil
}

func (a *scriptApp) Update(dt float64) error {
	a.updates++
	a.dts = append(a.dts, dt)
	if a.timer != nil {
		a.timer.now += a.cost
	}
	if a.panicAt > 0 && a.updates == a.panicAt {
		panic("scripted panic")
	}
	if a.onUpdate != nil {
		a.onUpdate(a.updates)
	}
	if a.failAt > 0 && a.updates == a.failAt {
		if a.failErr != nil {
			return a.failErr
		}
		return app.ErrTerminate
	}
	return nil
}

func (a *scriptApp) Render() {
	a.renders++
	a.gl.Clear(glproto.ColorBufferBit)
}

func (a *scriptApp) Resize(width, height int) {
	a.sizes = append(a.sizes, [2]int{width, height})
	a.gl.Viewport(0, 0, width, height)
}

func (a *scriptApp) Shutdown() { a.shutdowns++ }

// harness runs a scriptApp against a headless display.
type harness struct {
	h      *hal.Headless
	timer  *fakeTimer
	app    *scriptApp
	states []State
}

func newHarness(cfg hal.HeadlessConfig) *harness {
	timer := &fakeTimer{}
	return &harness{
		h:     hal.NewHeadless(cfg),
		timer: timer,
		app:   &scriptApp{timer: timer},
	}
}

func (hn *harness) config() Config {
	return Config{
		Width:  320,
		Height: 240,
		FPS:    30,
		Timer:  hn.timer,
		OnState: func(from, to State) {
			hn.states = append(hn.states, to)
		},
	}
}

func (hn *harness) run() (Result, error) {
	open := func() (hal.Display, error) { return hn.h, nil }
	return Run(open, hn.config(), func(gl hal.GL) app.Application {
		hn.app.gl = gl
		return hn.app
	})
}

func (hn *harness) reached(s State) bool {
	for _, got := range hn.states {
		if got == s {
			return true
		}
	}
	return false
}
