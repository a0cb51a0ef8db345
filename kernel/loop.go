package kernel

import (
	"errors"

	"lumen/app"
	"lumen/hal"
)

// State is the loop's lifecycle state.
type State uint8

const (
	StateStarting State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Surface is what the loop needs from the display once the window is up.
type Surface interface {
	PollEvent() (hal.Event, bool, error)
	Geometry(w hal.Window) (width, height int, err error)
	SwapBuffers(w hal.Window) error
}

// Loop drives an application at a fixed frame rate.
type Loop struct {
	surface Surface
	win     *Window
	app     app.Application
	timer   Timer
	fps     int

	clock   *FrameClock
	state   State
	onState func(from, to State)

	frames   int
	exitCode int
	reason   string
	shutdown bool
}

// NewLoop returns a loop in StateStarting.
func NewLoop(s Surface, win *Window, a app.Application, timer Timer, fps int) *Loop {
	return &Loop{surface: s, win: win, app: a, timer: timer, fps: fps}
}

// OnStateChange registers fn to be called on every transition.
func (l *Loop) OnStateChange(fn func(from, to State)) { l.onState = fn }

func (l *Loop) setState(s State) {
	if s == l.state {
		return
	}
	from := l.state
	l.state = s
	logFor("loop").Debug("state", "from", from, "to", s)
	if l.onState != nil {
		l.onState(from, s)
	}
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Frames returns the number of frames presented.
func (l *Loop) Frames() int { return l.frames }

// ExitCode returns the process exit code the loop settled on.
func (l *Loop) ExitCode() int { return l.exitCode }

// Reason returns why the loop stopped.
func (l *Loop) Reason() string { return l.reason }

// Start initializes the application at the window's size and starts the
// frame clock. On failure the loop moves straight to StateStopping and
// Shutdown will not be called.
func (l *Loop) Start() error {
	if err := l.app.Initialize(l.win.Width, l.win.Height); err != nil {
		l.shutdown = true
		l.stop(1, "initialize failed")
		return errors.Join(ErrApplicationInit, err)
	}
	l.clock = NewFrameClock(l.timer, l.fps)
	l.setState(StateRunning)
	return nil
}

// Run steps the loop until it leaves StateRunning, then shuts the
// application down.
func (l *Loop) Run() {
	for l.state == StateRunning {
		l.Step()
	}
	l.Shutdown()
}

// Step runs one iteration: at most one event, then update, render, present
// and pace.
func (l *Loop) Step() {
	if l.state != StateRunning {
		return
	}
	log := logFor("loop")

	ev, ok, err := l.surface.PollEvent()
	if err != nil {
		log.Error("event poll failed", "err", err)
		l.stop(1, "display error")
		return
	}
	if ok && l.handle(ev) {
		return
	}

	dt := l.clock.Tick()
	if err := l.app.Update(dt); err != nil {
		if errors.Is(err, app.ErrTerminate) {
			log.Info("application requested stop")
		} else {
			log.Warn("update failed, stopping", "err", err)
		}
		l.stop(0, "update declined")
	}

	l.app.Render()
	if err := l.surface.SwapBuffers(l.win.ID); err != nil {
		log.Error("present failed", "err", err)
		// A failed present outranks a graceful stop from the same frame.
		l.stop(1, "present failed")
		l.exitCode, l.reason = 1, "present failed"
		return
	}
	l.frames++

	if l.state == StateRunning {
		l.clock.Wait()
	}
}

// handle reacts to ev and reports whether the loop is stopping.
func (l *Loop) handle(ev hal.Event) bool {
	switch ev.Kind {
	case hal.EventExpose:
		w, h, err := l.surface.Geometry(l.win.ID)
		if err != nil {
			logFor("loop").Warn("geometry query failed", "err", err)
			return false
		}
		l.resize(w, h)
	case hal.EventConfigure:
		if ev.Window == l.win.ID && (ev.Width != l.win.Width || ev.Height != l.win.Height) {
			l.resize(ev.Width, ev.Height)
		}
	case hal.EventClientMessage:
		if l.win.IsCloseRequest(ev) {
			l.stop(0, "close requested")
			return true
		}
	case hal.EventDestroy:
		if ev.Window == l.win.ID {
			l.stop(0, "window destroyed")
			return true
		}
	}
	return false
}

func (l *Loop) resize(w, h int) {
	l.win.Width, l.win.Height = w, h
	l.app.Resize(w, h)
}

func (l *Loop) stop(code int, reason string) {
	if l.state == StateStopping || l.state == StateStopped {
		return
	}
	l.exitCode = code
	l.reason = reason
	l.setState(StateStopping)
}

// Stop moves a running loop to StateStopping.
func (l *Loop) Stop(code int, reason string) { l.stop(code, reason) }

// Shutdown calls the application's Shutdown exactly once and logs frame
// statistics.
func (l *Loop) Shutdown() {
	if l.shutdown {
		return
	}
	l.shutdown = true
	l.stop(0, "shutdown")

	log := logFor("loop")
	log.Info("shutting down", "reason", l.reason, "frames", l.frames)
	if l.clock != nil {
		st := l.clock.Stats()
		log.Debug("frame stats", "frames", st.Frames, "late", st.Late,
			"avg_busy", st.AvgBusy, "interval", l.clock.Interval())
	}
	l.app.Shutdown()
}

// Finish marks the loop stopped once its resources are released.
func (l *Loop) Finish() { l.setState(StateStopped) }
