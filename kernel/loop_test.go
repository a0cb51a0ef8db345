package kernel

import (
	"testing"

	"lumen/hal"
)

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateStarting: "starting",
		StateRunning:  "running",
		StateStopping: "stopping",
		StateStopped:  "stopped",
		State(42):     "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", uint8(s), got, want)
		}
	}
}

func newTestLoop(t *testing.T) (*Loop, *hal.Headless, *scriptApp, *Window) {
	t.Helper()
	h := hal.NewHeadless(hal.DefaultHeadlessConfig())
	win, err := CreateWindow(h, testVisual, 100, 50)
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	ctx, _ := h.CreateNewContext(hal.DefaultHeadlessConfig().Configs[0])
	gl, err := h.MakeCurrent(win.ID, ctx)
	if err != nil {
		t.Fatalf("MakeCurrent: %v", err)
	}
	timer := &fakeTimer{}
	a := &scriptApp{gl: gl, timer: timer}
	return NewLoop(h, win, a, timer, 30), h, a, win
}

func TestLoopStepBeforeStart(t *testing.T) {
	l, h, a, _ := newTestLoop(t)
	l.Step()
	if a.updates != 0 || h.Swaps() != 0 {
		t.Fatalf("Step() before Start ran a frame")
	}
}

func TestLoopStepsOneFrame(t *testing.T) {
	l, h, a, _ := newTestLoop(t)
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if l.State() != StateRunning {
		t.Fatalf("State() = %v, want running", l.State())
	}
	l.Step()
	l.Step()
	if a.updates != 2 || a.renders != 2 || h.Swaps() != 2 || l.Frames() != 2 {
		t.Fatalf("updates/renders/swaps/frames = %d/%d/%d/%d, want 2 each",
			a.updates, a.renders, h.Swaps(), l.Frames())
	}
}

func TestLoopOneEventPerIteration(t *testing.T) {
	l, h, a, win := newTestLoop(t)
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.ResizeWindow(win.ID, 200, 100)
	h.RequestClose(win.ID)

	l.Step()
	if l.State() != StateRunning || len(a.sizes) != 1 {
		t.Fatalf("after first step: state %v sizes %v, want running with one resize", l.State(), a.sizes)
	}
	l.Step()
	if l.State() != StateStopping {
		t.Fatalf("State() = %v, want stopping", l.State())
	}
	if a.updates != 1 {
		t.Fatalf("updates = %d, want 1", a.updates)
	}
}

func TestLoopPollErrorStops(t *testing.T) {
	l, h, a, _ := newTestLoop(t)
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.Fail(hal.OpPollEvent, errScripted)
	l.Run()
	if l.ExitCode() != 1 || l.Reason() != "display error" {
		t.Fatalf("ExitCode/Reason = %d/%q, want 1/display error", l.ExitCode(), l.Reason())
	}
	if a.updates != 0 || a.shutdowns != 1 {
		t.Fatalf("updates/shutdowns = %d/%d, want 0/1", a.updates, a.shutdowns)
	}
}

func TestLoopSwapErrorStops(t *testing.T) {
	l, h, a, _ := newTestLoop(t)
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.Fail(hal.OpSwapBuffers, errScripted)
	l.Run()
	if l.ExitCode() != 1 || l.Frames() != 0 {
		t.Fatalf("ExitCode/Frames = %d/%d, want 1/0", l.ExitCode(), l.Frames())
	}
	if a.shutdowns != 1 {
		t.Fatalf("shutdowns = %d, want 1", a.shutdowns)
	}
}

func TestLoopSwapErrorAfterDecline(t *testing.T) {
	l, h, a, _ := newTestLoop(t)
	a.failAt = 2
	a.onUpdate = func(n int) {
		if n == 2 {
			h.Fail(hal.OpSwapBuffers, errScripted)
		}
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	l.Run()
	if l.ExitCode() != 1 || l.Reason() != "present failed" {
		t.Fatalf("ExitCode/Reason = %d/%q, want 1/%q", l.ExitCode(), l.Reason(), "present failed")
	}
	if l.Frames() != 1 || a.shutdowns != 1 {
		t.Fatalf("Frames/shutdowns = %d/%d, want 1/1", l.Frames(), a.shutdowns)
	}
}

func TestLoopShutdownOnce(t *testing.T) {
	l, _, a, _ := newTestLoop(t)
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	l.Stop(0, "test")
	l.Shutdown()
	l.Shutdown()
	l.Run()
	if a.shutdowns != 1 {
		t.Fatalf("shutdowns = %d, want 1", a.shutdowns)
	}
	if l.Reason() != "test" {
		t.Fatalf("Reason() = %q, want test", l.Reason())
	}
}
