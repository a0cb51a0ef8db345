package kernel

import (
	"reflect"
	"testing"

	"lumen/hal"
)

var testVisual = hal.Visual{ID: 0x21, Depth: 24}

func TestCreateWindow(t *testing.T) {
	h := hal.NewHeadless(hal.DefaultHeadlessConfig())
	w, err := CreateWindow(h, testVisual, 800, 600)
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if w.Width != 800 || w.Height != 600 {
		t.Fatalf("size = %dx%d, want 800x600", w.Width, w.Height)
	}
	del, _ := h.InternAtom("WM_DELETE_WINDOW")
	if w.CloseToken != del {
		t.Fatalf("CloseToken = %d, want %d", w.CloseToken, del)
	}
	if h.Live() != 3 {
		t.Fatalf("Live() = %d, want 3", h.Live())
	}
}

func TestCreateWindowRollsBack(t *testing.T) {
	for _, op := range []hal.Op{hal.OpCreateColormap, hal.OpCreateWindow, hal.OpInternAtom, hal.OpSetWMProtocols} {
		h := hal.NewHeadless(hal.DefaultHeadlessConfig())
		h.Fail(op, errScripted)
		if _, err := CreateWindow(h, testVisual, 800, 600); err == nil {
			t.Errorf("%s: CreateWindow() err = nil, want failure", op)
		}
		if h.Live() != 1 {
			t.Errorf("%s: Live() = %d, want only the connection", op, h.Live())
		}
	}
}

func TestCreateWindowInvalidSize(t *testing.T) {
	h := hal.NewHeadless(hal.DefaultHeadlessConfig())
	if _, err := CreateWindow(h, testVisual, 0, 600); err == nil {
		t.Fatal("CreateWindow() err = nil for zero width")
	}
	if len(h.Calls()) != 0 {
		t.Fatalf("calls = %v, want none", h.Calls())
	}
}

func TestWindowShow(t *testing.T) {
	h := hal.NewHeadless(hal.DefaultHeadlessConfig())
	w, _ := CreateWindow(h, testVisual, 8, 8)
	if err := w.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	calls := h.Calls()
	want := []hal.Op{hal.OpClearWindow, hal.OpMapRaised}
	if got := calls[len(calls)-2:]; !reflect.DeepEqual(got, want) {
		t.Fatalf("Show() calls = %v, want %v", got, want)
	}
}

func TestWindowDestroyIdempotent(t *testing.T) {
	h := hal.NewHeadless(hal.DefaultHeadlessConfig())
	w, _ := CreateWindow(h, testVisual, 8, 8)

	if err := w.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := w.Destroy(); err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
	if h.Called(hal.OpDestroyWindow) != 1 || h.Called(hal.OpFreeColormap) != 1 {
		t.Fatalf("calls = %v, want one release each", h.Calls())
	}
	if h.Live() != 1 {
		t.Fatalf("Live() = %d, want 1", h.Live())
	}

	var nilWin *Window
	if err := nilWin.Destroy(); err != nil {
		t.Fatalf("nil Destroy: %v", err)
	}
}

func TestIsCloseRequest(t *testing.T) {
	h := hal.NewHeadless(hal.DefaultHeadlessConfig())
	w, _ := CreateWindow(h, testVisual, 8, 8)

	tests := []struct {
		ev   hal.Event
		want bool
	}{
		{hal.Event{Kind: hal.EventClientMessage, Window: w.ID, Data0: uint32(w.CloseToken)}, true},
		{hal.Event{Kind: hal.EventClientMessage, Window: w.ID, Data0: uint32(w.CloseToken) + 1}, false},
		{hal.Event{Kind: hal.EventClientMessage, Window: w.ID + 1, Data0: uint32(w.CloseToken)}, false},
		{hal.Event{Kind: hal.EventExpose, Window: w.ID, Data0: uint32(w.CloseToken)}, false},
	}
	for i, tt := range tests {
		if got := w.IsCloseRequest(tt.ev); got != tt.want {
			t.Errorf("case %d: IsCloseRequest(%+v) = %v, want %v", i, tt.ev, got, tt.want)
		}
	}
}
