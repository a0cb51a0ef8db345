package kernel

import (
	"errors"
	"fmt"

	"lumen/hal"
)

// Window owns a top-level window, its colormap and the close token the
// window manager sends back when the user closes it.
type Window struct {
	ws hal.WindowSystem

	ID         hal.Window
	Colormap   hal.Colormap
	CloseToken hal.Atom

	Width  int
	Height int

	destroyed bool
}

// CreateWindow creates a width x height window with visual v and registers
// for WM_DELETE_WINDOW. On failure everything created so far is released.
func CreateWindow(ws hal.WindowSystem, v hal.Visual, width, height int) (w *Window, err error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("window: invalid size %dx%d", width, height)
	}

	cm, err := ws.CreateColormap(v)
	if err != nil {
		return nil, fmt.Errorf("window: create colormap: %w", err)
	}
	defer func() {
		if err != nil {
			_ = ws.FreeColormap(cm)
		}
	}()

	id, err := ws.CreateWindow(v, cm, width, height)
	if err != nil {
		return nil, fmt.Errorf("window: create: %w", err)
	}
	defer func() {
		if err != nil {
			_ = ws.DestroyWindow(id)
		}
	}()

	token, err := ws.InternAtom("WM_DELETE_WINDOW")
	if err != nil {
		return nil, fmt.Errorf("window: intern WM_DELETE_WINDOW: %w", err)
	}
	if err = ws.SetWMProtocols(id, token); err != nil {
		return nil, fmt.Errorf("window: set WM_PROTOCOLS: %w", err)
	}

	return &Window{
		ws:         ws,
		ID:         id,
		Colormap:   cm,
		CloseToken: token,
		Width:      width,
		Height:     height,
	}, nil
}

// Show clears the window to its background and maps it on top.
func (w *Window) Show() error {
	if err := w.ws.ClearWindow(w.ID); err != nil {
		return fmt.Errorf("window: clear: %w", err)
	}
	if err := w.ws.MapRaised(w.ID); err != nil {
		return fmt.Errorf("window: map: %w", err)
	}
	return nil
}

// Destroy releases the window and then its colormap. Calls after the first
// do nothing.
func (w *Window) Destroy() error {
	if w == nil || w.destroyed {
		return nil
	}
	w.destroyed = true
	return errors.Join(w.ws.DestroyWindow(w.ID), w.ws.FreeColormap(w.Colormap))
}

// IsCloseRequest reports whether ev is the window manager asking to close w.
func (w *Window) IsCloseRequest(ev hal.Event) bool {
	return ev.Kind == hal.EventClientMessage && ev.Window == w.ID && ev.Data0 == uint32(w.CloseToken)
}
