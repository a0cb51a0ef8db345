// Package hal is the contact point between lumen and the windowing system:
// a display connection that can enumerate framebuffer configurations,
// create GL contexts, windows and atoms, and deliver events.
//
// Two displays are provided: X11Display talks to a real X server over the
// wire (github.com/jezek/xgb, GLX extension), and Headless simulates one in
// memory for tests and for running without a server.
package hal

// Context is a GL rendering context handle.
type Context uint32

// Window is a drawable window handle.
type Window uint32

// Colormap is a colormap handle bound to a window's visual.
type Colormap uint32

// Atom is an interned window-system name.
type Atom uint32

// Visual is the window-system visual a framebuffer configuration renders
// through.
type Visual struct {
	ID     uint32
	Depth  int
	Screen int
}

// EventKind classifies window-system events the loop cares about.
type EventKind uint8

const (
	EventOther EventKind = iota
	EventExpose
	EventConfigure
	EventClientMessage
	EventDestroy
)

func (k EventKind) String() string {
	switch k {
	case EventExpose:
		return "expose"
	case EventConfigure:
		return "configure"
	case EventClientMessage:
		return "client-message"
	case EventDestroy:
		return "destroy"
	default:
		return "other"
	}
}

// Event is a decoded window-system event.
//
// Width and Height are set for configure events. Data0 carries the first
// 32-bit data word of a client message.
type Event struct {
	Kind   EventKind
	Window Window
	Width  int
	Height int
	Data0  uint32
}

// GL is the subset of GL that a current context exposes to applications.
type GL interface {
	GetString(name uint32) (string, error)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int)
	Begin(mode uint32)
	Color3f(r, g, b float32)
	Vertex3f(x, y, z float32)
	End()
}

// VisualResolver maps a framebuffer configuration to its visual.
type VisualResolver interface {
	Visual(cfg FBConfig) (Visual, bool)
}

// ContextFactory creates and inspects GL contexts.
type ContextFactory interface {
	Screen() int
	Extensions() (string, error)
	CreateContextAttribs(cfg FBConfig, attribs []uint32) (Context, error)
	CreateNewContext(cfg FBConfig) (Context, error)
	IsDirect(ctx Context) (bool, error)
	DestroyContext(ctx Context) error
	Sync() error
}

// WindowSystem creates and manages windows.
type WindowSystem interface {
	CreateColormap(v Visual) (Colormap, error)
	FreeColormap(cm Colormap) error
	CreateWindow(v Visual, cm Colormap, width, height int) (Window, error)
	DestroyWindow(w Window) error
	InternAtom(name string) (Atom, error)
	SetWMProtocols(w Window, protocols ...Atom) error
	ClearWindow(w Window) error
	MapRaised(w Window) error
	Geometry(w Window) (width, height int, err error)
}

// Display is an open connection to the windowing system. It is owned by a
// single goroutine; nothing in it is safe for concurrent use.
type Display interface {
	VisualResolver
	ContextFactory
	WindowSystem

	QueryVersion() (major, minor int, err error)
	FBConfigs() ([]FBConfig, error)

	// MakeCurrent binds ctx to w and returns the GL entry points for it.
	MakeCurrent(w Window, ctx Context) (GL, error)
	ReleaseCurrent() error
	SwapBuffers(w Window) error

	// PollEvent returns the next queued event without blocking.
	PollEvent() (Event, bool, error)

	// Close releases the connection. It is safe to call more than once.
	Close() error
}
