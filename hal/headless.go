package hal

import (
	"fmt"
	"image/color"
	"sort"

	"lumen/internal/glproto"
)

// Op names a Headless operation for call recording and fault injection.
type Op string

const (
	OpQueryVersion         Op = "QueryVersion"
	OpFBConfigs            Op = "FBConfigs"
	OpExtensions           Op = "Extensions"
	OpCreateContextAttribs Op = "CreateContextAttribs"
	OpCreateNewContext     Op = "CreateNewContext"
	OpIsDirect             Op = "IsDirect"
	OpDestroyContext       Op = "DestroyContext"
	OpSync                 Op = "Sync"
	OpMakeCurrent          Op = "MakeCurrent"
	OpReleaseCurrent       Op = "ReleaseCurrent"
	OpSwapBuffers          Op = "SwapBuffers"
	OpCreateColormap       Op = "CreateColormap"
	OpFreeColormap         Op = "FreeColormap"
	OpCreateWindow         Op = "CreateWindow"
	OpDestroyWindow        Op = "DestroyWindow"
	OpInternAtom           Op = "InternAtom"
	OpSetWMProtocols       Op = "SetWMProtocols"
	OpClearWindow          Op = "ClearWindow"
	OpMapRaised            Op = "MapRaised"
	OpGeometry             Op = "Geometry"
	OpPollEvent            Op = "PollEvent"
	OpClose                Op = "Close"
)

// HeadlessConfig describes the server a Headless display simulates.
type HeadlessConfig struct {
	Screen       int
	MajorVersion int
	MinorVersion int
	Extensions   string
	Direct       bool

	// Configs is the full list returned by FBConfigs, before filtering.
	Configs []FBConfig

	// Visuals maps visual IDs to visuals. When nil, every non-zero visual
	// ID resolves to a 24-bit visual on Screen.
	Visuals map[uint32]Visual

	// RejectAttribContexts makes CreateContextAttribs fail the way a server
	// without 3.x support does.
	RejectAttribContexts bool
}

// DefaultHeadlessConfig simulates a GLX 1.4 server offering a plain and a
// 4x multisampled RGBA8/D24S8 configuration, with GLX_ARB_create_context.
func DefaultHeadlessConfig() HeadlessConfig {
	base := FBConfig{
		RedSize: 8, GreenSize: 8, BlueSize: 8, AlphaSize: 8,
		DepthSize: 24, StencilSize: 8, DoubleBuffer: true,
		DrawableType: glproto.WindowBit, RenderType: glproto.RGBABit,
		XRenderable: true, VisualType: glproto.TrueColor,
	}
	plain := base
	plain.ID, plain.VisualID = 0x101, 0x21
	msaa := base
	msaa.ID, msaa.VisualID = 0x102, 0x22
	msaa.SampleBuffers, msaa.Samples = 1, 4

	return HeadlessConfig{
		MajorVersion: 1,
		MinorVersion: 4,
		Extensions:   glproto.ExtCreateContext + " " + glproto.ExtCreateContextProfile + " GLX_EXT_visual_info",
		Direct:       true,
		Configs:      []FBConfig{plain, msaa},
	}
}

// Headless is an in-memory Display. It tracks every handle it hands out so
// callers can check that all of them were released, records the operations
// it served, and can be told to fail any operation.
type Headless struct {
	cfg HeadlessConfig

	nextID   uint32
	atoms    map[string]Atom
	contexts map[Context]bool
	windows  map[Window]*softSurface
	cmaps    map[Colormap]bool
	events   eventQueue

	current *headlessGL
	last    *headlessGL
	closed  bool

	fail  map[Op]error
	calls []Op

	swaps int
}

// NewHeadless returns an open simulated display.
func NewHeadless(cfg HeadlessConfig) *Headless {
	return &Headless{
		cfg:      cfg,
		nextID:   0x200000,
		atoms:    make(map[string]Atom),
		contexts: make(map[Context]bool),
		windows:  make(map[Window]*softSurface),
		cmaps:    make(map[Colormap]bool),
		fail:     make(map[Op]error),
	}
}

// Fail makes every later call of op return err. A nil err clears it.
func (h *Headless) Fail(op Op, err error) {
	if err == nil {
		delete(h.fail, op)
		return
	}
	h.fail[op] = err
}

// Calls returns the operations served so far, in order.
func (h *Headless) Calls() []Op {
	out := make([]Op, len(h.calls))
	copy(out, h.calls)
	return out
}

// Called reports how many times op was served.
func (h *Headless) Called(op Op) int {
	n := 0
	for _, c := range h.calls {
		if c == op {
			n++
		}
	}
	return n
}

// Live returns the number of handles not yet released, counting the
// connection itself while it is open.
func (h *Headless) Live() int {
	n := len(h.contexts) + len(h.windows) + len(h.cmaps)
	if !h.closed {
		n++
	}
	return n
}

// Swaps returns the number of presented frames.
func (h *Headless) Swaps() int { return h.swaps }

// Closed reports whether Close has been called.
func (h *Headless) Closed() bool { return h.closed }

// Windows returns the live windows in creation order.
func (h *Headless) Windows() []Window {
	out := make([]Window, 0, len(h.windows))
	for w := range h.windows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Push queues an event as if the server had sent it.
func (h *Headless) Push(ev Event) bool { return h.events.TryPush(ev) }

// RequestClose queues a WM_DELETE_WINDOW client message for w.
func (h *Headless) RequestClose(w Window) bool {
	return h.Push(Event{Kind: EventClientMessage, Window: w, Data0: uint32(h.atom("WM_DELETE_WINDOW"))})
}

// ResizeWindow changes w's size and queues the matching configure event.
func (h *Headless) ResizeWindow(w Window, width, height int) bool {
	s, ok := h.windows[w]
	if !ok {
		return false
	}
	s.resize(width, height)
	return h.Push(Event{Kind: EventConfigure, Window: w, Width: width, Height: height})
}

// Pixel returns the last presented color at (x, y) of w.
func (h *Headless) Pixel(w Window, x, y int) color.RGBA {
	s, ok := h.windows[w]
	if !ok {
		return color.RGBA{}
	}
	return s.at(x, y)
}

func (h *Headless) enter(op Op) error {
	h.calls = append(h.calls, op)
	if h.closed && op != OpClose {
		return ErrClosed
	}
	if err, ok := h.fail[op]; ok {
		return fmt.Errorf("headless %s: %w", op, err)
	}
	return nil
}

func (h *Headless) newID() uint32 {
	h.nextID++
	return h.nextID
}

func (h *Headless) atom(name string) Atom {
	a, ok := h.atoms[name]
	if !ok {
		a = Atom(len(h.atoms) + 300)
		h.atoms[name] = a
	}
	return a
}

func (h *Headless) Screen() int { return h.cfg.Screen }

func (h *Headless) QueryVersion() (int, int, error) {
	if err := h.enter(OpQueryVersion); err != nil {
		return 0, 0, err
	}
	return h.cfg.MajorVersion, h.cfg.MinorVersion, nil
}

func (h *Headless) FBConfigs() ([]FBConfig, error) {
	if err := h.enter(OpFBConfigs); err != nil {
		return nil, err
	}
	out := make([]FBConfig, len(h.cfg.Configs))
	copy(out, h.cfg.Configs)
	return out, nil
}

func (h *Headless) Visual(cfg FBConfig) (Visual, bool) {
	if cfg.VisualID == 0 {
		return Visual{}, false
	}
	if h.cfg.Visuals == nil {
		return Visual{ID: cfg.VisualID, Depth: 24, Screen: h.cfg.Screen}, true
	}
	v, ok := h.cfg.Visuals[cfg.VisualID]
	return v, ok
}

func (h *Headless) Extensions() (string, error) {
	if err := h.enter(OpExtensions); err != nil {
		return "", err
	}
	return h.cfg.Extensions, nil
}

func (h *Headless) CreateContextAttribs(cfg FBConfig, attribs []uint32) (Context, error) {
	if err := h.enter(OpCreateContextAttribs); err != nil {
		return 0, err
	}
	if h.cfg.RejectAttribContexts {
		return 0, fmt.Errorf("headless: BadMatch for context attributes %v", attribs)
	}
	return h.newContext(), nil
}

func (h *Headless) CreateNewContext(cfg FBConfig) (Context, error) {
	if err := h.enter(OpCreateNewContext); err != nil {
		return 0, err
	}
	return h.newContext(), nil
}

func (h *Headless) newContext() Context {
	ctx := Context(h.newID())
	h.contexts[ctx] = true
	return ctx
}

func (h *Headless) IsDirect(ctx Context) (bool, error) {
	if err := h.enter(OpIsDirect); err != nil {
		return false, err
	}
	if !h.contexts[ctx] {
		return false, fmt.Errorf("headless: bad context 0x%x", uint32(ctx))
	}
	return h.cfg.Direct, nil
}

func (h *Headless) DestroyContext(ctx Context) error {
	if err := h.enter(OpDestroyContext); err != nil {
		return err
	}
	if !h.contexts[ctx] {
		return fmt.Errorf("headless: bad context 0x%x", uint32(ctx))
	}
	delete(h.contexts, ctx)
	if h.current != nil && h.current.ctx == ctx {
		h.current = nil
	}
	return nil
}

func (h *Headless) Sync() error { return h.enter(OpSync) }

func (h *Headless) MakeCurrent(w Window, ctx Context) (GL, error) {
	if err := h.enter(OpMakeCurrent); err != nil {
		return nil, err
	}
	s, ok := h.windows[w]
	if !ok {
		return nil, fmt.Errorf("headless: bad window 0x%x", uint32(w))
	}
	if !h.contexts[ctx] {
		return nil, fmt.Errorf("headless: bad context 0x%x", uint32(ctx))
	}
	h.current = &headlessGL{ctx: ctx, surface: s}
	h.last = h.current
	return h.current, nil
}

func (h *Headless) ReleaseCurrent() error {
	if err := h.enter(OpReleaseCurrent); err != nil {
		return err
	}
	h.current = nil
	return nil
}

func (h *Headless) SwapBuffers(w Window) error {
	if err := h.enter(OpSwapBuffers); err != nil {
		return err
	}
	s, ok := h.windows[w]
	if !ok {
		return fmt.Errorf("headless: bad window 0x%x", uint32(w))
	}
	if h.current == nil {
		return fmt.Errorf("headless: swap without a current context")
	}
	s.swap()
	h.swaps++
	return nil
}

func (h *Headless) CreateColormap(v Visual) (Colormap, error) {
	if err := h.enter(OpCreateColormap); err != nil {
		return 0, err
	}
	cm := Colormap(h.newID())
	h.cmaps[cm] = true
	return cm, nil
}

func (h *Headless) FreeColormap(cm Colormap) error {
	if err := h.enter(OpFreeColormap); err != nil {
		return err
	}
	if !h.cmaps[cm] {
		return fmt.Errorf("headless: bad colormap 0x%x", uint32(cm))
	}
	delete(h.cmaps, cm)
	return nil
}

func (h *Headless) CreateWindow(v Visual, cm Colormap, width, height int) (Window, error) {
	if err := h.enter(OpCreateWindow); err != nil {
		return 0, err
	}
	if !h.cmaps[cm] {
		return 0, fmt.Errorf("headless: bad colormap 0x%x", uint32(cm))
	}
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("headless: bad window size %dx%d", width, height)
	}
	w := Window(h.newID())
	h.windows[w] = newSoftSurface(width, height)
	return w, nil
}

func (h *Headless) DestroyWindow(w Window) error {
	if err := h.enter(OpDestroyWindow); err != nil {
		return err
	}
	if _, ok := h.windows[w]; !ok {
		return fmt.Errorf("headless: bad window 0x%x", uint32(w))
	}
	delete(h.windows, w)
	return nil
}

func (h *Headless) InternAtom(name string) (Atom, error) {
	if err := h.enter(OpInternAtom); err != nil {
		return 0, err
	}
	return h.atom(name), nil
}

func (h *Headless) SetWMProtocols(w Window, protocols ...Atom) error {
	if err := h.enter(OpSetWMProtocols); err != nil {
		return err
	}
	if _, ok := h.windows[w]; !ok {
		return fmt.Errorf("headless: bad window 0x%x", uint32(w))
	}
	return nil
}

func (h *Headless) ClearWindow(w Window) error {
	if err := h.enter(OpClearWindow); err != nil {
		return err
	}
	s, ok := h.windows[w]
	if !ok {
		return fmt.Errorf("headless: bad window 0x%x", uint32(w))
	}
	s.clearRGB(0xFF, 0xFF, 0xFF)
	return nil
}

// MapRaised maps w and, like a real server, follows up with an expose.
func (h *Headless) MapRaised(w Window) error {
	if err := h.enter(OpMapRaised); err != nil {
		return err
	}
	if _, ok := h.windows[w]; !ok {
		return fmt.Errorf("headless: bad window 0x%x", uint32(w))
	}
	h.Push(Event{Kind: EventExpose, Window: w})
	return nil
}

func (h *Headless) Geometry(w Window) (int, int, error) {
	if err := h.enter(OpGeometry); err != nil {
		return 0, 0, err
	}
	s, ok := h.windows[w]
	if !ok {
		return 0, 0, fmt.Errorf("headless: bad window 0x%x", uint32(w))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height, nil
}

// PollEvent is not recorded in Calls; the loop calls it every iteration.
func (h *Headless) PollEvent() (Event, bool, error) {
	if h.closed {
		return Event{}, false, ErrClosed
	}
	if err, ok := h.fail[OpPollEvent]; ok {
		return Event{}, false, err
	}
	ev, ok := h.events.TryPop()
	return ev, ok, nil
}

func (h *Headless) Close() error {
	_ = h.enter(OpClose)
	h.closed = true
	h.current = nil
	return nil
}

// headlessGL rasterizes clears into the window's soft surface and counts
// everything else.
type headlessGL struct {
	ctx     Context
	surface *softSurface

	clear     [4]float32
	viewport  [4]int
	vertices  int
	triangles int
	inBegin   bool
}

func (g *headlessGL) GetString(name uint32) (string, error) {
	switch name {
	case glproto.Vendor:
		return "lumen", nil
	case glproto.Renderer:
		return "headless softpipe", nil
	case glproto.Version:
		return "2.1 headless", nil
	case glproto.ShadingLanguageVersion:
		return "1.20", nil
	default:
		return "", fmt.Errorf("headless: unknown GL string 0x%x", name)
	}
}

func (g *headlessGL) ClearColor(r, gr, b, a float32) { g.clear = [4]float32{r, gr, b, a} }

func (g *headlessGL) Clear(mask uint32) {
	if mask&glproto.ColorBufferBit == 0 {
		return
	}
	g.surface.clearRGB(unitToByte(g.clear[0]), unitToByte(g.clear[1]), unitToByte(g.clear[2]))
}

func (g *headlessGL) Viewport(x, y, width, height int) { g.viewport = [4]int{x, y, width, height} }

func (g *headlessGL) Begin(mode uint32) {
	g.inBegin = true
	g.vertices = 0
}

func (g *headlessGL) Color3f(r, gr, b float32) {}

func (g *headlessGL) Vertex3f(x, y, z float32) {
	if g.inBegin {
		g.vertices++
	}
}

func (g *headlessGL) End() {
	g.inBegin = false
	g.triangles += g.vertices / 3
	g.vertices = 0
}

// LastViewport returns the viewport last set through the most recently
// bound context, even after it was released.
func (h *Headless) LastViewport() (x, y, width, height int) {
	if h.last == nil {
		return 0, 0, 0, 0
	}
	v := h.last.viewport
	return v[0], v[1], v[2], v[3]
}

// Triangles returns the number of triangles submitted through the most
// recently bound context.
func (h *Headless) Triangles() int {
	if h.last == nil {
		return 0
	}
	return h.last.triangles
}
