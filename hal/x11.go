package hal

import (
	"errors"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/glx"
	"github.com/jezek/xgb/xproto"

	"lumen/internal/glproto"
)

// X11Display is a Display backed by an X server connection speaking GLX.
// Contexts are created server-side, so GL calls issued through the GL it
// returns travel as GLX render requests.
type X11Display struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	screen int

	cur    *x11GL
	closed bool
}

// OpenX11 connects to the named display ("" means $DISPLAY) and initializes
// the GLX extension.
func OpenX11(name string) (*X11Display, error) {
	conn, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if err := glx.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: glx init: %w", ErrConnection, err)
	}
	return &X11Display{
		conn:   conn,
		setup:  xproto.Setup(conn),
		screen: conn.DefaultScreen,
	}, nil
}

// wireDirect is the isDirect flag sent with every context request. A client
// speaking only the X protocol renders through GLX render requests, so its
// contexts must live on the server.
const wireDirect = false

func (d *X11Display) Screen() int { return d.screen }

func (d *X11Display) rootInfo() *xproto.ScreenInfo {
	return &d.setup.Roots[d.screen]
}

func (d *X11Display) QueryVersion() (int, int, error) {
	// Advertise the newest version we understand; the server answers with
	// what it supports.
	reply, err := glx.QueryVersion(d.conn, 1, 4).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.MajorVersion), int(reply.MinorVersion), nil
}

func (d *X11Display) FBConfigs() ([]FBConfig, error) {
	reply, err := glx.GetFBConfigs(d.conn, uint32(d.screen)).Reply()
	if err != nil {
		return nil, err
	}
	return DecodeFBConfigs(int(reply.NumFbConfigs), int(reply.NumProperties), reply.PropertyList)
}

// Visual finds cfg's visual among every screen's allowed depths.
func (d *X11Display) Visual(cfg FBConfig) (Visual, bool) {
	if cfg.VisualID == 0 {
		return Visual{}, false
	}
	for si, root := range d.setup.Roots {
		for _, depth := range root.AllowedDepths {
			for _, v := range depth.Visuals {
				if uint32(v.VisualId) == cfg.VisualID {
					return Visual{ID: cfg.VisualID, Depth: int(depth.Depth), Screen: si}, true
				}
			}
		}
	}
	return Visual{}, false
}

func (d *X11Display) Extensions() (string, error) {
	reply, err := glx.QueryServerString(d.conn, uint32(d.screen), glproto.ServerExtensions).Reply()
	if err != nil {
		return "", err
	}
	return reply.String, nil
}

func (d *X11Display) CreateContextAttribs(cfg FBConfig, attribs []uint32) (Context, error) {
	if len(attribs)%2 != 0 {
		return 0, errors.New("x11: odd context attribute list")
	}
	id, err := glx.NewContextId(d.conn)
	if err != nil {
		return 0, err
	}
	err = glx.CreateContextAttribsARBChecked(d.conn, id, glx.Fbconfig(cfg.ID), uint32(d.screen),
		0, wireDirect, uint32(len(attribs)/2), attribs).Check()
	if err != nil {
		return 0, err
	}
	return Context(id), nil
}

func (d *X11Display) CreateNewContext(cfg FBConfig) (Context, error) {
	id, err := glx.NewContextId(d.conn)
	if err != nil {
		return 0, err
	}
	err = glx.CreateNewContextChecked(d.conn, id, glx.Fbconfig(cfg.ID), uint32(d.screen),
		glproto.RGBAType, 0, wireDirect).Check()
	if err != nil {
		return 0, err
	}
	return Context(id), nil
}

func (d *X11Display) IsDirect(ctx Context) (bool, error) {
	reply, err := glx.IsDirect(d.conn, glx.Context(ctx)).Reply()
	if err != nil {
		return false, err
	}
	return reply.IsDirect, nil
}

func (d *X11Display) DestroyContext(ctx Context) error {
	return glx.DestroyContextChecked(d.conn, glx.Context(ctx)).Check()
}

// Sync forces a round trip so that every request sent so far has been
// processed by the server.
func (d *X11Display) Sync() error {
	if d.closed {
		return ErrClosed
	}
	d.conn.Sync()
	return nil
}

func (d *X11Display) MakeCurrent(w Window, ctx Context) (GL, error) {
	var old glx.ContextTag
	if d.cur != nil {
		old = d.cur.tag
	}
	reply, err := glx.MakeCurrent(d.conn, glx.Drawable(w), glx.Context(ctx), old).Reply()
	if err != nil {
		return nil, err
	}
	d.cur = &x11GL{conn: d.conn, tag: reply.ContextTag}
	return d.cur, nil
}

func (d *X11Display) ReleaseCurrent() error {
	if d.cur == nil {
		return nil
	}
	old := d.cur.tag
	d.cur = nil
	_, err := glx.MakeCurrent(d.conn, 0, 0, old).Reply()
	return err
}

func (d *X11Display) SwapBuffers(w Window) error {
	if d.cur == nil {
		return errors.New("x11: swap without a current context")
	}
	d.cur.flush()
	return glx.SwapBuffersChecked(d.conn, d.cur.tag, glx.Drawable(w)).Check()
}

func (d *X11Display) CreateColormap(v Visual) (Colormap, error) {
	id, err := xproto.NewColormapId(d.conn)
	if err != nil {
		return 0, err
	}
	root := d.rootInfo().Root
	if err := xproto.CreateColormapChecked(d.conn, xproto.ColormapAllocNone, id, root, xproto.Visualid(v.ID)).Check(); err != nil {
		return 0, err
	}
	return Colormap(id), nil
}

func (d *X11Display) FreeColormap(cm Colormap) error {
	return xproto.FreeColormapChecked(d.conn, xproto.Colormap(cm)).Check()
}

func (d *X11Display) CreateWindow(v Visual, cm Colormap, width, height int) (Window, error) {
	id, err := xproto.NewWindowId(d.conn)
	if err != nil {
		return 0, err
	}
	root := d.rootInfo()

	// Values must follow the bit order of the mask.
	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwEventMask | xproto.CwColormap)
	values := []uint32{
		root.WhitePixel,
		root.BlackPixel,
		xproto.EventMaskExposure | xproto.EventMaskStructureNotify,
		uint32(cm),
	}
	err = xproto.CreateWindowChecked(d.conn, byte(v.Depth), id, root.Root,
		0, 0, uint16(width), uint16(height), 0,
		xproto.WindowClassInputOutput, xproto.Visualid(v.ID), mask, values).Check()
	if err != nil {
		return 0, err
	}
	return Window(id), nil
}

func (d *X11Display) DestroyWindow(w Window) error {
	return xproto.DestroyWindowChecked(d.conn, xproto.Window(w)).Check()
}

func (d *X11Display) InternAtom(name string) (Atom, error) {
	reply, err := xproto.InternAtom(d.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return Atom(reply.Atom), nil
}

// SetWMProtocols replaces the WM_PROTOCOLS property of w.
func (d *X11Display) SetWMProtocols(w Window, protocols ...Atom) error {
	prop, err := d.InternAtom("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	data := make([]byte, 4*len(protocols))
	for i, a := range protocols {
		xgb.Put32(data[i*4:], uint32(a))
	}
	return xproto.ChangePropertyChecked(d.conn, xproto.PropModeReplace, xproto.Window(w),
		xproto.Atom(prop), xproto.AtomAtom, 32, uint32(len(protocols)), data).Check()
}

func (d *X11Display) ClearWindow(w Window) error {
	return xproto.ClearAreaChecked(d.conn, false, xproto.Window(w), 0, 0, 0, 0).Check()
}

func (d *X11Display) MapRaised(w Window) error {
	err := xproto.ConfigureWindowChecked(d.conn, xproto.Window(w), xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove}).Check()
	if err != nil {
		return err
	}
	return xproto.MapWindowChecked(d.conn, xproto.Window(w)).Check()
}

func (d *X11Display) Geometry(w Window) (int, int, error) {
	reply, err := xproto.GetGeometry(d.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.Width), int(reply.Height), nil
}

func (d *X11Display) PollEvent() (Event, bool, error) {
	ev, xerr := d.conn.PollForEvent()
	if xerr != nil {
		return Event{}, false, xerr
	}
	if ev == nil {
		return Event{}, false, nil
	}
	return decodeX11Event(ev), true, nil
}

func decodeX11Event(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.ExposeEvent:
		return Event{Kind: EventExpose, Window: Window(e.Window)}
	case xproto.ConfigureNotifyEvent:
		return Event{Kind: EventConfigure, Window: Window(e.Window), Width: int(e.Width), Height: int(e.Height)}
	case xproto.ClientMessageEvent:
		out := Event{Kind: EventClientMessage, Window: Window(e.Window)}
		if e.Format == 32 && len(e.Data.Data32) > 0 {
			out.Data0 = e.Data.Data32[0]
		}
		return out
	case xproto.DestroyNotifyEvent:
		return Event{Kind: EventDestroy, Window: Window(e.Window)}
	default:
		return Event{Kind: EventOther}
	}
}

func (d *X11Display) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.cur = nil
	d.conn.Close()
	return nil
}

// x11GL encodes GL calls as GLX render commands against a context tag.
type x11GL struct {
	conn *xgb.Conn
	tag  glx.ContextTag
	cmds glproto.Commands
}

func (g *x11GL) GetString(name uint32) (string, error) {
	g.flush()
	reply, err := glx.GetString(g.conn, g.tag, name).Reply()
	if err != nil {
		return "", err
	}
	return reply.String, nil
}

func (g *x11GL) ClearColor(r, gr, b, a float32) {
	g.cmds.ClearColor(r, gr, b, a)
	g.maybeFlush()
}

func (g *x11GL) Clear(mask uint32) {
	g.cmds.Clear(mask)
	g.maybeFlush()
}

func (g *x11GL) Begin(mode uint32) {
	g.cmds.Begin(mode)
	g.maybeFlush()
}

func (g *x11GL) Color3f(r, gr, b float32) {
	g.cmds.Color3f(r, gr, b)
	g.maybeFlush()
}

func (g *x11GL) Vertex3f(x, y, z float32) {
	g.cmds.Vertex3f(x, y, z)
	g.maybeFlush()
}

func (g *x11GL) End() {
	g.cmds.End()
	g.maybeFlush()
}

func (g *x11GL) Viewport(x, y, width, height int) {
	g.cmds.Viewport(int32(x), int32(y), int32(width), int32(height))
	g.maybeFlush()
}

func (g *x11GL) maybeFlush() {
	if g.cmds.Len() >= glproto.MaxRenderBytes {
		g.flush()
	}
}

func (g *x11GL) flush() {
	if g.cmds.Len() == 0 {
		return
	}
	buf := make([]byte, g.cmds.Len())
	copy(buf, g.cmds.Bytes())
	glx.Render(g.conn, g.tag, buf)
	g.cmds.Reset()
}
