//go:build cgo

package kernel

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"lumen/app"
	"lumen/internal/buildinfo"
	"lumen/internal/glproto"
)

// RunEbiten hosts the application in an ebiten window instead of a GLX
// context. Ebiten paces the loop at cfg.FPS ticks per second; cfg.Timer only
// measures deltas.
//
// Ebiten decides when to draw, so Render may run more or fewer times than
// Update and Frames counts updates. A declining Update is still followed by
// a draw before the window closes.
func RunEbiten(cfg Config, title string, factory app.Factory) (Result, error) {
	if cfg.FPS <= 0 {
		return Result{ExitCode: 1}, fmt.Errorf("kernel: invalid fps %d", cfg.FPS)
	}
	if cfg.Timer == nil {
		cfg.Timer = NewSystemTimer()
	}

	gl := &ebitenGL{}
	a := factory(gl)
	if err := a.Initialize(cfg.Width, cfg.Height); err != nil {
		return Result{ExitCode: 1, Reason: "initialize failed"}, errors.Join(ErrApplicationInit, err)
	}

	g := &ebitenGame{
		app:    a,
		gl:     gl,
		clock:  NewFrameClock(cfg.Timer, cfg.FPS),
		width:  cfg.Width,
		height: cfg.Height,
	}
	if cfg.OnState != nil {
		cfg.OnState(StateStarting, StateRunning)
	}

	ebiten.SetWindowTitle(fmt.Sprintf("%s (%s)", title, buildinfo.Short()))
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)

	err := ebiten.RunGame(g)
	if g.reason == "" {
		g.reason = "close requested"
	}
	logFor("ebiten").Info("shutting down", "reason", g.reason, "frames", g.frames)
	a.Shutdown()
	if cfg.OnState != nil {
		cfg.OnState(StateRunning, StateStopping)
		cfg.OnState(StateStopping, StateStopped)
	}

	res := Result{Frames: g.frames, Reason: g.reason}
	if err != nil {
		res.ExitCode = 1
		return res, fmt.Errorf("ebiten: %w", err)
	}
	return res, nil
}

type ebitenGame struct {
	app   app.Application
	gl    *ebitenGL
	clock *FrameClock

	width    int
	height   int
	frames   int
	reason   string
	stopping bool
}

// Update ends the game one tick after the application declines, so the
// declining frame is still drawn.
func (g *ebitenGame) Update() error {
	if g.stopping {
		return ebiten.Termination
	}
	if err := g.app.Update(g.clock.Tick()); err != nil {
		if errors.Is(err, app.ErrTerminate) {
			logFor("ebiten").Info("application requested stop")
		} else {
			logFor("ebiten").Warn("update failed, stopping", "err", err)
		}
		g.reason = "update declined"
		g.stopping = true
	}
	g.frames++
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	g.gl.bind(screen)
	g.app.Render()
	g.gl.unbind()
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.app.Resize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

// ebitenGL implements hal.GL on top of an ebiten screen image. Calls made
// outside Draw only update state.
type ebitenGL struct {
	target *ebiten.Image
	white  *ebiten.Image
	clear  color.RGBA
	batch  triangleBatch
}

func (gl *ebitenGL) bind(screen *ebiten.Image) {
	if gl.white == nil {
		gl.white = ebiten.NewImage(3, 3)
		gl.white.Fill(color.White)
	}
	gl.target = screen
	gl.batch.setTarget(screen.Bounds().Dy())
}

func (gl *ebitenGL) unbind() { gl.target = nil }

func (gl *ebitenGL) GetString(name uint32) (string, error) {
	switch name {
	case glproto.Vendor:
		return "ebiten", nil
	case glproto.Renderer:
		return "ebiten/v2", nil
	case glproto.Version:
		return "ebiten " + buildinfo.Short(), nil
	case glproto.ShadingLanguageVersion:
		return "kage", nil
	default:
		return "", fmt.Errorf("ebiten: unknown GL string 0x%x", name)
	}
}

func (gl *ebitenGL) ClearColor(r, g, b, a float32) {
	gl.clear = color.RGBA{R: unitByte(r), G: unitByte(g), B: unitByte(b), A: unitByte(a)}
}

func (gl *ebitenGL) Clear(mask uint32) {
	if gl.target == nil || mask&glproto.ColorBufferBit == 0 {
		return
	}
	gl.target.Fill(gl.clear)
}

func (gl *ebitenGL) Viewport(x, y, width, height int) {
	gl.batch.setViewport(x, y, width, height)
}

func (gl *ebitenGL) Begin(mode uint32) { gl.batch.begin() }

func (gl *ebitenGL) Color3f(r, g, b float32) { gl.batch.setColor(r, g, b) }

func (gl *ebitenGL) Vertex3f(x, y, z float32) { gl.batch.vertex(x, y) }

func (gl *ebitenGL) End() {
	gl.batch.end()
	tris := gl.batch.take()
	if gl.target == nil || len(tris) == 0 {
		return
	}
	vs := make([]ebiten.Vertex, len(tris))
	is := make([]uint16, len(tris))
	for i, v := range tris {
		vs[i] = ebiten.Vertex{
			DstX: v.X, DstY: v.Y,
			SrcX: 1, SrcY: 1,
			ColorR: v.R, ColorG: v.G, ColorB: v.B, ColorA: 1,
		}
		is[i] = uint16(i)
	}
	gl.target.DrawTriangles(vs, is, gl.white, nil)
}

func unitByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xFF
	default:
		return uint8(v*255 + 0.5)
	}
}
