package app

import (
	"image/color"

	"golang.org/x/image/colornames"

	"lumen/hal"
	"lumen/internal/glproto"
)

// Config controls the demo.
type Config struct {
	ClearColor color.RGBA

	// MaxFrames stops the demo after that many updates. Zero runs until the
	// window is closed.
	MaxFrames int
}

// DefaultConfig returns a slate-gray background with no frame limit.
func DefaultConfig() Config {
	return Config{ClearColor: colornames.Lightslategray}
}

// Demo clears the window and draws one shaded triangle per frame.
type Demo struct {
	gl  hal.GL
	cfg Config

	width  int
	height int
	frames int
	closed bool
}

// NewDemo returns a demo drawing through gl.
func NewDemo(gl hal.GL, cfg Config) *Demo {
	return &Demo{gl: gl, cfg: cfg}
}

// DemoFactory returns a Factory producing demos with cfg.
func DemoFactory(cfg Config) Factory {
	return func(gl hal.GL) Application { return NewDemo(gl, cfg) }
}

func (d *Demo) Initialize(width, height int) error {
	c := d.cfg.ClearColor
	d.gl.ClearColor(unit(c.R), unit(c.G), unit(c.B), unit(c.A))
	d.Resize(width, height)
	return nil
}

func (d *Demo) Update(dt float64) error {
	d.frames++
	if d.cfg.MaxFrames > 0 && d.frames >= d.cfg.MaxFrames {
		return ErrTerminate
	}
	return nil
}

func (d *Demo) Render() {
	d.gl.Clear(glproto.ColorBufferBit)

	d.gl.Begin(glproto.Triangles)
	d.gl.Color3f(1, 0, 0)
	d.gl.Vertex3f(0, -1, 0)
	d.gl.Color3f(0, 1, 0)
	d.gl.Vertex3f(-1, 1, 0)
	d.gl.Color3f(0, 0, 1)
	d.gl.Vertex3f(1, 1, 0)
	d.gl.End()
}

func (d *Demo) Resize(width, height int) {
	d.width, d.height = width, height
	d.gl.Viewport(0, 0, width, height)
}

func (d *Demo) Shutdown() { d.closed = true }

// Frames returns the number of updates seen.
func (d *Demo) Frames() int { return d.frames }

// Size returns the last viewport size.
func (d *Demo) Size() (int, int) { return d.width, d.height }

func unit(v uint8) float32 { return float32(v) / 255 }
