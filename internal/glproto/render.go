package glproto

import (
	"encoding/binary"
	"math"
)

// GLX render opcodes for the subset of GL the loop issues.
const (
	opBegin      = 4
	opColor3fv   = 8
	opEnd        = 23
	opVertex3fv  = 70
	opClear      = 127
	opClearColor = 130
	opViewport   = 191
)

// MaxRenderBytes is the largest command buffer sent in one glx.Render
// request before it has to be flushed.
const MaxRenderBytes = 64 * 1024

// Commands accumulates GLX render commands. Each command is a 4-byte
// header (length including header, opcode) followed by its arguments in
// client byte order, which for xgb is little-endian.
type Commands struct {
	buf []byte
}

func (c *Commands) Len() int      { return len(c.buf) }
func (c *Commands) Bytes() []byte { return c.buf }
func (c *Commands) Reset()        { c.buf = c.buf[:0] }

func (c *Commands) header(op uint16, argBytes int) []byte {
	n := 4 + argBytes
	start := len(c.buf)
	c.buf = append(c.buf, make([]byte, n)...)
	b := c.buf[start:]
	binary.LittleEndian.PutUint16(b[0:], uint16(n))
	binary.LittleEndian.PutUint16(b[2:], op)
	return b[4:]
}

func putFloats(b []byte, v ...float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
}

func (c *Commands) ClearColor(r, g, b, a float32) {
	putFloats(c.header(opClearColor, 16), r, g, b, a)
}

func (c *Commands) Clear(mask uint32) {
	binary.LittleEndian.PutUint32(c.header(opClear, 4), mask)
}

func (c *Commands) Viewport(x, y, width, height int32) {
	b := c.header(opViewport, 16)
	binary.LittleEndian.PutUint32(b[0:], uint32(x))
	binary.LittleEndian.PutUint32(b[4:], uint32(y))
	binary.LittleEndian.PutUint32(b[8:], uint32(width))
	binary.LittleEndian.PutUint32(b[12:], uint32(height))
}

func (c *Commands) Begin(mode uint32) {
	binary.LittleEndian.PutUint32(c.header(opBegin, 4), mode)
}

func (c *Commands) Color3f(r, g, b float32) {
	putFloats(c.header(opColor3fv, 12), r, g, b)
}

func (c *Commands) Vertex3f(x, y, z float32) {
	putFloats(c.header(opVertex3fv, 12), x, y, z)
}

func (c *Commands) End() {
	c.header(opEnd, 0)
}
