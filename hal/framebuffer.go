package hal

import (
	"image/color"
	"sync"
)

// softSurface is the headless back/front buffer pair. Pixels are stored
// as little-endian RGB565; clears are the only raster operation.
type softSurface struct {
	mu     sync.Mutex
	width  int
	height int
	back   []byte
	front  []byte
}

func newSoftSurface(width, height int) *softSurface {
	s := &softSurface{}
	s.resize(width, height)
	return s
}

func (s *softSurface) resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
	s.back = make([]byte, width*height*2)
	s.front = make([]byte, width*height*2)
}

func (s *softSurface) clearRGB(r, g, b uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(s.back); i += 2 {
		s.back[i] = lo
		s.back[i+1] = hi
	}
}

// swap presents the back buffer.
func (s *softSurface) swap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.front, s.back)
}

// at returns the presented color at (x, y).
func (s *softSurface) at(x, y int) color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return color.RGBA{}
	}
	i := (y*s.width + x) * 2
	r, g, b := rgb888From565(uint16(s.front[i]) | uint16(s.front[i+1])<<8)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

func unitToByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xFF
	default:
		return uint8(v*255 + 0.5)
	}
}
