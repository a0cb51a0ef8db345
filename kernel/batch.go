package kernel

// batchVertex is a vertex in window pixels, origin top-left.
type batchVertex struct {
	X, Y    float32
	R, G, B float32
}

// triangleBatch collects immediate-mode triangles for a host that draws
// them in one call. Viewport and vertex coordinates follow GL: the
// viewport origin is bottom-left and vertices are in normalized device
// coordinates.
type triangleBatch struct {
	viewport [4]int
	height   int

	color    [3]float32
	open     bool
	pending  []batchVertex
	vertices []batchVertex
}

func (b *triangleBatch) setViewport(x, y, width, height int) {
	b.viewport = [4]int{x, y, width, height}
}

// setTarget sets the height of the surface vertices are mapped onto.
func (b *triangleBatch) setTarget(height int) { b.height = height }

func (b *triangleBatch) begin() {
	b.open = true
	b.pending = b.pending[:0]
}

func (b *triangleBatch) setColor(r, g, bl float32) { b.color = [3]float32{r, g, bl} }

func (b *triangleBatch) vertex(x, y float32) {
	if !b.open {
		return
	}
	vx, vy, vw, vh := b.viewport[0], b.viewport[1], b.viewport[2], b.viewport[3]
	px := float32(vx) + (x+1)/2*float32(vw)
	py := float32(b.height) - (float32(vy) + (y+1)/2*float32(vh))
	b.pending = append(b.pending, batchVertex{X: px, Y: py, R: b.color[0], G: b.color[1], B: b.color[2]})
}

// end closes the primitive, keeping only whole triangles.
func (b *triangleBatch) end() {
	b.open = false
	n := len(b.pending) - len(b.pending)%3
	b.vertices = append(b.vertices, b.pending[:n]...)
	b.pending = b.pending[:0]
}

// take returns the collected vertices and empties the batch.
func (b *triangleBatch) take() []batchVertex {
	out := b.vertices
	b.vertices = nil
	return out
}
