// Package soft is a CPU rasterizer implementing the batch sink on top of a
// plain pixel grid, for platforms without a usable GPU context.
package soft

import (
	"image"
	"image/draw"

	"github.com/emberline/ember/engine/colors"
	"github.com/emberline/ember/engine/gfx/batch"
)

// Rasterizer consumes batch flushes and rasterizes them into a PixelGrid.
// Positions are interpreted as pixel coordinates; the z lane is ignored
// because submission order already encodes 2D layering.
type Rasterizer struct {
	grid     PixelGrid
	textures map[batch.TextureID]*image.RGBA
	bound    *image.RGBA

	positions []float32
	texcoords []float32
	colors    []uint8
	count     int
}

// New creates a rasterizer writing through grid.
func New(grid PixelGrid) *Rasterizer {
	return &Rasterizer{
		grid:     grid,
		textures: make(map[batch.TextureID]*image.RGBA),
	}
}

// Register makes img addressable as id by SetTexture emissions.
func (r *Rasterizer) Register(id batch.TextureID, img image.Image) {
	if m, ok := img.(*image.RGBA); ok {
		r.textures[id] = m
		return
	}
	m := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(m, m.Bounds(), img, img.Bounds().Min, draw.Src)
	r.textures[id] = m
}

// Clear fills the target surface.
func (r *Rasterizer) Clear(c colors.Color) {
	if p, ok := r.grid.(*Pixmap); ok {
		p.Clear(c)
		return
	}
	w, h := r.grid.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.grid.Set(x, y, c)
		}
	}
}

// --- batch.Sink ---

func (r *Rasterizer) UploadVertices(_, count int, pos, tex, _ []float32, col []uint8) {
	r.positions = append(r.positions[:0], pos...)
	r.texcoords = append(r.texcoords[:0], tex...)
	r.colors = append(r.colors[:0], col...)
	r.count = count
}

func (r *Rasterizer) BindTexture(id batch.TextureID) {
	r.bound = r.textures[id]
}

func (r *Rasterizer) SubmitDraw(t batch.Topology, vertexOffset, vertexCount int) {
	switch t {
	case batch.Lines:
		for i := 0; i+1 < vertexCount; i += 2 {
			r.line(vertexOffset+i, vertexOffset+i+1)
		}
	case batch.Triangles:
		for i := 0; i+2 < vertexCount; i += 3 {
			r.triangle(vertexOffset+i, vertexOffset+i+1, vertexOffset+i+2)
		}
	}
}

func (r *Rasterizer) SubmitIndexedDraw(_ batch.Topology, indexOffset, indexCount int) {
	for i := 0; i+2 < indexCount; i += 3 {
		r.triangle(
			quadIndex(indexOffset+i),
			quadIndex(indexOffset+i+1),
			quadIndex(indexOffset+i+2),
		)
	}
}

// quadIndex expands the canonical quad index table (0,1,2, 0,2,3 per quad)
// without materializing it.
func quadIndex(i int) int {
	k := i / 6
	switch i % 6 {
	case 0, 3:
		return 4 * k
	case 1:
		return 4*k + 1
	case 2, 4:
		return 4*k + 2
	default:
		return 4*k + 3
	}
}

type vertex struct {
	x, y float32
	u, v float32
	c    colors.Color
}

func (r *Rasterizer) vertexAt(i int) vertex {
	return vertex{
		x: r.positions[3*i],
		y: r.positions[3*i+1],
		u: r.texcoords[2*i],
		v: r.texcoords[2*i+1],
		c: colors.FromRGBA8(r.colors[4*i], r.colors[4*i+1], r.colors[4*i+2], r.colors[4*i+3]),
	}
}

func (r *Rasterizer) line(i0, i1 int) {
	a, b := r.vertexAt(i0), r.vertexAt(i1)

	x0, y0 := int(a.x+0.5), int(a.y+0.5)
	x1, y1 := int(b.x+0.5), int(b.y+0.5)

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	steps := max(abs(x1-x0), abs(y1-y0))
	err := dx + dy
	step := 0
	for {
		t := float32(0)
		if steps > 0 {
			t = float32(step) / float32(steps)
		}
		r.plot(x0, y0, lerpColor(a.c, b.c, t))
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
		step++
	}
}

func (r *Rasterizer) triangle(i0, i1, i2 int) {
	v0, v1, v2 := r.vertexAt(i0), r.vertexAt(i1), r.vertexAt(i2)

	area := edge(v0, v1, v2)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	w, h := r.grid.Size()
	minX := clampInt(int(min3(v0.x, v1.x, v2.x)), 0, w-1)
	maxX := clampInt(int(max3(v0.x, v1.x, v2.x)+1), 0, w-1)
	minY := clampInt(int(min3(v0.y, v1.y, v2.y)), 0, h-1)
	maxY := clampInt(int(max3(v0.y, v1.y, v2.y)+1), 0, h-1)

	// Top-left fill rule: a pixel center exactly on an edge belongs to the
	// triangle only when that edge is top-left, so adjacent triangles
	// sharing an edge never blend the same pixel twice.
	tl0 := topLeft(v1, v2)
	tl1 := topLeft(v2, v0)
	tl2 := topLeft(v0, v1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := vertex{x: float32(x) + 0.5, y: float32(y) + 0.5}
			w0 := edge(v1, v2, p)
			w1 := edge(v2, v0, p)
			w2 := edge(v0, v1, p)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			if (w0 == 0 && !tl0) || (w1 == 0 && !tl1) || (w2 == 0 && !tl2) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area

			c := colors.Color{
				b0*v0.c[0] + b1*v1.c[0] + b2*v2.c[0],
				b0*v0.c[1] + b1*v1.c[1] + b2*v2.c[1],
				b0*v0.c[2] + b1*v1.c[2] + b2*v2.c[2],
				b0*v0.c[3] + b1*v1.c[3] + b2*v2.c[3],
			}
			if r.bound != nil {
				u := b0*v0.u + b1*v1.u + b2*v2.u
				v := b0*v0.v + b1*v1.v + b2*v2.v
				tc := r.sample(u, v)
				c[0] *= tc[0]
				c[1] *= tc[1]
				c[2] *= tc[2]
				c[3] *= tc[3]
			}
			r.plot(x, y, c)
		}
	}
}

// plot writes one pixel with source-over blending.
func (r *Rasterizer) plot(x, y int, c colors.Color) {
	w, h := r.grid.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	a := c[3]
	if a <= 0 {
		return
	}
	if a < 1 {
		dst := r.grid.At(x, y)
		c = colors.Color{
			c[0]*a + dst[0]*(1-a),
			c[1]*a + dst[1]*(1-a),
			c[2]*a + dst[2]*(1-a),
			a + dst[3]*(1-a),
		}
	}
	r.grid.Set(x, y, c)
}

// sample fetches the bound texture with nearest filtering, clamped to edges.
func (r *Rasterizer) sample(u, v float32) colors.Color {
	b := r.bound.Bounds()
	x := clampInt(int(u*float32(b.Dx())), 0, b.Dx()-1)
	y := clampInt(int(v*float32(b.Dy())), 0, b.Dy()-1)
	c := r.bound.RGBAAt(b.Min.X+x, b.Min.Y+y)
	return colors.FromRGBA8(c.R, c.G, c.B, c.A)
}

func edge(a, b, p vertex) float32 {
	return (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
}

// topLeft classifies the directed edge a->b for the fill rule: with y down
// and positive-area winding, an edge going down or exactly left is the one
// of the two shared directions that keeps the boundary pixel.
func topLeft(a, b vertex) bool {
	dy := b.y - a.y
	return dy > 0 || (dy == 0 && b.x < a.x)
}

func lerpColor(a, b colors.Color, t float32) colors.Color {
	return colors.Color{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}

func min3(a, b, c float32) float32 { return minf(minf(a, b), c) }
func max3(a, b, c float32) float32 { return maxf(maxf(a, b), c) }

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
