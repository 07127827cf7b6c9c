// Package shapes provides immediate-mode 2D drawing helpers that emit into
// a render batch.
package shapes

import (
	"math"

	"github.com/emberline/ember/engine/colors"
	"github.com/emberline/ember/engine/gfx/batch"
)

const circleSegments = 36

// Canvas wraps a batch with shape-level drawing calls.
type Canvas struct {
	b *batch.Batch
}

func New(b *batch.Batch) *Canvas { return &Canvas{b: b} }

// Batch exposes the underlying batch for raw emission.
func (c *Canvas) Batch() *batch.Batch { return c.b }

// Pixel draws a single pixel as a 1x1 quad.
func (c *Canvas) Pixel(x, y float32, col colors.Color) {
	c.Rectangle(x, y, 1, 1, col)
}

// Line draws a one-pixel line between two points.
func (c *Canvas) Line(x0, y0, x1, y1 float32, col colors.Color) {
	b := c.b
	b.Begin(batch.Lines)
	b.ColorF(col[0], col[1], col[2], col[3])
	b.Vertex2(x0, y0)
	b.Vertex2(x1, y1)
	b.End()
}

// Triangle draws a filled triangle; vertices in counter-clockwise order.
func (c *Canvas) Triangle(x0, y0, x1, y1, x2, y2 float32, col colors.Color) {
	b := c.b
	b.Begin(batch.Triangles)
	b.ColorF(col[0], col[1], col[2], col[3])
	b.Vertex2(x0, y0)
	b.Vertex2(x1, y1)
	b.Vertex2(x2, y2)
	b.End()
}

// Rectangle draws a filled axis-aligned rectangle.
func (c *Canvas) Rectangle(x, y, w, h float32, col colors.Color) {
	b := c.b
	b.Begin(batch.Quads)
	b.ColorF(col[0], col[1], col[2], col[3])
	b.TexCoord(0, 0)
	b.Vertex2(x, y)
	b.TexCoord(0, 1)
	b.Vertex2(x, y+h)
	b.TexCoord(1, 1)
	b.Vertex2(x+w, y+h)
	b.TexCoord(1, 0)
	b.Vertex2(x+w, y)
	b.End()
}

// RectangleLines draws a one-pixel rectangle outline.
func (c *Canvas) RectangleLines(x, y, w, h float32, col colors.Color) {
	c.Line(x, y, x+w, y, col)
	c.Line(x+w, y, x+w, y+h, col)
	c.Line(x+w, y+h, x, y+h, col)
	c.Line(x, y+h, x, y, col)
}

// Circle draws a filled circle approximated by a triangle fan.
func (c *Canvas) Circle(cx, cy, radius float32, col colors.Color) {
	b := c.b
	b.Begin(batch.Triangles)
	b.ColorF(col[0], col[1], col[2], col[3])
	step := 2 * math.Pi / circleSegments
	for i := 0; i < circleSegments; i++ {
		a0 := float64(i) * step
		a1 := float64(i+1) * step
		b.Vertex2(cx, cy)
		b.Vertex2(cx+radius*float32(math.Cos(a0)), cy+radius*float32(math.Sin(a0)))
		b.Vertex2(cx+radius*float32(math.Cos(a1)), cy+radius*float32(math.Sin(a1)))
	}
	b.End()
}

// Texture draws a textured quad with a tint color, UVs spanning the full
// texture.
func (c *Canvas) Texture(id batch.TextureID, x, y, w, h float32, tint colors.Color) {
	c.TextureUV(id, x, y, w, h, 0, 0, 1, 1, tint)
}

// TextureUV draws a textured quad using an explicit UV sub-rectangle.
func (c *Canvas) TextureUV(id batch.TextureID, x, y, w, h, u0, v0, u1, v1 float32, tint colors.Color) {
	b := c.b
	b.SetTexture(id)
	b.Begin(batch.Quads)
	b.ColorF(tint[0], tint[1], tint[2], tint[3])
	b.TexCoord(u0, v0)
	b.Vertex2(x, y)
	b.TexCoord(u0, v1)
	b.Vertex2(x, y+h)
	b.TexCoord(u1, v1)
	b.Vertex2(x+w, y+h)
	b.TexCoord(u1, v0)
	b.Vertex2(x+w, y)
	b.End()
	b.ResetTexture()
}
