package soft

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/emberline/ember/engine/colors"
)

// PixelGrid is the destination surface the rasterizer writes through. It
// replaces raw pixel-setter callbacks with an injectable strategy.
type PixelGrid interface {
	Size() (w, h int)
	At(x, y int) colors.Color
	Set(x, y int, c colors.Color)
}

// Pixmap is the image.RGBA-backed PixelGrid.
type Pixmap struct {
	img *image.RGBA
}

// NewPixmap allocates a w by h surface.
func NewPixmap(w, h int) *Pixmap {
	return &Pixmap{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (p *Pixmap) Size() (int, int) {
	b := p.img.Bounds()
	return b.Dx(), b.Dy()
}

func (p *Pixmap) At(x, y int) colors.Color {
	c := p.img.RGBAAt(x, y)
	return colors.FromRGBA8(c.R, c.G, c.B, c.A)
}

func (p *Pixmap) Set(x, y int, c colors.Color) {
	r, g, b, a := c.RGBA8()
	p.img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
}

// Clear fills the whole surface.
func (p *Pixmap) Clear(c colors.Color) {
	r, g, b, a := c.RGBA8()
	pix := p.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = a
	}
}

// Image exposes the backing store for presentation or encoding.
func (p *Pixmap) Image() *image.RGBA { return p.img }

// Present blits the pixmap into dst, scaling with nearest-neighbour when the
// sizes differ.
func (p *Pixmap) Present(dst *image.RGBA) {
	if dst.Bounds() == p.img.Bounds() {
		copy(dst.Pix, p.img.Pix)
		return
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), p.img, p.img.Bounds(), xdraw.Src, nil)
}
