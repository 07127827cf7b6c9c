package main

import (
	"image"
	"log"
	"math"

	"github.com/emberline/ember/engine/assets"
	"github.com/emberline/ember/engine/colors"
	"github.com/emberline/ember/engine/core"
	"github.com/emberline/ember/engine/gfx/batch"
	glbackend "github.com/emberline/ember/engine/gfx/gl"
	"github.com/emberline/ember/engine/gfx/shapes"
	"github.com/emberline/ember/engine/input"
	"github.com/emberline/ember/engine/platform"
	"github.com/emberline/ember/engine/scene"
)

type App struct {
	sink   *glbackend.Sink
	canvas *shapes.Canvas
	cam    *scene.OrthoCamera2D
	tex    batch.TextureID
	tick   int
}

func (a *App) OnStart(e *core.Engine) {
	a.canvas = shapes.New(e.Batch)
	a.cam = scene.NewOrtho2D(e.Window.FramebufferSize())

	img, err := assets.LoadPNG("assets/textures/checker.png")
	if err != nil {
		log.Printf("no texture, falling back to generated checker: %v", err)
		img = checkerImage(64)
	}
	w, h, pix := assets.Pixels(img)
	a.tex, err = a.sink.CreateTexture(w, h, pix)
	if err != nil {
		panic(err)
	}
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.tick++

	in := e.Input
	if in.IsKeyPressed(input.KeyQ) {
		e.Window.RequestClose()
	}
	for r := in.CharPressed(); r != 0; r = in.CharPressed() {
		log.Printf("char: %c", r)
	}
}

func (a *App) OnRender(e *core.Engine, alpha float64) {
	w, h := e.Window.FramebufferSize()
	a.cam.SetViewportPixels(w, h)
	a.sink.SetMVP(a.cam.VP())

	c := a.canvas
	c.Texture(a.tex, 50, 50, 128, 128, colors.White)
	c.RectangleLines(49, 49, 130, 130, colors.Yellow)

	pulse := float32(0.5 + 0.5*math.Sin(float64(a.tick)/30))
	c.Circle(300, 120, 20+pulse*10, colors.Red)

	mx, my := e.Input.MousePosition()
	c.Rectangle(mx-4, my-4, 8, 8, colors.Green)
}

func (a *App) OnShutdown(e *core.Engine) {}

func checkerImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := img.PixOffset(x, y)
			v := uint8(60)
			if (x/8+y/8)%2 == 0 {
				v = 220
			}
			img.Pix[i+0] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = 255
		}
	}
	return img
}

func main() {
	cfg := core.Config{
		Title:      "helo",
		Width:      500,
		Height:     500,
		VSync:      true,
		ClearColor: colors.DarkGray,
	}
	app := &App{}

	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg)
	}
	newSink := func(_ core.Window, cfg core.Config) (batch.Sink, error) {
		s, err := glbackend.New(cfg.Batch)
		if err != nil {
			return nil, err
		}
		app.sink = s
		return s, nil
	}

	if err := core.Run(app, cfg, newWindow, newSink); err != nil {
		log.Fatal(err)
	}
}
