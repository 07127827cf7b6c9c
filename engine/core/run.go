package core

import (
	"log"
	"runtime"
	"time"

	"github.com/emberline/ember/engine/colors"
	"github.com/emberline/ember/engine/gfx/batch"
	"github.com/emberline/ember/engine/input"
)

// Optional sink capabilities, implemented by the GL backend.
type clearer interface{ Clear(colors.Color) }
type resizer interface{ Resize(w, h int) }
type shutdowner interface{ Shutdown() }

// Run wires the platform window + batch sink and executes the main loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newSink func(Window, Config) (batch.Sink, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}

	sink, err := newSink(win, cfg)
	if err != nil {
		return err
	}
	if sd, ok := sink.(shutdowner); ok {
		defer sd.Shutdown()
	}

	b, err := batch.New(sink, cfg.Batch)
	if err != nil {
		return err
	}

	fw, fh := win.FramebufferSize()
	if rs, ok := sink.(resizer); ok {
		rs.Resize(fw, fh)
	}
	ww, wh := win.Size()

	eng := &Engine{
		Window: win,
		Batch:  b,
		Input:  input.New(ww, wh),
		start:  time.Now(),
	}

	app.OnStart(eng)

	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		maxStep = 10 // prevent spiral of death
	)

	for !win.ShouldClose() && !eng.Input.ShouldClose() {
		now := time.Now()
		frame := now.Sub(prev)
		prev = now
		accum += frame

		eng.Input.BeginFrame()
		win.PumpEvents()
		eng.Input.DrainEvents(win)

		// Mouse clamping tracks window coordinates, the sink viewport
		// tracks framebuffer pixels; on HiDPI displays the two differ.
		if w, h := win.Size(); (w != ww || h != wh) && w >= 1 && h >= 1 {
			ww, wh = w, h
			eng.Input.SetClientSize(w, h)
		}
		if w, h := win.FramebufferSize(); (w != fw || h != fh) && w >= 1 && h >= 1 {
			fw, fh = w, h
			if rs, ok := sink.(resizer); ok {
				rs.Resize(w, h)
			}
		}

		// Run fixed updates
		steps := 0
		for accum >= tick && steps < maxStep {
			dt := float64(tick) / float64(time.Second)
			app.OnUpdate(eng, dt)
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
			accum -= tick
			steps++
		}
		// Interpolation factor for rendering
		alpha := float64(accum) / float64(tick)

		if cl, ok := sink.(clearer); ok {
			cl.Clear(cfg.ClearColor)
		}
		app.OnRender(eng, alpha)
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })
		b.Flush()

		win.Present()
	}

	for {
		if _, ok := eng.Layers.Pop(eng); !ok {
			break
		}
	}
	app.OnShutdown(eng)
	log.Println("engine exit")
	return nil
}
