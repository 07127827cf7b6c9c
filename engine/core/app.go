package core

import (
	"time"

	"github.com/emberline/ember/engine/colors"
	"github.com/emberline/ember/engine/gfx/batch"
	"github.com/emberline/ember/engine/input"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/sink init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window Window
	Batch  *batch.Batch
	Input  *input.State
	Layers LayerStack
	start  time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Window abstraction. Windows are also the source of raw input events,
// drained once per frame into the input state.
type Window interface {
	input.Source

	PumpEvents()
	Present()
	ShouldClose() bool
	RequestClose()
	// Size is the client area in window coordinates, the space cursor
	// events arrive in; FramebufferSize is in pixels and differs on HiDPI.
	Size() (int, int)
	FramebufferSize() (int, int)
	SetTitle(title string)
}

// Config for the engine run.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	ClearColor colors.Color
	Batch      batch.Config
}
