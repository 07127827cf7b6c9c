package platform

import (
	"log"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/emberline/ember/engine/core"
	"github.com/emberline/ember/engine/input"
)

// Raw codes for non-printable keys, translated by the default keymap.
const (
	rawEscape    = 27
	rawBackspace = 8
	rawLeft      = 61457
	rawRight     = 61458
	rawUp        = 61454
	rawDown      = 61488
)

// GLFWWindow implements core.Window. GLFW callbacks enqueue raw input
// events; the engine drains them once per frame.
type GLFWWindow struct {
	w       *glfw.Window
	pending []input.Event
	buttons uint8
	mouseX  int
	mouseY  int
}

// NewGLFWWindow creates the window and GL context. Must be called on the
// main thread before any GL calls.
func NewGLFWWindow(cfg core.Config) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		return nil, err
	}
	log.Printf("GL: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gw := &GLFWWindow{w: win}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			action = glfw.Press
		}
		code, ok := translateKey(key)
		if !ok {
			return
		}
		gw.pending = append(gw.pending, input.KeyEvent{Code: code, Down: action == glfw.Press})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		gw.mouseX, gw.mouseY = int(x), int(y)
		gw.emitMouse()
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, btn glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		var mask uint8
		switch btn {
		case glfw.MouseButtonLeft:
			mask = input.ButtonMaskLeft
		case glfw.MouseButtonRight:
			mask = input.ButtonMaskRight
		case glfw.MouseButtonMiddle:
			mask = input.ButtonMaskMiddle
		default:
			return
		}
		if action == glfw.Press {
			gw.buttons |= mask
		} else {
			gw.buttons &^= mask
		}
		gw.emitMouse()
	})

	return gw, nil
}

func (g *GLFWWindow) emitMouse() {
	g.pending = append(g.pending, input.MouseEvent{X: g.mouseX, Y: g.mouseY, Buttons: g.buttons})
}

// input.Source impl
func (g *GLFWWindow) PollPendingEvent() (input.Event, bool) {
	if len(g.pending) == 0 {
		return nil, false
	}
	ev := g.pending[0]
	g.pending = g.pending[1:]
	return ev, true
}

// core.Window impl
func (g *GLFWWindow) PumpEvents()                 { glfw.PollEvents() }
func (g *GLFWWindow) Present()                    { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool           { return g.w.ShouldClose() }
func (g *GLFWWindow) RequestClose()               { g.w.SetShouldClose(true) }
func (g *GLFWWindow) Size() (int, int)            { return g.w.GetSize() }
func (g *GLFWWindow) FramebufferSize() (int, int) { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)           { g.w.SetTitle(t) }

// translateKey maps a GLFW key to the raw code the input keymap expects:
// printable keys pass through as uppercase ASCII, non-printables use the
// raw constants above.
func translateKey(k glfw.Key) (rune, bool) {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return 'A' + rune(k-glfw.KeyA), true
	case k >= glfw.Key0 && k <= glfw.Key9:
		return '0' + rune(k-glfw.Key0), true
	}
	switch k {
	case glfw.KeySpace:
		return ' ', true
	case glfw.KeyEscape:
		return rawEscape, true
	case glfw.KeyEnter:
		return '\n', true
	case glfw.KeyTab:
		return '\t', true
	case glfw.KeyBackspace:
		return rawBackspace, true
	case glfw.KeyLeft:
		return rawLeft, true
	case glfw.KeyRight:
		return rawRight, true
	case glfw.KeyUp:
		return rawUp, true
	case glfw.KeyDown:
		return rawDown, true
	}
	return 0, false
}
