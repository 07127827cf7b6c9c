package input

import "unicode"

// maxQueuedKeys bounds the per-frame key press and character queues.
const maxQueuedKeys = 16

// State is the double-buffered input snapshot pair. BeginFrame rotates the
// snapshots, DrainEvents folds the platform queue into the current one, and
// the query methods derive edge/level views from the two. Single-threaded,
// like the rest of the frame loop.
type State struct {
	currentKeys  [maxKeys]bool
	previousKeys [maxKeys]bool
	repeats      [maxKeys]bool

	keyQueue  []Key
	charQueue []rune

	currentButtons  [mouseButtonCount]bool
	previousButtons [mouseButtonCount]bool

	posX, prevX float32
	posY, prevY float32

	offsetX, offsetY float32
	scaleX, scaleY   float32

	width, height int

	keymap      Keymap
	exitKey     Key
	shouldClose bool
}

// New creates a translator for a client area of the given size.
func New(width, height int) *State {
	return &State{
		keyQueue:  make([]Key, 0, maxQueuedKeys),
		charQueue: make([]rune, 0, maxQueuedKeys),
		scaleX:    1,
		scaleY:    1,
		width:     width,
		height:    height,
		keymap:    DefaultKeymap(),
		exitKey:   KeyEscape,
	}
}

// SetClientSize updates the rectangle mouse positions are clamped to.
func (s *State) SetClientSize(w, h int) { s.width, s.height = w, h }

// SetMouseOffset sets the translation applied to clamped mouse positions.
func (s *State) SetMouseOffset(x, y float32) { s.offsetX, s.offsetY = x, y }

// SetMouseScale sets the scale applied to clamped mouse positions.
func (s *State) SetMouseScale(x, y float32) { s.scaleX, s.scaleY = x, y }

// SetExitKey changes the key that raises the should-close flag. KeyUnknown
// disables the shortcut.
func (s *State) SetExitKey(k Key) { s.exitKey = k }

// SetKeymap replaces the scan-code translation table.
func (s *State) SetKeymap(m Keymap) { s.keymap = m }

// ShouldClose reports whether the exit key was observed.
func (s *State) ShouldClose() bool { return s.shouldClose }

// BeginFrame rotates current into previous and clears the per-frame
// bookkeeping. Call exactly once per frame, before DrainEvents.
func (s *State) BeginFrame() {
	s.previousKeys = s.currentKeys
	s.previousButtons = s.currentButtons
	for i := range s.repeats {
		s.repeats[i] = false
	}
	s.keyQueue = s.keyQueue[:0]
	s.charQueue = s.charQueue[:0]
	s.prevX, s.prevY = s.posX, s.posY
}

// DrainEvents pulls pending events from the source until none remain and
// folds them into the current snapshot.
func (s *State) DrainEvents(src Source) {
	for {
		ev, ok := src.PollPendingEvent()
		if !ok {
			return
		}
		switch e := ev.(type) {
		case MouseEvent:
			s.mouseEvent(e)
		case KeyEvent:
			s.keyEvent(e)
		}
	}
}

func (s *State) mouseEvent(e MouseEvent) {
	mx := clamp(e.X, 1, s.width)
	my := clamp(e.Y, 1, s.height)
	s.posX = (float32(mx) + s.offsetX) * s.scaleX
	s.posY = (float32(my) + s.offsetY) * s.scaleY

	s.currentButtons[MouseLeft] = e.Buttons&ButtonMaskLeft != 0
	s.currentButtons[MouseRight] = e.Buttons&ButtonMaskRight != 0
	s.currentButtons[MouseMiddle] = e.Buttons&ButtonMaskMiddle != 0
}

func (s *State) keyEvent(e KeyEvent) {
	code := unicode.ToUpper(e.Code)
	key, ok := s.keymap[code]
	if !ok {
		// Unmapped codes are stored verbatim when they fit the key range.
		if code <= 0 || int(code) >= maxKeys {
			return
		}
		key = Key(code)
	}

	if !e.Down {
		s.currentKeys[key] = false
		return
	}

	if s.currentKeys[key] {
		s.repeats[key] = true
	}
	s.currentKeys[key] = true

	if len(s.keyQueue) < maxQueuedKeys {
		s.keyQueue = append(s.keyQueue, key)
	}
	if unicode.IsLetter(code) && len(s.charQueue) < maxQueuedKeys {
		s.charQueue = append(s.charQueue, code)
	}

	if s.exitKey != KeyUnknown && s.currentKeys[s.exitKey] {
		s.shouldClose = true
	}
}

// --- keyboard queries ---

func (s *State) IsKeyDown(k Key) bool { return valid(k) && s.currentKeys[k] }
func (s *State) IsKeyUp(k Key) bool   { return !s.IsKeyDown(k) }

func (s *State) IsKeyPressed(k Key) bool {
	return valid(k) && s.currentKeys[k] && !s.previousKeys[k]
}

func (s *State) IsKeyReleased(k Key) bool {
	return valid(k) && !s.currentKeys[k] && s.previousKeys[k]
}

// IsKeyPressedRepeat reports whether a down event arrived this frame for a
// key that was already held.
func (s *State) IsKeyPressedRepeat(k Key) bool { return valid(k) && s.repeats[k] }

// KeyPressed pops the next queued key press, KeyUnknown when empty.
func (s *State) KeyPressed() Key {
	if len(s.keyQueue) == 0 {
		return KeyUnknown
	}
	k := s.keyQueue[0]
	s.keyQueue = s.keyQueue[1:]
	return k
}

// CharPressed pops the next queued character, 0 when empty.
func (s *State) CharPressed() rune {
	if len(s.charQueue) == 0 {
		return 0
	}
	c := s.charQueue[0]
	s.charQueue = s.charQueue[1:]
	return c
}

// --- mouse queries ---

func (s *State) IsMouseDown(b MouseButton) bool {
	return b >= 0 && b < mouseButtonCount && s.currentButtons[b]
}

func (s *State) IsMouseUp(b MouseButton) bool { return !s.IsMouseDown(b) }

func (s *State) IsMousePressed(b MouseButton) bool {
	return b >= 0 && b < mouseButtonCount && s.currentButtons[b] && !s.previousButtons[b]
}

func (s *State) IsMouseReleased(b MouseButton) bool {
	return b >= 0 && b < mouseButtonCount && !s.currentButtons[b] && s.previousButtons[b]
}

func (s *State) MousePosition() (x, y float32) { return s.posX, s.posY }

func (s *State) MouseDelta() (dx, dy float32) { return s.posX - s.prevX, s.posY - s.prevY }

func valid(k Key) bool { return k > 0 && int(k) < maxKeys }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
