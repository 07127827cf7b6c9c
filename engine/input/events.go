package input

// Event model (mirrors what the window backends can report).
type Event interface{ isEvent() }

// KeyEvent reports a key transition using the platform's raw scan code.
type KeyEvent struct {
	Code rune
	Down bool
}

func (KeyEvent) isEvent() {}

// MouseEvent reports pointer position in window coordinates plus the full
// button state as a bitmask.
type MouseEvent struct {
	X, Y    int
	Buttons uint8
}

func (MouseEvent) isEvent() {}

// Source is the platform event queue the translator drains once per frame.
type Source interface {
	// PollPendingEvent returns the next pending event, or ok=false when the
	// queue is empty.
	PollPendingEvent() (ev Event, ok bool)
}
