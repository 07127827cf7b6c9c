package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct{ events []Event }

func (f *fakeSource) PollPendingEvent() (Event, bool) {
	if len(f.events) == 0 {
		return nil, false
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, true
}

func frame(s *State, events ...Event) {
	s.BeginFrame()
	s.DrainEvents(&fakeSource{events: events})
}

func TestKeyEdgeDetection(t *testing.T) {
	s := New(500, 500)

	// Frame 1: key goes down.
	frame(s, KeyEvent{Code: 'a', Down: true})
	assert.True(t, s.IsKeyPressed(KeyA), "pressed on frame 1")
	assert.True(t, s.IsKeyDown(KeyA))
	assert.False(t, s.IsKeyReleased(KeyA))

	// Frame 2: held, no events.
	frame(s)
	assert.False(t, s.IsKeyPressed(KeyA), "pressed only on the down frame")
	assert.True(t, s.IsKeyDown(KeyA), "held through frame 2")

	// Frame 3: key goes up.
	frame(s, KeyEvent{Code: 'a', Down: false})
	assert.False(t, s.IsKeyDown(KeyA))
	assert.True(t, s.IsKeyReleased(KeyA), "released on frame 3")

	// Frame 4: idle.
	frame(s)
	assert.False(t, s.IsKeyReleased(KeyA))
	assert.True(t, s.IsKeyUp(KeyA))
}

func TestKeyRepeatFlag(t *testing.T) {
	s := New(100, 100)

	frame(s, KeyEvent{Code: 'W', Down: true})
	assert.False(t, s.IsKeyPressedRepeat(KeyW))

	// Key is already held, a second down event marks a repeat.
	frame(s, KeyEvent{Code: 'W', Down: true})
	assert.True(t, s.IsKeyPressedRepeat(KeyW))
	assert.False(t, s.IsKeyPressed(KeyW))

	// Repeat flag does not survive the frame.
	frame(s)
	assert.False(t, s.IsKeyPressedRepeat(KeyW))
}

func TestKeymapRemap(t *testing.T) {
	s := New(100, 100)

	frame(s,
		KeyEvent{Code: 61457, Down: true},
		KeyEvent{Code: 61488, Down: true},
	)
	assert.True(t, s.IsKeyPressed(KeyLeft))
	assert.True(t, s.IsKeyPressed(KeyDown))
	assert.Equal(t, KeyLeft, s.KeyPressed())
	assert.Equal(t, KeyDown, s.KeyPressed())
	assert.Equal(t, KeyUnknown, s.KeyPressed())
}

func TestCaseFoldingAndCharQueue(t *testing.T) {
	s := New(100, 100)

	frame(s,
		KeyEvent{Code: 'q', Down: true},
		KeyEvent{Code: '1', Down: true},
	)
	assert.True(t, s.IsKeyDown(KeyQ), "lower-case codes fold to the canonical key")
	assert.True(t, s.IsKeyDown(Key('1')))

	// Only letters reach the character queue; both reach the key queue.
	assert.Equal(t, 'Q', s.CharPressed())
	assert.Equal(t, rune(0), s.CharPressed())
	assert.Equal(t, KeyQ, s.KeyPressed())
	assert.Equal(t, Key('1'), s.KeyPressed())
}

func TestPressQueueBounded(t *testing.T) {
	s := New(100, 100)
	events := make([]Event, 0, 2*maxQueuedKeys)
	for i := 0; i < 2*maxQueuedKeys; i++ {
		events = append(events, KeyEvent{Code: 'a', Down: true})
	}
	frame(s, events...)

	n := 0
	for s.KeyPressed() != KeyUnknown {
		n++
	}
	assert.Equal(t, maxQueuedKeys, n)
}

func TestExitKey(t *testing.T) {
	s := New(100, 100)
	require.False(t, s.ShouldClose())

	frame(s, KeyEvent{Code: 27, Down: true})
	assert.True(t, s.ShouldClose())

	s2 := New(100, 100)
	s2.SetExitKey(KeyUnknown)
	frame(s2, KeyEvent{Code: 27, Down: true})
	assert.False(t, s2.ShouldClose())

	s3 := New(100, 100)
	s3.SetExitKey(KeyQ)
	frame(s3, KeyEvent{Code: 'q', Down: true})
	assert.True(t, s3.ShouldClose())
}

func TestMouseClampToClientRect(t *testing.T) {
	s := New(500, 500)

	frame(s, MouseEvent{X: -10, Y: 600})
	x, y := s.MousePosition()
	assert.Equal(t, float32(1), x)
	assert.Equal(t, float32(500), y)

	frame(s, MouseEvent{X: 250, Y: 0})
	x, y = s.MousePosition()
	assert.Equal(t, float32(250), x)
	assert.Equal(t, float32(1), y)
}

func TestMouseOffsetScale(t *testing.T) {
	s := New(800, 600)
	s.SetMouseOffset(-100, -50)
	s.SetMouseScale(0.5, 2)

	frame(s, MouseEvent{X: 300, Y: 100})
	x, y := s.MousePosition()
	assert.InDelta(t, 100.0, float64(x), 1e-6)
	assert.InDelta(t, 100.0, float64(y), 1e-6)
}

func TestMouseButtonsFromBitmask(t *testing.T) {
	s := New(100, 100)

	frame(s, MouseEvent{X: 10, Y: 10, Buttons: ButtonMaskLeft | ButtonMaskMiddle})
	assert.True(t, s.IsMousePressed(MouseLeft))
	assert.True(t, s.IsMousePressed(MouseMiddle))
	assert.False(t, s.IsMouseDown(MouseRight))

	frame(s, MouseEvent{X: 10, Y: 10, Buttons: ButtonMaskMiddle})
	assert.True(t, s.IsMouseReleased(MouseLeft))
	assert.False(t, s.IsMousePressed(MouseMiddle), "still held, not an edge")
	assert.True(t, s.IsMouseDown(MouseMiddle))
}

func TestMouseDelta(t *testing.T) {
	s := New(500, 500)

	frame(s, MouseEvent{X: 100, Y: 100})
	frame(s, MouseEvent{X: 130, Y: 90})
	dx, dy := s.MouseDelta()
	assert.Equal(t, float32(30), dx)
	assert.Equal(t, float32(-10), dy)

	// No events: position holds, delta collapses to zero.
	frame(s)
	dx, dy = s.MouseDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}
