package input

// Key identifies a keyboard key. Printable keys use their upper-case ASCII
// value; function and navigation keys live above the ASCII range.
type Key int

const (
	KeyUnknown Key = 0

	KeySpace Key = 32
	KeyQ     Key = 'Q'
	KeyW     Key = 'W'
	KeyA     Key = 'A'
	KeyS     Key = 'S'
	KeyD     Key = 'D'

	KeyEscape    Key = 256
	KeyEnter     Key = 257
	KeyTab       Key = 258
	KeyBackspace Key = 259
	KeyRight     Key = 262
	KeyLeft      Key = 263
	KeyDown      Key = 264
	KeyUp        Key = 265
)

// maxKeys bounds the key state arrays.
const maxKeys = 512

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle

	mouseButtonCount
)

// Button bits carried by MouseEvent.Buttons.
const (
	ButtonMaskLeft   uint8 = 1 << 0
	ButtonMaskRight  uint8 = 1 << 1
	ButtonMaskMiddle uint8 = 1 << 2
)

// Keymap translates platform scan codes into canonical keys. Codes absent
// from the map fall through verbatim when they fit the key range.
type Keymap map[rune]Key

// DefaultKeymap covers the escape and arrow sequences emitted by the
// supported window backends.
func DefaultKeymap() Keymap {
	return Keymap{
		27:    KeyEscape,
		'\n':  KeyEnter,
		'\t':  KeyTab,
		8:     KeyBackspace,
		61457: KeyLeft,
		61458: KeyRight,
		61454: KeyUp,
		61488: KeyDown,
	}
}
