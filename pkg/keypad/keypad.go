// Package keypad decodes and debounces a 4x4 matrix keypad.
package keypad

// Key is one symbol from the keypad layout.
type Key byte

const (
	KeyStar Key = '*'
	KeyHash Key = '#'
	KeyA    Key = 'A'
	KeyB    Key = 'B'
	KeyC    Key = 'C'
	KeyD    Key = 'D'
)

// Layout is the fixed key arrangement, rows top to bottom.
var Layout = [4][4]Key{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

// IsDigit reports whether the key is one of 0-9.
func (k Key) IsDigit() bool { return k >= '0' && k <= '9' }

// Digit returns the numeric value of a digit key.
func (k Key) Digit() uint32 { return uint32(k - '0') }

// DefaultDebounceMs keeps a held or bouncing key from producing more
// than one event per 50 ms.
const DefaultDebounceMs = 50

// OutputPin drives one keypad row. machine.Pin satisfies it directly.
type OutputPin interface {
	High()
	Low()
}

// InputPin senses one keypad column. machine.Pin satisfies it directly.
type InputPin interface {
	Get() bool
}

// Clock provides milliseconds since boot; it may wrap.
type Clock interface {
	NowMs() uint32
}

// Matrix scans a 4x4 keypad wired as four driven rows and four pulled-up
// columns. Poll reports each key press exactly once: a held key emits no
// repeats and release/press edges inside the debounce window are treated
// as contact bounce.
type Matrix struct {
	rows       [4]OutputPin
	cols       [4]InputPin
	clock      Clock
	debounceMs uint32

	held   bool
	lastMs uint32
	seen   bool
}

// NewMatrix builds a scanner over the eight GPIO pins. Rows must already
// be configured as outputs idling high and columns as pulled-up inputs.
func NewMatrix(rows [4]OutputPin, cols [4]InputPin, clock Clock, debounceMs uint32) *Matrix {
	if debounceMs == 0 {
		debounceMs = DefaultDebounceMs
	}
	return &Matrix{rows: rows, cols: cols, clock: clock, debounceMs: debounceMs}
}

// Poll scans the matrix once and returns a key only on the first scan
// where it is observed down.
func (m *Matrix) Poll() (Key, bool) {
	k, down := m.scan()
	if !down {
		m.held = false
		return 0, false
	}
	if m.held {
		return 0, false
	}
	m.held = true

	now := m.clock.NowMs()
	if m.seen && now-m.lastMs < m.debounceMs {
		// release/press edge inside the window: contact bounce
		return 0, false
	}
	m.lastMs = now
	m.seen = true
	return k, true
}

// scan drives each row low in turn and samples the columns. A pressed
// switch pulls its column low through the driven row.
func (m *Matrix) scan() (Key, bool) {
	for r := range m.rows {
		m.rows[r].Low()
		for c := range m.cols {
			if !m.cols[c].Get() {
				m.rows[r].High()
				return Layout[r][c], true
			}
		}
		m.rows[r].High()
	}
	return 0, false
}
