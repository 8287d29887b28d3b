// Package rig simulates the controller's peripherals: the millisecond
// clock, the two pots, the keypad, a fan with first-order spin-up lag and
// a 16x2 character screen. The control loop runs over it unchanged, which
// backs both the test suite and the host panel's mock device.
package rig

import (
	"github.com/chewxy/math32"

	"github.com/itohio/gospin/pkg/display"
	"github.com/itohio/gospin/pkg/keypad"
	"github.com/itohio/gospin/pkg/speed"
)

// Clock is a hand-advanced millisecond counter.
type Clock struct {
	ms uint32
}

// NewClock starts the counter at startMs, letting tests begin near the
// wrap point.
func NewClock(startMs uint32) *Clock { return &Clock{ms: startMs} }

func (c *Clock) NowMs() uint32 { return c.ms }

// Advance moves the clock forward; it wraps like the hardware counter.
func (c *Clock) Advance(ms uint32) { c.ms += ms }

// Pots holds the two pot positions as raw 10-bit samples.
type Pots struct {
	coarse uint16
	fine   uint16
}

// Set positions both pots, clamping to the 10-bit range.
func (p *Pots) Set(coarse, fine uint16) {
	p.coarse = clamp10(coarse)
	p.fine = clamp10(fine)
}

func (p *Pots) ReadCoarse() uint16 { return p.coarse }
func (p *Pots) ReadFine() uint16   { return p.fine }

func clamp10(v uint16) uint16 {
	if v > speed.MaxSample {
		return speed.MaxSample
	}
	return v
}

// Keypad queues key presses and hands them out one per poll, mimicking
// the debounced matrix scanner.
type Keypad struct {
	queue []keypad.Key
}

// Press enqueues one key event.
func (k *Keypad) Press(key keypad.Key) { k.queue = append(k.queue, key) }

func (k *Keypad) Poll() (keypad.Key, bool) {
	if len(k.queue) == 0 {
		return 0, false
	}
	key := k.queue[0]
	k.queue = k.queue[1:]
	return key, true
}

// DefaultTau is the spin-up time constant of the stock fan in seconds.
const DefaultTau = 0.8

// Fan models the spindle as a first-order lag: the speed approaches the
// commanded duty's steady-state RPM exponentially.
type Fan struct {
	duty   uint8
	maxRpm float32
	tau    float32
	rpm    float32
}

// NewFan builds a fan that reaches maxRpm at full duty with spin-up time
// constant tau seconds. Non-positive tau selects DefaultTau.
func NewFan(maxRpm, tau float32) *Fan {
	if tau <= 0 {
		tau = DefaultTau
	}
	return &Fan{maxRpm: maxRpm, tau: tau}
}

func (f *Fan) SetDuty(duty uint8) { f.duty = duty }

// Duty returns the last commanded duty.
func (f *Fan) Duty() uint8 { return f.duty }

// Step advances the physics by dtMs milliseconds.
func (f *Fan) Step(dtMs uint32) {
	target := f.maxRpm * float32(f.duty) / 255
	alpha := 1 - math32.Exp(-float32(dtMs)/1000/f.tau)
	f.rpm += (target - f.rpm) * alpha
}

// Rpm returns the current simulated spindle speed.
func (f *Fan) Rpm() float32 { return f.rpm }

// Screen is an in-memory 16x2 character display.
type Screen struct {
	cells [2][display.Width]byte
	col   uint8
	row   uint8
}

// NewScreen returns a screen with all cells blank.
func NewScreen() *Screen {
	s := &Screen{}
	for r := range s.cells {
		for c := range s.cells[r] {
			s.cells[r][c] = ' '
		}
	}
	return s
}

func (s *Screen) SetCursor(col, row uint8) {
	s.col, s.row = col, row
}

// Print writes data at the cursor, clipping at the right edge like the
// real module.
func (s *Screen) Print(data []byte) {
	if s.row > 1 {
		return
	}
	for _, b := range data {
		if s.col >= display.Width {
			break
		}
		s.cells[s.row][s.col] = b
		s.col++
	}
}

// Line returns the 16 characters of one row.
func (s *Screen) Line(row int) string {
	return string(s.cells[row][:])
}
