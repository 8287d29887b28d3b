// Package display renders machine status onto a 16x2 character screen.
// Formatting is done into fixed byte buffers without fmt so the same code
// runs on the microcontroller.
package display

// Width is the character width of one display line.
const Width = 16

// DefaultRefreshMs limits how often the screen is rewritten. Character
// LCDs ghost when rewritten every loop iteration.
const DefaultRefreshMs = 100

// Screen is the subset of a 16x2 character LCD the presenter needs.
// hd44780i2c.Device satisfies it through a thin adapter.
type Screen interface {
	SetCursor(col, row uint8)
	Print(data []byte)
}

// Clock provides milliseconds since boot; it may wrap.
type Clock interface {
	NowMs() uint32
}

// Status is one snapshot of everything the display shows.
type Status struct {
	Pwm     uint8
	Rpm     uint16
	Running bool
	Seconds uint32 // remaining while running, entered while idle
}

// Presenter writes Status snapshots to the screen, at most once per
// refresh interval. Both lines are always rewritten in full so stale
// characters from a previous state cannot survive.
type Presenter struct {
	screen    Screen
	clock     Clock
	refreshMs uint32

	lastMs uint32
	drawn  bool
	line   [Width]byte
}

// New returns a presenter over the screen. A zero refreshMs selects
// DefaultRefreshMs.
func New(screen Screen, clock Clock, refreshMs uint32) *Presenter {
	if refreshMs == 0 {
		refreshMs = DefaultRefreshMs
	}
	return &Presenter{screen: screen, clock: clock, refreshMs: refreshMs}
}

// Show renders the status unless the refresh interval since the previous
// render has not yet elapsed. It reports whether the screen was written.
func (p *Presenter) Show(st Status) bool {
	now := p.clock.NowMs()
	if p.drawn && now-p.lastMs < p.refreshMs {
		return false
	}
	p.lastMs = now
	p.drawn = true

	SpeedLine(&p.line, st.Pwm, st.Rpm)
	p.screen.SetCursor(0, 0)
	p.screen.Print(p.line[:])

	TimeLine(&p.line, st.Running, st.Seconds)
	p.screen.SetCursor(0, 1)
	p.screen.Print(p.line[:])
	return true
}

// SpeedLine formats the top line: duty percent and estimated RPM, both
// right-justified in fixed columns so the digits do not wander as values
// change, e.g. "SPD  50% 1900R  ".
func SpeedLine(buf *[Width]byte, pwm uint8, rpm uint16) {
	blank(buf)
	copy(buf[0:], "SPD")
	writeRight(buf, 4, 6, uint32(DutyPercent(pwm)))
	buf[7] = '%'
	writeRight(buf, 9, 12, uint32(rpm))
	buf[13] = 'R'
}

// TimeLine formats the bottom line: the typed duration while idle
// ("T 120s") or the countdown while running ("RUN 90s left").
func TimeLine(buf *[Width]byte, running bool, seconds uint32) {
	blank(buf)
	if !running {
		buf[0] = 'T'
		end := writeLeft(buf, 2, seconds)
		buf[end] = 's'
		return
	}
	copy(buf[0:], "RUN ")
	end := writeLeft(buf, 4, seconds)
	buf[end] = 's'
	copy(buf[end+2:], "left")
}

// DutyPercent converts an 8-bit PWM command to a 0-100 percentage.
func DutyPercent(pwm uint8) uint8 {
	return uint8(uint32(pwm) * 100 / 255)
}

func blank(buf *[Width]byte) {
	for i := range buf {
		buf[i] = ' '
	}
}

// writeLeft renders v left-aligned starting at col and returns the column
// after the last digit.
func writeLeft(buf *[Width]byte, col int, v uint32) int {
	var digits [10]byte
	n := itoa(&digits, v)
	copy(buf[col:], digits[:n])
	return col + n
}

// writeRight renders v right-aligned so its last digit lands on hi.
func writeRight(buf *[Width]byte, lo, hi int, v uint32) {
	var digits [10]byte
	n := itoa(&digits, v)
	start := hi - n + 1
	if start < lo {
		start = lo
		n = hi - lo + 1
	}
	copy(buf[start:], digits[:n])
}

// itoa renders v in decimal into digits and returns the length.
func itoa(digits *[10]byte, v uint32) int {
	if v == 0 {
		digits[0] = '0'
		return 1
	}
	var tmp [10]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	n := copy(digits[:], tmp[i:])
	return n
}
