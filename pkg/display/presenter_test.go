package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ ms uint32 }

func (c *fakeClock) NowMs() uint32 { return c.ms }

// fakeScreen records characters into a 2x16 cell grid like a real LCD.
type fakeScreen struct {
	cells  [2][Width]byte
	col    uint8
	row    uint8
	writes int
}

func newFakeScreen() *fakeScreen {
	s := &fakeScreen{}
	for r := range s.cells {
		for c := range s.cells[r] {
			s.cells[r][c] = ' '
		}
	}
	return s
}

func (s *fakeScreen) SetCursor(col, row uint8) { s.col, s.row = col, row }

func (s *fakeScreen) Print(data []byte) {
	for _, b := range data {
		if s.col < Width {
			s.cells[s.row][s.col] = b
			s.col++
		}
	}
	s.writes++
}

func (s *fakeScreen) lines() (string, string) {
	return string(s.cells[0][:]), string(s.cells[1][:])
}

func TestSpeedLine(t *testing.T) {
	tests := []struct {
		name string
		pwm  uint8
		rpm  uint16
		want string
	}{
		{"half speed", 128, 1900, "SPD  50% 1900R  "},
		{"full speed", 255, 3500, "SPD 100% 3500R  "},
		{"stopped", 0, 0, "SPD   0%    0R  "},
		{"single digit percent", 10, 120, "SPD   3%  120R  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf [Width]byte
			SpeedLine(&buf, tt.pwm, tt.rpm)
			assert.Equal(t, tt.want, string(buf[:]))
		})
	}
}

func TestTimeLine(t *testing.T) {
	tests := []struct {
		name    string
		running bool
		seconds uint32
		want    string
	}{
		{"idle no entry", false, 0, "T 0s            "},
		{"idle entry", false, 120, "T 120s          "},
		{"idle max entry", false, 999999, "T 999999s       "},
		{"running", true, 90, "RUN 90s left    "},
		{"running last second", true, 1, "RUN 1s left     "},
		{"running max", true, 999999, "RUN 999999s left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf [Width]byte
			TimeLine(&buf, tt.running, tt.seconds)
			assert.Equal(t, tt.want, string(buf[:]))
		})
	}
}

func TestDutyPercent(t *testing.T) {
	assert.Equal(t, uint8(0), DutyPercent(0))
	assert.Equal(t, uint8(50), DutyPercent(128))
	assert.Equal(t, uint8(100), DutyPercent(255))
}

func TestPresenter_FirstRenderImmediate(t *testing.T) {
	screen := newFakeScreen()
	clock := &fakeClock{}
	p := New(screen, clock, 100)

	assert.True(t, p.Show(Status{Pwm: 128, Rpm: 1900}))
	top, bottom := screen.lines()
	assert.Equal(t, "SPD  50% 1900R  ", top)
	assert.Equal(t, "T 0s            ", bottom)
}

func TestPresenter_RefreshGate(t *testing.T) {
	screen := newFakeScreen()
	clock := &fakeClock{}
	p := New(screen, clock, 100)

	assert.True(t, p.Show(Status{}))
	writes := screen.writes

	// Inside the interval nothing is written, whatever the status.
	clock.ms += 99
	assert.False(t, p.Show(Status{Pwm: 255, Rpm: 3500}))
	assert.Equal(t, writes, screen.writes)

	clock.ms += 1
	assert.True(t, p.Show(Status{Pwm: 255, Rpm: 3500}))
	top, _ := screen.lines()
	assert.Equal(t, "SPD 100% 3500R  ", top)
}

func TestPresenter_FullLineOverwrite(t *testing.T) {
	// A long idle entry must not leave stale characters behind when the
	// shorter running line replaces it.
	screen := newFakeScreen()
	clock := &fakeClock{}
	p := New(screen, clock, 100)

	p.Show(Status{Seconds: 999999})
	clock.ms += 100
	p.Show(Status{Running: true, Seconds: 9})

	_, bottom := screen.lines()
	assert.Equal(t, "RUN 9s left     ", bottom)
}

func TestPresenter_DefaultRefresh(t *testing.T) {
	screen := newFakeScreen()
	clock := &fakeClock{}
	p := New(screen, clock, 0)

	p.Show(Status{})
	clock.ms += DefaultRefreshMs - 1
	assert.False(t, p.Show(Status{}))
	clock.ms += 1
	assert.True(t, p.Show(Status{}))
}
