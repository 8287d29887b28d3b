package coater

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/gospin/pkg/display"
	"github.com/itohio/gospin/pkg/keypad"
	"github.com/itohio/gospin/pkg/rig"
	"github.com/itohio/gospin/pkg/speed"
)

type bench struct {
	clock  *rig.Clock
	pots   *rig.Pots
	keys   *rig.Keypad
	fan    *rig.Fan
	screen *rig.Screen
	loop   *Coater
}

func newBench(t *testing.T) *bench {
	t.Helper()
	b := &bench{
		clock:  rig.NewClock(0),
		pots:   &rig.Pots{},
		keys:   &rig.Keypad{},
		fan:    rig.NewFan(3500, 0.8),
		screen: rig.NewScreen(),
	}
	b.loop = New(Peripherals{
		Clock:  b.clock,
		Pots:   b.pots,
		Keys:   b.keys,
		Fan:    b.fan,
		Screen: b.screen,
	}, speed.Default(), display.DefaultRefreshMs)
	return b
}

// run ticks the loop for the given simulated time, advancing 10 ms per
// iteration like the real superloop.
func (b *bench) run(ms uint32) {
	for i := uint32(0); i < ms/10; i++ {
		b.clock.Advance(10)
		b.loop.Tick()
	}
}

func (b *bench) press(keys string) {
	for i := 0; i < len(keys); i++ {
		b.keys.Press(keypad.Key(keys[i]))
		b.clock.Advance(10)
		b.loop.Tick()
	}
}

func TestCoater_PowerUpIdle(t *testing.T) {
	b := newBench(t)
	b.pots.Set(512, 0)

	st, rendered := b.loop.Tick()
	assert.True(t, rendered, "first tick paints the display")
	assert.False(t, st.Running)
	assert.Equal(t, uint8(128), st.Pwm)
	assert.Equal(t, uint16(1900), st.Rpm)
	assert.Equal(t, uint8(0), b.fan.Duty(), "spindle stays off while idle")

	assert.Equal(t, "SPD  50% 1900R  ", b.screen.Line(0))
	assert.Equal(t, "T 0s            ", b.screen.Line(1))
}

func TestCoater_DurationEntryShown(t *testing.T) {
	b := newBench(t)
	b.press("120")
	b.run(200)

	assert.Equal(t, "T 120s          ", b.screen.Line(1))
	assert.Equal(t, uint8(0), b.fan.Duty())
}

func TestCoater_StartRunsFanAtPotSpeed(t *testing.T) {
	b := newBench(t)
	b.pots.Set(512, 0)
	b.press("90#")

	st, _ := b.loop.Tick()
	assert.True(t, st.Running)
	assert.Equal(t, uint32(90), st.Seconds)
	assert.Equal(t, uint8(128), b.fan.Duty())

	b.run(200)
	assert.Equal(t, "RUN 90s left    ", b.screen.Line(1))
}

func TestCoater_PotsAdjustSpeedMidRun(t *testing.T) {
	b := newBench(t)
	b.pots.Set(512, 0)
	b.press("60#")
	b.run(100)
	assert.Equal(t, uint8(128), b.fan.Duty())

	// The operator turns both pots to full while the job runs.
	b.pots.Set(1023, 1023)
	b.run(100)
	assert.Equal(t, uint8(255), b.fan.Duty())
	assert.Equal(t, "SPD 100% 3500R  ", b.screen.Line(0))
}

func TestCoater_CountdownAndCompletion(t *testing.T) {
	b := newBench(t)
	b.pots.Set(512, 0)
	b.press("3#")

	b.run(1000)
	assert.Equal(t, "RUN 2s left     ", b.screen.Line(1))

	b.run(1900)
	st, _ := b.loop.Tick()
	assert.True(t, st.Running)
	assert.Equal(t, uint32(1), st.Seconds)

	// Past the latched duration the job retires itself and the fan stops.
	b.run(200)
	st, _ = b.loop.Tick()
	assert.False(t, st.Running)
	assert.Equal(t, uint8(0), b.fan.Duty())
	assert.Equal(t, "T 0s            ", b.screen.Line(1))
}

func TestCoater_AbortStopsImmediately(t *testing.T) {
	b := newBench(t)
	b.pots.Set(1023, 0)
	b.press("600#")
	b.run(100)
	assert.Equal(t, uint8(240), b.fan.Duty())

	b.press("D")
	st, _ := b.loop.Tick()
	assert.False(t, st.Running)
	assert.Equal(t, uint8(0), b.fan.Duty())
	assert.Equal(t, uint32(0), st.Seconds)
}

func TestCoater_StarClearsEntry(t *testing.T) {
	b := newBench(t)
	b.press("55*")
	b.run(200)
	assert.Equal(t, "T 0s            ", b.screen.Line(1))

	// '#' after the clear must not start a zero-length run.
	b.press("#")
	st, _ := b.loop.Tick()
	assert.False(t, st.Running)
}

func TestCoater_RefreshGate(t *testing.T) {
	b := newBench(t)

	_, rendered := b.loop.Tick()
	assert.True(t, rendered)

	// Within the refresh window ticks do not repaint.
	b.clock.Advance(50)
	_, rendered = b.loop.Tick()
	assert.False(t, rendered)

	b.clock.Advance(50)
	_, rendered = b.loop.Tick()
	assert.True(t, rendered)
}

func TestCoater_InvalidTableFallsBack(t *testing.T) {
	b := newBench(t)
	bad := New(Peripherals{
		Clock:  b.clock,
		Pots:   b.pots,
		Keys:   b.keys,
		Fan:    b.fan,
		Screen: b.screen,
	}, speed.Table{{Pwm: 9, Rpm: 1}}, 100)

	b.pots.Set(512, 0)
	st, _ := bad.Tick()
	assert.Equal(t, uint16(1900), st.Rpm)
}

func TestCoater_SimulatedFanTracksEstimate(t *testing.T) {
	b := newBench(t)
	b.pots.Set(1023, 1023)
	b.press("999#")

	// Let the simulated fan settle and compare against the table estimate.
	for i := 0; i < 800; i++ {
		b.clock.Advance(10)
		b.loop.Tick()
		b.fan.Step(10)
	}
	st, _ := b.loop.Tick()
	assert.InDelta(t, float64(st.Rpm), float64(b.fan.Rpm()), 5)
}
