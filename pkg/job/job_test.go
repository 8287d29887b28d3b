package job

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/gospin/pkg/keypad"
)

type fakeClock struct{ ms uint32 }

func (c *fakeClock) NowMs() uint32 { return c.ms }

func press(c *Controller, keys string) {
	for i := 0; i < len(keys); i++ {
		c.HandleKey(keypad.Key(keys[i]))
	}
}

func TestController_EntryAccumulates(t *testing.T) {
	c := New(&fakeClock{})

	press(c, "1")
	assert.Equal(t, uint32(1), c.EnteredSeconds())
	press(c, "2")
	assert.Equal(t, uint32(12), c.EnteredSeconds())
	press(c, "05")
	assert.Equal(t, uint32(1205), c.EnteredSeconds())
	assert.False(t, c.Running())
}

func TestController_StarClearsEntry(t *testing.T) {
	c := New(&fakeClock{})

	press(c, "478*")
	assert.Equal(t, uint32(0), c.EnteredSeconds())

	// Entry restarts cleanly after a clear.
	press(c, "9")
	assert.Equal(t, uint32(9), c.EnteredSeconds())
}

func TestController_EntryCapped(t *testing.T) {
	c := New(&fakeClock{})

	press(c, "999999")
	assert.Equal(t, uint32(999999), c.EnteredSeconds())

	// A seventh digit would overflow the display field and is dropped.
	press(c, "9")
	assert.Equal(t, uint32(999999), c.EnteredSeconds())

	press(c, "0")
	assert.Equal(t, uint32(999999), c.EnteredSeconds())
}

func TestController_HashStartsRun(t *testing.T) {
	clock := &fakeClock{ms: 5000}
	c := New(clock)

	press(c, "90#")
	assert.True(t, c.Running())
	assert.Equal(t, uint32(90), c.RemainingSeconds())
	assert.Equal(t, uint32(0), c.EnteredSeconds())
}

func TestController_HashWithoutEntryIgnored(t *testing.T) {
	c := New(&fakeClock{})

	press(c, "#")
	assert.False(t, c.Running())

	press(c, "0#")
	assert.False(t, c.Running())
}

func TestController_Countdown(t *testing.T) {
	clock := &fakeClock{}
	c := New(clock)

	press(c, "10#")
	assert.Equal(t, uint32(10), c.RemainingSeconds())

	clock.ms += 999
	assert.Equal(t, uint32(10), c.RemainingSeconds())

	clock.ms += 1
	assert.Equal(t, uint32(9), c.RemainingSeconds())

	clock.ms += 8500
	assert.Equal(t, uint32(1), c.RemainingSeconds())

	clock.ms += 500
	assert.Equal(t, uint32(0), c.RemainingSeconds())
	assert.True(t, c.Running(), "completion is explicit, not implicit in the clock")

	c.Complete()
	assert.False(t, c.Running())
	assert.Equal(t, uint32(0), c.EnteredSeconds())
}

func TestController_CompleteOnlyAtZero(t *testing.T) {
	clock := &fakeClock{}
	c := New(clock)

	press(c, "5#")
	clock.ms += 3000
	c.Complete()
	assert.True(t, c.Running())
	assert.Equal(t, uint32(2), c.RemainingSeconds())
}

func TestController_CompleteWhileIdleNoop(t *testing.T) {
	c := New(&fakeClock{})
	press(c, "42")
	c.Complete()
	assert.Equal(t, uint32(42), c.EnteredSeconds())
}

func TestController_AbortKey(t *testing.T) {
	clock := &fakeClock{}
	c := New(clock)

	press(c, "300#")
	clock.ms += 1000
	c.HandleKey(keypad.KeyD)
	assert.False(t, c.Running())
	assert.Equal(t, uint32(0), c.EnteredSeconds())
	assert.Equal(t, uint32(0), c.RemainingSeconds())
}

func TestController_KeysIgnoredWhileRunning(t *testing.T) {
	clock := &fakeClock{}
	c := New(clock)

	press(c, "60#")
	press(c, "123*#")
	c.HandleKey(keypad.KeyA)
	c.HandleKey(keypad.KeyB)
	c.HandleKey(keypad.KeyC)
	assert.True(t, c.Running())
	assert.Equal(t, uint32(60), c.RemainingSeconds())
}

func TestController_AbortKeysIgnoredWhileIdle(t *testing.T) {
	c := New(&fakeClock{})
	press(c, "12")
	c.HandleKey(keypad.KeyD)
	assert.Equal(t, uint32(12), c.EnteredSeconds())
}

func TestController_ClockWrap(t *testing.T) {
	// Start a run just before the millisecond counter wraps and confirm
	// the countdown carries across the wrap.
	clock := &fakeClock{ms: math.MaxUint32 - 1500}
	c := New(clock)

	press(c, "10#")
	clock.ms += 3000 // wraps
	assert.Equal(t, uint32(7), c.RemainingSeconds())

	clock.ms += 7000
	assert.Equal(t, uint32(0), c.RemainingSeconds())
	c.Complete()
	assert.False(t, c.Running())
}
