// Package job holds the timed-run state machine: the operator types a
// duration on the keypad, starts the spindle and the job counts itself
// down to completion.
package job

import "github.com/itohio/gospin/pkg/keypad"

// MaxSeconds is the largest duration the six-character display field can
// show. Digits that would push the entry past it are dropped.
const MaxSeconds = 999999

// Clock provides milliseconds since boot; it may wrap.
type Clock interface {
	NowMs() uint32
}

// Controller is the job state machine. It is either idle, accumulating a
// typed duration, or running, counting the latched duration down.
type Controller struct {
	clock Clock
	state state
}

type state interface{ jobState() }

type idle struct {
	entered uint32
}

type running struct {
	latched uint32
	startMs uint32
}

func (idle) jobState()    {}
func (running) jobState() {}

// New returns an idle controller with no duration entered.
func New(clock Clock) *Controller {
	return &Controller{clock: clock, state: idle{}}
}

// HandleKey applies one keypad event. Digits extend the entry while idle,
// '*' clears it, '#' starts a run when the entry is non-zero and 'D'
// aborts a run. Everything else is ignored.
func (c *Controller) HandleKey(k keypad.Key) {
	switch st := c.state.(type) {
	case idle:
		switch {
		case k.IsDigit():
			if st.entered <= MaxSeconds/10 {
				next := st.entered*10 + k.Digit()
				if next <= MaxSeconds {
					c.state = idle{entered: next}
				}
			}
		case k == keypad.KeyStar:
			c.state = idle{}
		case k == keypad.KeyHash:
			if st.entered > 0 {
				c.state = running{latched: st.entered, startMs: c.clock.NowMs()}
			}
		}
	case running:
		if k == keypad.KeyD {
			c.state = idle{}
		}
	}
}

// Complete returns the controller to idle once the countdown has reached
// zero. It does nothing while time remains or while idle, so the caller
// can invoke it every loop iteration.
func (c *Controller) Complete() {
	st, ok := c.state.(running)
	if !ok {
		return
	}
	if remaining(st, c.clock.NowMs()) == 0 {
		c.state = idle{}
	}
}

// Running reports whether a job is in progress.
func (c *Controller) Running() bool {
	_, ok := c.state.(running)
	return ok
}

// EnteredSeconds returns the duration typed so far, zero while running.
func (c *Controller) EnteredSeconds() uint32 {
	if st, ok := c.state.(idle); ok {
		return st.entered
	}
	return 0
}

// RemainingSeconds returns the countdown value, zero while idle.
func (c *Controller) RemainingSeconds() uint32 {
	if st, ok := c.state.(running); ok {
		return remaining(st, c.clock.NowMs())
	}
	return 0
}

// remaining computes the seconds left. The modular subtraction keeps the
// result correct across a millisecond counter wrap.
func remaining(st running, nowMs uint32) uint32 {
	elapsedSec := (nowMs - st.startMs) / 1000
	if elapsedSec >= st.latched {
		return 0
	}
	return st.latched - elapsedSec
}
