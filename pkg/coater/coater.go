// Package coater ties the pots, keypad, fan and display together into the
// control loop that runs on the spindle controller. The hardware hides
// behind small interfaces so the same loop drives the real board and the
// simulated rig.
package coater

import (
	"github.com/itohio/gospin/pkg/display"
	"github.com/itohio/gospin/pkg/job"
	"github.com/itohio/gospin/pkg/keypad"
	"github.com/itohio/gospin/pkg/speed"
)

// Clock provides milliseconds since boot; it may wrap.
type Clock interface {
	NowMs() uint32
}

// Pots samples the two speed potentiometers as raw 10-bit values.
type Pots interface {
	ReadCoarse() uint16
	ReadFine() uint16
}

// Keys yields at most one debounced key event per poll.
type Keys interface {
	Poll() (keypad.Key, bool)
}

// Fan accepts an 8-bit PWM duty command.
type Fan interface {
	SetDuty(duty uint8)
}

// Peripherals gathers everything the control loop touches.
type Peripherals struct {
	Clock  Clock
	Pots   Pots
	Keys   Keys
	Fan    Fan
	Screen display.Screen
}

// Coater is the control loop state: the job state machine, the display
// presenter and the calibration curve.
type Coater struct {
	p     Peripherals
	table speed.Table
	jobs  *job.Controller
	view  *display.Presenter
}

// New assembles the loop. An invalid calibration table is replaced by the
// stock one so a bad config cannot brick the controller.
func New(p Peripherals, table speed.Table, refreshMs uint32) *Coater {
	if table.Validate() != nil {
		table = speed.Default()
	}
	return &Coater{
		p:     p,
		table: table,
		jobs:  job.New(p.Clock),
		view:  display.New(p.Screen, p.Clock, refreshMs),
	}
}

// Tick runs one loop iteration: sample the pots, consume one key event,
// retire a finished job, drive the fan and refresh the display. The fan
// only spins while a job runs; the pots choose how fast. It returns the
// status snapshot and whether the display was rewritten.
func (c *Coater) Tick() (display.Status, bool) {
	pwm := speed.Compose(c.p.Pots.ReadCoarse(), c.p.Pots.ReadFine())

	if k, ok := c.p.Keys.Poll(); ok {
		c.jobs.HandleKey(k)
	}

	if c.jobs.Running() && c.jobs.RemainingSeconds() == 0 {
		c.jobs.Complete()
	}

	if c.jobs.Running() {
		c.p.Fan.SetDuty(pwm)
	} else {
		c.p.Fan.SetDuty(0)
	}

	st := display.Status{
		Pwm:     pwm,
		Rpm:     c.table.Rpm(pwm),
		Running: c.jobs.Running(),
	}
	if st.Running {
		st.Seconds = c.jobs.RemainingSeconds()
	} else {
		st.Seconds = c.jobs.EnteredSeconds()
	}
	return st, c.view.Show(st)
}
