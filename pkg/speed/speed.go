// Package speed turns the two potentiometer readings into a PWM command
// and estimates the resulting spindle speed from a calibration table.
package speed

import (
	"errors"
	"fmt"
)

// MaxSample is the largest raw value a 10-bit ADC channel can produce.
const MaxSample = 1023

// Compose maps the coarse and fine pot samples to an 8-bit PWM command.
// Each pot is quantised into 16 steps: the coarse pot selects one of 16
// gears and the fine pot trims inside the gear, so a single-LSB flicker
// on the coarse channel cannot move the gear while the fine pot still
// covers the whole range between gears.
func Compose(coarseRaw, fineRaw uint16) uint8 {
	return quantise(coarseRaw)<<4 | quantise(fineRaw)
}

// quantise maps a raw 10-bit sample to one of 16 steps (raw*16/1024).
func quantise(raw uint16) uint8 {
	if raw > MaxSample {
		raw = MaxSample
	}
	return uint8(raw >> 6)
}

// Point is one calibration entry: the measured spindle RPM at a PWM command.
type Point struct {
	Pwm uint8
	Rpm uint16
}

// Table is a pwm→rpm calibration curve. A valid table holds at least two
// points, starts at pwm 0 and is strictly increasing in both coordinates.
// The curve is hardware-specific and supplied by the operator; Default
// ships a plausible one for the stock fan.
type Table []Point

// Default returns the calibration curve for the stock fan.
func Default() Table {
	return Table{
		{Pwm: 0, Rpm: 0},
		{Pwm: 64, Rpm: 1150},
		{Pwm: 128, Rpm: 1900},
		{Pwm: 192, Rpm: 2750},
		{Pwm: 255, Rpm: 3500},
	}
}

// Validate checks the table shape the interpolation relies on.
func (t Table) Validate() error {
	if len(t) < 2 {
		return errors.New("calibration table needs at least two points")
	}
	if t[0].Pwm != 0 {
		return errors.New("calibration table must start at pwm 0")
	}
	for i := 1; i < len(t); i++ {
		if t[i].Pwm <= t[i-1].Pwm || t[i].Rpm <= t[i-1].Rpm {
			return fmt.Errorf("calibration table not strictly increasing at point %d", i)
		}
	}
	return nil
}

// Rpm estimates the spindle speed for a PWM command by piecewise-linear
// interpolation over the table. Commands outside the tabulated range
// return the first/last tabulated RPM. 32-bit intermediates are wide
// enough for any pwm·rpm product in range.
func (t Table) Rpm(pwm uint8) uint16 {
	if len(t) == 0 {
		return 0
	}
	if pwm <= t[0].Pwm {
		return t[0].Rpm
	}
	last := t[len(t)-1]
	if pwm >= last.Pwm {
		return last.Rpm
	}
	for i := 1; i < len(t); i++ {
		if pwm > t[i].Pwm {
			continue
		}
		x0, y0 := uint32(t[i-1].Pwm), uint32(t[i-1].Rpm)
		x1, y1 := uint32(t[i].Pwm), uint32(t[i].Rpm)
		return uint16(y0 + (uint32(pwm)-x0)*(y1-y0)/(x1-x0))
	}
	return last.Rpm
}
