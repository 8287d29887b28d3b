package main

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2"

	"github.com/itohio/gospin/pkg/display"
	"github.com/itohio/gospin/pkg/link"
	"github.com/itohio/gospin/pkg/trace"
)

const blankLine = "                "

// updateInterval throttles scope repaints to roughly 60 FPS.
const updateInterval = 16 * time.Millisecond

// consumeFrames reads telemetry until the channel closes, recording it in
// the history and repainting the UI.
func consumeFrames(state *appState, frames <-chan link.Frame) {
	for frame := range frames {
		now := time.Now()
		state.history.Add(trace.FromFrame(frame, now))

		state.updateMu.Lock()
		tooSoon := now.Sub(state.lastUpdateTime) < updateInterval
		if !tooSoon {
			state.lastUpdateTime = now
		}
		state.updateMu.Unlock()
		if tooSoon {
			continue
		}

		points := state.history.Points()
		top, bottom := renderLCD(frame)
		var spindle string
		if state.mock != nil {
			spindle = "Spindle: " + formatRpm(state.mock.SpindleRpm()) + " RPM"
		}

		// Widget updates must run on the main thread.
		fyne.Do(func() {
			state.scopeWidget.UpdateData(points)
			state.lcdTop.SetText(top)
			state.lcdBottom.SetText(bottom)
			if state.spindleLabel != nil && spindle != "" {
				state.spindleLabel.SetText(spindle)
			}
		})
	}
}

// renderLCD reproduces the controller's display lines from a frame, so
// the panel shows exactly what the operator sees on the hardware.
func renderLCD(f link.Frame) (string, string) {
	var buf [display.Width]byte
	display.SpeedLine(&buf, f.Pwm, f.Rpm)
	top := string(buf[:])
	display.TimeLine(&buf, f.Running, f.Seconds)
	return top, string(buf[:])
}

func formatRpm(rpm float32) string {
	v := int(rpm + 0.5)
	if v < 0 {
		v = 0
	}
	return strconv.Itoa(v)
}
