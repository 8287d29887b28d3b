package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gospin/pkg/keypad"
	"github.com/itohio/gospin/pkg/speed"
)

// createSimPanel builds the controls for poking the simulated rig: the
// two speed pots as sliders, the 4x4 keypad as buttons and the simulated
// spindle speed readout.
func createSimPanel(state *appState) fyne.CanvasObject {
	coarse := widget.NewSlider(0, speed.MaxSample)
	fine := widget.NewSlider(0, speed.MaxSample)

	setPots := func(float64) {
		if state.mock != nil {
			state.mock.SetPots(uint16(coarse.Value), uint16(fine.Value))
		}
	}
	coarse.OnChanged = setPots
	fine.OnChanged = setPots

	pots := container.NewVBox(
		widget.NewLabel("Coarse"),
		coarse,
		widget.NewLabel("Fine"),
		fine,
	)

	keys := make([]fyne.CanvasObject, 0, 16)
	for _, row := range keypad.Layout {
		for _, key := range row {
			k := key
			keys = append(keys, widget.NewButton(string(rune(k)), func() {
				if state.mock != nil {
					state.mock.Press(k)
				}
			}))
		}
	}
	pad := container.NewGridWithColumns(4, keys...)

	state.spindleLabel = widget.NewLabel("Spindle: 0 RPM")

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil, pad, pots),
		state.spindleLabel,
	)
}
