package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gospin/pkg/config"
	"github.com/itohio/gospin/pkg/link"
)

// showSettingsDialog displays a settings dialog with tabs for all
// configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createTimingTab(state),
		createCalibrationTab(state),
		createSimTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(500, 400))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(500, 400))
	d.Show()
}

func saveConfig(state *appState) {
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := link.Ports()
	portOptions := []string{}
	if err == nil {
		for _, port := range ports {
			portOptions = append(portOptions, port.Name)
		}
	}

	currentPort := state.cfg.Serial.Port
	found := false
	for _, opt := range portOptions {
		if opt == currentPort {
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
	}

	portSelect := widget.NewSelect(portOptions, func(string) {})
	if currentPort != "" {
		portSelect.SetSelected(currentPort)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.Baud))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			if portSelect.Selected != "" {
				state.cfg.Serial.Port = portSelect.Selected
			}
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 {
				state.cfg.Serial.Baud = baud
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Serial", form)
}

// createTimingTab creates the Display and Keypad timing tab.
func createTimingTab(state *appState) *container.TabItem {
	refreshEntry := widget.NewEntry()
	refreshEntry.SetText(strconv.FormatUint(uint64(state.cfg.Display.RefreshMs), 10))

	debounceEntry := widget.NewEntry()
	debounceEntry.SetText(strconv.FormatUint(uint64(state.cfg.Keypad.DebounceMs), 10))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Display Refresh (ms)", Widget: refreshEntry},
			{Text: "Keypad Debounce (ms)", Widget: debounceEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.ParseUint(refreshEntry.Text, 10, 32); err == nil && v > 0 {
				state.cfg.Display.RefreshMs = uint32(v)
			}
			if v, err := strconv.ParseUint(debounceEntry.Text, 10, 32); err == nil && v > 0 {
				state.cfg.Keypad.DebounceMs = uint32(v)
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Timing", form)
}

// createCalibrationTab creates the pwm→rpm calibration curve tab. Points
// are edited as one "pwm,rpm" pair per line.
func createCalibrationTab(state *appState) *container.TabItem {
	pointsEntry := widget.NewMultiLineEntry()
	pointsEntry.SetText(formatPoints(state.cfg.Calibration.Points))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Points (pwm,rpm per line)", Widget: pointsEntry},
		},
		OnSubmit: func() {
			points, err := parsePoints(pointsEntry.Text)
			if err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			candidate := config.CalibrationConfig{Points: points}
			if _, err := candidate.Table(); err != nil {
				dialog.ShowError(fmt.Errorf("invalid calibration: %w", err), state.window)
				return
			}
			state.cfg.Calibration.Points = points
			saveConfig(state)
		},
	}

	return container.NewTabItem("Calibration", form)
}

// createSimTab creates the simulated controller tab.
func createSimTab(state *appState) *container.TabItem {
	maxRpmEntry := widget.NewEntry()
	maxRpmEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Sim.MaxRpm))

	spinUpEntry := widget.NewEntry()
	spinUpEntry.SetText(fmt.Sprintf("%.2f", state.cfg.Sim.SpinUpSeconds))

	tickEntry := widget.NewEntry()
	tickEntry.SetText(state.cfg.Sim.TickInterval.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Max RPM", Widget: maxRpmEntry},
			{Text: "Spin-up Time Constant (s)", Widget: spinUpEntry},
			{Text: "Tick Interval", Widget: tickEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.ParseFloat(maxRpmEntry.Text, 32); err == nil && v > 0 {
				state.cfg.Sim.MaxRpm = float32(v)
			}
			if v, err := strconv.ParseFloat(spinUpEntry.Text, 32); err == nil && v > 0 {
				state.cfg.Sim.SpinUpSeconds = float32(v)
			}
			if v, err := time.ParseDuration(tickEntry.Text); err == nil && v > 0 {
				state.cfg.Sim.TickInterval = v
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Sim", form)
}

func formatPoints(points []config.CalibrationPoint) string {
	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "%d,%d\n", p.Pwm, p.Rpm)
	}
	return b.String()
}

func parsePoints(text string) ([]config.CalibrationPoint, error) {
	var points []config.CalibrationPoint
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid point %q: expected pwm,rpm", line)
		}
		pwm, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid pwm in %q: %w", line, err)
		}
		rpm, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid rpm in %q: %w", line, err)
		}
		points = append(points, config.CalibrationPoint{Pwm: uint8(pwm), Rpm: uint16(rpm)})
	}
	return points, nil
}
