package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gospin/pkg/config"
	"github.com/itohio/gospin/pkg/link"
	"github.com/itohio/gospin/pkg/scope"
	"github.com/itohio/gospin/pkg/trace"
)

// historyPoints bounds the telemetry kept for plotting. At ten frames a
// second this is about ten minutes.
const historyPoints = 6000

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use simulated controller instead of serial port")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	application := app.NewWithID("com.itohio.gospin")

	window := application.NewWindow("Spin Coater")
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		window:     window,
		useMock:    *mockFlag,
		history:    trace.NewHistory(historyPoints),
	}

	toolbar := createToolbar(state)

	scopeWidget := scope.New(60 * time.Second)
	state.scopeWidget = scopeWidget

	lcdPanel := createLCDPanel(state)

	var bottom fyne.CanvasObject = lcdPanel
	if *mockFlag {
		bottom = container.NewVBox(lcdPanel, createSimPanel(state))
	}

	window.SetContent(container.NewBorder(
		toolbar,
		bottom,
		nil,
		nil,
		scopeWidget,
	))

	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	device     link.Device
	mock       *link.Mock // non-nil while connected with -mock
	window     fyne.Window

	scopeWidget *scope.ScopeWidget
	history     *trace.History
	connectBtn  *widget.Button

	// LCD mirror
	lcdTop    *widget.Label
	lcdBottom *widget.Label

	// Simulated rig readout
	spindleLabel *widget.Label

	framesDone chan struct{} // closed when the frame consumer exits

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the toolbar with Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(connectBtn, settingsBtn),
		nil,
		nil,
	)
}

// createLCDPanel builds the two monospace labels mirroring the
// controller's 16x2 display.
func createLCDPanel(state *appState) fyne.CanvasObject {
	state.lcdTop = widget.NewLabel(blankLine)
	state.lcdTop.TextStyle = fyne.TextStyle{Monospace: true}
	state.lcdBottom = widget.NewLabel(blankLine)
	state.lcdBottom.TextStyle = fyne.TextStyle{Monospace: true}

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewCenter(container.NewVBox(state.lcdTop, state.lcdBottom)),
	)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		state.device.Close()
		if state.framesDone != nil {
			<-state.framesDone
			state.framesDone = nil
		}
		state.device = nil
		state.mock = nil
		if state.useMock {
			fmt.Println("Disconnected from simulated controller")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	var device link.Device
	if state.useMock {
		mock := link.NewMock(state.cfg)
		state.mock = mock
		device = mock
	} else {
		device = link.NewSerial(state.cfg.Serial.Port, state.cfg.Serial.Baud, link.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		state.mock = nil
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to start simulated controller: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = device
	if state.useMock {
		fmt.Println("Connected to simulated controller")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	state.history.Clear()

	done := make(chan struct{})
	state.framesDone = done
	go func() {
		defer close(done)
		consumeFrames(state, device.Frames())
	}()
}
