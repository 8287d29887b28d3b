package link

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/itohio/gospin/pkg/coater"
	"github.com/itohio/gospin/pkg/config"
	"github.com/itohio/gospin/pkg/keypad"
	"github.com/itohio/gospin/pkg/rig"
	"github.com/itohio/gospin/pkg/speed"
)

// Mock simulates the controller for testing and development. It runs the
// real control loop over simulated peripherals and emits the same
// telemetry frames the hardware would, so the panel cannot tell the
// difference. The panel additionally gets direct access to the simulated
// pots, keypad and screen.
type Mock struct {
	cfg *config.Config

	frames    chan Frame
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	clock    *rig.Clock
	pots     *rig.Pots
	keys     *rig.Keypad
	fan      *rig.Fan
	screen   *rig.Screen
	loop     *coater.Coater
	lastStep time.Time
}

// NewMock creates a simulated controller. A nil cfg selects the defaults.
func NewMock(cfg *config.Config) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:    cfg,
		frames: make(chan Frame, DefaultBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect builds the simulated rig and starts the control loop.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	table, err := m.cfg.Calibration.Table()
	if err != nil {
		table = speed.Default()
	}

	m.clock = rig.NewClock(0)
	m.pots = &rig.Pots{}
	m.keys = &rig.Keypad{}
	m.fan = rig.NewFan(m.cfg.Sim.MaxRpm, m.cfg.Sim.SpinUpSeconds)
	m.screen = rig.NewScreen()
	m.loop = coater.New(coater.Peripherals{
		Clock:  m.clock,
		Pots:   m.pots,
		Keys:   m.keys,
		Fan:    m.fan,
		Screen: m.screen,
	}, table, m.cfg.Display.RefreshMs)

	m.lastStep = time.Now()
	m.connected = true

	go m.run()

	return nil
}

// Close stops the simulated controller.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.frames)

	return nil
}

// Frames returns the channel for reading telemetry frames.
func (m *Mock) Frames() <-chan Frame {
	return m.frames
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// SetPots positions the simulated speed pots (raw 10-bit values).
func (m *Mock) SetPots(coarse, fine uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pots != nil {
		m.pots.Set(coarse, fine)
	}
}

// Press queues one key press on the simulated keypad.
func (m *Mock) Press(k keypad.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys != nil {
		m.keys.Press(k)
	}
}

// Lines returns the two lines of the simulated LCD.
func (m *Mock) Lines() (string, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.screen == nil {
		return "", ""
	}
	return m.screen.Line(0), m.screen.Line(1)
}

// SpindleRpm returns the physically simulated spindle speed, which lags
// the commanded speed during spin-up.
func (m *Mock) SpindleRpm() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fan == nil {
		return 0
	}
	return m.fan.Rpm()
}

// run advances the simulation in wall-clock time and emits a frame
// whenever the simulated display repaints, matching the hardware's
// telemetry cadence.
func (m *Mock) run() {
	ticker := time.NewTicker(m.cfg.Sim.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.mu.Lock()
			dt := uint32(now.Sub(m.lastStep).Milliseconds())
			if dt == 0 {
				m.mu.Unlock()
				continue
			}
			m.lastStep = now
			m.clock.Advance(dt)
			m.fan.Step(dt)
			st, rendered := m.loop.Tick()
			millis := m.clock.NowMs()
			m.mu.Unlock()

			if !rendered {
				continue
			}

			frame := Frame{
				Millis:  millis,
				Pwm:     st.Pwm,
				Rpm:     st.Rpm,
				Running: st.Running,
				Seconds: st.Seconds,
			}
			select {
			case m.frames <- frame:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}
