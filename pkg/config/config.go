// Package config loads and saves the host panel configuration.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/gospin/pkg/display"
	"github.com/itohio/gospin/pkg/keypad"
	"github.com/itohio/gospin/pkg/speed"
)

// Config is the panel configuration persisted as YAML.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Display     DisplayConfig     `yaml:"display"`
	Keypad      KeypadConfig      `yaml:"keypad"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Sim         SimConfig         `yaml:"sim"`
}

// SerialConfig selects the controller's serial link.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// DisplayConfig mirrors the controller's display timing.
type DisplayConfig struct {
	RefreshMs uint32 `yaml:"refresh_ms"`
}

// KeypadConfig mirrors the controller's keypad timing.
type KeypadConfig struct {
	DebounceMs uint32 `yaml:"debounce_ms"`
}

// CalibrationPoint is one measured pwm/rpm pair.
type CalibrationPoint struct {
	Pwm uint8  `yaml:"pwm"`
	Rpm uint16 `yaml:"rpm"`
}

// CalibrationConfig is the pwm→rpm curve the panel and the simulated
// controller share.
type CalibrationConfig struct {
	Points []CalibrationPoint `yaml:"points"`
}

// SimConfig tunes the mock device's fan model.
type SimConfig struct {
	MaxRpm        float32       `yaml:"max_rpm"`
	SpinUpSeconds float32       `yaml:"spin_up_seconds"`
	TickInterval  time.Duration `yaml:"tick_interval"`
}

// Default returns the stock configuration.
func Default() *Config {
	points := make([]CalibrationPoint, 0, 8)
	for _, p := range speed.Default() {
		points = append(points, CalibrationPoint{Pwm: p.Pwm, Rpm: p.Rpm})
	}
	return &Config{
		Serial: SerialConfig{
			Port: "COM3",
			Baud: 115200,
		},
		Display: DisplayConfig{
			RefreshMs: display.DefaultRefreshMs,
		},
		Keypad: KeypadConfig{
			DebounceMs: keypad.DefaultDebounceMs,
		},
		Calibration: CalibrationConfig{
			Points: points,
		},
		Sim: SimConfig{
			MaxRpm:        3500,
			SpinUpSeconds: 0.8,
			TickInterval:  2 * time.Millisecond,
		},
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults; partial files are filled in with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.ensureDefaults()
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) ensureDefaults() {
	def := Default()
	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.Display.RefreshMs == 0 {
		c.Display.RefreshMs = def.Display.RefreshMs
	}
	if c.Keypad.DebounceMs == 0 {
		c.Keypad.DebounceMs = def.Keypad.DebounceMs
	}
	if len(c.Calibration.Points) == 0 {
		c.Calibration.Points = def.Calibration.Points
	}
	if c.Sim.MaxRpm == 0 {
		c.Sim.MaxRpm = def.Sim.MaxRpm
	}
	if c.Sim.SpinUpSeconds == 0 {
		c.Sim.SpinUpSeconds = def.Sim.SpinUpSeconds
	}
	if c.Sim.TickInterval == 0 {
		c.Sim.TickInterval = def.Sim.TickInterval
	}
}

// Table converts the calibration points to a speed.Table, validating it.
func (c CalibrationConfig) Table() (speed.Table, error) {
	table := make(speed.Table, 0, len(c.Points))
	for _, p := range c.Points {
		table = append(table, speed.Point{Pwm: p.Pwm, Rpm: p.Rpm})
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
