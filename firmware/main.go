//go:generate tinygo flash -target=pico

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/itohio/gospin/pkg/coater"
	"github.com/itohio/gospin/pkg/keypad"
	"github.com/itohio/gospin/pkg/speed"
)

// bootClock provides milliseconds since boot for the control loop.
type bootClock struct {
	start time.Time
}

func (c *bootClock) NowMs() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// pots reads the two speed pots. The RP2040 ADC reports 16-bit values;
// the control loop wants the 10-bit range, so drop the low bits.
type pots struct {
	coarse machine.ADC
	fine   machine.ADC
}

func (p *pots) ReadCoarse() uint16 { return p.coarse.Get() >> 6 }
func (p *pots) ReadFine() uint16   { return p.fine.Get() >> 6 }

// pwm is the slice of the machine PWM peripheral the fan driver needs.
type pwm interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmFan scales the 8-bit duty command to the PWM counter range.
type pwmFan struct {
	pwm pwm
	ch  uint8
}

func (f *pwmFan) SetDuty(duty uint8) {
	f.pwm.Set(f.ch, f.pwm.Top()*uint32(duty)/255)
}

// lcdScreen adapts the I2C LCD driver to the presenter.
type lcdScreen struct {
	dev hd44780i2c.Device
}

func (s *lcdScreen) SetCursor(col, row uint8) {
	s.dev.SetCursor(col, row)
}

func (s *lcdScreen) Print(data []byte) {
	s.dev.Print(data)
}

func main() {
	// Give the USB serial console time to enumerate.
	time.Sleep(2 * time.Second)

	clock := &bootClock{start: time.Now()}

	// Pots
	machine.InitADC()
	PIN_POT_COARSE.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_POT_FINE.Configure(machine.PinConfig{Mode: machine.PinInput})
	adcCoarse := machine.ADC{Pin: PIN_POT_COARSE}
	adcFine := machine.ADC{Pin: PIN_POT_FINE}
	adcCoarse.Configure(machine.ADCConfig{})
	adcFine.Configure(machine.ADCConfig{})

	// Fan PWM
	fanPWM := machine.PWM7 // GP15
	if err := fanPWM.Configure(machine.PWMConfig{Period: PWM_PERIOD_NS}); err != nil {
		println("pwm configure failed:", err.Error())
	}
	fanCh, err := fanPWM.Channel(PIN_FAN)
	if err != nil {
		println("pwm channel failed:", err.Error())
	}
	fan := &pwmFan{pwm: fanPWM, ch: fanCh}
	fan.SetDuty(0)

	// LCD
	if err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400_000,
		SDA:       PIN_LCD_SDA,
		SCL:       PIN_LCD_SCL,
	}); err != nil {
		println("i2c configure failed:", err.Error())
	}
	lcd := hd44780i2c.New(machine.I2C0, LCD_ADDR)
	if err := lcd.Configure(hd44780i2c.Config{
		Width:  LCD_WIDTH,
		Height: LCD_HEIGHT,
	}); err != nil {
		println("lcd configure failed:", err.Error())
	}
	lcd.BacklightOn(true)

	// Keypad matrix: rows idle high, columns pulled up.
	rowPins := [4]machine.Pin{PIN_ROW1, PIN_ROW2, PIN_ROW3, PIN_ROW4}
	colPins := [4]machine.Pin{PIN_COL1, PIN_COL2, PIN_COL3, PIN_COL4}
	var rows [4]keypad.OutputPin
	var cols [4]keypad.InputPin
	for i, pin := range rowPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.High()
		rows[i] = pin
	}
	for i, pin := range colPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		cols[i] = pin
	}
	keys := keypad.NewMatrix(rows, cols, clock, DEBOUNCE_MS)

	loop := coater.New(coater.Peripherals{
		Clock:  clock,
		Pots:   &pots{coarse: adcCoarse, fine: adcFine},
		Keys:   keys,
		Fan:    fan,
		Screen: &lcdScreen{dev: lcd},
	}, speed.Default(), UI_REFRESH_MS)

	// Main loop
	for {
		st, rendered := loop.Tick()
		if rendered {
			emitFrame(clock.NowMs(), st.Pwm, st.Rpm, st.Running, st.Seconds)
		}

		// Small delay to prevent a tight loop
		time.Sleep(LOOP_DELAY_US * time.Microsecond)
	}
}

// emitFrame prints one telemetry line on the USB serial console.
// Format: "millis,pwm,rpm,state,seconds\n"
// Example: "12345,128,1900,R,87\n"
func emitFrame(millis uint32, pwmVal uint8, rpm uint16, running bool, seconds uint32) {
	print(millis)
	print(",")
	print(pwmVal)
	print(",")
	print(rpm)
	print(",")
	if running {
		print("R")
	} else {
		print("I")
	}
	print(",")
	print(seconds)
	print("\n")
}
