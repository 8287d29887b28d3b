package main

import "machine"

const (
	// Loop timing
	UI_REFRESH_MS = 100 // LCD refresh interval in milliseconds
	DEBOUNCE_MS   = 50  // Minimum interval between keypad events
	LOOP_DELAY_US = 500 // Superloop idle delay in microseconds

	// PWM configuration
	// 25 kHz keeps the fan's switching noise above hearing range.
	PWM_PERIOD_NS = 40000 // 1e9 / 25000

	// LCD configuration
	LCD_ADDR   = 0x27 // PCF8574 backpack default
	LCD_WIDTH  = 16
	LCD_HEIGHT = 2

	// Fan PWM pin
	PIN_FAN = machine.GP15

	// Potentiometer pins
	PIN_POT_COARSE = machine.ADC0 // GP26
	PIN_POT_FINE   = machine.ADC1 // GP27

	// LCD I2C pins
	PIN_LCD_SDA = machine.GP0
	PIN_LCD_SCL = machine.GP1

	// Keypad matrix pins
	PIN_ROW1 = machine.GP6
	PIN_ROW2 = machine.GP7
	PIN_ROW3 = machine.GP8
	PIN_ROW4 = machine.GP9
	PIN_COL1 = machine.GP10
	PIN_COL2 = machine.GP11
	PIN_COL3 = machine.GP12
	PIN_COL4 = machine.GP13

	// Serial configuration
	// Telemetry format: "millis,pwm,rpm,state,seconds\n"
	// Example: "4294967295,255,65535,R,999999\n" = ~30 bytes max per line
	// 10 frames/sec * 30 bytes = 300 bytes/sec; 115200 baud is plenty.
	UART_BAUD_RATE = 115200
)
