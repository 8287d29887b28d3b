package link

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itohio/gospin/pkg/job"
)

// Frame is one telemetry line from the controller.
// Format: millis,pwm,rpm,state,seconds
// Example: 12345,128,1900,R,87
type Frame struct {
	Millis  uint32 // controller uptime, wraps
	Pwm     uint8
	Rpm     uint16
	Running bool
	Seconds uint32 // remaining while running, entered while idle
}

// ParseFrame parses one telemetry line from the controller.
func ParseFrame(line string) (Frame, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 5 {
		return Frame{}, fmt.Errorf("invalid frame: expected 5 comma-separated values, got %d", len(parts))
	}

	millis, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Frame{}, fmt.Errorf("invalid millis: %w", err)
	}

	pwm, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return Frame{}, fmt.Errorf("invalid pwm: %w", err)
	}

	rpm, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return Frame{}, fmt.Errorf("invalid rpm: %w", err)
	}

	var running bool
	switch parts[3] {
	case "I":
		running = false
	case "R":
		running = true
	default:
		return Frame{}, fmt.Errorf("invalid state %q: expected I or R", parts[3])
	}

	seconds, err := strconv.ParseUint(parts[4], 10, 32)
	if err != nil {
		return Frame{}, fmt.Errorf("invalid seconds: %w", err)
	}
	if seconds > job.MaxSeconds {
		return Frame{}, fmt.Errorf("seconds out of range: %d (max %d)", seconds, job.MaxSeconds)
	}

	return Frame{
		Millis:  uint32(millis),
		Pwm:     uint8(pwm),
		Rpm:     uint16(rpm),
		Running: running,
		Seconds: uint32(seconds),
	}, nil
}

// String renders the frame in the wire format.
func (f Frame) String() string {
	state := "I"
	if f.Running {
		state = "R"
	}
	return fmt.Sprintf("%d,%d,%d,%s,%d", f.Millis, f.Pwm, f.Rpm, state, f.Seconds)
}
