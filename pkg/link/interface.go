// Package link talks to the spin coater controller over its serial
// telemetry stream, and provides a simulated controller for development
// without hardware.
package link

// Device is a source of controller telemetry. Serial reads a real
// controller's USB serial port; Mock runs the control loop in-process.
type Device interface {
	// Connect starts the telemetry stream.
	Connect() error
	// Close stops the stream and releases resources.
	Close() error
	// Frames returns the channel telemetry frames arrive on. The channel
	// is closed by Close.
	Frames() <-chan Frame
	// IsConnected returns whether the device is currently connected.
	IsConnected() bool
}

var (
	_ Device = (*Serial)(nil)
	_ Device = (*Mock)(nil)
)
