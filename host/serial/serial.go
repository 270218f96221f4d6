// Package serial opens the board's USB CDC port for the host tools.
package serial

import (
	"errors"
	"io"
)

// Port is a byte stream to the board. The native implementation wraps
// github.com/tarm/serial; tests use in-memory readers.
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not yet read.
	Flush() error
}

// DefaultBaud is nominal only; USB CDC ignores it.
const DefaultBaud = 115200

// Config holds serial port configuration.
type Config struct {
	Device      string // e.g. /dev/ttyACM0 or COM3
	Baud        int
	ReadTimeout int // milliseconds, 0 blocks
}

var ErrNoDevice = errors.New("serial device not set")

// DefaultConfig returns the configuration the dimmer firmware expects.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}

// Validate checks the configuration before a port is opened.
func (c *Config) Validate() error {
	if c.Device == "" {
		return ErrNoDevice
	}
	if c.Baud <= 0 {
		return errors.New("baud rate must be positive")
	}
	if c.ReadTimeout < 0 {
		return errors.New("read timeout must not be negative")
	}
	return nil
}
