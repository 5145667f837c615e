// Package serial opens a board's debug console for reading.
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

var (
	ErrNoConfig = errors.New("serial: no config")
	ErrNoDevice = errors.New("serial: no device given")
)

// Console is the read side of the debug link.
type Console interface {
	io.ReadCloser

	// Flush discards output the board sent before the console was opened
	Flush() error
}

// Config selects the console device.
type Config struct {
	Device string
	// Baud is ignored by the Teensy USB CDC link but needed for a UART
	// adapter on the debug pins
	Baud int
	// ReadTimeout of zero blocks until a line arrives
	ReadTimeout time.Duration
}

// DefaultConfig returns the settings for a Teensy debug console.
func DefaultConfig(device string) *Config {
	return &Config{
		Device: device,
		Baud:   115200,
	}
}

// Open opens the console described by cfg.
func Open(cfg *Config) (Console, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	return port, nil
}
