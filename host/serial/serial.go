// Package serial abstracts the byte stream between the host and a target
// board, so the monitor can run against real hardware, a pseudo-terminal,
// or an in-memory loopback in tests.
package serial

import "io"

// Port is a serial connection to a target.
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread buffered data.
	Flush() error
}

// Config holds serial port settings.
type Config struct {
	// Device path, e.g. "/dev/ttyACM0" or "COM3".
	Device string

	// Baud rate. USB CDC targets ignore this.
	Baud int

	// ReadTimeout in milliseconds; 0 blocks.
	ReadTimeout int
}
