package sonar

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// pollInterval bounds how long a transport Read blocks when idle.
const pollInterval = 100 * time.Millisecond

// SerialPorter is the part of a serial port the link needs. It lets tests
// run the link without hardware.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// SerialMode returns the port settings the head firmware expects (8N1).
func SerialMode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// OpenSerial opens the head on a serial port, e.g. /dev/ttyUSB0.
func OpenSerial(path string, baud int) (*Link, error) {
	port, err := serial.Open(path, SerialMode(baud))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := port.SetReadTimeout(pollInterval); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", path, err)
	}
	// drop the boot banner the firmware prints on reset
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("reset %s: %w", path, err)
	}
	return NewLink(path, port), nil
}
