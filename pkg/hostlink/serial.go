package hostlink

import (
	"io"

	"github.com/tarm/serial"
)

// DefaultBaud is the host link baud rate. 115200 is reliable with a 16MHz
// crystal; 230400 is not.
const DefaultBaud = 115200

// OpenSerial opens a serial port for the host link.
// A non-positive baud selects DefaultBaud.
func OpenSerial(name string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	return serial.OpenPort(&serial.Config{Name: name, Baud: baud})
}
