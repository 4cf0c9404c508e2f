// SPDX-License-Identifier: MIT

package capture

import (
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/neptuneng/fieldkit/internal/config"
)

// OpenPort opens the configured serial device and returns it as a plain
// byte stream. Reads observe cfg.ReadTimeout so an idle line never blocks
// shutdown indefinitely.
func OpenPort(cfg config.Capture) (io.ReadCloser, error) {
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Port, err)
	}
	return &portReader{port: port}, nil
}

// ListPorts enumerates the serial devices present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}

// portReader adapts a serial.Port to io.ReadCloser. A timed-out read
// yields (0, nil); those are retried here so the scanner above never sees
// a zero-byte read and gives up with io.ErrNoProgress.
type portReader struct {
	port serial.Port
}

func (r *portReader) Read(p []byte) (int, error) {
	for {
		n, err := r.port.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (r *portReader) Close() error {
	return r.port.Close()
}
