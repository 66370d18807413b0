// Package adapters provides concrete ports.AudioInput/AudioOutput and
// ports.SerialConnection/SerialFactory implementations backed by real
// hardware: PortAudio for sound, a raw TTY via github.com/pkg/term for the
// radio's CAT link.
package adapters

import (
	"github.com/pkg/term"

	"github.com/nerdenator/psk31-client-workspace/domain"
	"github.com/nerdenator/psk31-client-workspace/ports"
)

// supportedBauds are the speeds this adapter is willing to set directly;
// anything else silently falls back to 4800, matching how serial
// ports misbehave on bauds the underlying termios call doesn't recognize.
var supportedBauds = map[uint32]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
}

// SerialFactory opens FT-991A CAT serial connections over a raw TTY.
type SerialFactory struct{}

// ListPorts is not implemented on this platform abstraction; callers that
// need device discovery should enumerate /dev or COM* themselves and pass
// the resulting name to Open.
func (SerialFactory) ListPorts() ([]domain.SerialPortInfo, error) {
	return nil, domain.NewError(domain.KindSerial, "serial port enumeration is not supported on this platform")
}

// Open opens portName at baudRate in raw mode, ready for CAT command I/O.
func (SerialFactory) Open(portName string, baudRate uint32) (ports.SerialConnection, error) {
	fd, err := term.Open(portName, term.RawMode)
	if err != nil {
		return nil, domain.Wrap(domain.KindSerial, "could not open serial port "+portName, err)
	}

	switch {
	case baudRate == 0:
		// Leave it alone.
	case supportedBauds[baudRate]:
		if err := fd.SetSpeed(int(baudRate)); err != nil {
			fd.Close()
			return nil, domain.Wrap(domain.KindSerial, "could not set baud rate", err)
		}
	default:
		if err := fd.SetSpeed(4800); err != nil {
			fd.Close()
			return nil, domain.Wrap(domain.KindSerial, "could not set fallback baud rate", err)
		}
	}

	return &SerialPort{fd: fd, connected: true}, nil
}

// SerialPort is an open raw-mode TTY connection.
type SerialPort struct {
	fd        *term.Term
	connected bool
}

// Write sends bytes to the port.
func (s *SerialPort) Write(data []byte) (int, error) {
	if s.fd == nil {
		return 0, domain.NewError(domain.KindSerial, "write on closed serial port")
	}
	n, err := s.fd.Write(data)
	if err != nil {
		s.connected = false
		return n, domain.Wrap(domain.KindSerial, "serial write failed", err)
	}
	return n, nil
}

// Read reads available bytes into buffer, blocking per the port's
// configured read timeout.
func (s *SerialPort) Read(buffer []byte) (int, error) {
	if s.fd == nil {
		return 0, domain.NewError(domain.KindSerial, "read on closed serial port")
	}
	n, err := s.fd.Read(buffer)
	if err != nil {
		s.connected = false
		return n, domain.Wrap(domain.KindSerial, "serial read failed", err)
	}
	return n, nil
}

// Close releases the underlying file descriptor.
func (s *SerialPort) Close() error {
	if s.fd == nil {
		return nil
	}
	err := s.fd.Close()
	s.fd = nil
	s.connected = false
	return err
}

// IsConnected reports whether the last I/O operation succeeded.
func (s *SerialPort) IsConnected() bool {
	return s.connected
}

var (
	_ ports.SerialFactory    = SerialFactory{}
	_ ports.SerialConnection = (*SerialPort)(nil)
)
