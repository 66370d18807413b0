// Package ports defines the boundaries between the modem's core logic and
// the outside world: audio devices, serial ports, and radio control.
// Adapters in the adapters package implement these interfaces against real
// hardware; tests can implement them against fakes.
package ports

import (
	"github.com/nerdenator/psk31-client-workspace/domain"
)

// AudioInput captures samples from an input device (microphone or radio
// receive audio) and delivers them to a callback on its own goroutine.
type AudioInput interface {
	ListDevices() ([]domain.AudioDeviceInfo, error)
	Start(deviceID string, callback func(samples []domain.AudioSample)) error
	Stop() error
	IsRunning() bool
}

// AudioOutput plays samples to an output device (speaker or radio transmit
// audio), pulling samples from a callback on its own goroutine.
type AudioOutput interface {
	ListDevices() ([]domain.AudioDeviceInfo, error)
	Start(deviceID string, callback func(samples []domain.AudioSample)) error
	Stop() error
	IsRunning() bool
}

// SerialConnection is an open serial port.
type SerialConnection interface {
	Write(data []byte) (int, error)
	Read(buffer []byte) (int, error)
	Close() error
	IsConnected() bool
}

// SerialFactory lists and opens serial ports on the host system.
type SerialFactory interface {
	ListPorts() ([]domain.SerialPortInfo, error)
	Open(port string, baudRate uint32) (SerialConnection, error)
}

// RadioControl is PTT, frequency, mode, and TX power control for a radio.
type RadioControl interface {
	PttOn() error
	PttOff() error
	IsTransmitting() bool
	GetFrequency() (domain.Frequency, error)
	SetFrequency(freq domain.Frequency) error
	GetMode() (string, error)
	SetMode(mode string) error
	GetTXPower() (uint32, error)
	SetTXPower(watts uint32) error
}
