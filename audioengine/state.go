package audioengine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nerdenator/psk31-client-workspace/domain"
	"github.com/nerdenator/psk31-client-workspace/ports"
)

// State is the shared, goroutine-safe application state the audio and TX
// threads read and write concurrently: atomic flags for the hot-path
// running/abort checks, and mutex-guarded fields for the rest.
//
// This mirrors the original Tauri app's AppState: a handful of atomics the
// background threads poll every tick, plus mutex-protected configuration
// updated from the foreground (e.g. a waterfall click changing carrier
// frequency).
type State struct {
	audioRunning atomic.Bool
	rxRunning    atomic.Bool
	txAbort      atomic.Bool

	mu              sync.Mutex
	carrierFreqHz   float64
	audioDeviceName string
	config          domain.ModemConfig
	radio           ports.RadioControl
	serialPortName  string
}

// NewState creates shared state seeded from cfg.
func NewState(cfg domain.ModemConfig) *State {
	return &State{
		carrierFreqHz: cfg.CarrierFreq,
		config:        cfg,
	}
}

// SetRadio attaches (or detaches, with nil) the radio control surface used
// for PTT around transmissions, remembering port for the disconnect event
// WithRadio emits on a serial-level failure. Safe to call while audio/TX
// threads run.
func (s *State) SetRadio(radio ports.RadioControl, port string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radio = radio
	s.serialPortName = port
}

func (s *State) radioHandle() ports.RadioControl {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.radio
}

// WithRadio runs f against the attached radio. A serial-level failure means
// the link itself is gone, not just a malformed reply, so the radio handle
// and remembered port are dropped and a SerialDisconnected event fires
// before the error is returned to the caller. Mirrors the original Tauri
// app's with_radio command wrapper.
func (s *State) WithRadio(events Events, f func(ports.RadioControl) error) error {
	radio := s.radioHandle()
	if radio == nil {
		return domain.NewError(domain.KindSerial, "radio not connected")
	}

	err := f(radio)

	var domErr *domain.Error
	if errors.As(err, &domErr) && domErr.Kind == domain.KindSerial {
		s.mu.Lock()
		port := s.serialPortName
		s.radio = nil
		s.serialPortName = ""
		s.mu.Unlock()
		events.SerialDisconnected(domErr.Error(), port)
	}

	return err
}

// CarrierFrequency returns the current RX carrier frequency in Hz.
func (s *State) CarrierFrequency() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carrierFreqHz
}

// SetCarrierFrequency updates the RX carrier (e.g. waterfall click-to-tune)
// and keeps the TX config carrier in sync, matching the original's
// behavior of updating both so a subsequent TX uses the same tone.
func (s *State) SetCarrierFrequency(hz float64) error {
	if hz < 200.0 || hz > 3500.0 {
		return domain.NewError(domain.KindModem, "carrier frequency must be between 200-3500 Hz")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carrierFreqHz = hz
	s.config.CarrierFreq = hz
	return nil
}

// Config returns a copy of the current modem configuration.
func (s *State) Config() domain.ModemConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// rxStatus reports the RX-side fields of a snapshot; TX state lives on
// Engine (the thread that actually drives transmission) and is composed in
// by Engine.Status.
func (s *State) rxStatus() domain.ModemStatus {
	return domain.ModemStatus{
		RxRunning:     s.rxRunning.Load(),
		CarrierFreqHz: s.CarrierFrequency(),
	}
}
