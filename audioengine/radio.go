package audioengine

import (
	"github.com/nerdenator/psk31-client-workspace/domain"
	"github.com/nerdenator/psk31-client-workspace/ports"
)

// Status reports a point-in-time snapshot for a UI or CLI to poll, composing
// the RX thread's state with the TX thread's own running flag (Engine, not
// State, knows whether a transmission is actually in flight).
func (e *Engine) Status() domain.ModemStatus {
	status := e.state.rxStatus()
	status.TxRunning = e.txRunning.Load()
	return status
}

// GetFrequency queries the attached radio's VFO-A frequency.
func (e *Engine) GetFrequency() (domain.Frequency, error) {
	var freq domain.Frequency
	err := e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
		var err error
		freq, err = radio.GetFrequency()
		return err
	})
	return freq, err
}

// SetFrequency tunes the attached radio.
func (e *Engine) SetFrequency(freq domain.Frequency) error {
	return e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
		return radio.SetFrequency(freq)
	})
}

// GetMode queries the attached radio's operating mode.
func (e *Engine) GetMode() (string, error) {
	var mode string
	err := e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
		var err error
		mode, err = radio.GetMode()
		return err
	})
	return mode, err
}

// SetMode sets the attached radio's operating mode.
func (e *Engine) SetMode(mode string) error {
	return e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
		return radio.SetMode(mode)
	})
}

// GetTXPower queries the attached radio's TX power in watts.
func (e *Engine) GetTXPower() (uint32, error) {
	var watts uint32
	err := e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
		var err error
		watts, err = radio.GetTXPower()
		return err
	})
	return watts, err
}

// SetTXPower sets the attached radio's TX power in watts.
func (e *Engine) SetTXPower(watts uint32) error {
	return e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
		return radio.SetTXPower(watts)
	})
}
