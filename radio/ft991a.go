// Package radio adapts the cat package's FT-991A command/response pair
// into the ports.RadioControl interface, adding amateur-band and TX-power
// validation the CAT protocol itself doesn't enforce.
package radio

import (
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nerdenator/psk31-client-workspace/cat"
	"github.com/nerdenator/psk31-client-workspace/domain"
	"github.com/nerdenator/psk31-client-workspace/ports"
)

type band struct {
	lowHz, highHz uint64
}

// amateurBands lists the US amateur radio bands (FCC Part 97) this adapter
// will transmit or tune into. Frequencies outside all of these are rejected
// before any CAT bytes reach the wire.
var amateurBands = []band{
	{1_800_000, 2_000_000},     // 160m
	{3_500_000, 4_000_000},     // 80m
	{5_332_000, 5_405_000},     // 60m
	{7_000_000, 7_300_000},     // 40m
	{10_100_000, 10_150_000},   // 30m
	{14_000_000, 14_350_000},   // 20m
	{18_068_000, 18_168_000},   // 17m
	{21_000_000, 21_450_000},   // 15m
	{24_890_000, 24_990_000},   // 12m
	{28_000_000, 29_700_000},   // 10m
	{50_000_000, 54_000_000},   // 6m
	{144_000_000, 148_000_000}, // 2m
	{420_000_000, 450_000_000}, // 70cm
}

func isAmateurFrequency(hz uint64) bool {
	for _, b := range amateurBands {
		if hz >= b.lowHz && hz <= b.highHz {
			return true
		}
	}
	return false
}

// maxTxPowerWatts is the FT-991A's rated maximum output power.
const maxTxPowerWatts = 100

// FT991A adapts a CAT session to ports.RadioControl for the Yaesu FT-991A.
type FT991A struct {
	session        *cat.Session
	isTransmitting bool
}

// NewFT991A wraps an open serial connection as a radio control surface.
// Callers should `defer radio.Close()` so PTT is released deterministically
// if the caller forgets to call PttOff explicitly; a runtime finalizer
// backs this up but should not be relied on as the primary mechanism.
func NewFT991A(serial ports.SerialConnection) *FT991A {
	r := &FT991A{session: cat.NewSession(serial)}
	runtime.SetFinalizer(r, finalizeFT991A)
	return r
}

func finalizeFT991A(r *FT991A) {
	if !r.isTransmitting {
		return
	}
	if releasePTTWithRetries(r) {
		return
	}
	log.Error("CRITICAL: failed to release PTT during garbage collection; radio may still be transmitting")
}

// Close releases PTT if it's still engaged and detaches the finalizer.
// Safe to call multiple times.
func (r *FT991A) Close() error {
	runtime.SetFinalizer(r, nil)
	if !r.isTransmitting {
		return nil
	}
	if releasePTTWithRetries(r) {
		return nil
	}
	return domain.NewError(domain.KindCat, "failed to release PTT on close")
}

// releasePTTWithRetries attempts PttOff up to three times with increasing
// delays, covering a USB-serial adapter that's momentarily busy.
func releasePTTWithRetries(r *FT991A) bool {
	for _, delay := range []time.Duration{0, 10 * time.Millisecond, 50 * time.Millisecond} {
		if delay > 0 {
			time.Sleep(delay)
		}
		if _, err := r.session.Execute(cat.Command{Kind: cat.PttOff}); err == nil {
			r.isTransmitting = false
			return true
		}
	}
	return false
}

// PttOn engages transmit.
func (r *FT991A) PttOn() error {
	if _, err := r.session.Execute(cat.Command{Kind: cat.PttOn}); err != nil {
		return err
	}
	r.isTransmitting = true
	return nil
}

// PttOff releases transmit.
func (r *FT991A) PttOff() error {
	if _, err := r.session.Execute(cat.Command{Kind: cat.PttOff}); err != nil {
		return err
	}
	r.isTransmitting = false
	return nil
}

// IsTransmitting reports the last known PTT state.
func (r *FT991A) IsTransmitting() bool {
	return r.isTransmitting
}

// GetFrequency queries VFO-A and validates the response is within a US
// amateur band.
func (r *FT991A) GetFrequency() (domain.Frequency, error) {
	resp, err := r.session.Execute(cat.Command{Kind: cat.GetFrequencyA})
	if err != nil {
		return domain.Frequency{}, err
	}
	if resp.Kind != cat.ResponseFrequencyHz {
		return domain.Frequency{}, domain.NewError(domain.KindCat, "unexpected response for GetFrequencyA")
	}
	if !isAmateurFrequency(resp.FrequencyHz) {
		return domain.Frequency{}, domain.NewError(domain.KindCat, "frequency %d Hz is outside US amateur bands", resp.FrequencyHz)
	}
	return domain.Hz(float64(resp.FrequencyHz)), nil
}

// SetFrequency validates freq falls within a US amateur band before
// sending it to the radio.
func (r *FT991A) SetFrequency(freq domain.Frequency) error {
	hz := uint64(freq.AsHz())
	if !isAmateurFrequency(hz) {
		return domain.NewError(domain.KindCat, "frequency %d Hz is outside US amateur bands", hz)
	}
	_, err := r.session.Execute(cat.Command{Kind: cat.SetFrequencyA, FrequencyHz: hz})
	return err
}

// GetMode queries the current operating mode.
func (r *FT991A) GetMode() (string, error) {
	resp, err := r.session.Execute(cat.Command{Kind: cat.GetMode})
	if err != nil {
		return "", err
	}
	if resp.Kind != cat.ResponseMode {
		return "", domain.NewError(domain.KindCat, "unexpected response for GetMode")
	}
	return resp.ModeName, nil
}

// SetMode sets the operating mode by name (e.g. "DATA-USB").
func (r *FT991A) SetMode(mode string) error {
	_, err := r.session.Execute(cat.Command{Kind: cat.SetMode, ModeName: mode})
	return err
}

// GetTXPower queries current TX power in watts.
func (r *FT991A) GetTXPower() (uint32, error) {
	resp, err := r.session.Execute(cat.Command{Kind: cat.GetTxPower})
	if err != nil {
		return 0, err
	}
	if resp.Kind != cat.ResponseTxPower {
		return 0, domain.NewError(domain.KindCat, "unexpected response for GetTxPower")
	}
	return resp.Watts, nil
}

// SetTXPower validates watts does not exceed the FT-991A's rated maximum
// before sending it to the radio.
func (r *FT991A) SetTXPower(watts uint32) error {
	if watts > maxTxPowerWatts {
		return domain.NewError(domain.KindCat, "TX power %d W exceeds FT-991A maximum (%d W)", watts, maxTxPowerWatts)
	}
	_, err := r.session.Execute(cat.Command{Kind: cat.SetTxPower, Watts: watts})
	return err
}

var _ ports.RadioControl = (*FT991A)(nil)
