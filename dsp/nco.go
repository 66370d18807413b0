// Package dsp collects the small single-purpose DSP building blocks the
// PSK-31 modem composes: an NCO, AGC, FIR filters, a raised-cosine shaper,
// an FFT processor, a Costas loop and Mueller-Muller clock recovery. Each
// type is a small struct with a process-one-sample method and a Reset, kept
// deliberately un-entangled with its neighbors (see spec.md §9).
package dsp

import "math"

// NCO is a numerically-controlled oscillator: a phase accumulator that
// produces cos/sin samples and can be nudged by a PLL via AdjustPhase.
type NCO struct {
	phase          float64
	phaseIncrement float64
	sampleRate     float64
}

// NewNCO creates an NCO at the given frequency and sample rate.
func NewNCO(frequency, sampleRate float64) *NCO {
	return &NCO{
		phaseIncrement: 2.0 * math.Pi * frequency / sampleRate,
		sampleRate:     sampleRate,
	}
}

// SetFrequency updates the phase increment for a new frequency.
func (n *NCO) SetFrequency(frequency float64) {
	n.phaseIncrement = 2.0 * math.Pi * frequency / n.sampleRate
}

// Frequency returns the oscillator's current frequency in Hz.
func (n *NCO) Frequency() float64 {
	return n.phaseIncrement * n.sampleRate / (2.0 * math.Pi)
}

// AdjustPhase nudges the phase by delta, used by PLLs for correction.
func (n *NCO) AdjustPhase(delta float64) {
	n.phase += delta
	n.wrapPhase()
}

// NextIQ returns the next (cos, sin) pair and advances the phase.
func (n *NCO) NextIQ() (i, q float32) {
	i = float32(math.Cos(n.phase))
	q = float32(math.Sin(n.phase))
	n.phase += n.phaseIncrement
	n.wrapPhase()
	return i, q
}

// Next returns the next cosine sample and advances the phase.
func (n *NCO) Next() float32 {
	sample := float32(math.Cos(n.phase))
	n.phase += n.phaseIncrement
	n.wrapPhase()
	return sample
}

// Reset zeroes the phase.
func (n *NCO) Reset() {
	n.phase = 0.0
}

func (n *NCO) wrapPhase() {
	twoPi := 2.0 * math.Pi
	for n.phase >= twoPi {
		n.phase -= twoPi
	}
	for n.phase < 0.0 {
		n.phase += twoPi
	}
}
