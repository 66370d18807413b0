package dsp

import "math"

// RaisedCosineShaper produces the amplitude envelope for one BPSK-31 symbol
// period.
//
// The source this module is based on applied the 180-degree phase flip at
// the very start of a symbol while the envelope sat at full amplitude there,
// producing a full-amplitude discontinuity (spec.md §4.7, §9 — a known bug
// in the original). The correct form splits a phase transition across the
// boundary between two symbols: the outgoing half of the symbol *before* the
// flip ramps 1→0, and the incoming half of the symbol *at* the flip ramps
// 0→1, so amplitude is zero exactly when the phase changes. Building this
// requires knowing, while shaping symbol k, whether symbol k+1 will also
// carry a phase change — a one-bit look-ahead.
type RaisedCosineShaper struct {
	samplesPerSymbol int
}

// NewRaisedCosineShaper creates a shaper for the given symbol length.
func NewRaisedCosineShaper(samplesPerSymbol int) *RaisedCosineShaper {
	return &RaisedCosineShaper{samplesPerSymbol: samplesPerSymbol}
}

// SamplesPerSymbol returns the configured symbol length.
func (r *RaisedCosineShaper) SamplesPerSymbol() int {
	return r.samplesPerSymbol
}

// Envelope returns the amplitude envelope for one symbol.
//
// incomingChange is true when the phase flip for this symbol happens at its
// own start (so the first half must ramp up from zero). outgoingChange is
// true when the *next* symbol will carry a phase flip at its start (so this
// symbol's second half must ramp down to zero ahead of it). When neither
// flag is set for a half, that half is flat at full amplitude.
func (r *RaisedCosineShaper) Envelope(incomingChange, outgoingChange bool) []float32 {
	n := r.samplesPerSymbol
	half := n / 2
	envelope := make([]float32, n)

	for i := 0; i < half; i++ {
		if incomingChange {
			t := float64(i) / float64(half)
			envelope[i] = float32(math.Sin(math.Pi / 2 * t))
		} else {
			envelope[i] = 1.0
		}
	}

	for i := half; i < n; i++ {
		if outgoingChange {
			t := float64(i-half) / float64(n-half)
			envelope[i] = float32(math.Cos(math.Pi / 2 * t))
		} else {
			envelope[i] = 1.0
		}
	}

	return envelope
}
