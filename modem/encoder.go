// Package modem implements the BPSK-31 encoder and decoder: the glue that
// turns text into shaped audio samples and shaped audio samples back into
// text, composing the dsp and varicode packages.
package modem

import (
	"math"

	"github.com/nerdenator/psk31-client-workspace/dsp"
	"github.com/nerdenator/psk31-client-workspace/varicode"
)

// PreambleBits is the number of leading phase-change bits sent before data
// so the receiver's Costas loop and clock recovery can lock.
const PreambleBits = 32

// PostambleBits is the number of trailing phase-change bits sent after data
// for a clean ramp-down.
const PostambleBits = 32

// Encoder converts text into BPSK-31 modulated audio samples.
//
// In BPSK-31, a '0' bit means "flip phase 180 degrees", a '1' bit means "no
// change". Varicode's own "00" terminator between characters therefore
// produces two phase changes at every character boundary, and the preamble
// and postamble (all zero bits) are a train of continuous phase reversals.
type Encoder struct {
	sampleRate  int
	carrierFreq float64
}

// NewEncoder creates an encoder for the given sample rate and carrier.
func NewEncoder(sampleRate int, carrierFreq float64) *Encoder {
	return &Encoder{
		sampleRate:  sampleRate,
		carrierFreq: carrierFreq,
	}
}

// Encode turns text into a complete buffer of audio samples: preamble,
// modulated Varicode data, and postamble.
func (e *Encoder) Encode(text string) []float32 {
	bits := e.textToBits(text)
	return e.bitsToSamples(bits)
}

// textToBits builds the full bit stream: preamble + Varicode(text) +
// postamble. Unsupported characters are silently dropped.
func (e *Encoder) textToBits(text string) []bool {
	bits := make([]bool, 0, PreambleBits+PostambleBits+len(text)*10)

	for i := 0; i < PreambleBits; i++ {
		bits = append(bits, false)
	}

	for _, ch := range text {
		code, ok := varicode.Encode(ch)
		if !ok {
			continue
		}
		bits = append(bits, varicode.BitsFromString(code)...)
		bits = append(bits, false, false)
	}

	for i := 0; i < PostambleBits; i++ {
		bits = append(bits, false)
	}

	return bits
}

// bitsToSamples BPSK-modulates a bit stream, spanning each phase transition
// across the boundary between the symbol that triggers it and the one
// before it so amplitude crosses zero exactly when phase changes (see
// dsp.RaisedCosineShaper).
func (e *Encoder) bitsToSamples(bits []bool) []float32 {
	nco := dsp.NewNCO(e.carrierFreq, float64(e.sampleRate))
	spsym := int(math.Round(float64(e.sampleRate) / 31.25))
	shaper := dsp.NewRaisedCosineShaper(spsym)

	samples := make([]float32, 0, len(bits)*spsym)

	for i, bit := range bits {
		incomingChange := !bit

		outgoingChange := false
		if i+1 < len(bits) {
			outgoingChange = !bits[i+1]
		}

		envelope := shaper.Envelope(incomingChange, outgoingChange)

		if incomingChange {
			nco.AdjustPhase(math.Pi)
		}

		for j := 0; j < spsym; j++ {
			carrier := nco.Next()
			samples = append(samples, carrier*envelope[j])
		}
	}

	return samples
}
