package dsp

import "math"

// CostasLoop tracks a BPSK carrier's frequency and phase and downmixes to
// baseband in the same pass. It mixes the input with a local NCO, lowpass
// filters each arm with a single-pole IIR (a short FIR at 48kHz over a
// ~30Hz-wide PSK-31 signal would waste taps chasing a narrowband target;
// the IIR removes the 2*f_c image cleanly with one state variable per arm),
// forms the I*Q phase-error product that a BPSK Costas detector needs, and
// drives a PI loop filter back into the NCO's phase.
type CostasLoop struct {
	nco              *NCO
	filteredI        float32
	filteredQ        float32
	alpha            float32
	proportionalGain float64
	integralGain     float64
	integrator       float64
}

// NewCostasLoop creates a Costas loop centered at carrierFreq. loopBandwidth
// is the nominal PLL bandwidth in Hz (~2 Hz for PSK-31); it documents the
// intended pull-in range but the proportional/integral gains below are
// fixed constants tuned for that bandwidth at 48kHz rather than derived
// from it algebraically.
func NewCostasLoop(carrierFreq, sampleRate, loopBandwidth float64) *CostasLoop {
	const lpfCutoff = 50.0
	alpha := float32(2.0 * math.Pi * lpfCutoff / sampleRate)
	_ = loopBandwidth

	return &CostasLoop{
		nco:   NewNCO(carrierFreq, sampleRate),
		alpha: alpha,
		// Empirically tuned for BPSK at 48kHz: proportional handles fast
		// phase jitter, integral pulls in slow carrier offset.
		proportionalGain: 0.01,
		integralGain:     0.000005,
	}
}

// Process mixes sample to baseband and returns the filtered I arm, which
// carries the BPSK data polarity once the loop is locked.
func (c *CostasLoop) Process(sample float32) float32 {
	ncoI, ncoQ := c.nco.NextIQ()
	mixedI := sample * ncoI
	mixedQ := sample * ncoQ

	c.filteredI += c.alpha * (mixedI - c.filteredI)
	c.filteredQ += c.alpha * (mixedQ - c.filteredQ)

	phaseError := float64(c.filteredI * c.filteredQ)

	c.integrator += c.integralGain * phaseError
	correction := c.proportionalGain*phaseError + c.integrator

	c.nco.AdjustPhase(correction)

	return c.filteredI
}

// SetFrequency retunes the NCO, e.g. for click-to-tune.
func (c *CostasLoop) SetFrequency(freq float64) {
	c.nco.SetFrequency(freq)
}

// Reset clears filter and integrator state.
func (c *CostasLoop) Reset() {
	c.nco.Reset()
	c.filteredI = 0.0
	c.filteredQ = 0.0
	c.integrator = 0.0
}
