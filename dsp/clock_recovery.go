package dsp

// ClockRecovery recovers the symbol clock from a stream of baseband samples
// using a Mueller-Muller timing error detector. It free-runs at
// samplesPerSymbol between decisions and nudges that estimate toward the
// true symbol rate using the sign of consecutive decided symbols, so small
// frequency offsets between the transmitter and this machine's sample clock
// don't accumulate into lost symbols over a long transmission.
type ClockRecovery struct {
	samplesPerSymbol float64
	omega            float64
	omegaMin         float64
	omegaMax         float64
	gainOmega        float64

	counter    float64
	lastSample float32 // raw sample at the previous decision point
	lastSymbol float32 // decided (+-1) value at the previous decision point
}

// NewClockRecovery creates a recovery loop for the given nominal symbol
// length in samples. omega is allowed to drift up to 10% from this nominal
// value before being clamped, matching the transmit/receive clock tolerance
// PSK-31 is expected to tolerate.
func NewClockRecovery(samplesPerSymbol float64) *ClockRecovery {
	return &ClockRecovery{
		samplesPerSymbol: samplesPerSymbol,
		omega:            samplesPerSymbol,
		omegaMin:         samplesPerSymbol * 0.9,
		omegaMax:         samplesPerSymbol * 1.1,
		gainOmega:        0.001,
		counter:          samplesPerSymbol,
	}
}

// Process consumes one baseband sample. It returns (symbol, true) at a
// symbol decision point, or (0, false) between decisions.
func (c *ClockRecovery) Process(sample float32) (float32, bool) {
	c.counter--
	if c.counter > 0 {
		return 0, false
	}

	decided := float32(1.0)
	if sample < 0 {
		decided = -1.0
	}

	// Mueller-Muller timing error: y(k)*a(k-1) - y(k-1)*a(k).
	errorTerm := float64(sample*c.lastSymbol - c.lastSample*decided)

	c.omega += c.gainOmega * errorTerm
	c.omega = clamp64(c.omega, c.omegaMin, c.omegaMax)

	c.counter += c.omega
	c.lastSample = sample
	c.lastSymbol = decided

	return sample, true
}

// Reset restores the nominal symbol rate and clears detector state.
func (c *ClockRecovery) Reset() {
	c.omega = c.samplesPerSymbol
	c.counter = c.samplesPerSymbol
	c.lastSample = 0
	c.lastSymbol = 0
}

func clamp64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
