package dsp

// AGC is an automatic gain control with exponential attack/decay. It is the
// first stage of the PSK-31 decode pipeline and its gain doubles as the
// signal-strength readout (modem.Decoder.SignalStrength).
type AGC struct {
	targetLevel float32
	attackRate  float32
	decayRate   float32
	gain        float32
	minGain     float32
	maxGain     float32
}

// NewAGC creates an AGC targeting the given output level.
func NewAGC(targetLevel float32) *AGC {
	return &AGC{
		targetLevel: targetLevel,
		attackRate:  0.01,
		decayRate:   0.001,
		gain:        1.0,
		minGain:     0.01,
		maxGain:     100.0,
	}
}

// Process applies the current gain to sample, adapts the gain toward the
// target level, and returns the clamped output.
func (a *AGC) Process(sample float32) float32 {
	output := sample * a.gain
	level := abs32(output)

	if level > a.targetLevel {
		a.gain *= 1.0 - a.attackRate
	} else {
		a.gain *= 1.0 + a.decayRate
	}

	a.gain = clamp32(a.gain, a.minGain, a.maxGain)
	return clamp32(output, -1.0, 1.0)
}

// CurrentGain returns the AGC's current gain, used for signal-strength readout.
func (a *AGC) CurrentGain() float32 {
	return a.gain
}

// Reset returns the gain to unity.
func (a *AGC) Reset() {
	a.gain = 1.0
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
