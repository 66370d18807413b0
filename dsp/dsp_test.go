package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNCOFrequencyWraps(t *testing.T) {
	nco := NewNCO(1000.0, 48000.0)
	for i := 0; i < 48000; i++ {
		v := nco.Next()
		assert.True(t, v >= -1.0 && v <= 1.0)
	}
}

func TestNCOIQAreOrthogonal(t *testing.T) {
	nco := NewNCO(1000.0, 48000.0)
	i, q := nco.NextIQ()
	magSquared := float64(i*i + q*q)
	assert.InDelta(t, 1.0, magSquared, 0.01)
}

func TestAGCConvergesTowardTarget(t *testing.T) {
	agc := NewAGC(0.5)
	var last float32
	for i := 0; i < 10000; i++ {
		last = agc.Process(0.1)
	}
	assert.InDelta(t, 0.5, math.Abs(float64(last)), 0.05)
}

func TestAGCGainClamped(t *testing.T) {
	agc := NewAGC(0.5)
	for i := 0; i < 100000; i++ {
		agc.Process(0.00001)
	}
	assert.LessOrEqual(t, agc.CurrentGain(), float32(100.0))

	agc.Reset()
	for i := 0; i < 100000; i++ {
		agc.Process(1000.0)
	}
	assert.GreaterOrEqual(t, agc.CurrentGain(), float32(0.01))
}

func TestLowpassFilterAttenuatesHighFrequency(t *testing.T) {
	filter := Lowpass(200.0, 48000.0, 63)

	lowFreqEnergy := sumSquaredResponse(t, filter, 50.0, 48000.0)
	filter.Reset()
	highFreqEnergy := sumSquaredResponse(t, filter, 5000.0, 48000.0)

	assert.Greater(t, lowFreqEnergy, highFreqEnergy)
}

func sumSquaredResponse(t *testing.T, filter *FIRFilter, freq, sampleRate float64) float64 {
	t.Helper()
	var energy float64
	phaseInc := 2 * math.Pi * freq / sampleRate
	phase := 0.0
	for i := 0; i < 2000; i++ {
		in := float32(math.Cos(phase))
		out := filter.Process(in)
		if i > 200 {
			energy += float64(out) * float64(out)
		}
		phase += phaseInc
	}
	return energy
}

func TestRaisedCosineEnvelopeBounds(t *testing.T) {
	shaper := NewRaisedCosineShaper(1536)
	envelope := shaper.Envelope(true, true)
	require.Len(t, envelope, 1536)

	assert.InDelta(t, 0.0, envelope[0], 0.01)
	assert.InDelta(t, 0.0, envelope[len(envelope)-1], 0.01)

	for _, v := range envelope {
		assert.GreaterOrEqual(t, v, float32(0.0))
		assert.LessOrEqual(t, v, float32(1.0001))
	}
}

func TestRaisedCosineFlatWhenNoChange(t *testing.T) {
	shaper := NewRaisedCosineShaper(8)
	envelope := shaper.Envelope(false, false)
	for _, v := range envelope {
		assert.InDelta(t, 1.0, v, 0.0001)
	}
}

func TestFFTIsDeterministic(t *testing.T) {
	fft := NewFFT(1024)
	samples := make([]float32, 1024)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * float64(i) / 16))
	}

	first := fft.Compute(samples)
	second := fft.Compute(samples)
	assert.Equal(t, first, second)
}

func TestCostasLoopLocksOnCleanBPSK(t *testing.T) {
	carrierFreq := 1000.0
	sampleRate := 48000.0
	sps := 1536

	bits := make([]bool, 32)
	bits = append(bits, true, true, false, true, false, false, true, true)
	signal := generateBPSK(carrierFreq, sampleRate, sps, bits)

	costas := NewCostasLoop(carrierFreq, sampleRate, 2.0)

	var symbolValues []float32
	for i, sample := range signal {
		baseband := costas.Process(sample)
		symIdx := i / sps
		within := i % sps
		if within == sps/2 && symIdx >= 20 {
			symbolValues = append(symbolValues, baseband)
		}
	}

	require.NotEmpty(t, symbolValues)
	signChanges := 0
	for i := 1; i < len(symbolValues); i++ {
		if (symbolValues[i-1] > 0) != (symbolValues[i] > 0) {
			signChanges++
		}
	}
	assert.Greater(t, signChanges, 0)
}

func generateBPSK(carrierFreq, sampleRate float64, samplesPerSymbol int, bits []bool) []float32 {
	var samples []float32
	phase := 0.0
	phaseInc := 2 * math.Pi * carrierFreq / sampleRate
	phaseOffset := 0.0

	for _, bit := range bits {
		if !bit {
			phaseOffset += math.Pi
		}
		for i := 0; i < samplesPerSymbol; i++ {
			samples = append(samples, float32(math.Cos(phase+phaseOffset)))
			phase += phaseInc
		}
	}
	return samples
}

func TestClockRecoveryProducesDecisionsNearSymbolRate(t *testing.T) {
	samplesPerSymbol := 1536.0
	recovery := NewClockRecovery(samplesPerSymbol)

	decisions := 0
	for i := 0; i < int(samplesPerSymbol)*50; i++ {
		v := float32(math.Sin(float64(i) * 0.01))
		if _, ok := recovery.Process(v); ok {
			decisions++
		}
	}

	expected := 50
	assert.InDelta(t, expected, decisions, 3)
}

func TestClockRecoveryOmegaStaysClamped(t *testing.T) {
	samplesPerSymbol := 1536.0
	recovery := NewClockRecovery(samplesPerSymbol)

	for i := 0; i < 50000; i++ {
		recovery.Process(1.0) // constant input, creates large timing errors
	}

	assert.GreaterOrEqual(t, recovery.omega, samplesPerSymbol*0.9)
	assert.LessOrEqual(t, recovery.omega, samplesPerSymbol*1.1)
}

func TestClockRecoveryReset(t *testing.T) {
	samplesPerSymbol := 1536.0
	recovery := NewClockRecovery(samplesPerSymbol)

	for i := 0; i < 5000; i++ {
		recovery.Process(0.5)
	}

	recovery.Reset()

	assert.Equal(t, samplesPerSymbol, recovery.omega)
	assert.Equal(t, float32(0), recovery.lastSymbol)
	assert.Equal(t, samplesPerSymbol, recovery.counter)
}
