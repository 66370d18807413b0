package modem

import (
	"math"

	"github.com/nerdenator/psk31-client-workspace/dsp"
	"github.com/nerdenator/psk31-client-workspace/varicode"
)

// phaseAmbiguityThreshold is the number of consecutive bits without a
// decoded character before the decoder tries inverting its bit sense. BPSK
// carrier recovery can lock 180 degrees out of phase; differential decoding
// alone only resolves phase changes, not which absolute phase means "1".
const phaseAmbiguityThreshold = 100

// symbolSquelch is the minimum symbol magnitude treated as real data.
// Below this, the Costas loop hasn't locked yet and bit decisions would be
// noise.
const symbolSquelch = 0.001

// Decoder converts BPSK-31 audio samples back into decoded characters.
//
// Pipeline per sample: AGC -> Costas loop (carrier tracking + downmix) ->
// clock recovery (symbol decisions) -> differential bit detection ->
// Varicode decode.
//
// The first character of a transmission is typically lost while the Costas
// loop and clock recovery are still acquiring lock; this is normal PSK-31
// behavior, which is why real QSOs open with repeated callsigns.
type Decoder struct {
	agc            *dsp.AGC
	costas         *dsp.CostasLoop
	clockRecovery  *dsp.ClockRecovery
	varicodeDecode *varicode.Decoder

	lastSymbol      float32
	bitsWithoutChar int
	invertBits      bool

	sampleRate  int
	carrierFreq float64
}

// NewDecoder creates a decoder tuned to carrierFreq (typically 500-2500Hz,
// set by a waterfall click) at the given sample rate.
func NewDecoder(carrierFreq float64, sampleRate int) *Decoder {
	spsym := float64(sampleRate) / 31.25

	return &Decoder{
		agc:            dsp.NewAGC(0.5),
		costas:         dsp.NewCostasLoop(carrierFreq, float64(sampleRate), 2.0),
		clockRecovery:  dsp.NewClockRecovery(spsym),
		varicodeDecode: varicode.NewDecoder(),
		sampleRate:     sampleRate,
		carrierFreq:    carrierFreq,
	}
}

// Process feeds one audio sample through the full decode chain. It returns
// a decoded character and true exactly when one completes.
func (d *Decoder) Process(sample float32) (rune, bool) {
	normalized := d.agc.Process(sample)
	baseband := d.costas.Process(normalized)

	symbol, ok := d.clockRecovery.Process(baseband)
	if !ok {
		return 0, false
	}

	if absF32(symbol) < symbolSquelch && absF32(d.lastSymbol) < symbolSquelch {
		d.lastSymbol = symbol
		return 0, false
	}

	sameSign := (symbol > 0) == (d.lastSymbol > 0)
	d.lastSymbol = symbol

	bit := sameSign
	if d.invertBits {
		bit = !bit
	}

	d.bitsWithoutChar++

	if ch, ok := d.varicodeDecode.PushBit(bit); ok {
		d.bitsWithoutChar = 0
		return ch, true
	}

	if d.bitsWithoutChar > phaseAmbiguityThreshold {
		d.invertBits = !d.invertBits
		d.bitsWithoutChar = 0
		d.varicodeDecode.Reset()
	}

	return 0, false
}

// SetCarrierFreq retunes the decoder, e.g. from a waterfall click.
// Carrier tracking and bit-layer state are reset, but AGC gain is preserved
// to avoid an unnecessary settle time after retuning.
func (d *Decoder) SetCarrierFreq(freq float64) {
	d.carrierFreq = freq
	d.costas.SetFrequency(freq)
	d.costas.Reset()
	d.clockRecovery = dsp.NewClockRecovery(float64(d.sampleRate) / 31.25)
	d.varicodeDecode.Reset()
	d.lastSymbol = 0
	d.bitsWithoutChar = 0
	d.invertBits = false
}

// CarrierFreq returns the currently tuned carrier frequency in Hz.
func (d *Decoder) CarrierFreq() float64 {
	return d.carrierFreq
}

// SignalStrength returns a 0.0-1.0 value derived from AGC gain. AGC gain is
// inversely proportional to signal level: low gain means a strong signal.
// Gain range [0.01, 100.0] maps via inverse log10 to [1.0, 0.0]: gain=0.01
// -> 1.0 (strong), gain=1.0 -> 0.5, gain=100.0 -> 0.0 (absent).
func (d *Decoder) SignalStrength() float32 {
	gain := clamp32(d.agc.CurrentGain(), 0.01, 100.0)
	strength := 1.0 - (float32(math.Log10(float64(gain)))+2.0)/4.0
	return clamp32(strength, 0.0, 1.0)
}

// Reset clears all decoder state.
func (d *Decoder) Reset() {
	d.agc.Reset()
	d.costas.Reset()
	d.clockRecovery.Reset()
	d.varicodeDecode.Reset()
	d.lastSymbol = 0
	d.bitsWithoutChar = 0
	d.invertBits = false
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
