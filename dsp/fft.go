package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT computes a windowed magnitude spectrum in dB for the waterfall
// display. The forward transform itself is gonum's real FFT plan, built
// once in NewFFT and reused by every Compute call, so repeated calls on
// identical input produce bit-identical output (spec.md §4.8).
type FFT struct {
	size   int
	window []float32
	plan   *fourier.FFT
	seq    []float64
}

// NewFFT creates an FFT processor for the given power-of-two size.
func NewFFT(size int) *FFT {
	window := make([]float32, size)
	for i := range window {
		x := math.Pi * float64(i) / float64(size)
		window[i] = float32(0.5 * (1.0 - math.Cos(2*x)))
	}

	return &FFT{
		size:   size,
		window: window,
		plan:   fourier.NewFFT(size),
		seq:    make([]float64, size),
	}
}

// Size returns the configured FFT size.
func (f *FFT) Size() int { return f.size }

// Compute windows up to Size() samples (zero-padding if shorter), runs the
// forward FFT, and returns the first Size()/2 magnitudes in decibels.
func (f *FFT) Compute(samples []float32) []float32 {
	n := f.size
	for i := 0; i < n; i++ {
		if i < len(samples) {
			f.seq[i] = float64(samples[i]) * float64(f.window[i])
		} else {
			f.seq[i] = 0
		}
	}

	coefficients := f.plan.Coefficients(nil, f.seq)

	half := n / 2
	magnitudes := make([]float32, half)
	for i := 0; i < half; i++ {
		c := coefficients[i]
		magSquared := real(c)*real(c) + imag(c)*imag(c)
		magnitudes[i] = float32(10.0 * math.Log10(math.Max(magSquared, 1e-10)))
	}

	return magnitudes
}
