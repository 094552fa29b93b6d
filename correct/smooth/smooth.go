// Package smooth provides reflectance smoothing used to stabilize shoulder
// maxima before continuum fitting: a centered moving average and an FFT
// low-pass filter with a cosine roll-off.
package smooth

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the smoothing functions.
var (
	ErrEmptyInput    = errors.New("smooth: empty input")
	ErrInvalidWindow = errors.New("smooth: window must be positive")
	ErrInvalidCutoff = errors.New("smooth: cutoff must be in (0, 1]")
)

// MovingAverage returns a same-length centered boxcar smoothing of values.
// Near the edges the window shrinks to the available neighborhood. A window
// of 1 returns a plain copy.
func MovingAverage(values []float64, window int) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}

	if window <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}

	half := window / 2
	out := make([]float64, len(values))

	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(values) {
			hi = len(values) - 1
		}

		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}

	return out, nil
}

// rolloffWidth widens the cosine transition band relative to the cutoff.
const rolloffWidth = 0.25

// Lowpass attenuates frequency content above cutoff, expressed as a fraction
// of the Nyquist frequency in (0, 1]. Bins up to cutoff pass unchanged, a
// raised-cosine taper spans (cutoff, cutoff*(1+rolloffWidth)], everything
// above is removed. A cutoff of 1 passes the input through.
//
// Input shorter than the FFT size is padded by holding the final sample.
func Lowpass(values []float64, cutoff float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}

	if cutoff <= 0 || cutoff > 1 || math.IsNaN(cutoff) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCutoff, cutoff)
	}

	n := len(values)
	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i := range values {
		padded[i] = complex(values[i], 0)
	}
	for i := n; i < fftSize; i++ {
		padded[i] = complex(values[n-1], 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, err
	}

	// Unpack, apply the per-bin gain with the SIMD kernels, repack.
	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	for i, c := range freq {
		re[i] = real(c)
		im[i] = imag(c)
	}

	gain := lowpassGain(fftSize, cutoff)
	vecmath.MulBlockInPlace(re, gain)
	vecmath.MulBlockInPlace(im, gain)

	for i := range freq {
		freq[i] = complex(re[i], im[i])
	}

	timeOut := make([]complex128, fftSize)
	if err := plan.Inverse(timeOut, freq); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = real(timeOut[i])
	}

	return out, nil
}

// lowpassGain builds the symmetric per-bin gain for a size-n spectrum.
func lowpassGain(n int, cutoff float64) []float64 {
	gain := make([]float64, n)
	half := n / 2
	stop := cutoff * (1 + rolloffWidth)

	for k := 0; k <= half; k++ {
		f := float64(k) / float64(half)

		var g float64
		switch {
		case f <= cutoff:
			g = 1
		case f < stop:
			g = 0.5 * (1 + math.Cos(math.Pi*(f-cutoff)/(stop-cutoff)))
		default:
			g = 0
		}

		gain[k] = g
		if k > 0 && k < n-k {
			gain[n-k] = g
		}
	}

	return gain
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
