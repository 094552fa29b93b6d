package continuum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral/internal/polyfit"
	"github.com/cwbudde/algo-spectral/spectral/axis"
	"github.com/cwbudde/algo-spectral/spectral/series"
)

// Errors returned by the correction routines.
var (
	ErrLengthMismatch = errors.New("continuum: wavelength and reflectance differ in length")
	ErrEmptyWindow    = errors.New("continuum: search window contains no samples")
	ErrNodeOrder      = errors.New("continuum: nodes must resolve to nondecreasing positions")
)

// Result holds a corrected spectrum and the continuum divided out of it.
// Both slices cover the same positions of the source spectrum.
type Result struct {
	Corrected []float64
	Continuum []float64

	// Converged is false only when the Horgan correction hit its iteration
	// cap; the last computed fit is still returned.
	Converged bool
}

// IsSentinel reports whether the result is the "no correction possible"
// sentinel returned when fewer than two correction nodes were available.
func (r Result) IsSentinel() bool {
	return len(r.Corrected) == 1 && len(r.Continuum) == 1 &&
		r.Corrected[0] == 0 && r.Continuum[0] == 0
}

func sentinel() Result {
	return Result{Corrected: []float64{0}, Continuum: []float64{0}, Converged: true}
}

// Linear performs segment-wise linear continuum correction on a spectrum.
//
// Each consecutive node pair (w1, w2) is resolved to positions by pure
// nearest match (no tolerance gate), a line is fitted through the measured
// values at those positions, and the raw measurements between them are
// divided by the line. Segments partition the resolved range left to right
// with no overlap and no gap; the final segment includes its stop position
// so the last node's measurement is corrected too.
//
// When nodes is nil the correction spans the whole spectrum (first and last
// wavelength). Fewer than two nodes yield the zero sentinel rather than an
// error; a zero-width wavelength pair zero-fills its segment.
func Linear(s *series.Spectrum, nodes []float64) (Result, error) {
	wavelengths := s.RawWavelengths()
	values := s.RawValues()

	if wavelengths.Len() == 0 {
		return Result{}, axis.ErrEmptyAxis
	}

	if nodes == nil {
		nodes = []float64{wavelengths.First(), wavelengths.Last()}
	}

	if len(nodes) < 2 {
		return sentinel(), nil
	}

	positions, err := axis.NearestMany(wavelengths, nodes)
	if err != nil {
		return Result{}, err
	}

	for i := 1; i < len(positions); i++ {
		if positions[i] < positions[i-1] {
			return Result{}, fmt.Errorf("%w: node %v at position %d after node %v at position %d",
				ErrNodeOrder, nodes[i], positions[i], nodes[i-1], positions[i-1])
		}
	}

	first := positions[0]
	last := positions[len(positions)-1]

	corrected := make([]float64, last-first+1)
	continuum := make([]float64, last-first+1)

	for i := 0; i+1 < len(positions); i++ {
		w1, w2 := nodes[i], nodes[i+1]
		p1, p2 := positions[i], positions[i+1]

		stop := p2
		if i+2 == len(positions) {
			stop = p2 + 1 // final segment keeps its stop position
		}

		line, err := polyfit.LineThrough(w1, values[p1], w2, values[p2])
		if errors.Is(err, polyfit.ErrDegenerateFit) {
			// Zero-width segment: zero-fill instead of propagating the
			// division by zero in the slope.
			for p := p1; p < stop; p++ {
				corrected[p-first] = 0
				continuum[p-first] = 0
			}
			continue
		}
		if err != nil {
			return Result{}, err
		}

		for p := p1; p < stop; p++ {
			y := line.At(wavelengths[p])
			continuum[p-first] = y
			corrected[p-first] = values[p] / y
		}
	}

	return Result{Corrected: corrected, Continuum: continuum, Converged: true}, nil
}

// LinearSpectrum applies Linear with whole-spectrum default nodes and wraps
// the corrected values in a fresh Spectrum carrying the source's axis,
// tolerance and metadata. The sentinel case is surfaced as an error since it
// cannot fill a spectrum-shaped container.
func LinearSpectrum(s *series.Spectrum, nodes []float64) (*series.Spectrum, error) {
	res, err := Linear(s, nodes)
	if err != nil {
		return nil, err
	}

	if res.IsSentinel() || len(res.Corrected) != s.Len() {
		return nil, fmt.Errorf("continuum: correction covers %d of %d positions",
			len(res.Corrected), s.Len())
	}

	return s.Derive(res.Corrected)
}

// Regression performs whole-range linear-regression continuum correction:
// an ordinary least-squares line through (wavelength, reflectance) is
// divided out of the reflectance. No segmenting and no node list.
func Regression(wavelength, reflectance []float64) (Result, error) {
	if len(wavelength) != len(reflectance) {
		return Result{}, fmt.Errorf("%w: %d wavelengths, %d reflectances",
			ErrLengthMismatch, len(wavelength), len(reflectance))
	}

	line, err := polyfit.FitLine(wavelength, reflectance)
	if err != nil {
		return Result{}, fmt.Errorf("continuum: regression fit: %w", err)
	}

	continuum := line.Eval(wavelength)

	corrected := make([]float64, len(reflectance))
	for i := range reflectance {
		corrected[i] = reflectance[i] / continuum[i]
	}

	return Result{Corrected: corrected, Continuum: continuum, Converged: true}, nil
}
