// Package series provides the one-dimensional Spectrum container: a
// measurement buffer paired 1:1 with a wavelength axis, read through
// tolerance-gated wavelength lookups. Derived sub-spectra are always deep
// copies; a Spectrum never aliases the container it was sliced from.
package series

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral/spectral/axis"
)

// ErrLengthMismatch is returned when values and wavelengths disagree in length.
var ErrLengthMismatch = errors.New("series: values and wavelengths differ in length")

// Spectrum pairs measurements with a wavelength axis. The pairing is fixed
// at construction; only the tolerance and metadata may be updated afterwards,
// and only through explicit setters.
type Spectrum struct {
	values      []float64
	wavelengths axis.Axis
	tolerance   float64
	meta        map[string]string
}

// New constructs a Spectrum from copies of values and wavelengths, using the
// default lookup tolerance.
func New(values, wavelengths []float64) (*Spectrum, error) {
	return NewWithTolerance(values, wavelengths, axis.DefaultTolerance)
}

// NewWithTolerance constructs a Spectrum with an explicit lookup tolerance.
func NewWithTolerance(values, wavelengths []float64, tolerance float64) (*Spectrum, error) {
	if len(values) != len(wavelengths) {
		return nil, fmt.Errorf("%w: %d values, %d wavelengths",
			ErrLengthMismatch, len(values), len(wavelengths))
	}

	v := make([]float64, len(values))
	copy(v, values)

	return &Spectrum{
		values:      v,
		wavelengths: axis.New(wavelengths),
		tolerance:   tolerance,
		meta:        map[string]string{},
	}, nil
}

// Len returns the number of measurements.
func (s *Spectrum) Len() int { return len(s.values) }

// Wavelengths returns a copy of the wavelength axis.
func (s *Spectrum) Wavelengths() axis.Axis {
	return axis.New(s.wavelengths)
}

// Values returns a copy of the measurement buffer.
func (s *Spectrum) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// RawValues returns the underlying measurement buffer without copying.
// The returned slice is a borrowed view: mutating it mutates the Spectrum.
// Intended for bulk numeric routines that only read.
func (s *Spectrum) RawValues() []float64 { return s.values }

// RawWavelengths returns the underlying axis without copying. Borrowed view,
// same caveat as RawValues.
func (s *Spectrum) RawWavelengths() axis.Axis { return s.wavelengths }

// Tolerance returns the lookup tolerance.
func (s *Spectrum) Tolerance() float64 { return s.tolerance }

// SetTolerance updates the lookup tolerance.
func (s *Spectrum) SetTolerance(tolerance float64) { s.tolerance = tolerance }

// SetMeta records a metadata entry. Metadata is unrelated to the spectral
// axis and is carried verbatim through Derive and slicing.
func (s *Spectrum) SetMeta(key, value string) { s.meta[key] = value }

// Meta returns the metadata value for key and whether it was present.
func (s *Spectrum) Meta(key string) (string, bool) {
	v, ok := s.meta[key]
	return v, ok
}

// At returns the measurement nearest to the requested wavelength, failing
// when the nearest axis entry lies outside the tolerance.
func (s *Spectrum) At(wavelength float64) (float64, error) {
	p, err := axis.Resolve(s.wavelengths, wavelength, s.tolerance)
	if err != nil {
		return 0, err
	}
	return s.values[p], nil
}

// AtPosition returns the measurement at a position, bypassing wavelength
// resolution entirely.
func (s *Spectrum) AtPosition(i int) (float64, error) {
	if i < 0 || i >= len(s.values) {
		return 0, fmt.Errorf("series: position %d out of range [0, %d)", i, len(s.values))
	}
	return s.values[i], nil
}

// Slice returns a fresh Spectrum for positions [start, stop) with the
// wavelength axis narrowed to match.
func (s *Spectrum) Slice(start, stop int) (*Spectrum, error) {
	sub, err := s.wavelengths.Span(start, stop)
	if err != nil {
		return nil, err
	}

	out := &Spectrum{
		values:      make([]float64, stop-start),
		wavelengths: sub,
		tolerance:   s.tolerance,
		meta:        copyMeta(s.meta),
	}
	copy(out.values, s.values[start:stop])

	return out, nil
}

// SelectWavelengths resolves each target wavelength (tolerance-gated) and
// returns a fresh Spectrum holding the selected measurements in target
// order. A single target yields a length-1 axis rather than dropping axis
// metadata.
func (s *Spectrum) SelectWavelengths(targets []float64) (*Spectrum, error) {
	positions, err := axis.ResolveMany(s.wavelengths, targets, s.tolerance)
	if err != nil {
		return nil, err
	}

	sub, err := s.wavelengths.Select(positions)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(positions))
	for i, p := range positions {
		values[i] = s.values[p]
	}

	return &Spectrum{
		values:      values,
		wavelengths: sub,
		tolerance:   s.tolerance,
		meta:        copyMeta(s.meta),
	}, nil
}

// Derive returns a fresh Spectrum carrying this spectrum's axis, tolerance
// and metadata over a new measurement buffer. The buffer is copied and must
// match the axis length.
func (s *Spectrum) Derive(values []float64) (*Spectrum, error) {
	if len(values) != len(s.wavelengths) {
		return nil, fmt.Errorf("%w: %d values, %d wavelengths",
			ErrLengthMismatch, len(values), len(s.wavelengths))
	}

	v := make([]float64, len(values))
	copy(v, values)

	return &Spectrum{
		values:      v,
		wavelengths: axis.New(s.wavelengths),
		tolerance:   s.tolerance,
		meta:        copyMeta(s.meta),
	}, nil
}

func copyMeta(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
