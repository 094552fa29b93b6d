package axis

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by axis resolution.
var (
	ErrEmptyAxis      = errors.New("axis: empty wavelength axis")
	ErrNaNTarget      = errors.New("axis: target wavelength is NaN")
	ErrOutOfTolerance = errors.New("axis: nearest wavelength outside tolerance")
)

// DefaultTolerance is the maximum allowed distance between a requested
// wavelength and its nearest axis entry when the caller does not supply one.
const DefaultTolerance = 0.5

// Axis is an ordered sequence of wavelengths annotating one container axis.
// Entries are not required to be sorted or unique; the position of each
// entry is what binds it to the data.
type Axis []float64

// New returns an Axis backed by a copy of wavelengths.
func New(wavelengths []float64) Axis {
	a := make(Axis, len(wavelengths))
	copy(a, wavelengths)
	return a
}

// Len returns the number of axis entries.
func (a Axis) Len() int { return len(a) }

// First returns the first axis entry. Only valid on a non-empty axis.
func (a Axis) First() float64 { return a[0] }

// Last returns the last axis entry. Only valid on a non-empty axis.
func (a Axis) Last() float64 { return a[len(a)-1] }

// Select returns a fresh axis holding the entries at the given positions,
// in the given order.
func (a Axis) Select(positions []int) (Axis, error) {
	out := make(Axis, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(a) {
			return nil, fmt.Errorf("axis: position %d out of range [0, %d)", p, len(a))
		}
		out[i] = a[p]
	}
	return out, nil
}

// Single returns a length-1 axis holding the entry at position i. Slicing a
// container down to one wavelength keeps axis metadata through this form
// rather than dropping it.
func (a Axis) Single(i int) (Axis, error) {
	if i < 0 || i >= len(a) {
		return nil, fmt.Errorf("axis: position %d out of range [0, %d)", i, len(a))
	}
	return Axis{a[i]}, nil
}

// Span returns a fresh axis for positions [start, stop).
func (a Axis) Span(start, stop int) (Axis, error) {
	if start < 0 || stop > len(a) || start > stop {
		return nil, fmt.Errorf("axis: span [%d, %d) out of range [0, %d)", start, stop, len(a))
	}
	out := make(Axis, stop-start)
	copy(out, a[start:stop])
	return out, nil
}

// Monotonic reports whether the axis is strictly increasing.
func (a Axis) Monotonic() bool {
	for i := 1; i < len(a); i++ {
		if a[i] <= a[i-1] {
			return false
		}
	}
	return true
}

// Nearest returns the position minimizing |a[i] - target|. Ties resolve to
// the lowest position, so repeated calls with identical inputs always return
// the identical position.
func Nearest(a Axis, target float64) (int, error) {
	if len(a) == 0 {
		return 0, ErrEmptyAxis
	}

	if math.IsNaN(target) {
		return 0, ErrNaNTarget
	}

	best := 0
	bestDist := math.Abs(a[0] - target)

	for i := 1; i < len(a); i++ {
		d := math.Abs(a[i] - target)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best, nil
}

// NearestMany applies Nearest independently to each target, preserving input
// order. No deduplication is performed.
func NearestMany(a Axis, targets []float64) ([]int, error) {
	positions := make([]int, len(targets))

	for i, target := range targets {
		p, err := Nearest(a, target)
		if err != nil {
			return nil, fmt.Errorf("target %d (%v): %w", i, target, err)
		}
		positions[i] = p
	}

	return positions, nil
}

// Resolve returns the nearest position for target, failing with
// ErrOutOfTolerance when the nearest entry lies further than tolerance away.
// A negative or NaN tolerance is replaced by DefaultTolerance.
func Resolve(a Axis, target, tolerance float64) (int, error) {
	if tolerance < 0 || math.IsNaN(tolerance) {
		tolerance = DefaultTolerance
	}

	p, err := Nearest(a, target)
	if err != nil {
		return 0, err
	}

	if math.Abs(a[p]-target) > tolerance {
		return 0, fmt.Errorf("%w: target %v, nearest %v at position %d, tolerance %v",
			ErrOutOfTolerance, target, a[p], p, tolerance)
	}

	return p, nil
}

// ResolveMany applies Resolve independently to each target, preserving input
// order.
func ResolveMany(a Axis, targets []float64, tolerance float64) ([]int, error) {
	positions := make([]int, len(targets))

	for i, target := range targets {
		p, err := Resolve(a, target, tolerance)
		if err != nil {
			return nil, err
		}
		positions[i] = p
	}

	return positions, nil
}
