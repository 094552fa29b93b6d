// Package cube provides the SpectralVolume container: a three-dimensional
// array in which exactly one designated axis carries wavelength labels. Only
// that axis is label-resolved; the remaining axes keep ordinary positional
// semantics. Derived sub-cubes and planes are deep copies.
package cube

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral/spectral/axis"
)

// Errors returned by cube construction and indexing.
var (
	ErrDimMismatch   = errors.New("cube: buffer length does not match dimensions")
	ErrAxisMismatch  = errors.New("cube: wavelength axis length does not match its dimension")
	ErrAxisRange     = errors.New("cube: position out of range")
	ErrWavelengthSel = errors.New("cube: wavelength selector used on a positional axis")
)

// Cube stores a 3-D volume in a flat row-major buffer. The axis indexed by
// waxis carries the wavelength labels (first axis by default).
type Cube struct {
	data        []float64
	dims        [3]int
	waxis       int
	wavelengths axis.Axis
	tolerance   float64
}

// New constructs a Cube with the wavelength axis on the first dimension and
// the default lookup tolerance.
func New(data []float64, dims [3]int, wavelengths []float64) (*Cube, error) {
	return NewWithAxis(data, dims, wavelengths, 0, axis.DefaultTolerance)
}

// NewWithAxis constructs a Cube with an explicitly designated wavelength
// axis and lookup tolerance. The buffer is copied.
func NewWithAxis(data []float64, dims [3]int, wavelengths []float64, waxis int, tolerance float64) (*Cube, error) {
	if waxis < 0 || waxis > 2 {
		return nil, fmt.Errorf("cube: wavelength axis %d out of range [0, 3)", waxis)
	}

	total := dims[0] * dims[1] * dims[2]
	if dims[0] < 0 || dims[1] < 0 || dims[2] < 0 || len(data) != total {
		return nil, fmt.Errorf("%w: %d values for %v", ErrDimMismatch, len(data), dims)
	}

	if len(wavelengths) != dims[waxis] {
		return nil, fmt.Errorf("%w: %d labels for dimension %d",
			ErrAxisMismatch, len(wavelengths), dims[waxis])
	}

	buf := make([]float64, len(data))
	copy(buf, data)

	return &Cube{
		data:        buf,
		dims:        dims,
		waxis:       waxis,
		wavelengths: axis.New(wavelengths),
		tolerance:   tolerance,
	}, nil
}

// Dims returns the cube dimensions.
func (c *Cube) Dims() [3]int { return c.dims }

// WavelengthAxis returns the index of the designated wavelength axis.
func (c *Cube) WavelengthAxis() int { return c.waxis }

// Wavelengths returns a copy of the wavelength axis.
func (c *Cube) Wavelengths() axis.Axis { return axis.New(c.wavelengths) }

// Tolerance returns the lookup tolerance.
func (c *Cube) Tolerance() float64 { return c.tolerance }

// SetTolerance updates the lookup tolerance.
func (c *Cube) SetTolerance(tolerance float64) { c.tolerance = tolerance }

// At returns the value at positional coordinates (i, j, k).
func (c *Cube) At(i, j, k int) (float64, error) {
	if i < 0 || i >= c.dims[0] || j < 0 || j >= c.dims[1] || k < 0 || k >= c.dims[2] {
		return 0, fmt.Errorf("%w: (%d, %d, %d) in %v", ErrAxisRange, i, j, k, c.dims)
	}
	return c.data[(i*c.dims[1]+j)*c.dims[2]+k], nil
}

// Sel selects positions along one cube axis. Exactly one selector is given
// per axis when slicing; only the wavelength axis accepts Wavelength
// selectors.
type Sel struct {
	kind       selKind
	pos        int
	lo, hi     int
	list       []int
	wavelength float64
}

type selKind int

const (
	selAll selKind = iota
	selPos
	selSpan
	selList
	selWavelength
)

// All selects every position along an axis.
func All() Sel { return Sel{kind: selAll} }

// Pos selects a single position.
func Pos(i int) Sel { return Sel{kind: selPos, pos: i} }

// Span selects the half-open positional range [lo, hi).
func Span(lo, hi int) Sel { return Sel{kind: selSpan, lo: lo, hi: hi} }

// List selects an explicit sequence of positions, in order.
func List(positions ...int) Sel {
	list := make([]int, len(positions))
	copy(list, positions)
	return Sel{kind: selList, list: list}
}

// Wavelength selects the single position whose axis label is nearest the
// requested wavelength, gated by the cube tolerance. Valid only on the
// designated wavelength axis.
func Wavelength(w float64) Sel { return Sel{kind: selWavelength, wavelength: w} }

func (c *Cube) expand(s Sel, dim int) ([]int, error) {
	size := c.dims[dim]

	switch s.kind {
	case selAll:
		out := make([]int, size)
		for i := range out {
			out[i] = i
		}
		return out, nil

	case selPos:
		if s.pos < 0 || s.pos >= size {
			return nil, fmt.Errorf("%w: %d on axis %d (size %d)", ErrAxisRange, s.pos, dim, size)
		}
		return []int{s.pos}, nil

	case selSpan:
		if s.lo < 0 || s.hi > size || s.lo > s.hi {
			return nil, fmt.Errorf("%w: [%d, %d) on axis %d (size %d)", ErrAxisRange, s.lo, s.hi, dim, size)
		}
		out := make([]int, s.hi-s.lo)
		for i := range out {
			out[i] = s.lo + i
		}
		return out, nil

	case selList:
		out := make([]int, len(s.list))
		for i, p := range s.list {
			if p < 0 || p >= size {
				return nil, fmt.Errorf("%w: %d on axis %d (size %d)", ErrAxisRange, p, dim, size)
			}
			out[i] = p
		}
		return out, nil

	case selWavelength:
		if dim != c.waxis {
			return nil, fmt.Errorf("%w: axis %d (wavelength axis is %d)", ErrWavelengthSel, dim, c.waxis)
		}
		p, err := axis.Resolve(c.wavelengths, s.wavelength, c.tolerance)
		if err != nil {
			return nil, err
		}
		return []int{p}, nil

	default:
		return nil, fmt.Errorf("cube: unknown selector kind %d", s.kind)
	}
}

// Slice returns a fresh cube holding the cross product of the three
// selections. Only the wavelength-axis selector may be label-resolved; the
// others pass through as positional indexing. When the wavelength axis is
// narrowed, the returned cube carries the matching wavelength sub-sequence;
// a single selected position keeps a length-1 axis.
func (c *Cube) Slice(s0, s1, s2 Sel) (*Cube, error) {
	sels := [3]Sel{s0, s1, s2}

	var positions [3][]int
	for d := range sels {
		p, err := c.expand(sels[d], d)
		if err != nil {
			return nil, err
		}
		positions[d] = p
	}

	dims := [3]int{len(positions[0]), len(positions[1]), len(positions[2])}
	data := make([]float64, dims[0]*dims[1]*dims[2])

	n := 0
	for _, i := range positions[0] {
		for _, j := range positions[1] {
			for _, k := range positions[2] {
				data[n] = c.data[(i*c.dims[1]+j)*c.dims[2]+k]
				n++
			}
		}
	}

	sub, err := c.wavelengths.Select(positions[c.waxis])
	if err != nil {
		return nil, err
	}

	return &Cube{
		data:        data,
		dims:        dims,
		waxis:       c.waxis,
		wavelengths: sub,
		tolerance:   c.tolerance,
	}, nil
}

// Plane resolves the wavelength against the designated axis (tolerance-
// gated) and returns the full plane orthogonal to it, indexed by the two
// remaining axes in their original order.
func (c *Cube) Plane(wavelength float64) ([][]float64, error) {
	p, err := axis.Resolve(c.wavelengths, wavelength, c.tolerance)
	if err != nil {
		return nil, err
	}
	return c.PlaneAt(p)
}

// PlaneAt returns the plane at a wavelength-axis position, bypassing
// resolution entirely.
func (c *Cube) PlaneAt(position int) ([][]float64, error) {
	if position < 0 || position >= c.dims[c.waxis] {
		return nil, fmt.Errorf("%w: %d on wavelength axis (size %d)",
			ErrAxisRange, position, c.dims[c.waxis])
	}

	// Remaining axes in original order.
	var d0, d1 int
	switch c.waxis {
	case 0:
		d0, d1 = 1, 2
	case 1:
		d0, d1 = 0, 2
	default:
		d0, d1 = 0, 1
	}

	out := make([][]float64, c.dims[d0])
	for a := range out {
		out[a] = make([]float64, c.dims[d1])
		for b := range out[a] {
			var i, j, k int
			switch c.waxis {
			case 0:
				i, j, k = position, a, b
			case 1:
				i, j, k = a, position, b
			default:
				i, j, k = a, b, position
			}
			out[a][b] = c.data[(i*c.dims[1]+j)*c.dims[2]+k]
		}
	}

	return out, nil
}

// SelectBands narrows the cube to the bands nearest each target wavelength,
// in target order, using ungated nearest-match resolution. This is the band
// subsetting primitive used to feed per-band reductions.
func (c *Cube) SelectBands(targets []float64) (*Cube, error) {
	positions, err := axis.NearestMany(c.wavelengths, targets)
	if err != nil {
		return nil, err
	}

	sels := [3]Sel{All(), All(), All()}
	sels[c.waxis] = List(positions...)

	return c.Slice(sels[0], sels[1], sels[2])
}
