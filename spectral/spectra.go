// Package spectral constructs spectral containers from caller-tagged inputs.
// The input kind is an explicit tag chosen once at the boundary; there is no
// runtime type dispatch. Table inputs become a frame.Table, array inputs a
// cube.Cube, scalar inputs a length-1 series.Spectrum.
package spectral

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral/spectral/axis"
	"github.com/cwbudde/algo-spectral/spectral/cube"
	"github.com/cwbudde/algo-spectral/spectral/frame"
	"github.com/cwbudde/algo-spectral/spectral/series"
)

// Kind tags the payload variant carried by an Input.
type Kind int

// Input kinds.
const (
	KindTable Kind = iota + 1
	KindArray
	KindScalar
)

// ErrUnknownKind is returned for an Input whose tag names no variant.
var ErrUnknownKind = errors.New("spectral: unknown input kind")

// Input is a tagged union over the supported payloads. Exactly the fields
// belonging to Kind are consulted.
type Input struct {
	Kind Kind

	// KindTable
	Rows [][]float64

	// KindArray
	Array []float64
	Dims  [3]int

	// KindScalar
	Scalar float64
}

// Options carries the spectral annotations shared by all container kinds.
type Options struct {
	// Wavelengths labels the spectral axis. Required; a scalar input takes
	// exactly one label.
	Wavelengths []float64

	// Tolerance gates wavelength lookups. Negative values select
	// axis.DefaultTolerance; zero demands exact matches.
	Tolerance float64

	// WavelengthAxis designates the labeled axis of an array input
	// (default first axis). Ignored for other kinds.
	WavelengthAxis int
}

// Container is the read surface shared by all spectral containers.
type Container interface {
	Wavelengths() axis.Axis
	Tolerance() float64
}

// New constructs the container selected by the input tag.
func New(in Input, opts Options) (Container, error) {
	tolerance := opts.Tolerance
	if tolerance < 0 {
		tolerance = axis.DefaultTolerance
	}

	switch in.Kind {
	case KindTable:
		return frame.NewWithTolerance(in.Rows, opts.Wavelengths, tolerance)

	case KindArray:
		return cube.NewWithAxis(in.Array, in.Dims, opts.Wavelengths, opts.WavelengthAxis, tolerance)

	case KindScalar:
		if len(opts.Wavelengths) != 1 {
			return nil, fmt.Errorf("spectral: scalar input needs exactly 1 wavelength, got %d",
				len(opts.Wavelengths))
		}
		return series.NewWithTolerance([]float64{in.Scalar}, opts.Wavelengths, tolerance)

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, in.Kind)
	}
}
