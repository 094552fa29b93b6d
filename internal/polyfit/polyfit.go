// Package polyfit provides the small least-squares and interpolation fits
// shared by the continuum correction routines.
package polyfit

import (
	"errors"
	"fmt"
)

// ErrDegenerateFit is returned when the sample points do not determine a
// unique fit (coincident abscissae, zero variance, too few points).
var ErrDegenerateFit = errors.New("polyfit: degenerate fit")

// Line is a first-degree polynomial y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Eval evaluates the line at every x and returns a fresh slice.
func (l Line) Eval(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = l.Slope*x + l.Intercept
	}
	return out
}

// LineThrough returns the line passing through (x1, y1) and (x2, y2).
// Coincident abscissae yield ErrDegenerateFit.
func LineThrough(x1, y1, x2, y2 float64) (Line, error) {
	if x1 == x2 {
		return Line{}, ErrDegenerateFit
	}

	m := (y2 - y1) / (x2 - x1)

	return Line{Slope: m, Intercept: y1 - m*x1}, nil
}

// FitLine computes the ordinary least-squares line through the sample
// points (x[i], y[i]).
func FitLine(x, y []float64) (Line, error) {
	if len(x) != len(y) {
		return Line{}, fmt.Errorf("polyfit: length mismatch: %d vs %d", len(x), len(y))
	}

	if len(x) < 2 {
		return Line{}, ErrDegenerateFit
	}

	n := float64(len(x))

	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}

	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}

	if sxx == 0 {
		return Line{}, ErrDegenerateFit
	}

	m := sxy / sxx

	return Line{Slope: m, Intercept: meanY - m*meanX}, nil
}

// Quadratic is a second-degree polynomial y = A*x^2 + B*x + C.
type Quadratic struct {
	A float64
	B float64
	C float64
}

// At evaluates the polynomial at x.
func (q Quadratic) At(x float64) float64 {
	return (q.A*x+q.B)*x + q.C
}

// Eval evaluates the polynomial at every x and returns a fresh slice.
func (q Quadratic) Eval(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = (q.A*x+q.B)*x + q.C
	}
	return out
}

// QuadThrough returns the unique quadratic passing through the three points
// (x[i], y[i]). Any coincident abscissae yield ErrDegenerateFit.
func QuadThrough(x, y [3]float64) (Quadratic, error) {
	d01 := x[0] - x[1]
	d02 := x[0] - x[2]
	d12 := x[1] - x[2]

	if d01 == 0 || d02 == 0 || d12 == 0 {
		return Quadratic{}, ErrDegenerateFit
	}

	// Lagrange basis expanded to monomial coefficients.
	l0 := y[0] / (d01 * d02)
	l1 := -y[1] / (d01 * d12)
	l2 := y[2] / (d02 * d12)

	a := l0 + l1 + l2
	b := -(l0*(x[1]+x[2]) + l1*(x[0]+x[2]) + l2*(x[0]+x[1]))
	c := l0*x[1]*x[2] + l1*x[0]*x[2] + l2*x[0]*x[1]

	return Quadratic{A: a, B: b, C: c}, nil
}
