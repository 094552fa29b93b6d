package continuum

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-spectral/internal/polyfit"
)

// horganMaxIterations caps the control-point refinement loop.
const horganMaxIterations = 10

// horganConvergenceEps bounds the pointwise continuum change below which a
// refinement pass counts as converged even if control positions still jitter.
const horganConvergenceEps = 1e-12

// Horgan performs polynomial continuum correction: the reflectance maxima
// inside windows around the three reference wavelengths a, b and c (the
// shoulder points of an absorption feature) become control points for a
// degree-2 polynomial, which is evaluated across the full wavelength range
// and divided out.
//
// Control points are refined iteratively: after each fit the maxima are
// re-located on the continuum-divided reflectance, and the polynomial is
// refitted through the raw reflectance at the new positions. The loop stops
// when the control positions stabilize. Hitting the iteration cap logs a
// warning and returns the last fit with Converged set to false.
func Horgan(reflectance, wavelength []float64, a, b, c, window float64) (Result, error) {
	if len(reflectance) != len(wavelength) {
		return Result{}, fmt.Errorf("%w: %d wavelengths, %d reflectances",
			ErrLengthMismatch, len(wavelength), len(reflectance))
	}

	refs := [3]float64{a, b, c}

	var control [3]int
	for i, ref := range refs {
		p, err := maxInWindow(reflectance, wavelength, ref, window)
		if err != nil {
			return Result{}, err
		}
		control[i] = p
	}

	var (
		corrected = make([]float64, len(reflectance))
		continuum []float64
		previous  []float64
	)

	for iter := 0; iter < horganMaxIterations; iter++ {
		var x, y [3]float64
		for i, p := range control {
			x[i] = wavelength[p]
			y[i] = reflectance[p]
		}

		fit, err := polyfit.QuadThrough(x, y)
		if err != nil {
			return Result{}, fmt.Errorf("continuum: horgan control points: %w", err)
		}

		previous = continuum
		continuum = fit.Eval(wavelength)
		for i := range reflectance {
			corrected[i] = reflectance[i] / continuum[i]
		}

		if previous != nil && maxAbsDiff(continuum, previous) <= horganConvergenceEps {
			return Result{Corrected: corrected, Continuum: continuum, Converged: true}, nil
		}

		// Re-locate the shoulder maxima on the corrected spectrum; stable
		// positions mean the fit has converged.
		next := control
		for i, ref := range refs {
			p, err := maxInWindow(corrected, wavelength, ref, window)
			if err != nil {
				return Result{}, err
			}
			next[i] = p
		}

		if next == control {
			return Result{Corrected: corrected, Continuum: continuum, Converged: true}, nil
		}
		control = next
	}

	log.Warnf("continuum: horgan correction did not converge after %d iterations", horganMaxIterations)

	return Result{Corrected: corrected, Continuum: continuum, Converged: false}, nil
}

func maxAbsDiff(a, b []float64) float64 {
	maxDiff := 0.0
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}

// maxInWindow returns the position of the maximum value among samples whose
// wavelength lies strictly inside (center-window, center+window). Ties
// resolve to the lowest position.
func maxInWindow(values, wavelength []float64, center, window float64) (int, error) {
	best := -1

	for i, w := range wavelength {
		if w <= center-window || w >= center+window {
			continue
		}
		if best < 0 || values[i] > values[best] {
			best = i
		}
	}

	if best < 0 {
		return 0, fmt.Errorf("%w: (%v, %v)", ErrEmptyWindow, center-window, center+window)
	}

	return best, nil
}
