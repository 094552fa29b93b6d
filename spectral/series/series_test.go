package series

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-spectral/internal/testutil"
	"github.com/cwbudde/algo-spectral/spectral/axis"
)

func mustSpectrum(t *testing.T, values, wavelengths []float64) *Spectrum {
	t.Helper()
	s, err := New(values, wavelengths)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewLengthMismatch(t *testing.T) {
	_, err := New([]float64{1, 2}, []float64{400})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("want ErrLengthMismatch, got %v", err)
	}
}

func TestAtTolerance(t *testing.T) {
	s, err := NewWithTolerance([]float64{10, 8, 6}, []float64{400, 450, 500}, 30)
	if err != nil {
		t.Fatalf("NewWithTolerance: %v", err)
	}

	v, err := s.At(470)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if v != 8 {
		t.Fatalf("got %v, want 8", v)
	}

	s.SetTolerance(10)
	if _, err := s.At(470); !errors.Is(err, axis.ErrOutOfTolerance) {
		t.Fatalf("want ErrOutOfTolerance, got %v", err)
	}
}

func TestAtPosition(t *testing.T) {
	s := mustSpectrum(t, []float64{10, 8, 6}, []float64{400, 450, 500})

	v, err := s.AtPosition(2)
	if err != nil {
		t.Fatalf("AtPosition: %v", err)
	}
	if v != 6 {
		t.Fatalf("got %v, want 6", v)
	}

	if _, err := s.AtPosition(3); err == nil {
		t.Fatal("want error for out-of-range position")
	}
}

func TestSliceNarrowsAxis(t *testing.T) {
	s := mustSpectrum(t, []float64{10, 8, 6, 9}, []float64{400, 450, 500, 550})
	s.SetMeta("instrument", "sp")

	sub, err := s.Slice(1, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, sub.Values(), []float64{8, 6}, 0)
	testutil.RequireSliceNearlyEqual(t, sub.Wavelengths(), []float64{450, 500}, 0)

	if v, ok := sub.Meta("instrument"); !ok || v != "sp" {
		t.Fatal("metadata must carry through Slice")
	}

	// Deep copy: mutating the slice must not touch the parent.
	sub.RawValues()[0] = -1
	if got, _ := s.AtPosition(1); got != 8 {
		t.Fatal("Slice must not alias parent values")
	}
}

func TestSelectWavelengthsRoundTrip(t *testing.T) {
	s, err := NewWithTolerance([]float64{10, 8, 6, 9, 10}, []float64{400, 450, 500, 550, 600}, 30)
	if err != nil {
		t.Fatalf("NewWithTolerance: %v", err)
	}

	orig, err := s.At(470)
	if err != nil {
		t.Fatalf("At: %v", err)
	}

	sub, err := s.SelectWavelengths([]float64{470, 540})
	if err != nil {
		t.Fatalf("SelectWavelengths: %v", err)
	}

	// Re-resolving against the narrowed axis returns the same measurement.
	again, err := sub.At(470)
	if err != nil {
		t.Fatalf("At on narrowed spectrum: %v", err)
	}
	if again != orig {
		t.Fatalf("round trip mismatch: got %v, want %v", again, orig)
	}
}

func TestSelectSingleKeepsAxis(t *testing.T) {
	s, err := NewWithTolerance([]float64{10, 8, 6}, []float64{400, 450, 500}, 30)
	if err != nil {
		t.Fatalf("NewWithTolerance: %v", err)
	}

	sub, err := s.SelectWavelengths([]float64{455})
	if err != nil {
		t.Fatalf("SelectWavelengths: %v", err)
	}
	if sub.Len() != 1 {
		t.Fatalf("got length %d, want 1", sub.Len())
	}

	testutil.RequireSliceNearlyEqual(t, sub.Wavelengths(), []float64{450}, 0)
}

func TestSelectWavelengthsFailureSurfaces(t *testing.T) {
	s := mustSpectrum(t, []float64{10, 8}, []float64{400, 450})

	_, err := s.SelectWavelengths([]float64{430})
	if !errors.Is(err, axis.ErrOutOfTolerance) {
		t.Fatalf("want ErrOutOfTolerance, got %v", err)
	}
}

func TestDerive(t *testing.T) {
	s := mustSpectrum(t, []float64{10, 8, 6}, []float64{400, 450, 500})
	s.SetTolerance(2)
	s.SetMeta("target", "mare")

	d, err := s.Derive([]float64{1, 0.8, 0.6})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, d.Wavelengths(), s.Wavelengths(), 0)
	if d.Tolerance() != 2 {
		t.Fatalf("tolerance not carried: got %v", d.Tolerance())
	}
	if v, ok := d.Meta("target"); !ok || v != "mare" {
		t.Fatal("metadata not carried through Derive")
	}

	if _, err := s.Derive([]float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("want ErrLengthMismatch, got %v", err)
	}
}

func TestValuesCopies(t *testing.T) {
	s := mustSpectrum(t, []float64{10, 8}, []float64{400, 450})

	v := s.Values()
	v[0] = -1
	if got, _ := s.AtPosition(0); got != 10 {
		t.Fatal("Values must return a copy")
	}

	w := s.Wavelengths()
	w[0] = -1
	if s.RawWavelengths()[0] != 400 {
		t.Fatal("Wavelengths must return a copy")
	}
}
