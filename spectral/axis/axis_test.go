package axis

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/internal/testutil"
)

func TestNearestExact(t *testing.T) {
	a := New([]float64{400, 450, 500, 550, 600})

	p, err := Nearest(a, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 2 {
		t.Fatalf("got position %d, want 2", p)
	}
}

func TestNearestBetween(t *testing.T) {
	a := New([]float64{400, 450, 500, 550, 600})

	p, err := Nearest(a, 470)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 1 {
		t.Fatalf("got position %d, want 1 (450 is closest to 470)", p)
	}
}

func TestNearestArgmin(t *testing.T) {
	a := New([]float64{412.3, 517.9, 433.1, 601.4, 433.0})

	for _, target := range []float64{400, 433.04, 520, 9999, -50} {
		p, err := Nearest(a, target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		best := math.Abs(a[p] - target)
		for i := range a {
			if math.Abs(a[i]-target) < best {
				t.Fatalf("target %v: position %d (dist %v) beats returned %d (dist %v)",
					target, i, math.Abs(a[i]-target), p, best)
			}
		}
	}
}

func TestNearestTieBreaksLow(t *testing.T) {
	// 450 and 550 are equidistant from 500; the lower position wins.
	a := New([]float64{450, 550, 450, 550})

	p, err := Nearest(a, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 0 {
		t.Fatalf("tie must resolve to lowest position: got %d", p)
	}
}

func TestNearestUnsortedDuplicates(t *testing.T) {
	a := New([]float64{600, 400, 500, 400})

	p, err := Nearest(a, 401)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 1 {
		t.Fatalf("duplicate entries must resolve to first occurrence: got %d", p)
	}
}

func TestNearestEmptyAxis(t *testing.T) {
	_, err := Nearest(Axis{}, 500)
	if !errors.Is(err, ErrEmptyAxis) {
		t.Fatalf("want ErrEmptyAxis, got %v", err)
	}
}

func TestNearestNaNTarget(t *testing.T) {
	a := New([]float64{400, 500})

	_, err := Nearest(a, math.NaN())
	if !errors.Is(err, ErrNaNTarget) {
		t.Fatalf("want ErrNaNTarget, got %v", err)
	}
}

func TestNearestMany(t *testing.T) {
	a := New([]float64{400, 450, 500, 550, 600})

	got, err := NearestMany(a, []float64{470, 470, 601, 399})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequirePositions(t, got, []int{1, 1, 4, 0})
}

func TestResolveWithinTolerance(t *testing.T) {
	a := New([]float64{400, 450, 500, 550, 600})

	p, err := Resolve(a, 470, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 1 {
		t.Fatalf("got position %d, want 1", p)
	}
}

func TestResolveOutOfTolerance(t *testing.T) {
	a := New([]float64{400, 450, 500, 550, 600})

	_, err := Resolve(a, 470, 10)
	if !errors.Is(err, ErrOutOfTolerance) {
		t.Fatalf("want ErrOutOfTolerance, got %v", err)
	}
}

func TestResolveBoundaryIsInclusive(t *testing.T) {
	a := New([]float64{400, 450})

	// Distance exactly equal to the tolerance is accepted.
	p, err := Resolve(a, 470, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 1 {
		t.Fatalf("got position %d, want 1", p)
	}
}

func TestResolveGateMatchesNearest(t *testing.T) {
	a := New([]float64{412.3, 517.9, 433.1, 601.4})

	for _, tc := range []struct {
		target, tol float64
	}{
		{430, 5}, {430, 2}, {600, 0.5}, {600, 10}, {412.3, 0},
	} {
		p, nerr := Nearest(a, tc.target)
		if nerr != nil {
			t.Fatalf("unexpected error: %v", nerr)
		}

		_, rerr := Resolve(a, tc.target, tc.tol)
		outside := math.Abs(a[p]-tc.target) > tc.tol
		if outside != errors.Is(rerr, ErrOutOfTolerance) {
			t.Fatalf("target %v tol %v: gate disagrees with nearest distance (err %v)",
				tc.target, tc.tol, rerr)
		}
	}
}

func TestResolveDefaultTolerance(t *testing.T) {
	a := New([]float64{400, 450})

	// Negative tolerance falls back to the default 0.5.
	if _, err := Resolve(a, 400.4, -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Resolve(a, 401, -1); !errors.Is(err, ErrOutOfTolerance) {
		t.Fatalf("want ErrOutOfTolerance under default tolerance, got %v", err)
	}
}

func TestResolveMany(t *testing.T) {
	a := New([]float64{400, 450, 500})

	got, err := ResolveMany(a, []float64{449, 501}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequirePositions(t, got, []int{1, 2})

	if _, err := ResolveMany(a, []float64{449, 470}, 2); !errors.Is(err, ErrOutOfTolerance) {
		t.Fatalf("want ErrOutOfTolerance, got %v", err)
	}
}

func TestSelectAndSingle(t *testing.T) {
	a := New([]float64{400, 450, 500})

	sub, err := a.Select([]int{2, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Len() != 2 || sub[0] != 500 || sub[1] != 400 {
		t.Fatalf("select mismatch: %v", sub)
	}

	one, err := a.Single(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if one.Len() != 1 || one[0] != 450 {
		t.Fatalf("single mismatch: %v", one)
	}

	if _, err := a.Select([]int{3}); err == nil {
		t.Fatal("want error for out-of-range position")
	}
}

func TestSpan(t *testing.T) {
	a := New([]float64{400, 450, 500, 550})

	sub, err := a.Span(1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Len() != 2 || sub[0] != 450 || sub[1] != 500 {
		t.Fatalf("span mismatch: %v", sub)
	}

	// Narrowed axis is a copy, not a view.
	sub[0] = -1
	if a[1] != 450 {
		t.Fatal("span must not alias the parent axis")
	}
}

func TestMonotonic(t *testing.T) {
	if !New([]float64{1, 2, 3}).Monotonic() {
		t.Fatal("increasing axis reported non-monotonic")
	}
	if New([]float64{1, 3, 2}).Monotonic() {
		t.Fatal("non-monotonic axis reported monotonic")
	}
	if New([]float64{1, 1, 2}).Monotonic() {
		t.Fatal("repeated entry reported monotonic")
	}
}

func TestNewCopies(t *testing.T) {
	src := []float64{400, 500}
	a := New(src)
	src[0] = 0
	if a[0] != 400 {
		t.Fatal("New must copy the input slice")
	}
}
