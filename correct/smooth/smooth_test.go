package smooth

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/internal/testutil"
)

func TestMovingAverageWindowOne(t *testing.T) {
	in := []float64{3, 1, 4, 1, 5}

	out, err := MovingAverage(in, 1)
	if err != nil {
		t.Fatalf("MovingAverage: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestMovingAverageConstant(t *testing.T) {
	in := []float64{2, 2, 2, 2, 2, 2}

	out, err := MovingAverage(in, 5)
	if err != nil {
		t.Fatalf("MovingAverage: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, out, in, 1e-15)
}

func TestMovingAverageSpike(t *testing.T) {
	out, err := MovingAverage([]float64{0, 0, 3, 0, 0}, 3)
	if err != nil {
		t.Fatalf("MovingAverage: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, out, []float64{0, 1, 1, 1, 0}, 1e-15)
}

func TestMovingAverageErrors(t *testing.T) {
	if _, err := MovingAverage(nil, 3); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("want ErrEmptyInput, got %v", err)
	}
	if _, err := MovingAverage([]float64{1}, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("want ErrInvalidWindow, got %v", err)
	}
}

// sineSignal builds a power-of-two-length signal with a DC offset of one and
// a single sine component at the given FFT bin.
func sineSignal(n, bin int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 + math.Sin(2*math.Pi*float64(bin)*float64(i)/float64(n))
	}
	return out
}

func TestLowpassUnitCutoffIsIdentity(t *testing.T) {
	in := sineSignal(64, 16)

	out, err := Lowpass(in, 1)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, out, in, 1e-9)
}

func TestLowpassRemovesHighFrequency(t *testing.T) {
	// Bin 16 of 64 sits at half Nyquist, well above the stop edge for a
	// cutoff of 0.25; only the DC offset survives.
	in := sineSignal(64, 16)

	out, err := Lowpass(in, 0.25)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	want := make([]float64, len(in))
	for i := range want {
		want[i] = 1
	}
	diff, err := testutil.MaxAbsDiff(out, want)
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}
	if diff > 1e-9 {
		t.Fatalf("high-frequency component survives: max deviation %v", diff)
	}
}

func TestLowpassConstant(t *testing.T) {
	in := []float64{4, 4, 4, 4, 4, 4, 4, 4}

	out, err := Lowpass(in, 0.1)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, out, in, 1e-9)
}

func TestLowpassErrors(t *testing.T) {
	if _, err := Lowpass(nil, 0.5); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("want ErrEmptyInput, got %v", err)
	}
	if _, err := Lowpass([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidCutoff) {
		t.Fatalf("want ErrInvalidCutoff, got %v", err)
	}
	if _, err := Lowpass([]float64{1, 2}, 1.5); !errors.Is(err, ErrInvalidCutoff) {
		t.Fatalf("want ErrInvalidCutoff, got %v", err)
	}
}

func TestLowpassGainSymmetry(t *testing.T) {
	gain := lowpassGain(16, 0.5)

	for k := 1; k < 8; k++ {
		if gain[k] != gain[16-k] {
			t.Fatalf("gain not symmetric at bin %d: %v vs %v", k, gain[k], gain[16-k])
		}
	}
	if gain[0] != 1 {
		t.Fatalf("DC gain must be 1, got %v", gain[0])
	}
}
