package analyze

import (
	"errors"
	"math"
	"testing"
)

func TestMovingAverageIdentity(t *testing.T) {
	in := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	out, err := MovingAverage(in, 1)
	if err != nil {
		t.Fatalf("MovingAverage(w=1) error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v (w=1 must be identity)", i, out[i], in[i])
		}
	}
}

func TestMovingAverageWindow3(t *testing.T) {
	in := []float64{0, 3, 6, 9, 12}
	// Centered window of 3, shrinking at the edges:
	// out[0] = mean(0,3) = 1.5 (window clipped to two samples)
	// out[1] = mean(0,3,6) = 3
	// out[4] = mean(9,12) = 10.5
	want := []float64{1.5, 3, 6, 9, 10.5}

	out, err := MovingAverage(in, 3)
	if err != nil {
		t.Fatalf("MovingAverage error: %v", err)
	}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestMovingAverageEdgesNotBiasedTowardZero(t *testing.T) {
	// A constant signal must stay constant under smoothing. Zero-padding at
	// the boundaries would drag the edges down; shrinking windows must not.
	in := []float64{7, 7, 7, 7, 7, 7}
	out, err := MovingAverage(in, 4)
	if err != nil {
		t.Fatalf("MovingAverage error: %v", err)
	}
	for i, v := range out {
		if v != 7 {
			t.Errorf("out[%d] = %v, want 7", i, v)
		}
	}
}

func TestMovingAverageRejectsBadWindow(t *testing.T) {
	for _, w := range []int{0, -1, -10} {
		_, err := MovingAverage([]float64{1, 2, 3}, w)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("window %d: got %v, want ErrInvalidParameter", w, err)
		}
	}
}
