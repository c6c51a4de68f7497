package analyze

import (
	"errors"
	"math"
	"testing"
)

func TestSegmentBounds(t *testing.T) {
	bounds := SegmentBounds([]int{0, 30, 60, 90})
	want := []Bound{{0, 30}, {30, 60}, {60, 90}}
	if len(bounds) != len(want) {
		t.Fatalf("bounds = %v, want %v", bounds, want)
	}
	for i := range want {
		if bounds[i] != want[i] {
			t.Errorf("bounds[%d] = %v, want %v", i, bounds[i], want[i])
		}
	}
	if got := SegmentBounds([]int{5}); got != nil {
		t.Errorf("single baseline yields %v, want no bounds", got)
	}
}

func TestLocateThresholdsTriangular(t *testing.T) {
	// Exact triangles make the curvature trace sparse: +10 at each ramp
	// kink, -20 at each apex, zero elsewhere. At the 97th percentile the
	// per-segment threshold lands on +10, so the located onset is the start
	// of each rise.
	d2 := SecondDerivative(threePeakTrace())
	peaks := []int{20, 50, 80}
	baselines := []int{0, 30, 60, 90}

	idx, thresholds, err := LocateThresholds(d2, baselines, peaks, 97)
	if err != nil {
		t.Fatalf("LocateThresholds error: %v", err)
	}
	if len(idx) != 3 || len(thresholds) != 3 {
		t.Fatalf("got %d indices and %d thresholds, want 3 of each", len(idx), len(thresholds))
	}

	wantIdx := []int{10, 40, 70}
	for j := range idx {
		if idx[j] != wantIdx[j] {
			t.Errorf("idx[%d] = %d, want %d", j, idx[j], wantIdx[j])
		}
		// The ramp arithmetic leaves the kink curvature a few ulps shy of 10,
		// so compare with a tolerance.
		if math.Abs(thresholds[j]-10) > 1e-9 {
			t.Errorf("thresholds[%d] = %v, want ~10", j, thresholds[j])
		}
		// The located sample must sit strictly inside its segment, before
		// the peak, with curvature at or above the threshold.
		if idx[j] <= baselines[j] || idx[j] >= peaks[j] {
			t.Errorf("idx[%d] = %d outside (%d, %d)", j, idx[j], baselines[j], peaks[j])
		}
		if d2[idx[j]] < thresholds[j] {
			t.Errorf("d2[%d] = %v below threshold %v", idx[j], d2[idx[j]], thresholds[j])
		}
	}
}

func TestLocateThresholdsDegenerateSegment(t *testing.T) {
	// Curvature that only reaches its maximum at the apex itself: the scan
	// stops before the peak, so no sample qualifies at the 100th percentile
	// and the segment records an absence instead of failing.
	d2 := []float64{0, 0, 0, 0, 50, 0, 0, 0, 0, 0}
	baselines := []int{0, 9}
	peaks := []int{4}

	idx, thresholds, err := LocateThresholds(d2, baselines, peaks, 100)
	if err != nil {
		t.Fatalf("LocateThresholds error: %v", err)
	}
	if thresholds[0] != 50 {
		t.Errorf("threshold = %v, want 50", thresholds[0])
	}
	if idx[0] != NoThreshold {
		t.Errorf("idx = %d, want NoThreshold", idx[0])
	}
}

func TestLocateThresholdsRejectsBadPercentile(t *testing.T) {
	for _, p := range []float64{-1, 100.5} {
		_, _, err := LocateThresholds([]float64{0, 1, 0}, []int{0, 2}, []int{1}, p)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("percentile %v: got %v, want ErrInvalidParameter", p, err)
		}
	}
}
