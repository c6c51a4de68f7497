package analyze

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SegmentBounds returns the half-open windows between consecutive baselines.
// Segment j spans [baselines[j], baselines[j+1]) and contains exactly one
// contraction peak. Samples before the first baseline and after the last one
// belong to no segment.
func SegmentBounds(baselines []int) []Bound {
	if len(baselines) < 2 {
		return nil
	}
	bounds := make([]Bound, 0, len(baselines)-1)
	for j := 0; j+1 < len(baselines); j++ {
		bounds = append(bounds, Bound{Start: baselines[j], End: baselines[j+1]})
	}
	return bounds
}

// LocateThresholds finds, per baseline-to-baseline segment, the onset of the
// pressure rise leading to that segment's contraction. The slope threshold is
// the given percentile of the curvature restricted to the segment — a
// percentile rather than an absolute bound, so each segment adapts to its own
// noise floor. The threshold index is the first sample strictly between the
// segment's opening baseline and its peak whose curvature reaches the
// threshold; a segment where no sample qualifies records NoThreshold, which
// is a recoverable absence rather than a failure.
func LocateThresholds(d2 []float64, baselines, peaks []int, percentile float64) (idx []int, thresholds []float64, err error) {
	if percentile < 0 || percentile > 100 {
		return nil, nil, fmt.Errorf("%w: pressure_threshold_percentile %v outside [0,100]", ErrInvalidParameter, percentile)
	}
	if len(baselines) != len(peaks)+1 {
		return nil, nil, fmt.Errorf("%w: %d baselines cannot bound %d peaks", ErrInsufficientData, len(baselines), len(peaks))
	}

	idx = make([]int, 0, len(peaks))
	thresholds = make([]float64, 0, len(peaks))

	for j := range peaks {
		lo, hi := baselines[j], baselines[j+1]

		segment := append([]float64(nil), d2[lo:hi]...)
		sort.Float64s(segment)
		thr := stat.Quantile(percentile/100, stat.Empirical, segment, nil)
		thresholds = append(thresholds, thr)

		found := NoThreshold
		for i := lo + 1; i < peaks[j]; i++ {
			if d2[i] >= thr {
				found = i
				break
			}
		}
		idx = append(idx, found)
	}
	return idx, thresholds, nil
}
