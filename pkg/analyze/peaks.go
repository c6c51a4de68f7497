package analyze

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// FindPeaks returns the strictly increasing indices of contraction peaks in
// the smoothed pressure trace. A local maximum qualifies when its prominence
// reaches sensitivity * (max - min) of the whole trace, so raising the
// sensitivity can only shrink the set of detected peaks. Plateaus count once,
// at their earliest index. A flat trace yields no peaks, which is not an
// error here; the pipeline decides whether that is fatal.
func FindPeaks(vals []float64, sensitivity float64) ([]int, error) {
	if sensitivity <= 0 || sensitivity > 1 {
		return nil, fmt.Errorf("%w: peak_finding_sensitivity %v outside (0,1]", ErrInvalidParameter, sensitivity)
	}
	if len(vals) < 3 {
		return nil, nil
	}

	span := floats.Max(vals) - floats.Min(vals)
	if span == 0 {
		return nil, nil
	}
	minProminence := span * sensitivity

	var peaks []int
	for i := 1; i < len(vals)-1; i++ {
		if vals[i] <= vals[i-1] {
			continue
		}
		// Walk across a possible plateau of equal samples. The peak index is
		// the earliest sample of the plateau.
		j := i
		for j+1 < len(vals) && vals[j+1] == vals[i] {
			j++
		}
		if j+1 < len(vals) && vals[j+1] < vals[i] {
			if prominence(vals, i) >= minProminence {
				peaks = append(peaks, i)
			}
		}
		i = j
	}
	return peaks, nil
}

// prominence measures how far a peak rises above the higher of the two
// valley floors that separate it from taller terrain (or from the signal
// edge on that side).
func prominence(vals []float64, peak int) float64 {
	h := vals[peak]

	left := h
	for i := peak - 1; i >= 0; i-- {
		if vals[i] > h {
			break
		}
		if vals[i] < left {
			left = vals[i]
		}
	}

	right := h
	for i := peak + 1; i < len(vals); i++ {
		if vals[i] > h {
			break
		}
		if vals[i] < right {
			right = vals[i]
		}
	}

	base := left
	if right > base {
		base = right
	}
	return h - base
}

// FindBaselines locates the resting pressure between contractions: the first
// index of the minimum sample before the first peak, between each pair of
// consecutive peaks, and after the last peak. The returned indices therefore
// interleave with the peaks and satisfy len(baselines) == len(peaks) + 1.
func FindBaselines(vals []float64, peaks []int) ([]int, error) {
	if len(peaks) == 0 {
		return nil, fmt.Errorf("%w: no contraction peaks to anchor baselines", ErrInsufficientData)
	}

	baselines := make([]int, 0, len(peaks)+1)
	baselines = append(baselines, argMin(vals, 0, peaks[0]))
	for k := 0; k+1 < len(peaks); k++ {
		baselines = append(baselines, argMin(vals, peaks[k]+1, peaks[k+1]))
	}
	baselines = append(baselines, argMin(vals, peaks[len(peaks)-1]+1, len(vals)))
	return baselines, nil
}

// argMin returns the first index of the minimum value in vals[lo:hi).
// The interval is never empty: peaks are interior local maxima, so there is
// always at least one sample on each side and between any two of them.
func argMin(vals []float64, lo, hi int) int {
	min := lo
	for i := lo + 1; i < hi; i++ {
		if vals[i] < vals[min] {
			min = i
		}
	}
	return min
}
