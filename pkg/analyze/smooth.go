package analyze

import "fmt"

// MovingAverage smooths vals with a centered window of the given width. The
// window shrinks at the signal boundaries instead of zero-padding, so edge
// samples are averaged over whatever neighbors exist rather than biased
// toward zero. A window of 1 returns an exact copy.
func MovingAverage(vals []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: moving_avg_window %d must be >= 1", ErrInvalidParameter, window)
	}

	out := make([]float64, len(vals))
	for i := range vals {
		lo := i - window/2
		hi := lo + window
		if lo < 0 {
			lo = 0
		}
		if hi > len(vals) {
			hi = len(vals)
		}
		var sum float64
		for j := lo; j < hi; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(hi-lo)
	}
	return out, nil
}
