package analyze

import "fmt"

// ReconstructVolume builds the bladder volume trace from the infusion rate
// and locates the bladder-empty point after each contraction.
//
// Volume accumulates linearly at flowVolume (mL/min, integrated in seconds)
// from zero at each baseline until the next one, modeling continuous filling
// between voids. For each peak the empty threshold is the opening baseline
// pressure plus emptyPercent of the contraction height; the empty point is
// the first post-peak sample whose pressure decays to that threshold, or the
// sample just before the next baseline when the pressure never gets there
// first. Pressure here is the smoothed trace.
func ReconstructVolume(time, pressure []float64, baselines, peaks []int, flowVolume, emptyPercent float64) (volume []float64, emptyIdx []int, err error) {
	if flowVolume <= 0 {
		return nil, nil, fmt.Errorf("%w: flow_volume %v must be > 0", ErrInvalidParameter, flowVolume)
	}
	if emptyPercent < 0 || emptyPercent > 100 {
		return nil, nil, fmt.Errorf("%w: volume_empty_percent %v outside [0,100]", ErrInvalidParameter, emptyPercent)
	}
	if len(baselines) != len(peaks)+1 {
		return nil, nil, fmt.Errorf("%w: %d baselines cannot bound %d peaks", ErrInsufficientData, len(baselines), len(peaks))
	}

	rate := flowVolume / 60 // mL per second

	volume = make([]float64, len(time))
	origin := 0
	next := 0
	for i := range time {
		if next < len(baselines) && i == baselines[next] {
			origin = i
			next++
		}
		volume[i] = rate * (time[i] - time[origin])
	}

	for j, peak := range peaks {
		opening := baselines[j]
		closing := baselines[j+1]

		threshold := pressure[opening] + emptyPercent/100*(pressure[peak]-pressure[opening])

		found := -1
		for i := peak + 1; i < closing; i++ {
			if pressure[i] <= threshold {
				found = i
				break
			}
		}
		if found < 0 && closing-1 > peak {
			// Pressure reached the next baseline before decaying to the
			// bound; the void is taken to complete on arrival.
			found = closing - 1
		}
		if found >= 0 {
			emptyIdx = append(emptyIdx, found)
		}
	}
	return volume, emptyIdx, nil
}
