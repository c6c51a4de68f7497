package analyze

// SecondDerivative computes the discrete second difference of the smoothed
// pressure:
//
//	d2[i] = vals[i+1] - 2*vals[i] + vals[i-1]
//
// Boundary samples repeat their nearest interior value so the output stays
// sample-aligned with the input. Curvature spikes in this trace mark the
// onset of the steep pressure rise preceding a contraction.
func SecondDerivative(vals []float64) []float64 {
	out := make([]float64, len(vals))
	if len(vals) < 3 {
		return out
	}
	for i := 1; i < len(vals)-1; i++ {
		out[i] = vals[i+1] - 2*vals[i] + vals[i-1]
	}
	out[0] = out[1]
	out[len(vals)-1] = out[len(vals)-2]
	return out
}
