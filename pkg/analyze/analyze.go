// Package analyze implements the cystometry analysis pipeline: it turns a raw
// (time, pressure) recording into smoothed pressure, curvature, contraction
// peaks, inter-contraction baselines, pressure-rise thresholds, bladder-empty
// points, and a reconstructed infusion-volume trace.
//
// The pipeline is pure computation over in-memory slices. It never mutates its
// inputs, performs no I/O, and each call returns a fresh Result, so callers
// may run independent analyses concurrently.
package analyze

import "fmt"

// Signal is a raw cystometry recording: paired (time, pressure) samples.
// Time is in seconds and must be strictly increasing; pressure is in whatever
// unit the acquisition rig produced (typically cmH2O).
type Signal struct {
	Time     []float64
	Pressure []float64
}

// Params holds the tunable analysis parameters. The zero value is not usable;
// start from DefaultParams and override fields as needed.
type Params struct {
	// MovingAvgWindow is the smoothing width in samples. 1 means no smoothing.
	MovingAvgWindow int `yaml:"moving_avg_window"`

	// PeakFindingSensitivity in (0,1] scales the minimum prominence a local
	// maximum needs to count as a contraction peak. The prominence floor is
	// sensitivity * (max - min) of the smoothed signal, so higher values
	// detect fewer, stronger peaks.
	PeakFindingSensitivity float64 `yaml:"peak_finding_sensitivity"`

	// PressureThresholdPercentile in [0,100] picks the curvature percentile,
	// per baseline-to-baseline segment, used as that segment's slope
	// threshold. 85-98 is the useful range in practice.
	PressureThresholdPercentile float64 `yaml:"pressure_threshold_percentile"`

	// VolumeEmptyPercent in [0,100] is the fraction of (peak - baseline)
	// pressure at which the bladder is considered empty after a void.
	VolumeEmptyPercent float64 `yaml:"volume_empty_percent"`

	// FlowVolume is the constant infusion rate in mL/min.
	FlowVolume float64 `yaml:"flow_volume"`
}

// DefaultParams returns the parameter set that works for typical rodent
// cystometry recordings sampled at a few Hz.
func DefaultParams() Params {
	return Params{
		MovingAvgWindow:             10,
		PeakFindingSensitivity:      0.333,
		PressureThresholdPercentile: 91,
		VolumeEmptyPercent:          10,
		FlowVolume:                  1,
	}
}

// Validate checks every parameter against its documented domain.
func (p Params) Validate() error {
	if p.MovingAvgWindow < 1 {
		return fmt.Errorf("%w: moving_avg_window %d must be >= 1", ErrInvalidParameter, p.MovingAvgWindow)
	}
	if p.PeakFindingSensitivity <= 0 || p.PeakFindingSensitivity > 1 {
		return fmt.Errorf("%w: peak_finding_sensitivity %v outside (0,1]", ErrInvalidParameter, p.PeakFindingSensitivity)
	}
	if p.PressureThresholdPercentile < 0 || p.PressureThresholdPercentile > 100 {
		return fmt.Errorf("%w: pressure_threshold_percentile %v outside [0,100]", ErrInvalidParameter, p.PressureThresholdPercentile)
	}
	if p.VolumeEmptyPercent < 0 || p.VolumeEmptyPercent > 100 {
		return fmt.Errorf("%w: volume_empty_percent %v outside [0,100]", ErrInvalidParameter, p.VolumeEmptyPercent)
	}
	if p.FlowVolume <= 0 {
		return fmt.Errorf("%w: flow_volume %v must be > 0", ErrInvalidParameter, p.FlowVolume)
	}
	return nil
}

// Bound is a half-open index range [Start, End) into the sample axis.
type Bound struct {
	Start int
	End   int
}

// NoThreshold marks a baseline-bounded segment in which no curvature sample
// met the slope threshold. It is an absence marker, never a sample index.
const NoThreshold = -1

// Result is the index-aligned output of one analysis run. All per-sample
// slices share the same axis and length as Time; the index slices point into
// that axis. A Result is read-only output: it is never mutated after Analyze
// returns and is safe to hand to independent consumers concurrently.
type Result struct {
	Time             []float64
	Pressure         []float64
	MovingAvg        []float64
	SecondDerivative []float64
	Volume           []float64

	// Peaks and Baselines are strictly increasing and interleave: a baseline
	// precedes and follows every peak, so len(Baselines) == len(Peaks) + 1.
	Peaks     []int
	Baselines []int

	// BaselineBounds partitions the recording at baseline positions into
	// len(Baselines)-1 contraction segments; segment j contains Peaks[j].
	BaselineBounds []Bound

	// SlopeThresholds holds one curvature threshold per segment, aligned with
	// BaselineBounds. PressureThresholdIdx is aligned the same way and holds
	// the first index in each segment whose curvature reaches the segment's
	// threshold, or NoThreshold when no sample qualifies.
	SlopeThresholds      []float64
	PressureThresholdIdx []int

	// VolumeEmptyIdx holds at most one index per contraction, strictly
	// between the peak and the following baseline, where pressure has decayed
	// back to the configured fraction of the contraction height.
	VolumeEmptyIdx []int
}

// Analyze runs the full pipeline over sig. The input slices are only read;
// the Result holds independent copies.
func Analyze(sig Signal, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateSignal(sig); err != nil {
		return nil, err
	}
	if p.MovingAvgWindow > len(sig.Pressure) {
		return nil, fmt.Errorf("%w: moving_avg_window %d exceeds the %d-sample recording",
			ErrInsufficientData, p.MovingAvgWindow, len(sig.Pressure))
	}

	ma, err := MovingAverage(sig.Pressure, p.MovingAvgWindow)
	if err != nil {
		return nil, err
	}
	d2 := SecondDerivative(ma)

	peaks, err := FindPeaks(ma, p.PeakFindingSensitivity)
	if err != nil {
		return nil, err
	}
	if len(peaks) == 0 {
		return nil, fmt.Errorf("%w: no contraction peaks detected (sensitivity %v)",
			ErrInsufficientData, p.PeakFindingSensitivity)
	}

	baselines, err := FindBaselines(ma, peaks)
	if err != nil {
		return nil, err
	}
	bounds := SegmentBounds(baselines)

	thrIdx, slopeThr, err := LocateThresholds(d2, baselines, peaks, p.PressureThresholdPercentile)
	if err != nil {
		return nil, err
	}

	volume, emptyIdx, err := ReconstructVolume(sig.Time, ma, baselines, peaks, p.FlowVolume, p.VolumeEmptyPercent)
	if err != nil {
		return nil, err
	}

	return &Result{
		Time:                 append([]float64(nil), sig.Time...),
		Pressure:             append([]float64(nil), sig.Pressure...),
		MovingAvg:            ma,
		SecondDerivative:     d2,
		Volume:               volume,
		Peaks:                peaks,
		Baselines:            baselines,
		BaselineBounds:       bounds,
		SlopeThresholds:      slopeThr,
		PressureThresholdIdx: thrIdx,
		VolumeEmptyIdx:       emptyIdx,
	}, nil
}

func validateSignal(sig Signal) error {
	if len(sig.Time) != len(sig.Pressure) {
		return fmt.Errorf("%w: time has %d samples but pressure has %d",
			ErrInsufficientData, len(sig.Time), len(sig.Pressure))
	}
	if len(sig.Time) < 2 {
		return fmt.Errorf("%w: %d samples, need at least 2", ErrInsufficientData, len(sig.Time))
	}
	for i := 1; i < len(sig.Time); i++ {
		if sig.Time[i] <= sig.Time[i-1] {
			return fmt.Errorf("%w: time not strictly increasing at sample %d (%v -> %v)",
				ErrInsufficientData, i, sig.Time[i-1], sig.Time[i])
		}
	}
	return nil
}
