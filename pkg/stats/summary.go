// Package stats condenses an analysis result into per-recording distribution
// summaries: inter-contraction intervals, peak/baseline/threshold pressures,
// and per-cycle bladder capacity.
package stats

import (
	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/urolab/cysto/pkg/analyze"
)

// Values are recorded into fixed-point int64 histograms. Three significant
// figures is plenty for physiological pressures and intervals.
const (
	scale        = 1000 // value -> milli-units
	maxTrackable = 1000 * scale
	sigFigs      = 3
)

// Distribution summarizes one recorded quantity.
type Distribution struct {
	N      int
	Mean   float64
	Median float64
	P90    float64
	Max    float64
}

// Summary aggregates the distributions of one analysis run.
type Summary struct {
	Cycles int // number of complete baseline-to-baseline contraction cycles

	// Interval is the inter-contraction interval in seconds (peak to peak).
	Interval Distribution

	// PeakPressure, BaselinePressure and ThresholdPressure are in the
	// recording's pressure unit, read from the smoothed trace.
	PeakPressure      Distribution
	BaselinePressure  Distribution
	ThresholdPressure Distribution

	// Capacity is the maximum reconstructed volume reached in each cycle, in
	// mL — an estimate of the volume voided at the following baseline.
	Capacity Distribution
}

type recorder struct {
	hist *hdrhistogram.Histogram
	n    int
}

func newRecorder() *recorder {
	return &recorder{hist: hdrhistogram.New(1, maxTrackable, sigFigs)}
}

// record clamps at the histogram floor; cystometry quantities are positive,
// so anything at or below zero lands in the lowest bucket.
func (r *recorder) record(v float64) {
	fp := int64(v * scale)
	if fp < 1 {
		fp = 1
	}
	if fp > maxTrackable {
		fp = maxTrackable
	}
	r.hist.RecordValue(fp)
	r.n++
}

func (r *recorder) distribution() Distribution {
	if r.n == 0 {
		return Distribution{}
	}
	return Distribution{
		N:      r.n,
		Mean:   r.hist.Mean() / scale,
		Median: float64(r.hist.ValueAtQuantile(50)) / scale,
		P90:    float64(r.hist.ValueAtQuantile(90)) / scale,
		Max:    float64(r.hist.Max()) / scale,
	}
}

// Summarize computes the per-recording distributions of res.
func Summarize(res *analyze.Result) Summary {
	intervals := newRecorder()
	peaks := newRecorder()
	baselines := newRecorder()
	thresholds := newRecorder()
	capacity := newRecorder()

	for i, p := range res.Peaks {
		peaks.record(res.MovingAvg[p])
		if i > 0 {
			intervals.record(res.Time[p] - res.Time[res.Peaks[i-1]])
		}
	}
	for _, b := range res.Baselines {
		baselines.record(res.MovingAvg[b])
	}
	for _, idx := range res.PressureThresholdIdx {
		if idx == analyze.NoThreshold {
			continue
		}
		thresholds.record(res.MovingAvg[idx])
	}
	for _, bound := range res.BaselineBounds {
		max := 0.0
		for i := bound.Start; i < bound.End; i++ {
			if res.Volume[i] > max {
				max = res.Volume[i]
			}
		}
		capacity.record(max)
	}

	return Summary{
		Cycles:            len(res.BaselineBounds),
		Interval:          intervals.distribution(),
		PeakPressure:      peaks.distribution(),
		BaselinePressure:  baselines.distribution(),
		ThresholdPressure: thresholds.distribution(),
		Capacity:          capacity.distribution(),
	}
}
