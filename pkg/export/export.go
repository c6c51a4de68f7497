// Package export serializes analysis results as CSV files, one file per event
// family, matching the layout downstream spreadsheets expect.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urolab/cysto/pkg/analyze"
	"github.com/urolab/cysto/pkg/stats"
)

// Exporter writes result files into Dir, prepending Prefix to every file
// name. The directory is created if needed.
type Exporter struct {
	Dir    string
	Prefix string
}

// Export writes baselines.csv, threshold_pressures.csv, peaks.csv and
// volume.csv. peaks.csv carries two extra columns: the inter-contraction
// interval (time since the previous peak; empty for the first) and the
// contractile duration (threshold onset to the closing baseline; empty when
// the segment located no threshold).
func (e Exporter) Export(res *analyze.Result) error {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	if err := e.writeIndexed("baselines.csv", res, res.Baselines); err != nil {
		return err
	}
	thresholds := make([]int, 0, len(res.PressureThresholdIdx))
	for _, idx := range res.PressureThresholdIdx {
		if idx != analyze.NoThreshold {
			thresholds = append(thresholds, idx)
		}
	}
	if err := e.writeIndexed("threshold_pressures.csv", res, thresholds); err != nil {
		return err
	}
	if err := e.writePeaks(res); err != nil {
		return err
	}
	return e.writeVolume(res)
}

// ExportSummary writes summary.csv with one row per summarized quantity.
func (e Exporter) ExportSummary(s stats.Summary) error {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	rows := [][]string{
		{"metric", "n", "mean", "median", "p90", "max"},
		summaryRow("interval_s", s.Interval),
		summaryRow("peak_pressure", s.PeakPressure),
		summaryRow("baseline_pressure", s.BaselinePressure),
		summaryRow("threshold_pressure", s.ThresholdPressure),
		summaryRow("capacity_ml", s.Capacity),
	}
	return e.writeRows("summary.csv", rows)
}

func summaryRow(name string, d stats.Distribution) []string {
	return []string{
		name,
		strconv.Itoa(d.N),
		formatFloat(d.Mean),
		formatFloat(d.Median),
		formatFloat(d.P90),
		formatFloat(d.Max),
	}
}

// writeIndexed writes (time, bladder_p) rows for the given sample indices.
func (e Exporter) writeIndexed(name string, res *analyze.Result, indices []int) error {
	rows := [][]string{{"time", "bladder_p"}}
	for _, i := range indices {
		rows = append(rows, []string{formatFloat(res.Time[i]), formatFloat(res.Pressure[i])})
	}
	return e.writeRows(name, rows)
}

func (e Exporter) writePeaks(res *analyze.Result) error {
	rows := [][]string{{"time", "bladder_p", "ici", "cd"}}
	for j, p := range res.Peaks {
		ici := ""
		if j > 0 {
			ici = formatFloat(res.Time[p] - res.Time[res.Peaks[j-1]])
		}
		cd := ""
		if idx := res.PressureThresholdIdx[j]; idx != analyze.NoThreshold {
			cd = formatFloat(res.Time[res.Baselines[j+1]] - res.Time[idx])
		}
		rows = append(rows, []string{
			formatFloat(res.Time[p]),
			formatFloat(res.Pressure[p]),
			ici,
			cd,
		})
	}
	return e.writeRows("peaks.csv", rows)
}

func (e Exporter) writeVolume(res *analyze.Result) error {
	rows := make([][]string, 0, len(res.Time)+1)
	rows = append(rows, []string{"time", "volume"})
	for i := range res.Time {
		rows = append(rows, []string{formatFloat(res.Time[i]), formatFloat(res.Volume[i])})
	}
	return e.writeRows("volume.csv", rows)
}

func (e Exporter) writeRows(name string, rows [][]string) error {
	path := filepath.Join(e.Dir, e.Prefix+name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
