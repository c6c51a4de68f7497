package session

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/urolab/cysto/pkg/analyze"
)

func triangleArrays(centers []int) (tm, pr []float64) {
	tm = make([]float64, 100)
	pr = make([]float64, 100)
	for i := range tm {
		tm[i] = float64(i)
	}
	for _, c := range centers {
		for i := range pr {
			d := i - c
			if d < 0 {
				d = -d
			}
			if d <= 10 {
				v := 100 * (1 - float64(d)/10)
				if v > pr[i] {
					pr[i] = v
				}
			}
		}
	}
	return tm, pr
}

func exactParams() analyze.Params {
	p := analyze.DefaultParams()
	p.MovingAvgWindow = 1
	p.PressureThresholdPercentile = 97
	return p
}

func TestSessionChain(t *testing.T) {
	tm, pr := triangleArrays([]int{20, 50, 80})

	s := New(nil).SetData(tm, pr).Analyze(exactParams())
	if err := s.Err(); err != nil {
		t.Fatalf("chain error: %v", err)
	}
	res := s.Result()
	if res == nil || len(res.Peaks) != 3 {
		t.Fatalf("Result = %+v, want 3 peaks", res)
	}
}

func TestSessionAnalyzeWithoutData(t *testing.T) {
	s := New(nil).Analyze(exactParams())
	if s.Err() == nil {
		t.Fatal("expected an error analyzing with no signal loaded")
	}
	if s.Result() != nil {
		t.Error("Result must stay nil after a failed chain")
	}
}

func TestSessionStickyError(t *testing.T) {
	tm, pr := triangleArrays([]int{20, 50, 80})
	bad := exactParams()
	bad.FlowVolume = -1

	s := New(nil).SetData(tm, pr).Analyze(bad).Export(t.TempDir(), "x_")
	if !errors.Is(s.Err(), analyze.ErrInvalidParameter) {
		t.Fatalf("Err = %v, want the original ErrInvalidParameter", s.Err())
	}
	// Export was skipped, so nothing was written anywhere.
	if s.Result() != nil {
		t.Error("Result must be nil after a failed Analyze")
	}
}

func TestSessionReuseAcrossRecordings(t *testing.T) {
	tm1, pr1 := triangleArrays([]int{20, 50, 80})
	tm2, pr2 := triangleArrays([]int{50})

	s := New(nil)
	first := s.SetData(tm1, pr1).Analyze(exactParams()).Result()
	second := s.SetData(tm2, pr2).Analyze(exactParams()).Result()
	if err := s.Err(); err != nil {
		t.Fatalf("chain error: %v", err)
	}

	if len(first.Peaks) != 3 || len(second.Peaks) != 1 {
		t.Errorf("got %d then %d peaks, want 3 then 1", len(first.Peaks), len(second.Peaks))
	}
	// The first result must be untouched by the second analysis.
	if &first.Peaks[0] == &second.Peaks[0] {
		t.Error("results share backing storage across analyses")
	}
}

func TestSessionMultipleParameterSets(t *testing.T) {
	// The original workflow: one recording analyzed repeatedly under
	// different percentiles, each exported under its own prefix.
	tm, pr := triangleArrays([]int{20, 50, 80})
	dir := t.TempDir()

	s := New(nil).SetData(tm, pr)
	for _, pct := range []float64{95, 97} {
		p := exactParams()
		p.PressureThresholdPercentile = pct
		s.Analyze(p).Export(dir, "")
		if err := s.Err(); err != nil {
			t.Fatalf("percentile %v: %v", pct, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var volumes int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "volume.csv") {
			volumes++
		}
	}
	// Same run id prefixes both exports, so the second overwrites the first.
	if volumes != 1 {
		t.Errorf("found %d volume.csv files, want 1 (default prefix is per session)", volumes)
	}
	if _, err := os.Stat(filepath.Join(dir, s.ID().String()[:8]+"_volume.csv")); err != nil {
		t.Errorf("expected default-prefixed export: %v", err)
	}
}

func TestSessionLoadFromFile(t *testing.T) {
	tm, pr := triangleArrays([]int{20, 50, 80})
	var b strings.Builder
	b.WriteString("header line\n")
	for i := range tm {
		b.WriteString(strings.Join([]string{
			formatF(tm[i]), formatF(pr[i]),
		}, ","))
		b.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "rec.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(nil).SetFile(path).Load(0, 1, 1, ',').Analyze(exactParams())
	if err := s.Err(); err != nil {
		t.Fatalf("chain error: %v", err)
	}
	if len(s.Result().Peaks) != 3 {
		t.Errorf("got %d peaks, want 3", len(s.Result().Peaks))
	}
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
