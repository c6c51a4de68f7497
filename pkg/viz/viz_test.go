package viz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/urolab/cysto/pkg/analyze"
)

func analyzedFixture(t *testing.T) *analyze.Result {
	t.Helper()

	tm := make([]float64, 100)
	pr := make([]float64, 100)
	for i := range tm {
		tm[i] = float64(i)
	}
	for _, c := range []int{20, 50, 80} {
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

	p := analyze.DefaultParams()
	p.MovingAvgWindow = 1
	p.PressureThresholdPercentile = 97

	res, err := analyze.Analyze(analyze.Signal{Time: tm, Pressure: pr}, p)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	return res
}

func TestRenderWritesBothFigures(t *testing.T) {
	dir := t.TempDir()
	res := analyzedFixture(t)

	opts := Options{ShowLabels: true, ShowMarkers: true, ShowLegend: true}
	if err := Render(res, dir, "fig_", opts); err != nil {
		t.Fatalf("Render error: %v", err)
	}

	for _, name := range []string{"fig_pressure.png", "fig_volume.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRenderBareFigures(t *testing.T) {
	// All decorations off still yields valid figures with just the traces.
	dir := t.TempDir()
	res := analyzedFixture(t)

	if err := Render(res, dir, "", Options{}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "pressure.png")); err != nil {
		t.Errorf("missing pressure.png: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "volume.png")); err != nil {
		t.Errorf("missing volume.png: %v", err)
	}
}
