// Package viz renders an analysis result as pressure and volume figures.
package viz

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/urolab/cysto/pkg/analyze"
)

// Options toggles the independent decorations of the figures.
type Options struct {
	ShowLabels  bool // axis labels and titles
	ShowMarkers bool // peak/baseline/threshold/empty event markers
	ShowLegend  bool // legend on the pressure figure
}

// Render writes pressure.png and volume.png into dir, prepending prefix to
// both names. The result is only read.
func Render(res *analyze.Result, dir, prefix string, opts Options) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	if err := renderPressure(res, filepath.Join(dir, prefix+"pressure.png"), opts); err != nil {
		return err
	}
	return renderVolume(res, filepath.Join(dir, prefix+"volume.png"), opts)
}

func renderPressure(res *analyze.Result, path string, opts Options) error {
	p := plot.New()
	if opts.ShowLabels {
		p.Title.Text = "Bladder Pressure vs. Time"
		p.X.Label.Text = "Time (s)"
		p.Y.Label.Text = "Bladder P"
	}

	trace, err := plotter.NewLine(sampledXYs(res.Time, res.MovingAvg))
	if err != nil {
		return fmt.Errorf("pressure trace: %w", err)
	}
	trace.Color = color.RGBA{B: 180, A: 255}
	p.Add(trace)
	if opts.ShowLegend {
		p.Legend.Add("Bladder P", trace)
	}

	if opts.ShowMarkers {
		thresholds := make([]int, 0, len(res.PressureThresholdIdx))
		for _, idx := range res.PressureThresholdIdx {
			if idx != analyze.NoThreshold {
				thresholds = append(thresholds, idx)
			}
		}
		markers := []struct {
			name    string
			indices []int
			color   color.RGBA
		}{
			{"Peaks", res.Peaks, color.RGBA{R: 230, G: 120, A: 255}},
			{"Baselines", res.Baselines, color.RGBA{G: 150, A: 255}},
			{"P Thresholds", thresholds, color.RGBA{R: 200, A: 255}},
			{"Volume Empty", res.VolumeEmptyIdx, color.RGBA{R: 200, B: 200, A: 255}},
		}
		for _, m := range markers {
			if len(m.indices) == 0 {
				continue
			}
			sc, err := plotter.NewScatter(indexedXYs(res.Time, res.MovingAvg, m.indices))
			if err != nil {
				return fmt.Errorf("%s markers: %w", m.name, err)
			}
			sc.GlyphStyle = draw.GlyphStyle{
				Color:  m.color,
				Radius: vg.Points(3),
				Shape:  draw.CrossGlyph{},
			}
			p.Add(sc)
			if opts.ShowLegend {
				p.Legend.Add(m.name, sc)
			}
		}
	}

	return save(p, path)
}

func renderVolume(res *analyze.Result, path string, opts Options) error {
	p := plot.New()
	if opts.ShowLabels {
		p.Title.Text = "Volume vs. Time"
		p.X.Label.Text = "Time (s)"
		p.Y.Label.Text = "Volume (mL)"
	}

	trace, err := plotter.NewLine(sampledXYs(res.Time, res.Volume))
	if err != nil {
		return fmt.Errorf("volume trace: %w", err)
	}
	p.Add(trace)

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func sampledXYs(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return xys
}

func indexedXYs(x, y []float64, indices []int) plotter.XYs {
	xys := make(plotter.XYs, 0, len(indices))
	for _, i := range indices {
		xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
	}
	return xys
}
