// Package session provides the chaining convenience layer over the analysis
// pipeline: select a recording, load it, analyze it with one or more
// parameter sets, export or plot each result, then move on to the next
// recording with the same session.
//
// A session holds no mutable analysis state beyond the currently loaded
// signal and the most recent result. Every Analyze call takes its own
// immutable parameter snapshot and produces a fresh independent Result, so
// results from successive (or concurrent, on separate sessions) analyses
// never alias each other.
package session

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urolab/cysto/pkg/analyze"
	"github.com/urolab/cysto/pkg/export"
	"github.com/urolab/cysto/pkg/load"
	"github.com/urolab/cysto/pkg/stats"
	"github.com/urolab/cysto/pkg/viz"
)

// Session chains loading, analysis and output steps. Methods are sticky on
// error: once a step fails, later steps are skipped until the error is
// consumed via Err or the session is pointed at new data.
type Session struct {
	log *zap.Logger
	id  uuid.UUID

	path string
	sig  *analyze.Signal
	res  *analyze.Result
	err  error
}

// New creates a session with a fresh run identifier. A nil logger disables
// logging.
func New(log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	return &Session{
		log: log.With(zap.String("run_id", id.String())),
		id:  id,
	}
}

// ID returns the session's run identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// SetFile selects the recording file to load next. Any previously loaded
// signal, result, and pending error are discarded.
func (s *Session) SetFile(path string) *Session {
	s.path = path
	s.sig = nil
	s.res = nil
	s.err = nil
	return s
}

// Load parses the selected file using the given column layout.
func (s *Session) Load(timeCol, pressureCol, skipRows int, delim rune) *Session {
	if s.err != nil {
		return s
	}
	if s.path == "" {
		s.err = fmt.Errorf("no recording selected: call SetFile before Load")
		return s
	}
	sig, err := load.File(load.FileSpec{
		Path:        s.path,
		TimeCol:     timeCol,
		PressureCol: pressureCol,
		SkipRows:    skipRows,
		Delim:       delim,
	})
	if err != nil {
		s.err = err
		return s
	}
	s.sig = &sig
	s.res = nil
	s.log.Info("recording loaded",
		zap.String("path", s.path),
		zap.Int("samples", len(sig.Time)))
	return s
}

// SetData supplies the raw signal directly instead of loading a file. The
// arrays are copied; any pending error is discarded.
func (s *Session) SetData(time, pressure []float64) *Session {
	s.err = nil
	s.res = nil
	sig, err := load.FromArrays(time, pressure)
	if err != nil {
		s.err = err
		s.sig = nil
		return s
	}
	s.sig = &sig
	return s
}

// Analyze runs the pipeline over the loaded signal with its own snapshot of
// p, replacing the session's current result with a fresh one.
func (s *Session) Analyze(p analyze.Params) *Session {
	if s.err != nil {
		return s
	}
	if s.sig == nil {
		s.err = fmt.Errorf("no signal loaded: call Load or SetData before Analyze")
		return s
	}
	res, err := analyze.Analyze(*s.sig, p)
	if err != nil {
		s.err = err
		return s
	}
	s.res = res
	s.log.Info("analysis complete",
		zap.Int("peaks", len(res.Peaks)),
		zap.Int("baselines", len(res.Baselines)),
		zap.Float64("percentile", p.PressureThresholdPercentile))
	return s
}

// Export writes the current result as CSV files. An empty prefix defaults to
// the first eight characters of the run identifier.
func (s *Session) Export(dir, prefix string) *Session {
	if s.err != nil {
		return s
	}
	if s.res == nil {
		s.err = fmt.Errorf("no result to export: call Analyze before Export")
		return s
	}
	if prefix == "" {
		prefix = s.id.String()[:8] + "_"
	}
	e := export.Exporter{Dir: dir, Prefix: prefix}
	if err := e.Export(s.res); err != nil {
		s.err = err
		return s
	}
	if err := e.ExportSummary(stats.Summarize(s.res)); err != nil {
		s.err = err
		return s
	}
	s.log.Info("result exported", zap.String("dir", dir), zap.String("prefix", prefix))
	return s
}

// Plot renders the current result as pressure and volume figures.
func (s *Session) Plot(dir, prefix string, opts viz.Options) *Session {
	if s.err != nil {
		return s
	}
	if s.res == nil {
		s.err = fmt.Errorf("no result to plot: call Analyze before Plot")
		return s
	}
	if prefix == "" {
		prefix = s.id.String()[:8] + "_"
	}
	if err := viz.Render(s.res, dir, prefix, opts); err != nil {
		s.err = err
		return s
	}
	s.log.Info("figures rendered", zap.String("dir", dir), zap.String("prefix", prefix))
	return s
}

// Result returns the most recent analysis result, or nil.
func (s *Session) Result() *analyze.Result { return s.res }

// Err returns the first error of the current chain, if any.
func (s *Session) Err() error { return s.err }
