package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/urolab/cysto/pkg/analyze"
	"github.com/urolab/cysto/pkg/config"
	"github.com/urolab/cysto/pkg/session"
	"github.com/urolab/cysto/pkg/viz"
)

func main() {
	// Dispatch subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "analyze":
			runAnalyzeCmd(os.Args[2:])
			return
		case "sweep":
			runSweepCmd(os.Args[2:])
			return
		}
	}

	// Default behavior (flags -> analyze)
	runAnalyzeCmd(os.Args[1:])
}

// Flags holds pointers to all supported CLI flags
type Flags struct {
	// Config file (optional)
	ConfigFile  *string
	WriteConfig *string

	// Input
	In          *string
	TimeCol     *int
	PressureCol *int
	Skip        *int
	Delim       *string

	// Analysis parameters
	Window      *int
	Sensitivity *float64
	Percentile  *float64
	EmptyPct    *float64
	Flow        *float64

	// Output
	OutDir *string
	Prefix *string

	Plot        *bool
	PlotLabels  *bool
	PlotMarkers *bool
	PlotLegend  *bool
}

func SetupFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	f.ConfigFile = fs.String("config", "", "Path to yaml configuration file (overrides other flags)")
	f.WriteConfig = fs.String("write-config", "", "Save the effective configuration to this yaml file")

	f.In = fs.String("in", "", "Path to the delimited recording file")
	f.TimeCol = fs.Int("time-col", 0, "Zero-based column index of time data")
	f.PressureCol = fs.Int("pressure-col", 1, "Zero-based column index of pressure data")
	f.Skip = fs.Int("skip", 0, "Rows to skip before collecting data (headers, warm-up samples)")
	f.Delim = fs.String("delim", ",", "Field delimiter (single character)")

	def := analyze.DefaultParams()
	f.Window = fs.Int("window", def.MovingAvgWindow, "Moving average window in samples")
	f.Sensitivity = fs.Float64("sensitivity", def.PeakFindingSensitivity, "Peak finding sensitivity in (0,1]")
	f.Percentile = fs.Float64("percentile", def.PressureThresholdPercentile, "Curvature percentile for pressure thresholds [0,100]")
	f.EmptyPct = fs.Float64("empty-pct", def.VolumeEmptyPercent, "Percent of contraction height at which the bladder counts as empty")
	f.Flow = fs.Float64("flow", def.FlowVolume, "Infusion rate in mL/min")

	f.OutDir = fs.String("out", "./exports", "Directory for exported CSV files")
	f.Prefix = fs.String("prefix", "", "Prefix for exported file names (defaults to the run id)")

	f.Plot = fs.Bool("plot", false, "Render pressure and volume figures")
	f.PlotLabels = fs.Bool("plot-labels", true, "Draw axis labels and titles")
	f.PlotMarkers = fs.Bool("plot-markers", true, "Draw event markers")
	f.PlotLegend = fs.Bool("plot-legend", true, "Draw the legend")
	return f
}

// LoadConfig determines the config source (file or flags) and returns a Config.
func (f *Flags) LoadConfig() (*config.Config, error) {
	if *f.ConfigFile != "" {
		cfg, err := config.Load(*f.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		return cfg, nil
	}

	if *f.In == "" {
		return nil, fmt.Errorf("-in is required when no -config file is given")
	}

	cfg := config.Default()
	cfg.Input.Path = *f.In
	cfg.Input.TimeCol = *f.TimeCol
	cfg.Input.PressureCol = *f.PressureCol
	cfg.Input.SkipRows = *f.Skip
	cfg.Input.Delimiter = *f.Delim
	cfg.Analysis = analyze.Params{
		MovingAvgWindow:             *f.Window,
		PeakFindingSensitivity:      *f.Sensitivity,
		PressureThresholdPercentile: *f.Percentile,
		VolumeEmptyPercent:          *f.EmptyPct,
		FlowVolume:                  *f.Flow,
	}
	cfg.Export.Dir = *f.OutDir
	cfg.Export.Prefix = *f.Prefix
	return cfg, nil
}

func (f *Flags) MaybeWriteConfig(cfg *config.Config) {
	if *f.WriteConfig == "" {
		return
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Printf("Warning: Failed to marshal config for writing: %v\n", err)
		return
	}
	if err := os.WriteFile(*f.WriteConfig, data, 0644); err != nil {
		fmt.Printf("Warning: Failed to write config file: %v\n", err)
		return
	}
	fmt.Printf("Configuration written to %s\n", *f.WriteConfig)
}

func runAnalyzeCmd(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	f := SetupFlags(fs)
	fs.Parse(args)

	cfg, err := f.LoadConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	f.MaybeWriteConfig(cfg)

	s := newSession()
	loadRecording(s, cfg)
	s.Analyze(cfg.Analysis).Export(cfg.Export.Dir, cfg.Export.Prefix)
	if *f.Plot {
		s.Plot(cfg.Export.Dir, cfg.Export.Prefix, viz.Options{
			ShowLabels:  *f.PlotLabels,
			ShowMarkers: *f.PlotMarkers,
			ShowLegend:  *f.PlotLegend,
		})
	}
	if err := s.Err(); err != nil {
		fmt.Printf("Analysis failed: %v\n", err)
		os.Exit(1)
	}

	res := s.Result()
	fmt.Printf("\n>>> Analysis Complete <<<\n")
	fmt.Printf("Contractions: %d peaks, %d baselines\n", len(res.Peaks), len(res.Baselines))
	fmt.Printf("Exports:      %s\n", cfg.Export.Dir)
}

// runSweepCmd re-analyzes one recording across a list of threshold
// percentiles, exporting each run under its own prefix.
func runSweepCmd(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	f := SetupFlags(fs)
	percentiles := fs.String("percentiles", "91,94,97", "Comma-separated percentile values to sweep")
	fs.Parse(args)

	cfg, err := f.LoadConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	f.MaybeWriteConfig(cfg)

	var values []float64
	for _, part := range strings.Split(*percentiles, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			fmt.Printf("Error: invalid percentile %q\n", part)
			os.Exit(1)
		}
		values = append(values, v)
	}

	s := newSession()
	loadRecording(s, cfg)
	if err := s.Err(); err != nil {
		fmt.Printf("Sweep failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sweeping pressure_threshold_percentile over %v...\n", values)
	for i, pct := range values {
		params := cfg.Analysis
		params.PressureThresholdPercentile = pct

		prefix := fmt.Sprintf("%sp%g_", cfg.Export.Prefix, pct)
		s.Analyze(params).Export(cfg.Export.Dir, prefix)
		if err := s.Err(); err != nil {
			fmt.Printf("Sweep failed at percentile %g: %v\n", pct, err)
			os.Exit(1)
		}
		res := s.Result()
		fmt.Printf("[%d/%d] percentile=%g -> %d peaks, %d thresholds\n",
			i+1, len(values), pct, len(res.Peaks), located(res))
	}

	fmt.Printf("\n>>> Sweep Complete <<<\n")
	fmt.Printf("Exports: %s\n", cfg.Export.Dir)
}

func located(res *analyze.Result) int {
	n := 0
	for _, idx := range res.PressureThresholdIdx {
		if idx != analyze.NoThreshold {
			n++
		}
	}
	return n
}

func newSession() *session.Session {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return session.New(logger)
}

func loadRecording(s *session.Session, cfg *config.Config) {
	delim, err := cfg.Input.Delim()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	s.SetFile(cfg.Input.Path).Load(cfg.Input.TimeCol, cfg.Input.PressureCol, cfg.Input.SkipRows, delim)
}
