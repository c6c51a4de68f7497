// Package config holds the file-level configuration for an analysis run:
// where the recording lives, how to parse it, the analysis parameters, and
// where output goes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/urolab/cysto/pkg/analyze"
)

// Config is the top-level configuration for one analysis run.
type Config struct {
	Input    Input          `yaml:"input"`
	Analysis analyze.Params `yaml:"analysis"`
	Export   Export         `yaml:"export"`
}

// Input describes the recording file and its column layout.
type Input struct {
	Path        string `yaml:"path"`
	TimeCol     int    `yaml:"time_col"`
	PressureCol int    `yaml:"pressure_col"`
	SkipRows    int    `yaml:"skip_rows"`
	Delimiter   string `yaml:"delimiter"` // single character; defaults to ","
}

// Export names the output directory and an optional file prefix.
type Export struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// Default returns a config with the standard analysis parameters and a
// comma-delimited two-column input layout.
func Default() *Config {
	return &Config{
		Input: Input{
			TimeCol:     0,
			PressureCol: 1,
			Delimiter:   ",",
		},
		Analysis: analyze.DefaultParams(),
		Export: Export{
			Dir: "./exports",
		},
	}
}

// Load reads a yaml config file and fills in defaults for omitted analysis
// parameters. A parameter explicitly set to an invalid value is left alone
// here and rejected by the pipeline's own validation, so the error names the
// offending field.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Fill defaults. Zero values are invalid domains for every analysis
	// parameter, so an omitted field is distinguishable from a chosen one.
	def := analyze.DefaultParams()
	if cfg.Analysis.MovingAvgWindow == 0 {
		cfg.Analysis.MovingAvgWindow = def.MovingAvgWindow
	}
	if cfg.Analysis.PeakFindingSensitivity == 0 {
		cfg.Analysis.PeakFindingSensitivity = def.PeakFindingSensitivity
	}
	if cfg.Analysis.PressureThresholdPercentile == 0 {
		cfg.Analysis.PressureThresholdPercentile = def.PressureThresholdPercentile
	}
	if cfg.Analysis.VolumeEmptyPercent == 0 {
		cfg.Analysis.VolumeEmptyPercent = def.VolumeEmptyPercent
	}
	if cfg.Analysis.FlowVolume == 0 {
		cfg.Analysis.FlowVolume = def.FlowVolume
	}
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ","
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "./exports"
	}
	return &cfg, nil
}

// Delim returns the input delimiter as a rune.
func (in Input) Delim() (rune, error) {
	rs := []rune(in.Delimiter)
	if len(rs) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", in.Delimiter)
	}
	return rs[0], nil
}
