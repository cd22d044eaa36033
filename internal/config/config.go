// Package config holds the analysis configuration shared by the
// droptower CLIs: column selection, pipeline parameters, sweep bounds
// and export settings, with defaults merged under a user YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/droplab/droptower/internal/pipeline"
	"github.com/droplab/droptower/internal/stats"
)

// Config represents the full analysis configuration. Defaults cover a
// standard 1000 Hz drop-tower recording; a YAML file overrides only
// the keys it names.
type Config struct {
	Settings Settings       `yaml:"settings"`
	Columns  ColumnConfig   `yaml:"columns"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Plot     PlotConfig     `yaml:"plot"`
	Cache    CacheConfig    `yaml:"cache"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// ColumnConfig selects the table columns carrying the recording.
type ColumnConfig struct {
	Time         string `yaml:"time"`
	InnerCapsule string `yaml:"innerCapsule"`
	DragShield   string `yaml:"dragShield"`
}

// PipelineConfig holds the numeric pipeline parameters.
type PipelineConfig struct {
	SamplingRate            float64 `yaml:"samplingRate"`
	GravityConstant         float64 `yaml:"gravityConstant"`
	AccelerationThreshold   float64 `yaml:"accelerationThreshold"`
	EndGravityLevel         float64 `yaml:"endGravityLevel"`
	MinSecondsAfterStart    float64 `yaml:"minSecondsAfterStart"`
	WindowSize              float64 `yaml:"windowSize"`
	InvertInnerAcceleration bool    `yaml:"invertInnerAcceleration"`
	UseInnerAcceleration    bool    `yaml:"useInnerAcceleration"`
	UseDragAcceleration     bool    `yaml:"useDragAcceleration"`
}

// SweepConfig bounds the quality sweep.
type SweepConfig struct {
	Enabled bool    `yaml:"enabled"`
	Start   float64 `yaml:"start"`
	End     float64 `yaml:"end"`
	Step    float64 `yaml:"step"`
}

// PlotConfig controls the rendered figure.
type PlotConfig struct {
	YMin float64 `yaml:"yMin"`
	YMax float64 `yaml:"yMax"`
}

// CacheConfig controls the result cache. An empty directory places the
// cache database next to the recording under results_droptower/cache.
type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Directory string `yaml:"directory"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		Settings: Settings{LogLevel: "info"},
		Columns: ColumnConfig{
			Time:         "データセット1:時間(s)",
			InnerCapsule: "データセット1:Z-axis acceleration 1(m/s²)",
			DragShield:   "データセット1:Z-axis acceleration 2(m/s²)",
		},
		Pipeline: PipelineConfig{
			SamplingRate:          1000,
			GravityConstant:       9.797578,
			AccelerationThreshold: 1.0,
			EndGravityLevel:       8,
			MinSecondsAfterStart:  0,
			WindowSize:            0.1,
			UseInnerAcceleration:  true,
			UseDragAcceleration:   true,
		},
		Sweep: SweepConfig{
			Enabled: true,
			Start:   0.1,
			End:     1.0,
			Step:    0.05,
		},
		Plot: PlotConfig{
			YMin: -1,
			YMax: 1,
		},
		Cache: CacheConfig{Enabled: true},
	}
}

// Load reads the YAML configuration at path over the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	config := New()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}
	return config, nil
}

// Validate checks the ranges the pipeline relies on. It runs before
// any data is read, so the core never sees an invalid parameter.
func (c *Config) Validate() error {
	switch {
	case c.Pipeline.SamplingRate <= 0:
		return fmt.Errorf("samplingRate must be positive, got %g", c.Pipeline.SamplingRate)
	case c.Pipeline.GravityConstant <= 0:
		return fmt.Errorf("gravityConstant must be positive, got %g", c.Pipeline.GravityConstant)
	case c.Pipeline.AccelerationThreshold <= 0:
		return fmt.Errorf("accelerationThreshold must be positive, got %g", c.Pipeline.AccelerationThreshold)
	case c.Pipeline.MinSecondsAfterStart < 0:
		return fmt.Errorf("minSecondsAfterStart must not be negative, got %g", c.Pipeline.MinSecondsAfterStart)
	case c.Pipeline.WindowSize <= 0:
		return fmt.Errorf("windowSize must be positive, got %g", c.Pipeline.WindowSize)
	case !c.Pipeline.UseInnerAcceleration && !c.Pipeline.UseDragAcceleration:
		return fmt.Errorf("at least one acceleration channel must be enabled")
	}

	if c.Sweep.Enabled {
		switch {
		case c.Sweep.Step <= 0:
			return fmt.Errorf("sweep step must be positive, got %g", c.Sweep.Step)
		case c.Sweep.End < c.Sweep.Start:
			return fmt.Errorf("sweep end %g is before start %g", c.Sweep.End, c.Sweep.Start)
		}
	}

	return nil
}

// Params returns the pipeline parameter subset; this is also what the
// cache fingerprints.
func (c *Config) Params() pipeline.Params {
	return pipeline.Params{
		GravityConstant:       c.Pipeline.GravityConstant,
		AccelerationThreshold: c.Pipeline.AccelerationThreshold,
		EndGravityLevel:       c.Pipeline.EndGravityLevel,
		MinSecondsAfterStart:  c.Pipeline.MinSecondsAfterStart,
		InvertInner:           c.Pipeline.InvertInnerAcceleration,
		UseInner:              c.Pipeline.UseInnerAcceleration,
		UseDrag:               c.Pipeline.UseDragAcceleration,
	}
}

// SweepParams returns the stats package's sweep bounds.
func (c *Config) SweepParams() stats.SweepConfig {
	return stats.SweepConfig{
		Start:        c.Sweep.Start,
		End:          c.Sweep.End,
		Step:         c.Sweep.Step,
		SamplingRate: c.Pipeline.SamplingRate,
	}
}
