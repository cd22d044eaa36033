package app

import (
	"errors"
	"flag"
	"fmt"

	"github.com/droplab/droptower/internal/config"
)

// Options holds the CLI parameters of one sweep run.
type Options struct {
	InputPath  string
	OutputHTML string
	NoCache    bool
	NoWorkbook bool
}

// NewOptionsFromCLI parses and validates the command line, returning
// the run options together with the loaded analysis configuration.
func NewOptionsFromCLI() (*Options, *config.Config, error) {
	var opts Options
	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to the configuration file (defaults are used when omitted)")
	flag.StringVar(&opts.InputPath, "i", "", "Path to the recording CSV file")
	flag.StringVar(&opts.OutputHTML, "o", "", "Path to the output HTML chart (derived from the input when omitted)")
	flag.BoolVar(&opts.NoCache, "no-cache", false, "Bypass the result cache")
	flag.BoolVar(&opts.NoWorkbook, "no-workbook", false, "Skip updating the workbook's sweep sheet")
	flag.Parse()

	if opts.InputPath == "" {
		flag.Usage()
		return nil, nil, errors.New("input file is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration file: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Sweep.Step <= 0 || cfg.Sweep.End < cfg.Sweep.Start {
		// The sweep block may be disabled in the shared config; this
		// tool runs it regardless, so the bounds must hold here.
		return nil, nil, fmt.Errorf("invalid sweep bounds: start %g, end %g, step %g",
			cfg.Sweep.Start, cfg.Sweep.End, cfg.Sweep.Step)
	}

	return &opts, cfg, nil
}
