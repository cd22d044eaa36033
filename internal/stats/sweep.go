package stats

import (
	"context"
	"fmt"

	"github.com/droplab/droptower/internal/dropdata"
)

// SweepConfig bounds a quality sweep: window sizes Start,
// Start+Step, … up to End inclusive, evaluated at SamplingRate.
type SweepConfig struct {
	Start        float64
	End          float64
	Step         float64
	SamplingRate float64
}

// Sweep repeats the stability analysis over the configured range of
// window sizes for both sensors. A series too short for a given
// window size yields an invalid entry for that step; the sweep always
// completes every step. A nil series (disabled sensor) stays invalid
// throughout.
//
// A step boundary is included while size <= End within a small
// epsilon, so float accumulation cannot drop the final step.
// Cancellation is cooperative at sweep-step granularity: ctx is
// checked between window sizes.
func Sweep(ctx context.Context, inner, drag *dropdata.FilteredSeries, cfg SweepConfig) (dropdata.QualitySweepResult, error) {
	if cfg.Step <= 0 {
		return nil, fmt.Errorf("%w: sweep step must be positive, got %g", dropdata.ErrContract, cfg.Step)
	}

	eps := cfg.Step * 1e-9

	var result dropdata.QualitySweepResult
	for size := cfg.Start; size <= cfg.End+eps; size += cfg.Step {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entry := dropdata.SweepEntry{WindowSize: size}

		var err error
		if inner != nil {
			if entry.Inner, err = CalculateSeries(inner, size, cfg.SamplingRate); err != nil {
				return nil, fmt.Errorf("inner capsule at window %gs: %w", size, err)
			}
		}
		if drag != nil {
			if entry.Drag, err = CalculateSeries(drag, size, cfg.SamplingRate); err != nil {
				return nil, fmt.Errorf("drag shield at window %gs: %w", size, err)
			}
		}

		result = append(result, entry)
	}

	return result, nil
}
