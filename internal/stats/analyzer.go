// Package stats grades experiment quality: it locates the most stable
// sub-interval of a filtered gravity-level series and sweeps that
// analysis across window sizes to build a quality-vs-scale curve.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/droplab/droptower/internal/dropdata"
)

// Calculate slides a window of round(windowSize * samplingRate)
// contiguous samples across the series with stride 1 and returns the
// position with the smallest population standard deviation, reporting
// its start time, mean absolute gravity level and that deviation.
// Ties go to the earliest window.
//
// A window larger than the series is an expected condition (short
// recording, large window) and yields an invalid StatResult, not an
// error. A length mismatch between gravity and time is a contract
// violation.
func Calculate(gravity, time []float64, windowSize, samplingRate float64) (dropdata.StatResult, error) {
	if len(gravity) != len(time) {
		return dropdata.StatResult{}, fmt.Errorf("%w: gravity has %d samples, time has %d",
			dropdata.ErrContract, len(gravity), len(time))
	}

	windowSamples := int(math.Round(windowSize * samplingRate))
	if windowSamples < 1 || len(gravity) < windowSamples {
		return dropdata.StatResult{}, nil
	}

	bestIndex := 0
	bestStd := math.Inf(1)
	for i := 0; i+windowSamples <= len(gravity); i++ {
		std := stat.PopStdDev(gravity[i:i+windowSamples], nil)
		if std < bestStd {
			bestStd = std
			bestIndex = i
		}
	}

	absWindow := make([]float64, windowSamples)
	for i, v := range gravity[bestIndex : bestIndex+windowSamples] {
		absWindow[i] = math.Abs(v)
	}

	return dropdata.StatResult{
		MeanAbs:   stat.Mean(absWindow, nil),
		StartTime: time[bestIndex],
		MinStd:    bestStd,
		Valid:     true,
	}, nil
}

// CalculateSeries runs Calculate over a filtered series using its
// adjusted time axis. A nil or empty series yields an invalid result.
func CalculateSeries(series *dropdata.FilteredSeries, windowSize, samplingRate float64) (dropdata.StatResult, error) {
	if series.Len() == 0 {
		return dropdata.StatResult{}, nil
	}
	return Calculate(series.GravityLevel, series.AdjustedTime, windowSize, samplingRate)
}
