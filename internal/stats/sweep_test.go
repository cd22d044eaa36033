package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplab/droptower/internal/dropdata"
)

func sweepSeries(n int) *dropdata.FilteredSeries {
	gravity := make([]float64, n)
	for i := range gravity {
		gravity[i] = 0.01
	}
	return &dropdata.FilteredSeries{
		Time:         rampAxis(n, 0.001),
		GravityLevel: gravity,
		AdjustedTime: rampAxis(n, 0.001),
		EndIndex:     n,
	}
}

func TestSweepStepCount(t *testing.T) {
	series := sweepSeries(2000)
	cfg := SweepConfig{Start: 0.1, End: 1.0, Step: 0.05, SamplingRate: 1000}

	result, err := Sweep(context.Background(), series, series, cfg)
	require.NoError(t, err)

	// 0.1, 0.15, … 1.0: the accumulated final step must not be lost to
	// floating point drift.
	require.Len(t, result, 19)
	assert.InDelta(t, 0.1, result[0].WindowSize, 1e-9)
	assert.InDelta(t, 1.0, result[18].WindowSize, 1e-9)
}

func TestSweepShortSeriesCompletes(t *testing.T) {
	series := sweepSeries(300) // 0.3 s of data
	cfg := SweepConfig{Start: 0.1, End: 0.5, Step: 0.1, SamplingRate: 1000}

	result, err := Sweep(context.Background(), series, series, cfg)
	require.NoError(t, err)

	require.Len(t, result, 5)
	assert.True(t, result[0].Inner.Valid)
	assert.True(t, result[2].Inner.Valid, "window of exactly the series length still fits")
	assert.False(t, result[3].Inner.Valid)
	assert.False(t, result[4].Inner.Valid, "oversized windows yield invalid entries, not errors")
}

func TestSweepDisabledSensor(t *testing.T) {
	series := sweepSeries(500)
	cfg := SweepConfig{Start: 0.1, End: 0.2, Step: 0.1, SamplingRate: 1000}

	result, err := Sweep(context.Background(), series, nil, cfg)
	require.NoError(t, err)

	for _, entry := range result {
		assert.True(t, entry.Inner.Valid)
		assert.False(t, entry.Drag.Valid)
	}
}

func TestSweepCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series := sweepSeries(500)
	cfg := SweepConfig{Start: 0.1, End: 1.0, Step: 0.05, SamplingRate: 1000}

	result, err := Sweep(ctx, series, series, cfg)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestSweepInvalidStep(t *testing.T) {
	_, err := Sweep(context.Background(), sweepSeries(10), nil, SweepConfig{Start: 0.1, End: 1, Step: 0})

	assert.ErrorIs(t, err, dropdata.ErrContract)
}
