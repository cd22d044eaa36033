package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplab/droptower/internal/dropdata"
)

func rampAxis(n int, dt float64) []float64 {
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = float64(i) * dt
	}
	return axis
}

func TestCalculateConstantSeries(t *testing.T) {
	gravity := []float64{-0.5, -0.5, -0.5, -0.5, -0.5, -0.5}
	time := rampAxis(len(gravity), 0.001)

	r, err := Calculate(gravity, time, 0.003, 1000)
	require.NoError(t, err)

	require.True(t, r.Valid)
	assert.Equal(t, 0.0, r.MinStd)
	assert.InDelta(t, 0.5, r.MeanAbs, 1e-12)
	assert.Equal(t, 0.0, r.StartTime, "ties resolve to the earliest window")
}

func TestCalculateLocatesQuietestWindow(t *testing.T) {
	// Noisy head and tail around a flat middle stretch.
	gravity := []float64{1, -1, 1, -1, 0.1, 0.1, 0.1, 0.1, 1, -1, 1, -1}
	time := rampAxis(len(gravity), 0.001)

	r, err := Calculate(gravity, time, 0.004, 1000)
	require.NoError(t, err)

	require.True(t, r.Valid)
	assert.Equal(t, 0.0, r.MinStd)
	assert.InDelta(t, 0.1, r.MeanAbs, 1e-12)
	assert.InDelta(t, 0.004, r.StartTime, 1e-12)
}

func TestCalculateWindowLargerThanSeries(t *testing.T) {
	gravity := make([]float64, 50)
	time := rampAxis(len(gravity), 0.001)

	r, err := Calculate(gravity, time, 0.1, 1000) // needs 100 samples
	require.NoError(t, err)

	assert.False(t, r.Valid)
	assert.Zero(t, r.MinStd)
	assert.Zero(t, r.MeanAbs)
	assert.Zero(t, r.StartTime)
}

func TestCalculateWindowRoundsToNearest(t *testing.T) {
	gravity := []float64{0.1, 0.1, 0.1}
	time := rampAxis(len(gravity), 0.001)

	// 0.0004 s at 1 kHz rounds to zero samples.
	r, err := Calculate(gravity, time, 0.0004, 1000)
	require.NoError(t, err)
	assert.False(t, r.Valid)

	// 0.0015 s rounds up to 2 samples.
	r, err = Calculate(gravity, time, 0.0015, 1000)
	require.NoError(t, err)
	assert.True(t, r.Valid)
}

func TestCalculateLengthMismatch(t *testing.T) {
	_, err := Calculate([]float64{0.1, 0.1}, []float64{0}, 0.001, 1000)

	assert.ErrorIs(t, err, dropdata.ErrContract)
}

func TestCalculateSeriesEmpty(t *testing.T) {
	r, err := CalculateSeries(nil, 0.1, 1000)
	require.NoError(t, err)
	assert.False(t, r.Valid)

	r, err = CalculateSeries(&dropdata.FilteredSeries{}, 0.1, 1000)
	require.NoError(t, err)
	assert.False(t, r.Valid)
}
