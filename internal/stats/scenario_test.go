package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplab/droptower/internal/pipeline"
)

// Synthetic drop: ten seconds at 1 kHz. The rig vibrates hard until a
// release marker at t=1.0 s, free-falls quietly between t=3 s and
// t=8 s, and rattles again on deceleration.
func syntheticDrop() (time, accel []float64) {
	const n = 10_000
	time = make([]float64, n)
	accel = make([]float64, n)

	for i := 0; i < n; i++ {
		t := float64(i) / 1000
		time[i] = t

		switch {
		case i == 1000: // release marker
			accel[i] = 0.5
		case t >= 3 && t < 8: // free fall, deterministic jitter around 0.1 m/s²
			if i%2 == 0 {
				accel[i] = 0.09
			} else {
				accel[i] = 0.11
			}
		default: // rig vibration well above the release threshold
			if i%2 == 0 {
				accel[i] = 15
			} else {
				accel[i] = 25
			}
		}
	}
	return time, accel
}

func TestDropScenario(t *testing.T) {
	time, accel := syntheticDrop()

	p := pipeline.Params{
		GravityConstant:       9.797578,
		AccelerationThreshold: 1.0,
		EndGravityLevel:       8.0,
		UseInner:              true,
		UseDrag:               true,
	}

	data, err := pipeline.Process(time, accel, accel, p)
	require.NoError(t, err)

	// Both sensors lock onto the release marker at t=1.0 s.
	assert.Equal(t, 1000, data.Sync.InnerIndex)
	assert.Equal(t, 1000, data.Sync.DragIndex)
	assert.True(t, data.Sync.InnerFound)
	assert.True(t, data.Sync.DragFound)

	// Gravity never reaches the end level, so the filtered range runs
	// from the release to the end of the recording.
	require.NotNil(t, data.Inner)
	assert.Equal(t, 1000, data.Inner.StartIndex)
	assert.Equal(t, len(time), data.Inner.EndIndex)
	assert.Equal(t, 0.0, data.Inner.AdjustedTime[0])

	r, err := Calculate(data.Inner.GravityLevel, data.Inner.AdjustedTime, 0.1, 1000)
	require.NoError(t, err)
	require.True(t, r.Valid)

	// The quietest window lies inside the free-fall band, which spans
	// adjusted time [2, 7) after the shift.
	assert.GreaterOrEqual(t, r.StartTime, 2.0)
	assert.Less(t, r.StartTime, 7.0)
	assert.Less(t, r.MinStd, 0.02)
	assert.InDelta(t, 0.1/9.797578, r.MeanAbs, 1e-3)

	sweep, err := Sweep(context.Background(), data.Inner, data.Drag, SweepConfig{
		Start: 0.1, End: 1.0, Step: 0.05, SamplingRate: 1000,
	})
	require.NoError(t, err)
	require.Len(t, sweep, 19)
	for _, entry := range sweep {
		require.True(t, entry.Inner.Valid)
		assert.GreaterOrEqual(t, entry.Inner.StartTime, 2.0)
		assert.Less(t, entry.Inner.StartTime, 7.0)
	}
}
