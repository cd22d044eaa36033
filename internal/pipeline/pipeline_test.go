package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplab/droptower/internal/dropdata"
)

func testParams() Params {
	return Params{
		GravityConstant:       9.8,
		AccelerationThreshold: 1.0,
		EndGravityLevel:       8.0,
		MinSecondsAfterStart:  0,
		UseInner:              true,
		UseDrag:               true,
	}
}

func TestProcess(t *testing.T) {
	time := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5}
	inner := []float64{5, 5, 0.5, 0.3, 0.2, 98}
	drag := []float64{5, 0.5, 0.4, 0.3, 0.2, 98}

	data, err := Process(time, inner, drag, testParams())
	require.NoError(t, err)

	assert.Equal(t, 2, data.Sync.InnerIndex)
	assert.Equal(t, 1, data.Sync.DragIndex)

	require.NotNil(t, data.Inner)
	require.NotNil(t, data.Drag)
	assert.Equal(t, 2, data.Inner.StartIndex)
	assert.Equal(t, 5, data.Inner.EndIndex, "98 m/s² is 10 G, past the end level")
	assert.Equal(t, 1, data.Drag.StartIndex)
	assert.Equal(t, 5, data.Drag.EndIndex)
	assert.InDelta(t, 0.5/9.8, data.Inner.GravityLevel[0], 1e-12)
}

func TestProcessInvertAffectsInnerOnly(t *testing.T) {
	time := []float64{0, 0.1, 0.2}
	inner := []float64{5, 0.49, 0.49}
	drag := []float64{5, 0.49, 0.49}

	p := testParams()
	p.InvertInner = true

	data, err := Process(time, inner, drag, p)
	require.NoError(t, err)

	assert.InDelta(t, -0.05, data.Inner.GravityLevel[0], 1e-12)
	assert.InDelta(t, 0.05, data.Drag.GravityLevel[0], 1e-12)
}

func TestProcessSingleChannel(t *testing.T) {
	time := []float64{0, 0.1, 0.2}
	drag := []float64{5, 0.5, 0.5}

	p := testParams()
	p.UseInner = false

	data, err := Process(time, nil, drag, p)
	require.NoError(t, err)

	assert.Nil(t, data.Inner)
	require.NotNil(t, data.Drag)
	assert.Equal(t, 2, data.Drag.Len())
}

func TestProcessIgnoresDisabledChannelData(t *testing.T) {
	time := []float64{0, 0.1, 0.2}
	badInner := []float64{5} // wrong length, but the channel is off
	drag := []float64{5, 0.5, 0.5}

	p := testParams()
	p.UseInner = false

	data, err := Process(time, badInner, drag, p)
	require.NoError(t, err)

	assert.Nil(t, data.Inner)
	assert.NotNil(t, data.Drag)
}

func TestProcessBothChannelsDisabled(t *testing.T) {
	p := testParams()
	p.UseInner = false
	p.UseDrag = false

	_, err := Process([]float64{0}, nil, nil, p)

	assert.ErrorIs(t, err, dropdata.ErrProcessing)
}

func TestProcessInvalidGravityConstant(t *testing.T) {
	p := testParams()
	p.GravityConstant = 0

	_, err := Process([]float64{0}, []float64{0}, []float64{0}, p)

	assert.ErrorIs(t, err, dropdata.ErrContract)
}

func TestProcessLengthMismatch(t *testing.T) {
	_, err := Process([]float64{0, 0.1}, []float64{0}, []float64{0, 0.5}, testParams())

	assert.ErrorIs(t, err, dropdata.ErrContract)
}
