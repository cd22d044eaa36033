package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToGravity(t *testing.T) {
	accel := []float64{9.8, -4.9, 0}

	gravity := ToGravity(accel, 9.8, false)

	assert.InDelta(t, 1.0, gravity[0], 1e-12)
	assert.InDelta(t, -0.5, gravity[1], 1e-12)
	assert.Equal(t, 0.0, gravity[2])
	assert.Equal(t, []float64{9.8, -4.9, 0}, accel, "input must not be modified")
}

func TestToGravityInverted(t *testing.T) {
	gravity := ToGravity([]float64{9.8, -4.9}, 9.8, true)

	assert.InDelta(t, -1.0, gravity[0], 1e-12)
	assert.InDelta(t, 0.5, gravity[1], 1e-12)
}

func TestInvertRoundTrip(t *testing.T) {
	values := []float64{1.5, -2.25, 0, 100}

	assert.Equal(t, values, Invert(Invert(values)))
}
