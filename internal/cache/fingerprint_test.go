package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplab/droptower/internal/pipeline"
)

func TestFingerprintIsStable(t *testing.T) {
	mtime := time.Unix(1700000000, 42)
	params := pipeline.Params{GravityConstant: 9.797578, AccelerationThreshold: 1, UseInner: true}

	a, err := Fingerprint("/data/drop.csv", mtime, params, "1.4.0")
	require.NoError(t, err)
	b, err := Fingerprint("/data/drop.csv", mtime, params, "1.4.0")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintSensitivity(t *testing.T) {
	mtime := time.Unix(1700000000, 0)
	params := pipeline.Params{GravityConstant: 9.797578, UseInner: true}

	base, err := Fingerprint("/data/drop.csv", mtime, params, "1.4.0")
	require.NoError(t, err)

	changedPath, _ := Fingerprint("/data/other.csv", mtime, params, "1.4.0")
	assert.NotEqual(t, base, changedPath)

	changedMtime, _ := Fingerprint("/data/drop.csv", mtime.Add(time.Nanosecond), params, "1.4.0")
	assert.NotEqual(t, base, changedMtime)

	changedParams := params
	changedParams.AccelerationThreshold = 2
	changedKey, _ := Fingerprint("/data/drop.csv", mtime, changedParams, "1.4.0")
	assert.NotEqual(t, base, changedKey)

	changedVersion, _ := Fingerprint("/data/drop.csv", mtime, params, "1.5.0")
	assert.NotEqual(t, base, changedVersion)
}
