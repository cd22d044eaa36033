package ingest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/droplab/droptower/internal/dropdata"
)

func writeCSV(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "drop.csv", []byte("time(s),acc1,acc2\n0,9.8,9.7\n0.001,9.9,9.6\n"))

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"time(s)", "acc1", "acc2"}, table.Headers)
	assert.Equal(t, 2, table.NumRows())
	assert.True(t, table.HasColumn("acc1"))
	assert.False(t, table.HasColumn("acc3"))

	values, err := table.Column("acc1")
	require.NoError(t, err)
	assert.Equal(t, []float64{9.8, 9.9}, values)
}

func TestLoadStripsBOM(t *testing.T) {
	path := writeCSV(t, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, []byte("time,acc\n0,1\n")...))

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "time", table.Headers[0])
}

func TestLoadShiftJISFallback(t *testing.T) {
	utf8CSV := "時間(s),加速度(m/s2)\n0,9.8\n0.001,9.9\n"
	encoded, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(utf8CSV))
	require.NoError(t, err)
	path := writeCSV(t, "sjis.csv", encoded)

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "時間(s)", table.Headers[0])
	values, err := table.Column("加速度(m/s2)")
	require.NoError(t, err)
	assert.Equal(t, []float64{9.8, 9.9}, values)
}

func TestColumnGapsBecomeNaN(t *testing.T) {
	path := writeCSV(t, "gaps.csv", []byte("time,acc\n0,1\n0.001,\n0.002,oops\n0.003\n"))

	table, err := Load(path)
	require.NoError(t, err)

	values, err := table.Column("acc")
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.Equal(t, 1.0, values[0])
	assert.True(t, math.IsNaN(values[1]), "empty cell")
	assert.True(t, math.IsNaN(values[2]), "non-numeric cell")
	assert.True(t, math.IsNaN(values[3]), "short row")
}

func TestColumnNotFound(t *testing.T) {
	path := writeCSV(t, "drop.csv", []byte("time,acc\n0,1\n"))

	table, err := Load(path)
	require.NoError(t, err)

	_, err = table.Column("z-axis")
	require.ErrorIs(t, err, dropdata.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "time, acc", "error names the available columns")
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCSV(t, "empty.csv", nil)

	_, err := Load(path)
	assert.ErrorIs(t, err, dropdata.ErrDataLoad)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, dropdata.ErrDataLoad)
}
