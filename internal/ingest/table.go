// Package ingest loads raw drop-tower recordings from CSV into plain
// columnar series and resolves which columns carry time and
// acceleration data. Everything downstream of this package works on
// in-memory float slices only.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/droplab/droptower/internal/dropdata"
)

// Table is a parsed CSV recording: a header row and raw string cells.
// Column values are parsed to floats on demand; cells that do not
// parse (including empty ones) become NaN, mirroring how the data
// loggers emit gaps.
type Table struct {
	Path    string
	Headers []string

	rows [][]string
}

// Load reads and parses a CSV file. Files are expected to be UTF-8;
// loggers from the lab PCs occasionally emit Shift-JIS, so invalid
// UTF-8 input is decoded through that fallback before parsing.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", dropdata.ErrDataLoad, path, err)
	}

	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding %s: not valid UTF-8 or Shift-JIS: %w", dropdata.ErrDataLoad, path, err)
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", dropdata.ErrDataLoad, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", dropdata.ErrDataLoad, path)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &Table{
		Path:    path,
		Headers: headers,
		rows:    records[1:],
	}, nil
}

// NumRows returns the number of data rows below the header.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// HasColumn reports whether the header row contains name.
func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

// Column parses the named column into a float series. Missing columns
// are a distinct error kind naming both the missing and the available
// columns, so the caller can prompt for a manual selection.
func (t *Table) Column(name string) ([]float64, error) {
	idx := t.columnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			dropdata.ErrColumnNotFound, name, strings.Join(t.Headers, ", "))
	}

	values := make([]float64, len(t.rows))
	for i, row := range t.rows {
		values[i] = math.NaN()
		if idx >= len(row) {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64); err == nil {
			values[i] = v
		}
	}
	return values, nil
}

// SampleRows returns up to n raw data rows for column classification.
func (t *Table) SampleRows(n int) [][]string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return t.rows[:n]
}

func (t *Table) columnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}
