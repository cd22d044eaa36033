package ingest

import (
	"strconv"
	"strings"
)

// Keyword sets for header classification. Matching is case-insensitive
// substring containment, so a header may appear in both candidate
// lists; the caller (or the operator) picks the final assignment.
var (
	timeKeywords  = []string{"time", "時間", "秒", "sec", "t", "s"}
	accelKeywords = []string{"acc", "accel", "acceleration", "加速度", "g", "a"}
)

// ResolveColumns classifies headers as time or acceleration
// candidates by keyword. When neither category gets a keyword match,
// it falls back to numeric-type detection over the sample rows: the
// first numeric column is claimed as the time candidate and the
// remaining numeric columns become acceleration candidates.
func ResolveColumns(headers []string, sampleRows [][]string) (timeCandidates, accelCandidates []string) {
	for _, h := range headers {
		lower := strings.ToLower(h)
		if containsAny(lower, timeKeywords) {
			timeCandidates = append(timeCandidates, h)
		}
		if containsAny(lower, accelKeywords) {
			accelCandidates = append(accelCandidates, h)
		}
	}

	if len(timeCandidates) > 0 || len(accelCandidates) > 0 {
		return timeCandidates, accelCandidates
	}

	for i, h := range headers {
		if !isNumericColumn(i, sampleRows) {
			continue
		}
		if len(timeCandidates) == 0 {
			timeCandidates = append(timeCandidates, h)
		} else {
			accelCandidates = append(accelCandidates, h)
		}
	}
	return timeCandidates, accelCandidates
}

// Resolve classifies the table's own headers, sampling a handful of
// rows for the numeric fallback.
func (t *Table) Resolve() (timeCandidates, accelCandidates []string) {
	return ResolveColumns(t.Headers, t.SampleRows(10))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// isNumericColumn reports whether every non-empty sampled cell in
// column idx parses as a float, with at least one such cell.
func isNumericColumn(idx int, rows [][]string) bool {
	seen := false
	for _, row := range rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}
