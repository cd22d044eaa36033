package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/droplab/droptower/internal/pipeline"
)

// Fingerprint derives the cache key for one recording: a SHA-256 over
// the file path, its modification time, the pipeline-relevant
// configuration subset and the application version. Any change to one
// of those inputs produces a new key, which is how stale entries are
// invalidated without ever being compared field by field.
//
// pipeline.Params marshals with a fixed field order, so the digest is
// stable across runs.
func Fingerprint(filePath string, mtime time.Time, params pipeline.Params, appVersion string) (string, error) {
	subset, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshaling params: %w", err)
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s:%d:%s:%s", filePath, mtime.UnixNano(), subset, appVersion)
	return hex.EncodeToString(h.Sum(nil)), nil
}
