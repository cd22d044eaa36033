// Package cache persists processed pipeline results in a SQLite
// database keyed by a content/configuration fingerprint, so repeated
// analyses of an unchanged recording skip the numeric pipeline
// entirely. The pipeline itself is pure and deterministic, which is
// what makes this memoization safe.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/droplab/droptower/internal/dropdata"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one cached result with the metadata recorded alongside it.
type Entry struct {
	Fingerprint string
	FilePath    string
	FileMtime   time.Time
	AppVersion  string
	Params      string // JSON of the pipeline parameter subset
	Processed   *dropdata.ProcessedData
	CreatedAt   time.Time
}

// Store handles cache database operations. Writes go through a WAL
// connection opened lazily; reads use a separate read-only connection.
// SQLite serializes concurrent writers on the same key, which is the
// at-most-one-writer discipline the boundary requires.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a cache store backed by the database at dbPath. The
// file and schema are created on first write.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

const upsertResultSQL = `
INSERT INTO results (fingerprint, file_path, file_mtime, app_version, params, payload)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (fingerprint) DO UPDATE SET file_path   = excluded.file_path,
                                        file_mtime  = excluded.file_mtime,
                                        app_version = excluded.app_version,
                                        params      = excluded.params,
                                        payload     = excluded.payload,
                                        created_at  = CURRENT_TIMESTAMP`

// Put stores one processed bundle under its fingerprint, replacing a
// previous entry for the same key.
func (s *Store) Put(ctx context.Context, e *Entry) (err error) {
	payload, err := json.Marshal(e.Processed)
	if err != nil {
		return fmt.Errorf("marshaling processed data: %w", err)
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, upsertResultSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(ctx, e.Fingerprint, e.FilePath, e.FileMtime.UnixNano(), e.AppVersion, e.Params, payload); err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

const selectResultSQL = `
SELECT fingerprint,
       file_path,
       file_mtime,
       app_version,
       params,
       payload,
       created_at
FROM results
WHERE fingerprint = ?`

// Get returns the cached entry for fingerprint, or nil when the cache
// has no such entry (including the case of a database that does not
// exist yet).
func (s *Store) Get(ctx context.Context, fingerprint string) (entry *Entry, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, selectResultSQL)
	if err != nil {
		// A missing database file surfaces here on the read-only
		// connection; treat it as a cache miss.
		return nil, nil
	}
	defer closeWithError(stmt, &err)

	var e Entry
	var mtime int64
	var payload []byte
	if err = stmt.QueryRowContext(ctx, fingerprint).Scan(
		&e.Fingerprint, &e.FilePath, &mtime, &e.AppVersion, &e.Params, &payload, &e.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning result: %w", err)
	}

	e.FileMtime = time.Unix(0, mtime)

	var processed dropdata.ProcessedData
	if err = json.Unmarshal(payload, &processed); err != nil {
		return nil, fmt.Errorf("unmarshaling processed data: %w", err)
	}
	e.Processed = &processed

	return &e, nil
}

const deleteByFileSQL = `DELETE FROM results WHERE file_path = ?`

// Purge removes every cached entry derived from filePath, regardless
// of fingerprint. Used when the operator forces a reprocess.
func (s *Store) Purge(ctx context.Context, filePath string) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, deleteByFileSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(ctx, filePath); err != nil {
		return fmt.Errorf("deleting results: %w", err)
	}
	return nil
}

// Close closes both database connections. It is safe to call Close
// multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}
		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
