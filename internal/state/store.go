// Package state persists build records in SQLite so operators can inspect
// recent documentation builds across runs.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// BuildRecord is one completed (or failed) documentation build.
type BuildRecord struct {
	ID              string
	Project         string
	Release         string
	Outcome         string
	DurationMS      int64
	ReferenceXMLDir string
	CreatedAt       time.Time
}

// Store implements the build-record store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a SQLite-backed store. Use ":memory:" for an in-memory
// database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		release_tag TEXT NOT NULL,
		outcome TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		reference_xml_dir TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_project ON builds(project);
	CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts a build record, assigning an ID and timestamp if unset.
func (s *Store) Record(ctx context.Context, rec *BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, project, release_tag, outcome, duration_ms, reference_xml_dir, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Project, rec.Release, rec.Outcome, rec.DurationMS, rec.ReferenceXMLDir, rec.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns the most recent build records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project, release_tag, outcome, duration_ms, reference_xml_dir, created_at
		 FROM builds ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var createdAt int64
		var xmlDir sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Project, &rec.Release, &rec.Outcome, &rec.DurationMS, &xmlDir, &createdAt); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.ReferenceXMLDir = xmlDir.String
		rec.CreatedAt = time.UnixMilli(createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
