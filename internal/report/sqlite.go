package report

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based dead-link store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dead_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		token TEXT NOT NULL,
		note TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(build_id, token)
	);
	CREATE INDEX IF NOT EXISTS idx_dead_links_build_id ON dead_links(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordDeadLink stores one unresolved token, deduplicated per build.
func (s *SQLiteStore) RecordDeadLink(ctx context.Context, buildID, token, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO dead_links (build_id, token, note, created_at) VALUES (?, ?, ?, ?)",
		buildID, token, note, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert dead link: %w", err)
	}
	return nil
}

// DeadLinks retrieves all records for a build.
func (s *SQLiteStore) DeadLinks(ctx context.Context, buildID string) ([]DeadLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, token, note, created_at FROM dead_links WHERE build_id = ? ORDER BY id",
		buildID,
	)
	if err != nil {
		return nil, fmt.Errorf("query dead links: %w", err)
	}
	defer rows.Close()

	var out []DeadLink
	for rows.Next() {
		var dl DeadLink
		var ts int64
		if err := rows.Scan(&dl.ID, &dl.BuildID, &dl.Token, &dl.Note, &ts); err != nil {
			return nil, fmt.Errorf("scan dead link: %w", err)
		}
		dl.CreatedAt = time.Unix(ts, 0)
		out = append(out, dl)
	}
	return out, rows.Err()
}

// CountDeadLinks returns the number of distinct dead tokens in a build.
func (s *SQLiteStore) CountDeadLinks(ctx context.Context, buildID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dead_links WHERE build_id = ?", buildID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count dead links: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
