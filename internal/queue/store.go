// Package queue provides a durable retry queue persisted in sqlite. One
// generic implementation backs both delivery paths; eligibility is a
// pluggable policy so the telemetry queue can stay a plain FIFO while the
// portal queue carries per-entry backoff state.
package queue

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store owns the sqlite outbox file shared by all queue instances.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the outbox database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open outbox: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS outbox (
			id                 TEXT PRIMARY KEY,
			queue              TEXT NOT NULL,
			payload            BLOB NOT NULL,
			enqueued_at_ms     BIGINT NOT NULL,
			attempts           INTEGER NOT NULL DEFAULT 0,
			next_attempt_at_ms BIGINT NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS outbox_queue_order
			ON outbox(queue, enqueued_at_ms);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create outbox schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
