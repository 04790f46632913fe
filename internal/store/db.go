// Package store keeps a local sqlite history of qsub submissions.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store struct {
	DB *sql.DB
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// WAL so the submitter and a finishing monitor can write
	// concurrently
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{DB: db}, nil
}

func runMigrations(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS submissions (
  job_id TEXT PRIMARY KEY,
  command TEXT NOT NULL,
  submitter TEXT NOT NULL,
  submitted_at TEXT NOT NULL,
  monitor_pid INTEGER NOT NULL DEFAULT 0,
  notified_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}
