package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`
	selectValue = `SELECT value FROM kv WHERE key = ?`
	upsertValue = `INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, saved_at = CURRENT_TIMESTAMP`
)

// SQLite stores the snapshot in a single row of a key/value table.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens, or creates, the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Key: path, Err: err}
	}
	// sqlite does not support concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "open", Key: path, Err: err}
	}
	return &SQLite{db: db, path: path}, nil
}

// Load implements folio.SnapshotStore.
func (s *SQLite) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, selectValue, Key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: s.path + "#" + Key, Err: err}
	}
	return data, nil
}

// Save implements folio.SnapshotStore.
func (s *SQLite) Save(ctx context.Context, data []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertValue, Key, data); err != nil {
		return &PersistenceError{Op: "save", Key: s.path + "#" + Key, Err: err}
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }
