package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is a handle on the snapshot database. One file holds every scanned
// root's history; snapshots are keyed by root path.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the snapshot database at the given path, creating
// the parent directory when needed. The schema is migrated on every open,
// so a handle is always at the current version.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	// WAL keeps track/watch reads from blocking while a scan is being
	// saved; the busy timeout covers a watch daemon and a foreground
	// command writing to the same file.
	return open(dbPath, []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	})
}

// OpenInMemory opens a private in-memory snapshot database for tests.
func OpenInMemory() (*DB, error) {
	return open(":memory:", []string{"PRAGMA foreign_keys=ON"})
}

func open(dsn string, pragmas []string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB for advanced queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
