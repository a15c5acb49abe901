// Package catalog persists the local view of remote file search state: which
// store is current and which files have been uploaded and imported into it.
// The remote service is the source of truth; the catalog only lets separate
// gemrag invocations share a session.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Catalog wraps a sql.DB with gemrag-specific helpers.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open creates or opens a SQLite catalog at the given path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	// modernc.org/sqlite takes pragmas in _pragma=name(value) form; the
	// mattn-style _journal_mode/_foreign_keys params are silently ignored.
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging catalog: %w", err)
	}

	c := &Catalog{db: sqlDB, path: path}
	if err := c.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// OpenMemory creates an in-memory catalog (useful for testing).
func OpenMemory() (*Catalog, error) {
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory catalog: %w", err)
	}

	c := &Catalog{db: sqlDB, path: ":memory:"}
	if err := c.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// migrate runs all schema migrations.
func (c *Catalog) migrate() error {
	_, err := c.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS stores (
    id TEXT PRIMARY KEY,
    remote_name TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    is_current INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS files (
    id TEXT PRIMARY KEY,
    store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
    remote_name TEXT NOT NULL,
    display_name TEXT NOT NULL,
    local_path TEXT NOT NULL DEFAULT '',
    size_bytes INTEGER NOT NULL DEFAULT 0,
    state TEXT NOT NULL CHECK(state IN ('pending','imported','failed')),
    error TEXT NOT NULL DEFAULT '',
    imported_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_files_store ON files(store_id);
CREATE INDEX IF NOT EXISTS idx_files_state ON files(store_id, state);
`
