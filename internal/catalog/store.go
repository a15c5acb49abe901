package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// File states tracked locally.
const (
	StatePending  = "pending"
	StateImported = "imported"
	StateFailed   = "failed"
)

// StoreRecord is the local record of a remote file search store.
type StoreRecord struct {
	ID          string
	RemoteName  string
	DisplayName string
	CreatedAt   time.Time
	Current     bool
}

// FileRecord is the local record of a file uploaded to a store.
type FileRecord struct {
	ID          string
	StoreID     string
	RemoteName  string
	DisplayName string
	LocalPath   string
	SizeBytes   int64
	State       string
	Error       string
	ImportedAt  time.Time
}

// SaveStore records a newly created remote store and makes it current.
func (c *Catalog) SaveStore(ctx context.Context, remoteName, displayName string) (*StoreRecord, error) {
	rec := &StoreRecord{
		ID:          uuid.New().String(),
		RemoteName:  remoteName,
		DisplayName: displayName,
		Current:     true,
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE stores SET is_current = 0`); err != nil {
		return nil, fmt.Errorf("clearing current store: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stores (id, remote_name, display_name, is_current)
		VALUES (?, ?, ?, 1)`,
		rec.ID, rec.RemoteName, rec.DisplayName,
	); err != nil {
		return nil, fmt.Errorf("inserting store: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing store: %w", err)
	}
	return rec, nil
}

// CurrentStore returns the current store record, or nil when no store has
// been created yet.
func (c *Catalog) CurrentStore(ctx context.Context) (*StoreRecord, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, remote_name, display_name, created_at, is_current
		FROM stores WHERE is_current = 1`)

	rec, err := scanStore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// StoreByRemoteName looks up a store record by its remote resource name.
func (c *Catalog) StoreByRemoteName(ctx context.Context, remoteName string) (*StoreRecord, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, remote_name, display_name, created_at, is_current
		FROM stores WHERE remote_name = ?`, remoteName)

	rec, err := scanStore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// SetCurrent marks the store with the given remote name as current.
func (c *Catalog) SetCurrent(ctx context.Context, remoteName string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE stores SET is_current = 0`); err != nil {
		return fmt.Errorf("clearing current store: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE stores SET is_current = 1 WHERE remote_name = ?`, remoteName)
	if err != nil {
		return fmt.Errorf("setting current store: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unknown store %s", remoteName)
	}
	return tx.Commit()
}

// DeleteStore removes a store record together with its file records.
func (c *Catalog) DeleteStore(ctx context.Context, remoteName string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM files WHERE store_id IN (SELECT id FROM stores WHERE remote_name = ?)`,
		remoteName,
	); err != nil {
		return fmt.Errorf("deleting file records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM stores WHERE remote_name = ?`, remoteName); err != nil {
		return fmt.Errorf("deleting store record: %w", err)
	}
	return tx.Commit()
}

// RecordFile inserts a pending file record for a freshly uploaded file and
// returns its ID.
func (c *Catalog) RecordFile(ctx context.Context, rec FileRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO files (id, store_id, remote_name, display_name, local_path, size_bytes, state)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StoreID, rec.RemoteName, rec.DisplayName, rec.LocalPath, rec.SizeBytes, StatePending,
	)
	if err != nil {
		return "", fmt.Errorf("inserting file record: %w", err)
	}
	return rec.ID, nil
}

// MarkImported transitions a file record to the imported state.
func (c *Catalog) MarkImported(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE files SET state = ?, error = '', imported_at = datetime('now') WHERE id = ?`,
		StateImported, id,
	)
	if err != nil {
		return fmt.Errorf("marking file imported: %w", err)
	}
	return nil
}

// MarkFailed transitions a file record to the failed state with a detail string.
func (c *Catalog) MarkFailed(ctx context.Context, id, detail string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE files SET state = ?, error = ? WHERE id = ?`,
		StateFailed, detail, id,
	)
	if err != nil {
		return fmt.Errorf("marking file failed: %w", err)
	}
	return nil
}

// FilesForStore returns all file records for a store, newest last.
func (c *Catalog) FilesForStore(ctx context.Context, storeID string) ([]FileRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, store_id, remote_name, display_name, local_path, size_bytes, state, error, imported_at
		FROM files WHERE store_id = ? ORDER BY rowid`, storeID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var rec FileRecord
		var importedAt sql.NullString
		if err := rows.Scan(&rec.ID, &rec.StoreID, &rec.RemoteName, &rec.DisplayName,
			&rec.LocalPath, &rec.SizeBytes, &rec.State, &rec.Error, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning file record: %w", err)
		}
		if importedAt.Valid {
			rec.ImportedAt = parseTimestamp(importedAt.String)
		}
		files = append(files, rec)
	}
	return files, rows.Err()
}

// ImportedCount returns how many files have completed import into a store.
// A count of zero means queries against the store cannot be grounded yet.
func (c *Catalog) ImportedCount(ctx context.Context, storeID string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM files WHERE store_id = ? AND state = ?`,
		storeID, StateImported,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting imported files: %w", err)
	}
	return n, nil
}

// DeleteFiles removes all file records for a store.
func (c *Catalog) DeleteFiles(ctx context.Context, storeID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM files WHERE store_id = ?`, storeID); err != nil {
		return fmt.Errorf("deleting file records: %w", err)
	}
	return nil
}

func scanStore(row *sql.Row) (*StoreRecord, error) {
	var rec StoreRecord
	var createdAt string
	var current int
	if err := row.Scan(&rec.ID, &rec.RemoteName, &rec.DisplayName, &createdAt, &current); err != nil {
		return nil, err
	}
	rec.CreatedAt = parseTimestamp(createdAt)
	rec.Current = current != 0
	return &rec, nil
}

// parseTimestamp handles the two formats sqlite emits for datetime values.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
