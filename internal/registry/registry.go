package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"discogsrec/internal/fileutil"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"
)

// schema is applied on every Open; CREATE TABLE IF NOT EXISTS makes it
// idempotent across versions that share the same shape.
const schema = `
CREATE TABLE IF NOT EXISTS environments (
	root          TEXT PRIMARY KEY,
	created_at    INTEGER NOT NULL,
	last_used_at  INTEGER NOT NULL
)`

// Entry describes one recorded environment.
type Entry struct {
	Root       string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Registry is a handle to the environments database. Safe for concurrent
// use; SQLite serializes writers internally.
type Registry struct {
	db *sql.DB
}

// Open opens (creating if necessary) the registry database at path and
// applies the schema. The parent directory is created when missing.
func Open(path string) (*Registry, error) {
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, err
	}

	// WAL keeps concurrent CLI invocations from tripping over each other;
	// a busy timeout covers the short overlap windows. Durability needs are
	// modest (bookkeeping data), so synchronous stays at NORMAL.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply registry schema: %w", err)
	}
	return &Registry{db: db}, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Record inserts root as a provisioned environment, or refreshes its
// last-used time if it is already known.
func (r *Registry) Record(ctx context.Context, root string) error {
	now := time.Now().Unix()
	const q = `
		INSERT INTO environments (root, created_at, last_used_at) VALUES (?, ?, ?)
		ON CONFLICT(root) DO UPDATE SET last_used_at = excluded.last_used_at`
	if _, err := r.db.ExecContext(ctx, q, root, now, now); err != nil {
		return fmt.Errorf("record environment %s: %w", root, err)
	}
	return nil
}

// Touch refreshes the last-used time of root. Unknown roots are ignored.
func (r *Registry) Touch(ctx context.Context, root string) error {
	const q = `UPDATE environments SET last_used_at = ? WHERE root = ?`
	if _, err := r.db.ExecContext(ctx, q, time.Now().Unix(), root); err != nil {
		return fmt.Errorf("touch environment %s: %w", root, err)
	}
	return nil
}

// Remove forgets root. Removing an unknown root is not an error.
func (r *Registry) Remove(ctx context.Context, root string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM environments WHERE root = ?`, root); err != nil {
		return fmt.Errorf("remove environment %s: %w", root, err)
	}
	return nil
}

// List returns all recorded environments ordered by most recently used.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	const q = `SELECT root, created_at, last_used_at FROM environments ORDER BY last_used_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list environments: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err() below catches read errors

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created, used int64
		if err := rows.Scan(&e.Root, &created, &used); err != nil {
			return nil, fmt.Errorf("scan environment row: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		e.LastUsedAt = time.Unix(used, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate environment rows: %w", err)
	}
	return entries, nil
}
