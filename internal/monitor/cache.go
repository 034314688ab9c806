package monitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// FileKey identifies a file version: the same path with a new size or
// modification time is a different key.
type FileKey struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Reading is what a scan extracts from one file.
type Reading struct {
	Date    time.Time
	MaxFlux float64
}

// Store remembers readings between scans.
type Store interface {
	Lookup(ctx context.Context, key FileKey) (Reading, bool, error)
	Save(ctx context.Context, key FileKey, r Reading) error
}

// Cache is a Store backed by SQLite.
type Cache struct {
	db *sql.DB
}

var _ Store = (*Cache)(nil)

// OpenCache opens (creating if needed) the cache database at path;
// ":memory:" keeps it in memory.
func OpenCache(ctx context.Context, path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite cache at %q: %w", path, err)
	}
	// a single connection avoids "database is locked" and keeps :memory: shared
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open SQLite cache at %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS readings (
			path TEXT PRIMARY KEY,
			size INTEGER NOT NULL,
			mtime INTEGER NOT NULL,
			date TEXT NOT NULL,
			maxflux REAL NOT NULL
		);
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Lookup returns the reading stored for key, if the file is unchanged.
func (c *Cache) Lookup(ctx context.Context, key FileKey) (Reading, bool, error) {
	var (
		date string
		flux float64
	)
	row := c.db.QueryRowContext(ctx,
		`SELECT date, maxflux FROM readings WHERE path = ? AND size = ? AND mtime = ?`,
		key.Path, key.Size, key.ModTime.UnixNano())
	if err := row.Scan(&date, &flux); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reading{}, false, nil
		}
		return Reading{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return Reading{}, false, fmt.Errorf("cached date of %s: %w", key.Path, err)
	}
	return Reading{Date: t, MaxFlux: flux}, true, nil
}

// Save inserts or replaces the reading of a path.
func (c *Cache) Save(ctx context.Context, key FileKey, r Reading) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO readings (path, size, mtime, date, maxflux) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET size = excluded.size, mtime = excluded.mtime,
			date = excluded.date, maxflux = excluded.maxflux`,
		key.Path, key.Size, key.ModTime.UnixNano(), r.Date.UTC().Format(time.RFC3339Nano), r.MaxFlux)
	return err
}

// Len is the number of cached files.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readings`).Scan(&n)
	return n, err
}
