// Package cache provides a local SQLite cache of album detail lookups.
//
// Record label and UPC require a full album fetch per album ID; caching those
// rows keeps repeat exports of overlapping playlists from refetching the same
// albums, both within a run and across runs. The cache is strictly an
// optimization: every caller must work with a nil *AlbumCache.
package cache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/donmerendolo/exportify-cli/internal/shared"
	"github.com/donmerendolo/exportify-cli/internal/spotify"
)

const schema = `
CREATE TABLE IF NOT EXISTS albums (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	release_date TEXT NOT NULL DEFAULT '',
	label TEXT NOT NULL DEFAULT '',
	upc TEXT NOT NULL DEFAULT '',
	uri TEXT NOT NULL DEFAULT '',
	fetched_at TIMESTAMP NOT NULL
);`

// AlbumCache persists full album objects keyed by album ID.
type AlbumCache struct {
	db *sql.DB
}

// Open opens (creating if needed) the album cache at the given path.
// The path can be ":memory:" for tests.
func Open(path string) (*AlbumCache, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create albums table: %w", err)
	}

	return &AlbumCache{db: db}, nil
}

// Close releases the underlying database connection.
func (c *AlbumCache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached albums for the given IDs. IDs with no cached row are
// simply absent from the result.
func (c *AlbumCache) Get(ids []string) (map[string]spotify.Album, error) {
	result := make(map[string]spotify.Album, len(ids))
	if c == nil || len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf("SELECT id, name, release_date, label, upc, uri FROM albums WHERE id IN (%s)", placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query album cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var album spotify.Album
		if err := rows.Scan(&album.ID, &album.Name, &album.ReleaseDate, &album.Label, &album.ExternalIDs.UPC, &album.URI); err != nil {
			return nil, fmt.Errorf("failed to scan cached album: %w", err)
		}
		result[album.ID] = album
	}

	return result, rows.Err()
}

// Put upserts fetched albums into the cache. Albums without an ID are skipped.
func (c *AlbumCache) Put(albums []spotify.Album) error {
	if c == nil || len(albums) == 0 {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO albums (id, name, release_date, label, upc, uri, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, release_date=excluded.release_date,
			label=excluded.label, upc=excluded.upc, uri=excluded.uri, fetched_at=excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare cache insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, album := range albums {
		if album.ID == "" {
			continue
		}
		if _, err := stmt.Exec(album.ID, album.Name, album.ReleaseDate, album.Label, album.ExternalIDs.UPC, album.URI, now); err != nil {
			return fmt.Errorf("failed to cache album %s: %w", album.ID, err)
		}
	}

	return tx.Commit()
}
