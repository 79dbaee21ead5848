// Package cache persists conditional-GET validators and response bodies per
// URL, so repeat retrievals can send If-None-Match / If-Modified-Since and
// reuse the stored body on a 304.
package cache

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Entry is one cached response.
type Entry struct {
	URL          string
	ETag         string
	LastModified string
	Status       int
	Body         []byte
	FetchedAt    time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached entry for url, or nil when none exists.
func (s *Store) Get(url string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT url, etag, last_modified, status, body, fetched_at
		 FROM responses WHERE url = ?`, url)

	var e Entry
	err := row.Scan(&e.URL, &e.ETag, &e.LastModified, &e.Status, &e.Body, &e.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return &e, nil
}

// Put upserts the entry for its URL.
func (s *Store) Put(e Entry) error {
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO responses (url, etag, last_modified, status, body, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		   etag = excluded.etag,
		   last_modified = excluded.last_modified,
		   status = excluded.status,
		   body = excluded.body,
		   fetched_at = excluded.fetched_at`,
		e.URL, e.ETag, e.LastModified, e.Status, e.Body, e.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}
