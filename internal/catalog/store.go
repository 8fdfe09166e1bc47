// Package catalog persists saved entries in SQLite and serves paginated,
// filtered searches over them.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, registers as "sqlite"

	"listgrip/internal/controller"
	"listgrip/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id       TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	url      TEXT NOT NULL DEFAULT '',
	kind     TEXT NOT NULL,
	tags     TEXT NOT NULL DEFAULT '',
	added_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_kind ON entries(kind);
CREATE INDEX IF NOT EXISTS idx_entries_added_at ON entries(added_at);
`

// Store wraps the catalog database. *sql.DB is safe for concurrent use, so a
// single Store may serve fetches from multiple goroutines.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts an entry into the catalog
func (s *Store) Add(ctx context.Context, e domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, title, url, kind, tags, added_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.URL, e.Kind, strings.Join(e.Tags, ","), e.AddedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// Count returns the number of entries in the catalog
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Search returns one page of entries whose title or tags contain text,
// optionally narrowed to one kind. Pages are 1-based and ordered newest
// first; ties break on id so pagination is stable.
func (s *Store) Search(ctx context.Context, text string, kind domain.KindFilter, page, batchSize int) ([]domain.Entry, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", batchSize)
	}

	query := `SELECT id, title, url, kind, tags, added_at FROM entries
		WHERE (title LIKE ? COLLATE NOCASE OR tags LIKE ? COLLATE NOCASE)`
	pattern := "%" + text + "%"
	args := []any{pattern, pattern}

	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}

	query += ` ORDER BY added_at DESC, id ASC LIMIT ? OFFSET ?`
	args = append(args, batchSize, (page-1)*batchSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var tags string
		if err := rows.Scan(&e.ID, &e.Title, &e.URL, &e.Kind, &tags, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if tags != "" {
			e.Tags = strings.Split(tags, ",")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	return entries, nil
}

// Fetcher adapts the store to the search controller's fetch contract
func (s *Store) Fetcher(batchSize int) controller.FetchFunc[domain.Entry, domain.KindFilter] {
	return func(ctx context.Context, req controller.Request[domain.KindFilter]) ([]domain.Entry, error) {
		return s.Search(ctx, req.Query, req.Filter, req.Page, batchSize)
	}
}
