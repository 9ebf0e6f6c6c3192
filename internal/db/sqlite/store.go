// Package sqlite implements db.Store on a local SQLite file. It is the
// single-node deployment mode; redis is the networked one.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/edulab-cloud/mentor/internal/db"
)

//go:embed schema.sql
var schema string

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store implements db.Store via database/sql.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database file and initializes the schema.
func NewStore(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: conn}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the connection pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
// SQLite is ready as soon as the file opens, so this normally returns on
// the first tick.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Append inserts an entry at the tail of a stream.
func (s *Store) Append(ctx context.Context, stream string, entry []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (stream, payload, created_at) VALUES (?, ?, ?)",
		stream, entry, time.Now().UTC(),
	)
	if err != nil {
		return &db.Error{Op: db.OpAppend, Err: err}
	}
	return nil
}

// Range returns every entry of a stream in insertion order.
func (s *Store) Range(ctx context.Context, stream string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM events WHERE stream = ? ORDER BY seq",
		stream,
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpRange, Err: err}
	}
	defer rows.Close()

	var entries [][]byte
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, &db.Error{Op: db.OpRange, Err: err}
		}
		entries = append(entries, payload)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpRange, Err: err}
	}
	return entries, nil
}
