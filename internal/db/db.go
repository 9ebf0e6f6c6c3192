// Package db defines the storage facade backing the interaction ledger.
package db

import (
	"context"
	"time"
)

// Store combines the operations the ledger needs from a storage backend.
type Store interface {
	Pinger
	StreamStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StreamStore provides append-only event streams. A stream preserves
// insertion order; Range returns entries oldest first.
type StreamStore interface {
	Append(ctx context.Context, stream string, entry []byte) error
	Range(ctx context.Context, stream string) ([][]byte, error)
}
