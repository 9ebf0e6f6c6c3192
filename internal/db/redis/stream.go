package redis

import (
	"context"

	"github.com/edulab-cloud/mentor/internal/db"
)

// Append pushes an entry onto the tail of a stream (RPUSH).
func (s *Store) Append(ctx context.Context, stream string, entry []byte) error {
	cmd := s.client.B().Rpush().Key(stream).Element(string(entry)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpAppend, Err: err}
	}
	return nil
}

// Range returns every entry of a stream in insertion order (LRANGE 0 -1).
func (s *Store) Range(ctx context.Context, stream string) ([][]byte, error) {
	cmd := s.client.B().Lrange().Key(stream).Start(0).Stop(-1).Build()
	items, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpRange, Err: err}
	}

	entries := make([][]byte, len(items))
	for i, it := range items {
		entries[i] = []byte(it)
	}
	return entries, nil
}
