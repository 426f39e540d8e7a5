// Package docstore is the narrow persistence port shared by every module:
// JSON documents addressed by opaque string keys within a named collection.
//
// Backends: Memory (default, per-process) and Postgres (JSONB via pgx).
// Both copy documents through JSON so callers never share mutable state with
// the store.
package docstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Collection stores documents of type T under opaque keys.
//
// Errors: Get, Update and Delete return sentinel.ErrNotFound for unknown keys;
// Create returns sentinel.ErrConflict when the key is taken.
type Collection[T any] interface {
	Get(ctx context.Context, key string) (T, error)
	// List returns all documents in insertion order.
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, key string, doc T) error
	Upsert(ctx context.Context, key string, doc T) error
	// Update applies fn to the stored document atomically and persists the
	// result. If fn returns an error nothing is written.
	Update(ctx context.Context, key string, fn func(*T) error) (T, error)
	Delete(ctx context.Context, key string) error
}

// Open returns a Postgres collection when pool is set, otherwise an in-memory one.
func Open[T any](pool *pgxpool.Pool, collection string) Collection[T] {
	if pool == nil {
		return NewMemory[T]()
	}
	return NewPostgres[T](pool, collection)
}
