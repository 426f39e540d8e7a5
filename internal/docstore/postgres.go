package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobgate/pkg/platform/sentinel"
)

// Postgres stores one collection in the shared documents table (see the
// 00001 migration). Keys are unique per collection.
type Postgres[T any] struct {
	pool       *pgxpool.Pool
	collection string
}

func NewPostgres[T any](pool *pgxpool.Pool, collection string) *Postgres[T] {
	return &Postgres[T]{pool: pool, collection: collection}
}

func (p *Postgres[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND key = $2`,
		p.collection, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, fmt.Errorf("document %s/%s: %w", p.collection, key, sentinel.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("get document: %w", err)
	}
	return decode[T](raw)
}

func (p *Postgres[T]) List(ctx context.Context) ([]T, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT body FROM documents WHERE collection = $1 ORDER BY created_at, key`,
		p.collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (p *Postgres[T]) Create(ctx context.Context, key string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO documents (collection, key, body, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (collection, key) DO NOTHING
	`, p.collection, key, raw)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s/%s: %w", p.collection, key, sentinel.ErrConflict)
	}
	return nil
}

func (p *Postgres[T]) Upsert(ctx context.Context, key string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO documents (collection, key, body, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (collection, key) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = now()
	`, p.collection, key, raw)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Update locks the row for the duration of fn.
func (p *Postgres[T]) Update(ctx context.Context, key string, fn func(*T) error) (doc T, err error) {
	var zero T
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return zero, fmt.Errorf("begin update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND key = $2 FOR UPDATE`,
		p.collection, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, fmt.Errorf("document %s/%s: %w", p.collection, key, sentinel.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("lock document: %w", err)
	}

	if doc, err = decode[T](raw); err != nil {
		return zero, err
	}
	if err = fn(&doc); err != nil {
		return zero, err
	}
	if raw, err = json.Marshal(doc); err != nil {
		return zero, fmt.Errorf("encode document: %w", err)
	}
	if _, err = tx.Exec(ctx,
		`UPDATE documents SET body = $3, updated_at = now() WHERE collection = $1 AND key = $2`,
		p.collection, key, raw,
	); err != nil {
		return zero, fmt.Errorf("update document: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("commit update: %w", err)
	}
	return doc, nil
}

func (p *Postgres[T]) Delete(ctx context.Context, key string) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND key = $2`,
		p.collection, key,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s/%s: %w", p.collection, key, sentinel.ErrNotFound)
	}
	return nil
}
