package attestation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"jobgate/pkg/platform/tx"
)

// PostgresRevocations stores the list in attestation_revocations.
type PostgresRevocations struct {
	db    *sql.DB
	clock Clock
}

func NewPostgresRevocations(db *sql.DB, clock Clock) *PostgresRevocations {
	if clock == nil {
		clock = time.Now
	}
	return &PostgresRevocations{db: db, clock: clock}
}

func (p *PostgresRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	if jti == "" {
		return nil
	}
	_, err := tx.Use(ctx, p.db).ExecContext(ctx, `
		INSERT INTO attestation_revocations (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`, jti, p.clock().Add(ttl))
	if err != nil {
		return fmt.Errorf("revoke attestation: %w", err)
	}
	return nil
}

// RevokeMany inserts all jtis in one statement via unnest.
func (p *PostgresRevocations) RevokeMany(ctx context.Context, jtis []string, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	valid := nonEmpty(jtis)
	if len(valid) == 0 {
		return nil
	}
	_, err := tx.Use(ctx, p.db).ExecContext(ctx, `
		INSERT INTO attestation_revocations (jti, expires_at)
		SELECT unnest($1::text[]), $2
		ON CONFLICT (jti) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`, pq.Array(valid), p.clock().Add(ttl))
	if err != nil {
		return fmt.Errorf("revoke attestations batch: %w", err)
	}
	return nil
}

func (p *PostgresRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var expiresAt time.Time
	err := tx.Use(ctx, p.db).QueryRowContext(ctx,
		`SELECT expires_at FROM attestation_revocations WHERE jti = $1`, jti,
	).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check attestation revocation: %w", err)
	}
	return !p.clock().After(expiresAt), nil
}
