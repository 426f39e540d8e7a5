package postgres

import (
	"context"
	"database/sql"
	"fmt"

	audit "jobgate/pkg/platform/audit"
	"jobgate/pkg/platform/tx"
)

// Store persists events in the audit_events table. Appends are idempotent
// on the event ID and join a transaction carried by the context.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `id, category, action, subject, actor, decision, reason, request_id, occurred_at`

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	_, err := tx.Use(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_events (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`,
		event.ID,
		string(event.Category),
		string(event.Action),
		event.Subject,
		event.Actor,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	rows, err := tx.Use(ctx, s.db).QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM audit_events
		WHERE subject = $1
		ORDER BY occurred_at ASC
	`, subject)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := tx.Use(ctx, s.db).QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM audit_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event    audit.Event
			category string
			action   string
		)
		if err := rows.Scan(
			&event.ID,
			&category,
			&action,
			&event.Subject,
			&event.Actor,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&event.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.Action = audit.AuditEvent(action)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
