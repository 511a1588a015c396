package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"restodash/internal/domain"
)

// PostgresOutbox очередь отложенных операций календаря в таблице
// calendar_outbox. Снимок брони хранится в payload как JSONB.
type PostgresOutbox struct {
	db *DB
}

func NewPostgresOutbox(db *DB) *PostgresOutbox { return &PostgresOutbox{db: db} }

var _ OutboxRepository = (*PostgresOutbox)(nil)

func (r *PostgresOutbox) Enqueue(ctx context.Context, e *OutboxEntry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("encode outbox payload: %w", err)
	}
	q := `INSERT INTO calendar_outbox (reservation_id, op, event_id, payload)
	      VALUES ($1, $2, $3, $4)
	      RETURNING id, created_at`
	return r.db.Pool.QueryRow(ctx, q, e.ReservationID, e.Op, e.EventID, payload).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *PostgresOutbox) ListPending(ctx context.Context, limit int) ([]OutboxEntry, error) {
	q := `SELECT id, reservation_id, op, COALESCE(event_id, ''), payload, attempts, COALESCE(last_error, ''), created_at
	      FROM calendar_outbox
	      ORDER BY created_at
	      LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OutboxEntry, 0)
	for rows.Next() {
		var e OutboxEntry
		var payload []byte
		if err := rows.Scan(&e.ID, &e.ReservationID, &e.Op, &e.EventID, &payload, &e.Attempts, &e.LastError, &e.CreatedAt); err != nil {
			return nil, err
		}
		var res domain.Reservation
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, fmt.Errorf("decode outbox payload: %w", err)
		}
		e.Payload = res
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresOutbox) MarkDone(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM calendar_outbox WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresOutbox) MarkFailed(ctx context.Context, id int64, reason string) error {
	q := `UPDATE calendar_outbox SET attempts = attempts + 1, last_error = $1 WHERE id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, reason, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
