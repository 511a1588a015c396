package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restodash/internal/domain"
)

// PostgresReservations реализация ReservationRepository поверх pgxpool.
// Дата и время отдаются текстом в форматах YYYY-MM-DD и HH:MM, как их
// потребляет кодировщик календаря.
type PostgresReservations struct {
	db *DB
}

func NewPostgresReservations(db *DB) *PostgresReservations {
	return &PostgresReservations{db: db}
}

var _ ReservationRepository = (*PostgresReservations)(nil)

const reservationColumns = `id, customer_name, COALESCE(phone, ''),
	to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'),
	people, COALESCE(table_number, ''), status, COALESCE(observations, ''),
	COALESCE(google_event_id, ''), created_at, updated_at`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(&res.ID, &res.CustomerName, &res.Phone, &res.Date, &res.Time,
		&res.People, &res.TableNumber, &res.Status, &res.Observations,
		&res.GoogleEventID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *PostgresReservations) Create(ctx context.Context, res *domain.Reservation) error {
	q := `INSERT INTO reservations (customer_name, phone, date, time, people, table_number, status, observations)
	      VALUES ($1, $2, $3::date, $4::time, $5, $6, $7, $8)
	      RETURNING ` + reservationColumns
	created, err := scanReservation(r.db.Pool.QueryRow(ctx, q,
		res.CustomerName, res.Phone, res.Date, res.Time, res.People, res.TableNumber, res.Status, res.Observations))
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	*res = *created
	return nil
}

func (r *PostgresReservations) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *PostgresReservations) Update(ctx context.Context, res *domain.Reservation) error {
	q := `UPDATE reservations
	      SET customer_name = $1, phone = $2, date = $3::date, time = $4::time,
	          people = $5, table_number = $6, status = $7, observations = $8,
	          updated_at = CURRENT_TIMESTAMP
	      WHERE id = $9
	      RETURNING ` + reservationColumns
	updated, err := scanReservation(r.db.Pool.QueryRow(ctx, q,
		res.CustomerName, res.Phone, res.Date, res.Time, res.People, res.TableNumber,
		res.Status, res.Observations, res.ID))
	if err != nil {
		return err
	}
	*res = *updated
	return nil
}

func (r *PostgresReservations) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresReservations) List(ctx context.Context) ([]domain.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY date, time`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *PostgresReservations) SetEventID(ctx context.Context, id int64, eventID string) error {
	q := `UPDATE reservations SET google_event_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, eventID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
