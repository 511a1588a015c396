package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restodash/internal/domain"
)

// PostgresOrders реализация OrderRepository поверх pgxpool.
// Позиции заказа хранятся в колонке items как JSONB.
type PostgresOrders struct {
	db *DB
}

func NewPostgresOrders(db *DB) *PostgresOrders { return &PostgresOrders{db: db} }

var _ OrderRepository = (*PostgresOrders)(nil)

const orderColumns = `id, customer_name, phone, address, items, total, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var items []byte
	err := row.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &items, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return &o, nil
}

func (r *PostgresOrders) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	q := `INSERT INTO orders (customer_name, phone, address, items, total, status)
	      VALUES ($1, $2, $3, $4, $5, $6)
	      RETURNING ` + orderColumns
	created, err := scanOrder(r.db.Pool.QueryRow(ctx, q, o.CustomerName, o.Phone, o.Address, items, o.Total, o.Status))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	*o = *created
	return nil
}

func (r *PostgresOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *PostgresOrders) Update(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	q := `UPDATE orders
	      SET customer_name = $1, phone = $2, address = $3, items = $4, total = $5, status = $6, updated_at = CURRENT_TIMESTAMP
	      WHERE id = $7
	      RETURNING ` + orderColumns
	updated, err := scanOrder(r.db.Pool.QueryRow(ctx, q, o.CustomerName, o.Phone, o.Address, items, o.Total, o.Status, o.ID))
	if err != nil {
		return err
	}
	*o = *updated
	return nil
}

// UpdateStatus меняет только статус и обновляет updated_at
func (r *PostgresOrders) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	q := `UPDATE orders SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
	      RETURNING ` + orderColumns
	return scanOrder(r.db.Pool.QueryRow(ctx, q, status, id))
}

func (r *PostgresOrders) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	if f.From != nil {
		args = append(args, *f.From)
		q += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		q += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}
