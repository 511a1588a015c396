package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restodash/internal/domain"
)

// PostgresMenu реализация MenuRepository поверх pgxpool
type PostgresMenu struct {
	db *DB
}

func NewPostgresMenu(db *DB) *PostgresMenu { return &PostgresMenu{db: db} }

var _ MenuRepository = (*PostgresMenu)(nil)

const menuColumns = `id, name, price, category, COALESCE(description, ''), stock, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*domain.MenuItem, error) {
	var m domain.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.Description, &m.Stock, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresMenu) Create(ctx context.Context, m *domain.MenuItem) error {
	q := `INSERT INTO menu_items (name, price, category, description, stock)
	      VALUES ($1, $2, $3, $4, $5)
	      RETURNING ` + menuColumns
	created, err := scanMenuItem(r.db.Pool.QueryRow(ctx, q, m.Name, m.Price, m.Category, m.Description, m.Stock))
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	*m = *created
	return nil
}

func (r *PostgresMenu) GetByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	q := `SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`
	return scanMenuItem(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *PostgresMenu) Update(ctx context.Context, m *domain.MenuItem) error {
	q := `UPDATE menu_items
	      SET name = $1, price = $2, category = $3, description = $4, stock = $5, updated_at = CURRENT_TIMESTAMP
	      WHERE id = $6
	      RETURNING ` + menuColumns
	updated, err := scanMenuItem(r.db.Pool.QueryRow(ctx, q, m.Name, m.Price, m.Category, m.Description, m.Stock, m.ID))
	if err != nil {
		return err
	}
	*m = *updated
	return nil
}

func (r *PostgresMenu) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresMenu) List(ctx context.Context, f MenuFilter) ([]domain.MenuItem, error) {
	q := `SELECT ` + menuColumns + ` FROM menu_items WHERE 1=1`
	args := []any{}
	if !f.IncludeUnpriced {
		q += ` AND price > 0`
	}
	if f.Category != "" {
		args = append(args, f.Category)
		q += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	q += ` ORDER BY category, name`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
