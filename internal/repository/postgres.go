package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB обёртка над пулом соединений Postgres
type DB struct {
	Pool *pgxpool.Pool
}

// Open устанавливает пул соединений и проверяет его пингом
func Open(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	d.Pool.Close()
}

// Ping проверяет доступность базы, используется health-чеком
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		category VARCHAR(100),
		description TEXT,
		stock INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		customer_name VARCHAR(255) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		address VARCHAR(255) NOT NULL,
		items JSONB NOT NULL,
		total DECIMAL(10,2) NOT NULL,
		status VARCHAR(50) DEFAULT 'pendiente',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id SERIAL PRIMARY KEY,
		customer_name VARCHAR(255) NOT NULL,
		phone VARCHAR(20),
		date DATE NOT NULL,
		time TIME NOT NULL,
		people INTEGER NOT NULL,
		table_number VARCHAR(20),
		status VARCHAR(50) DEFAULT 'confirmed',
		observations TEXT,
		google_event_id VARCHAR(255),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS calendar_outbox (
		id SERIAL PRIMARY KEY,
		reservation_id INTEGER NOT NULL,
		op VARCHAR(10) NOT NULL,
		event_id VARCHAR(255),
		payload JSONB NOT NULL,
		attempts INTEGER DEFAULT 0,
		last_error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
}

// Migrate создаёт таблицы и индексы, если их ещё нет
func (d *DB) Migrate(ctx context.Context) error {
	for _, q := range migrations {
		if _, err := d.Pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
