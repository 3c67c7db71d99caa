package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied statement by statement; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL UNIQUE CHECK (title IN ('Basic','Classic','Business')),
		price      NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		phone        TEXT NOT NULL DEFAULT '',
		plan_id      TEXT REFERENCES plans(id),
		status       TEXT NOT NULL DEFAULT 'pendente',
		payment_date DATE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS members_status_idx ON members(status)`,
	`CREATE TABLE IF NOT EXISTS brands (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		brand_id    TEXT REFERENCES brands(id) ON DELETE SET NULL,
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		is_service  BOOLEAN NOT NULL DEFAULT false,
		image_url   TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS barbers (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		phone           TEXT NOT NULL DEFAULT '',
		commission_rate NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (commission_rate BETWEEN 0 AND 100),
		active          BOOLEAN NOT NULL DEFAULT true,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id             TEXT PRIMARY KEY,
		total          NUMERIC(12,2) NOT NULL,
		payment_method TEXT NOT NULL CHECK (payment_method IN ('cash','card','mobile-wallet')),
		status         TEXT NOT NULL DEFAULT 'completed',
		cashier_id     TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS sales_created_at_idx ON sales(created_at)`,
	`CREATE TABLE IF NOT EXISTS sale_sellers (
		sale_id           TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		barber_id         TEXT NOT NULL,
		barber_name       TEXT NOT NULL,
		commission_rate   NUMERIC(5,2) NOT NULL,
		commission_amount NUMERIC(12,2) NOT NULL,
		PRIMARY KEY (sale_id, barber_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		sale_id       TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		line_no       INTEGER NOT NULL,
		product_id    TEXT NOT NULL,
		product_name  TEXT NOT NULL DEFAULT '',
		quantity      INTEGER NOT NULL CHECK (quantity >= 1),
		unit_price    NUMERIC(12,2) NOT NULL,
		is_service    BOOLEAN NOT NULL DEFAULT false,
		PRIMARY KEY (sale_id, line_no)
	)`,
	`INSERT INTO plans(id, title, price) VALUES
		('basic', 'Basic', 30.00), ('classic', 'Classic', 40.00), ('business', 'Business', 60.00)
	 ON CONFLICT (id) DO NOTHING`,
}

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
