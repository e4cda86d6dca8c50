package db

import "context"

// schema is applied at startup. The partial unique index on cash_sessions and
// the unique order reference on invoices are the enforcement points for the
// single-open-session and one-invoice-per-order invariants; application code
// relies on them under concurrent writers.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'active',
		role          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id         BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		phone      TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_categories (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id          BIGSERIAL PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES menu_categories(id),
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		status      TEXT NOT NULL DEFAULT 'available',
		image       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS supplies (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		stock       NUMERIC(12,2) NOT NULL DEFAULT 0,
		unit        TEXT NOT NULL DEFAULT 'u',
		status      TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS supply_movements (
		id          BIGSERIAL PRIMARY KEY,
		supply_id   BIGINT NOT NULL REFERENCES supplies(id),
		kind        TEXT NOT NULL CHECK (kind IN ('in', 'out')),
		quantity    NUMERIC(12,2) NOT NULL CHECK (quantity > 0),
		note        TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_item_ingredients (
		id        BIGSERIAL PRIMARY KEY,
		item_id   BIGINT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		supply_id BIGINT NOT NULL REFERENCES supplies(id),
		quantity  NUMERIC(12,2) NOT NULL CHECK (quantity > 0),
		UNIQUE (item_id, supply_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id          BIGSERIAL PRIMARY KEY,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		status      TEXT NOT NULL,
		kind        TEXT NOT NULL,
		total       NUMERIC(12,2) NOT NULL CHECK (total >= 0),
		note        TEXT NOT NULL DEFAULT '',
		customer_id BIGINT REFERENCES customers(id),
		staff_id    BIGINT NOT NULL REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id         BIGSERIAL PRIMARY KEY,
		order_id   BIGINT NOT NULL REFERENCES orders(id),
		item_id    BIGINT NOT NULL REFERENCES menu_items(id),
		quantity   INT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
		subtotal   NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_status_log (
		id         BIGSERIAL PRIMARY KEY,
		order_id   BIGINT NOT NULL REFERENCES orders(id),
		status     TEXT NOT NULL,
		changed_by BIGINT NOT NULL,
		changed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		note       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS cash_sessions (
		id            BIGSERIAL PRIMARY KEY,
		opened_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		closed_at     TIMESTAMPTZ,
		opening_float NUMERIC(12,2) NOT NULL CHECK (opening_float > 0),
		closing_total NUMERIC(12,2),
		status        TEXT NOT NULL DEFAULT 'open',
		opened_by     BIGINT NOT NULL REFERENCES users(id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS cash_sessions_one_open
		ON cash_sessions (status) WHERE status = 'open'`,
	`CREATE TABLE IF NOT EXISTS cash_movements (
		id          BIGSERIAL PRIMARY KEY,
		session_id  BIGINT NOT NULL REFERENCES cash_sessions(id),
		kind        TEXT NOT NULL CHECK (kind IN ('open', 'sale', 'close')),
		amount      NUMERIC(12,2) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id             BIGSERIAL PRIMARY KEY,
		order_id       BIGINT UNIQUE REFERENCES orders(id),
		issued_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		subtotal       NUMERIC(12,2) NOT NULL,
		tax            NUMERIC(12,2) NOT NULL,
		total          NUMERIC(12,2) NOT NULL,
		payment_method TEXT NOT NULL DEFAULT 'cash',
		status         TEXT NOT NULL DEFAULT 'issued'
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_lines (
		id         BIGSERIAL PRIMARY KEY,
		invoice_id BIGINT NOT NULL REFERENCES invoices(id),
		item_name  TEXT NOT NULL,
		quantity   INT NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL,
		subtotal   NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		event_date  TIMESTAMPTZ NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reset_codes (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		code       TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status)`,
	`CREATE INDEX IF NOT EXISTS cash_movements_session_idx ON cash_movements (session_id)`,
	`CREATE INDEX IF NOT EXISTS order_lines_order_idx ON order_lines (order_id)`,
}

// InitSchema creates missing tables and indexes.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return storageErr("init schema", err)
		}
	}
	return nil
}
