package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Money columns are NUMERIC(19,4); repositories move them as text so values
// stay exact on both sides.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL UNIQUE,
		active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS tenants_name_ci_idx ON tenants (lower(name))`,

	`CREATE TABLE IF NOT EXISTS products (
		id         TEXT PRIMARY KEY,
		tenant_id  TEXT NOT NULL,
		sku        TEXT NOT NULL,
		name       TEXT NOT NULL,
		base_price NUMERIC(19,4) NOT NULL CHECK (base_price >= 0),
		inventory  INTEGER NOT NULL CHECK (inventory >= 0),
		version    BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (tenant_id, sku)
	)`,

	`CREATE TABLE IF NOT EXISTS carts (
		id              TEXT PRIMARY KEY,
		tenant_id       TEXT NOT NULL,
		user_id         TEXT NOT NULL,
		active          BOOLEAN NOT NULL,
		subtotal        NUMERIC(19,4) NOT NULL,
		discount_amount NUMERIC(19,4) NOT NULL,
		discount_name   TEXT NOT NULL DEFAULT '',
		total           NUMERIC(19,4) NOT NULL,
		version         BIGINT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS carts_active_owner_idx ON carts (tenant_id, user_id) WHERE active`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		cart_id         TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		product_id      TEXT NOT NULL,
		sku             TEXT NOT NULL,
		name            TEXT NOT NULL,
		quantity        INTEGER NOT NULL CHECK (quantity > 0),
		unit_price      NUMERIC(19,4) NOT NULL,
		base_unit_price NUMERIC(19,4) NOT NULL,
		total_price     NUMERIC(19,4) NOT NULL,
		PRIMARY KEY (cart_id, sku)
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id              TEXT PRIMARY KEY,
		tenant_id       TEXT NOT NULL,
		user_id         TEXT NOT NULL,
		idempotency_key TEXT NOT NULL,
		status          TEXT NOT NULL,
		subtotal        NUMERIC(19,4) NOT NULL,
		discount_amount NUMERIC(19,4) NOT NULL,
		discount_name   TEXT NOT NULL DEFAULT '',
		total_amount    NUMERIC(19,4) NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL,
		CONSTRAINT orders_tenant_idempotency_key UNIQUE (tenant_id, idempotency_key)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id        TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		product_id      TEXT NOT NULL,
		sku             TEXT NOT NULL,
		name            TEXT NOT NULL,
		quantity        INTEGER NOT NULL CHECK (quantity > 0),
		unit_price      NUMERIC(19,4) NOT NULL,
		base_unit_price NUMERIC(19,4) NOT NULL,
		total_price     NUMERIC(19,4) NOT NULL,
		PRIMARY KEY (order_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS outbox (
		id             BIGSERIAL PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		type           TEXT NOT NULL,
		payload        JSONB NOT NULL,
		headers        JSONB NOT NULL DEFAULT '{}'::jsonb,
		traceparent    TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'pending',
		relay_id       TEXT,
		lease_until    TIMESTAMPTZ,
		retry_count    INTEGER NOT NULL DEFAULT 0,
		last_error     TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS outbox_status_idx ON outbox (status, id)`,
}

// Migrate applies the schema in one transaction. It is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for i, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return tx.Commit(ctx)
}
