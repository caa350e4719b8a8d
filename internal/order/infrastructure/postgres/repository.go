package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/storefront/internal/order/domain"
	pgplatform "github.com/dmehra2102/storefront/internal/platform/postgres"
	"github.com/dmehra2102/storefront/pkg/outbox"
)

const idempotencyConstraint = "orders_tenant_idempotency_key"

const orderColumns = `id, tenant_id, user_id, idempotency_key, status, subtotal::text, discount_amount::text,
	discount_name, total_amount::text, created_at`

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, o domain.Order, event outbox.Record) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, tenant_id, user_id, idempotency_key, status, subtotal, discount_amount,
			discount_name, total_amount, created_at)
		VALUES ($1,$2,$3,$4,$5,$6::numeric,$7::numeric,$8,$9::numeric,$10)`,
		o.ID, o.TenantID, o.UserID, o.IdempotencyKey, string(o.Status), o.Subtotal.String(), o.DiscountAmount.String(),
		o.DiscountName, o.TotalAmount.String(), o.CreatedAt)
	if pgplatform.IsUniqueViolation(err, idempotencyConstraint) {
		return domain.ErrOrderAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for i, item := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_id, position, product_id, sku, name, quantity, unit_price, base_unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7::numeric,$8::numeric,$9::numeric)`,
			o.ID, i, item.ProductID, item.SKU, item.Name, item.Quantity,
			item.UnitPrice.String(), item.BaseUnitPrice.String(), item.TotalPrice.String())
	}
	if batch.Len() > 0 {
		if err = tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		event.AggregateType, event.AggregateID, event.Type, event.Payload, event.Headers, event.Traceparent)
	if err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, tenantID, id string) (domain.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE tenant_id=$1 AND id=$2`, tenantID, id)
}

func (r *Repository) FindByIdempotencyKey(ctx context.Context, tenantID, key string) (domain.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE tenant_id=$1 AND idempotency_key=$2`, tenantID, key)
}

func (r *Repository) findOne(ctx context.Context, q string, args ...any) (domain.Order, error) {
	var o domain.Order
	var status string
	err := r.pool.QueryRow(ctx, q, args...).
		Scan(&o.ID, &o.TenantID, &o.UserID, &o.IdempotencyKey, &status, &o.Subtotal, &o.DiscountAmount,
			&o.DiscountName, &o.TotalAmount, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("load order: %w", err)
	}
	o.Status = domain.OrderStatus(status)

	rows, err := r.pool.Query(ctx, `SELECT product_id, sku, name, quantity, unit_price::text, base_unit_price::text, total_price::text
		FROM order_items WHERE order_id=$1 ORDER BY position`, o.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.Name, &it.Quantity, &it.UnitPrice, &it.BaseUnitPrice, &it.TotalPrice); err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}
