package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/storefront/internal/cart/domain"
	pgplatform "github.com/dmehra2102/storefront/internal/platform/postgres"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) FindActive(ctx context.Context, tenantID, userID string) (*domain.Cart, error) {
	var c domain.Cart
	err := r.pool.QueryRow(ctx, `SELECT id, tenant_id, user_id, active, subtotal::text, discount_amount::text,
			discount_name, total::text, version, created_at, updated_at
		FROM carts WHERE tenant_id=$1 AND user_id=$2 AND active`, tenantID, userID).
		Scan(&c.ID, &c.TenantID, &c.UserID, &c.Active, &c.Subtotal, &c.DiscountAmount,
			&c.DiscountName, &c.Total, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find active cart: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT product_id, sku, name, quantity, unit_price::text, base_unit_price::text, total_price::text
		FROM cart_items WHERE cart_id=$1 ORDER BY position`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.Name, &it.Quantity, &it.UnitPrice, &it.BaseUnitPrice, &it.TotalPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.Restore(c, items), nil
}

func (r *Repository) Save(ctx context.Context, c *domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var tag pgconn.CommandTag
	if c.Version == 0 {
		tag, err = tx.Exec(ctx, `INSERT INTO carts (id, tenant_id, user_id, active, subtotal, discount_amount, discount_name, total, version, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5::numeric,$6::numeric,$7,$8::numeric,1,$9,$10)`,
			c.ID, c.TenantID, c.UserID, c.Active, c.Subtotal.String(), c.DiscountAmount.String(), c.DiscountName, c.Total.String(), c.CreatedAt, c.UpdatedAt)
	} else {
		tag, err = tx.Exec(ctx, `UPDATE carts SET active=$3, subtotal=$4::numeric, discount_amount=$5::numeric, discount_name=$6,
				total=$7::numeric, updated_at=$8, version=version+1
			WHERE id=$1 AND version=$2`,
			c.ID, c.Version, c.Active, c.Subtotal.String(), c.DiscountAmount.String(), c.DiscountName, c.Total.String(), c.UpdatedAt)
	}
	if pgplatform.IsUniqueViolation(err, "") {
		return domain.ErrCartConflict
	}
	if err != nil {
		return fmt.Errorf("save cart %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, c.ID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	batch := &pgx.Batch{}
	for i, it := range c.Items() {
		batch.Queue(`INSERT INTO cart_items (cart_id, position, product_id, sku, name, quantity, unit_price, base_unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7::numeric,$8::numeric,$9::numeric)`,
			c.ID, i, it.ProductID, it.SKU, it.Name, it.Quantity, it.UnitPrice.String(), it.BaseUnitPrice.String(), it.TotalPrice.String())
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert cart items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	c.Version++
	return nil
}

func (r *Repository) Retire(ctx context.Context, tenantID, cartID string, now time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE carts SET active=false, updated_at=$3, version=version+1
		WHERE id=$1 AND tenant_id=$2 AND active`, cartID, tenantID, now.UTC())
	if err != nil {
		return fmt.Errorf("retire cart %s: %w", cartID, err)
	}
	return nil
}
