package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reserves stock with a conditional UPDATE on products, so the
// check and the decrement happen in one statement.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{
		log:  log,
		pool: pool,
	}
}

func (r *Repository) DecrementIfAvailable(ctx context.Context, productID string, quantity int) (bool, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE products SET inventory = inventory - $2, version = version + 1
		WHERE id = $1 AND inventory >= $2`, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("reserve %s: %w", productID, err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *Repository) Increment(ctx context.Context, productID string, quantity int) error {
	ct, err := r.pool.Exec(ctx, `UPDATE products SET inventory = inventory + $2, version = version + 1 WHERE id = $1`,
		productID, quantity)
	if err != nil {
		return fmt.Errorf("release %s: %w", productID, err)
	}
	if ct.RowsAffected() == 0 {
		r.log.WarnContext(ctx, "release for unknown product", "product_id", productID)
	}
	return nil
}
