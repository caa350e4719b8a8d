package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	pgplatform "github.com/dmehra2102/storefront/internal/platform/postgres"
	"github.com/dmehra2102/storefront/internal/tenant/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, t domain.Tenant) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO tenants (id, name, slug, active, created_at) VALUES ($1,$2,$3,$4,$5)`,
		t.ID, t.Name, t.Slug, t.Active, t.CreatedAt)
	if pgplatform.IsUniqueViolation(err, "") {
		return domain.ErrTenantAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, active, created_at FROM tenants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Active, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
