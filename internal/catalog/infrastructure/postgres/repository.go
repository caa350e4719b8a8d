package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
	pgplatform "github.com/dmehra2102/storefront/internal/platform/postgres"
)

const productColumns = `id, tenant_id, sku, name, base_price::text, inventory, version, created_at`

var sortColumns = map[domain.SortField]string{
	domain.SortByName:      "lower(name)",
	domain.SortBySKU:       "sku",
	domain.SortByPrice:     "base_price",
	domain.SortByInventory: "inventory",
	domain.SortByCreatedAt: "created_at",
}

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, p domain.Product) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO products (id, tenant_id, sku, name, base_price, inventory, version, created_at)
		VALUES ($1,$2,$3,$4,$5::numeric,$6,$7,$8)`,
		p.ID, p.TenantID, p.SKU, p.Name, p.BasePrice.String(), p.Inventory, p.Version, p.CreatedAt)
	if pgplatform.IsUniqueViolation(err, "") {
		return domain.ErrProductAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) FindBySKU(ctx context.Context, tenantID, sku string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id=$1 AND sku=$2`, tenantID, sku)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("find product %s: %w", sku, err)
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context, tenantID string, f domain.Filter) (domain.Page, error) {
	where, args := buildWhere(tenantID, f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return domain.Page{}, fmt.Errorf("count products: %w", err)
	}

	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	order := fmt.Sprintf("%s %s, sku %s", sortColumns[f.SortBy], dir, dir)
	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, order, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return domain.Page{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	page := domain.Page{Items: []domain.Product{}, Total: total, Limit: f.Limit, Offset: f.Offset}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return domain.Page{}, err
		}
		page.Items = append(page.Items, p)
	}
	return page, rows.Err()
}

func buildWhere(tenantID string, f domain.Filter) (string, []any) {
	conds := []string{"tenant_id = $1"}
	args := []any{tenantID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.SKU != "" {
		add(`sku ILIKE '%%' || $%d || '%%'`, escapeLike(f.SKU))
	}
	if f.Name != "" {
		add(`name ILIKE '%%' || $%d || '%%'`, escapeLike(f.Name))
	}
	if f.MinPrice != nil {
		add(`base_price >= $%d::numeric`, f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		add(`base_price <= $%d::numeric`, f.MaxPrice.String())
	}
	if f.InStock != nil {
		if *f.InStock {
			conds = append(conds, "inventory > 0")
		} else {
			conds = append(conds, "inventory = 0")
		}
	}
	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.BasePrice, &p.Inventory, &p.Version, &p.CreatedAt)
	return p, err
}
