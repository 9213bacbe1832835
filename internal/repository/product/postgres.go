package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	"shopcore/internal/repository"
)

type postgresRepo struct {
	q      repository.Querier
	logger zerolog.Logger
}

func NewPostgres(q repository.Querier, logger zerolog.Logger) Repository {
	return &postgresRepo{q: q, logger: logger}
}

const productColumns = `id::text, sku, name, COALESCE(description, ''), price::text, currency, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.fetchOne(ctx, `
SELECT `+productColumns+`
FROM products
WHERE id = $1
`, id)
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.fetchOne(ctx, `
SELECT `+productColumns+`
FROM products
WHERE sku = $1
`, sku)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Availability, error) {
	const q = `
SELECT p.id::text, p.sku, p.name, COALESCE(p.description, ''), p.price::text, p.currency, p.created_at,
       COALESCE(s.quantity, 0)
FROM products p
LEFT JOIN stock s ON s.product_id = p.id
ORDER BY p.created_at DESC, p.id DESC
`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetAvailability(ctx context.Context, id string) (*domain.Availability, error) {
	const q = `
SELECT p.id::text, p.sku, p.name, COALESCE(p.description, ''), p.price::text, p.currency, p.created_at,
       COALESCE(s.quantity, 0)
FROM products p
LEFT JOIN stock s ON s.product_id = p.id
WHERE p.id = $1
`
	a, err := scanAvailability(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, description, price, currency)
VALUES ($1, $2, NULLIF($3, ''), $4::numeric, $5)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    currency = EXCLUDED.currency
RETURNING ` + productColumns + `
`
	stored, err := r.fetchFromRow(r.q.QueryRow(ctx, q, p.SKU, p.Name, p.Description, p.Price.String(), p.Currency))
	if err != nil {
		r.logger.Error().Err(err).Str("sku", p.SKU).Msg("product upsert failed")
		return nil, err
	}
	r.logger.Debug().Str("sku", stored.SKU).Str("product_id", stored.ID).Msg("product upserted")
	return stored, nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	p, err := r.fetchFromRow(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) fetchFromRow(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &price, &p.Currency, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanAvailability(row pgx.Row) (*domain.Availability, error) {
	var (
		a     domain.Availability
		price string
	)
	if err := row.Scan(&a.ID, &a.SKU, &a.Name, &a.Description, &price, &a.Currency, &a.CreatedAt, &a.InStock); err != nil {
		return nil, err
	}
	var err error
	a.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
