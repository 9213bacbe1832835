package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productSeed struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Currency    string
	Stock       int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			SKU:         "SKU-DEMO-TSHIRT",
			Name:        "Demo T-Shirt",
			Description: "Soft cotton tee for demo purposes",
			Price:       decimal.RequireFromString("19.99"),
			Currency:    "USD",
			Stock:       50,
		},
		{
			SKU:         "SKU-DEMO-MUG",
			Name:        "Demo Mug",
			Description: "Ceramic mug with demo logo",
			Price:       decimal.RequireFromString("12.99"),
			Currency:    "USD",
			Stock:       120,
		},
		{
			SKU:         "SKU-DEMO-POSTER",
			Name:        "Demo Poster",
			Description: "Limited-run print, almost sold out",
			Price:       decimal.RequireFromString("7.50"),
			Currency:    "USD",
			Stock:       3,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const productQuery = `
INSERT INTO products (sku, name, description, price, currency)
VALUES ($1, $2, $3, $4::numeric, $5)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    currency = EXCLUDED.currency
RETURNING id::text
`
	var productID string
	if err := pool.QueryRow(ctx, productQuery, p.SKU, p.Name, p.Description, p.Price.String(), p.Currency).Scan(&productID); err != nil {
		return err
	}

	const stockQuery = `
INSERT INTO stock (product_id, quantity)
VALUES ($1, $2)
ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity
`
	_, err := pool.Exec(ctx, stockQuery, productID, p.Stock)
	return err
}
