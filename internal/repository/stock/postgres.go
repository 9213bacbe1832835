package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"shopcore/internal/domain"
	"shopcore/internal/repository"
)

type postgresRepo struct {
	q      repository.Querier
	logger zerolog.Logger
}

// NewPostgres builds a stock ledger over q. Pass a pgx.Tx to make the
// ledger's writes part of a larger unit of work.
func NewPostgres(q repository.Querier, logger zerolog.Logger) Repository {
	return &postgresRepo{q: q, logger: logger}
}

// Reserve decrements stock by quantity only if enough is available. The
// sufficiency check and the decrement are one conditional UPDATE, so
// concurrent reservations for the same product serialize on the row and can
// never oversell.
func (r *postgresRepo) Reserve(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d", quantity)
	}
	const q = `
UPDATE stock
SET quantity = quantity - $2
WHERE product_id = $1 AND quantity >= $2
`
	tag, err := r.q.Exec(ctx, q, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		r.logger.Debug().Str("product_id", productID).Int("quantity", quantity).Msg("stock reserved")
		return nil
	}

	available, err := r.Peek(ctx, productID)
	if err != nil {
		return err
	}
	return &domain.InsufficientStockError{ProductID: productID, Requested: quantity, Available: available}
}

// Restock unconditionally increments stock by quantity.
func (r *postgresRepo) Restock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", quantity)
	}
	const q = `
UPDATE stock
SET quantity = quantity + $2
WHERE product_id = $1
`
	tag, err := r.q.Exec(ctx, q, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	r.logger.Debug().Str("product_id", productID).Int("quantity", quantity).Msg("stock restored")
	return nil
}

// Peek reads the current stock level. It is informational only: a Peek
// followed by a separate Reserve is not atomic.
func (r *postgresRepo) Peek(ctx context.Context, productID string) (int, error) {
	const q = `
SELECT quantity
FROM stock
WHERE product_id = $1
`
	var quantity int
	if err := r.q.QueryRow(ctx, q, productID).Scan(&quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return 0, err
	}
	return quantity, nil
}

// Provision sets the absolute stock level for a product. Used by seeding and
// imports, never by the order lifecycle.
func (r *postgresRepo) Provision(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("provision quantity must not be negative, got %d", quantity)
	}
	const q = `
INSERT INTO stock (product_id, quantity)
VALUES ($1, $2)
ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity
`
	if _, err := r.q.Exec(ctx, q, productID, quantity); err != nil {
		return err
	}
	return nil
}
