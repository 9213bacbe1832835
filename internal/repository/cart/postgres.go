package cart

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

// NewPostgres builds a cart repository over q.
func NewPostgres(q repository.Querier, logger zerolog.Logger) Repository {
	return &postgresRepo{q: q, logger: logger}
}

func (r *postgresRepo) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
SELECT id::text, user_id, product_id::text, quantity, unit_price::text, created_at
FROM cart_lines
WHERE user_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.q.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Add inserts a cart line for the product, snapshotting its current price.
// Re-adding the same product accumulates quantity and keeps the price
// snapshot taken at the first add.
func (r *postgresRepo) Add(ctx context.Context, userID string, product domain.Product, quantity int) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (user_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4::numeric)
ON CONFLICT (user_id, product_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
RETURNING id::text, user_id, product_id::text, quantity, unit_price::text, created_at
`
	line, err := scanLine(r.q.QueryRow(ctx, q, userID, product.ID, quantity, product.Price.String()))
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("user_id", userID).Str("product_id", product.ID).Int("quantity", line.Quantity).Msg("cart line added")
	return line, nil
}

// ChangeQuantity sets the quantity of a line. Quantity <= 0 removes the line.
func (r *postgresRepo) ChangeQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	if quantity <= 0 {
		tag, err := r.q.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1 AND user_id = $2
`, lineID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	tag, err := r.q.Exec(ctx, `
UPDATE cart_lines
SET quantity = $3
WHERE id = $1 AND user_id = $2
`, lineID, userID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Clear removes every line from the user's cart. An already-empty cart is
// not an error.
func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.q.Exec(ctx, `
DELETE FROM cart_lines
WHERE user_id = $1
`, userID)
	return err
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var (
		line  domain.CartLine
		price string
	)
	if err := row.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &price, &line.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	unitPrice, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	line.UnitPrice = unitPrice
	return &line, nil
}
