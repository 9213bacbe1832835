package cart

import (
	"context"

	"shopcore/internal/domain"
)

// Repository stores per-user cart lines. Lines returns them in insertion
// order so checkout consumes the cart exactly as the user built it.
type Repository interface {
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	Add(ctx context.Context, userID string, product domain.Product, quantity int) (*domain.CartLine, error)
	ChangeQuantity(ctx context.Context, userID, lineID string, quantity int) error
	Clear(ctx context.Context, userID string) error
}
