package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"shopcore/internal/domain"
)

type cartRepo interface {
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	Add(ctx context.Context, userID string, product domain.Product, quantity int) (*domain.CartLine, error)
	ChangeQuantity(ctx context.Context, userID, lineID string, quantity int) error
	Clear(ctx context.Context, userID string) error
}

type productRepo interface {
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
}

// Service manages the cart write path that feeds checkout. Prices are
// snapshotted from the catalog when a product is added.
type Service struct {
	repo     cartRepo
	products productRepo
	logger   zerolog.Logger
}

func New(repo cartRepo, products productRepo, logger zerolog.Logger) *Service {
	return &Service{repo: repo, products: products, logger: logger}
}

// Get returns the user's cart lines in insertion order.
func (s *Service) Get(ctx context.Context, userID string) ([]domain.CartLine, error) {
	return s.repo.Lines(ctx, userID)
}

// AddItem puts a product into the cart by SKU, accumulating quantity when
// the product is already there.
func (s *Service) AddItem(ctx context.Context, userID, sku string, quantity int) (*domain.CartLine, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.ValidationError("sku required")
	}
	if quantity <= 0 {
		return nil, domain.ValidationError("quantity must be positive")
	}

	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", sku, domain.ErrNotFound)
		}
		return nil, err
	}

	line, err := s.repo.Add(ctx, userID, *product, quantity)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("user_id", userID).Str("sku", sku).Int("quantity", quantity).Msg("cart item added")
	return line, nil
}

// ChangeItem sets a line's quantity; zero or negative removes the line.
func (s *Service) ChangeItem(ctx context.Context, userID, lineID string, quantity int) error {
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return domain.ValidationError("line id required")
	}
	return s.repo.ChangeQuantity(ctx, userID, lineID, quantity)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
