package product

import (
	"context"

	"shopcore/internal/domain"
)

// Repository is the catalog lookup surface the order core depends on.
// Catalog editing lives outside the core; Upsert exists only for seeding
// and bulk import.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	// List returns the catalog with current stock levels, newest first.
	List(ctx context.Context) ([]domain.Availability, error)
	GetAvailability(ctx context.Context, id string) (*domain.Availability, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
