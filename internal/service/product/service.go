package product

import (
	"context"

	"shopcore/internal/domain"
)

type productRepo interface {
	List(ctx context.Context) ([]domain.Availability, error)
	GetAvailability(ctx context.Context, id string) (*domain.Availability, error)
}

// Service exposes the catalog read surface. Stock quantities it reports are
// informational; reservations are decided by the stock ledger alone.
type Service struct {
	repo productRepo
}

func New(repo productRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Availability, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Availability, error) {
	return s.repo.GetAvailability(ctx, id)
}
