package order

import (
	"context"

	"shopcore/internal/domain"
)

// Repository is the system of record for orders and their lines. Orders are
// append-only: Create writes the order and all its lines, and no operation
// mutates lines afterwards. Status changes go through the conditional
// UpdateStatus so concurrent transitions on the same order cannot both apply.
type Repository interface {
	// Create persists the order and its lines through the bound querier and
	// returns the stored record. Run it inside a transaction when it must
	// commit together with other writes. A colliding order number surfaces
	// as domain.ErrOrderNumberConflict.
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)

	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*domain.Order, error)
	// FindByUser returns the user's orders newest first, without lines.
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// FindAll returns every order newest first, without lines.
	FindAll(ctx context.Context) ([]domain.Order, error)

	// UpdateStatus moves the order from one status to another as a single
	// conditional update and reports whether a row changed. A false return
	// with a nil error means the order was missing or not in `from`.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error)

	// UpdateReceiver corrects the shipping destination. It only applies
	// while the order is awaiting payment; false means it did not apply.
	UpdateReceiver(ctx context.Context, id string, recv domain.Receiver) (bool, error)

	// Delete removes the order and its lines. Administrative purge only;
	// cancellation never deletes.
	Delete(ctx context.Context, id string) error
}
