package stock

import "context"

// Repository is the stock ledger: the single writer of per-product stock
// levels. Reserve and Restock are individually atomic; Restock keeps no
// dedup memory, so calling it exactly once per consumed reservation is the
// caller's responsibility.
type Repository interface {
	Reserve(ctx context.Context, productID string, quantity int) error
	Restock(ctx context.Context, productID string, quantity int) error
	Peek(ctx context.Context, productID string) (int, error)
	Provision(ctx context.Context, productID string, quantity int) error
}
