package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart indicates a checkout was attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrOrderNumberConflict indicates a generated order number collided with
	// an existing one. Callers may regenerate and retry.
	ErrOrderNumberConflict = errors.New("order number already taken")
)

// ValidationError rejects malformed input before any side effect.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// InsufficientStockError reports a reservation that could not be satisfied.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// InvalidTransitionError reports a lifecycle event applied to an order whose
// current status does not allow it.
type InvalidTransitionError struct {
	OrderID string
	From    Status
	Event   Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s order %s in status %s", e.Event, e.OrderID, e.From)
}
