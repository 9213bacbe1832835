package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receiver is the shipping destination snapshotted onto an order at
// creation time. It may be corrected while the order is awaiting payment.
type Receiver struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is one checkout transaction. Lines are created together with the
// order and never change afterwards; only Status, Receiver and UpdatedAt
// are mutable.
type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	UserID      string          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	Receiver    Receiver        `json:"receiver"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Lines       []OrderLine     `json:"lines,omitempty"`
}

// OrderLine is one product's committed quantity within an order. UnitPrice
// is the price snapshot taken from the cart at checkout, so later catalog
// price changes do not affect the order's historical value.
type OrderLine struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal is UnitPrice * Quantity, computed on demand.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
