package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product in a user's cart. UnitPrice is snapshotted from
// the catalog when the product is first added.
type CartLine struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	CreatedAt time.Time       `json:"createdAt"`
}

// LineTotal is UnitPrice * Quantity, computed on demand.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotal sums the line totals of a cart snapshot.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}
