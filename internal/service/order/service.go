package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	cartrepo "shopcore/internal/repository/cart"
	orderrepo "shopcore/internal/repository/order"
	stockrepo "shopcore/internal/repository/stock"
)

// maxCheckoutAttempts bounds retries after an order-number collision.
const maxCheckoutAttempts = 3

type stockLedger interface {
	Reserve(ctx context.Context, productID string, quantity int) error
	Restock(ctx context.Context, productID string, quantity int) error
}

type cartStore interface {
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	Clear(ctx context.Context, userID string) error
}

type orderStore interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error)
	UpdateReceiver(ctx context.Context, id string, recv domain.Receiver) (bool, error)
	Delete(ctx context.Context, id string) error
}

// txHandle is the slice of pgx.Tx the lifecycle needs.
type txHandle interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// txStores are repositories bound to one transaction: everything written
// through them commits or rolls back together.
type txStores struct {
	stock  stockLedger
	carts  cartStore
	orders orderStore
}

type beginFunc func(ctx context.Context) (txHandle, txStores, error)

// Service is the order lifecycle manager. It is the only component that
// decides between "fail and continue" and "fail and roll back": the
// repositories below it report faithfully and never swallow errors.
type Service struct {
	begin  beginFunc
	orders orderStore
	carts  cartStore
	logger zerolog.Logger
}

// NewPostgres wires the lifecycle over a pgx pool. Checkout and Cancel open
// a transaction and run every write through repositories bound to it.
func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) *Service {
	return &Service{
		begin: func(ctx context.Context) (txHandle, txStores, error) {
			tx, err := pool.Begin(ctx)
			if err != nil {
				return nil, txStores{}, err
			}
			return tx, txStores{
				stock:  stockrepo.NewPostgres(tx, logger),
				carts:  cartrepo.NewPostgres(tx, logger),
				orders: orderrepo.NewPostgres(tx, logger),
			}, nil
		},
		orders: orderrepo.NewPostgres(pool, logger),
		carts:  cartrepo.NewPostgres(pool, logger),
		logger: logger,
	}
}

// Checkout converts the user's cart into a pending-payment order, reserving
// stock per line. The cart read, the reservations and the order insert share
// one transaction; the cart clear runs after commit and never fails the
// checkout. An order-number collision retries the whole transaction.
func (s *Service) Checkout(ctx context.Context, userID string, recv domain.Receiver) (*domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ValidationError("user id required")
	}
	if err := validateReceiver(recv); err != nil {
		return nil, err
	}

	var (
		created *domain.Order
		err     error
	)
	for attempt := 1; attempt <= maxCheckoutAttempts; attempt++ {
		created, err = s.checkoutOnce(ctx, userID, recv)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrOrderNumberConflict) {
			return nil, err
		}
		s.logger.Warn().Str("user_id", userID).Int("attempt", attempt).Msg("order number collision, retrying checkout")
	}
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order is durable; a stale cart is the lesser defect.
		s.logger.Error().Err(err).Str("user_id", userID).Str("order_number", created.OrderNumber).Msg("cart clear failed after checkout")
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("order_number", created.OrderNumber).
		Str("total_amount", created.TotalAmount.String()).
		Msg("checkout completed")
	return created, nil
}

func (s *Service) checkoutOnce(ctx context.Context, userID string, recv domain.Receiver) (*domain.Order, error) {
	tx, stores, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	lines, err := stores.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	reserved := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if err := stores.stock.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
			s.releaseReserved(ctx, stores.stock, reserved)
			return nil, err
		}
		reserved = append(reserved, line)
	}

	total := decimal.Zero
	orderLines := make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		total = total.Add(line.LineTotal())
		orderLines = append(orderLines, domain.OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	created, err := stores.orders.Create(ctx, &domain.Order{
		OrderNumber: newOrderNumber(),
		UserID:      userID,
		TotalAmount: total,
		Status:      domain.StatusPendingPayment,
		Receiver:    recv,
		Lines:       orderLines,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNumberConflict) {
			s.releaseReserved(ctx, stores.stock, reserved)
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// releaseReserved restores reservations made earlier in the same checkout,
// in reverse order. The enclosing rollback would undo them as well; the
// explicit restocks keep the compensation contract intact even when the
// ledger runs outside a transaction.
func (s *Service) releaseReserved(ctx context.Context, ledger stockLedger, reserved []domain.CartLine) {
	for i := len(reserved) - 1; i >= 0; i-- {
		line := reserved[i]
		if err := ledger.Restock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.Error().Err(err).Str("product_id", line.ProductID).Int("quantity", line.Quantity).Msg("restock after failed checkout")
		}
	}
}

// Pay moves a pending-payment order to pending-shipment. The payment itself
// is a trusted external signal; only the transition is enforced here.
func (s *Service) Pay(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	return s.transition(ctx, userID, orderNumber, domain.EventPay)
}

// Ship moves a pending-shipment order to pending-receipt. Invoked by the
// fulfilment side, so it is not scoped to the owning user.
func (s *Service) Ship(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.transition(ctx, "", orderNumber, domain.EventShip)
}

// Receive completes a pending-receipt order.
func (s *Service) Receive(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	return s.transition(ctx, userID, orderNumber, domain.EventReceive)
}

func (s *Service) transition(ctx context.Context, userID, orderNumber string, event domain.Event) (*domain.Order, error) {
	o, err := s.findOwned(ctx, userID, orderNumber)
	if err != nil {
		return nil, err
	}

	from, to, ok := domain.Transition(event)
	if !ok {
		return nil, fmt.Errorf("unknown lifecycle event %q", event)
	}

	applied, err := s.orders.UpdateStatus(ctx, o.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.invalidTransition(ctx, o.ID, event)
	}
	return s.orders.FindByID(ctx, o.ID)
}

// Cancel moves a pending-payment order to cancelled and restores every
// line's quantity to the stock ledger. The status check-and-set and the
// restocks share one transaction, so a failed restock leaves the order
// uncancelled and a second cancel can never restock twice.
func (s *Service) Cancel(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	o, err := s.findOwned(ctx, userID, orderNumber)
	if err != nil {
		return nil, err
	}

	tx, stores, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	applied, err := stores.orders.UpdateStatus(ctx, o.ID, domain.StatusPendingPayment, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.invalidTransition(ctx, o.ID, domain.EventCancel)
	}

	for _, line := range o.Lines {
		if err := stores.stock.Restock(ctx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_number", o.OrderNumber).Int("lines", len(o.Lines)).Msg("order cancelled, stock restored")
	return s.orders.FindByID(ctx, o.ID)
}

// UpdateReceiver corrects the shipping destination of an order that is
// still awaiting payment.
func (s *Service) UpdateReceiver(ctx context.Context, userID, orderNumber string, recv domain.Receiver) (*domain.Order, error) {
	if err := validateReceiver(recv); err != nil {
		return nil, err
	}
	o, err := s.findOwned(ctx, userID, orderNumber)
	if err != nil {
		return nil, err
	}

	applied, err := s.orders.UpdateReceiver(ctx, o.ID, recv)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.invalidTransition(ctx, o.ID, domain.EventAmendReceiver)
	}
	return s.orders.FindByID(ctx, o.ID)
}

// Get returns one of the user's orders with its lines.
func (s *Service) Get(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	return s.findOwned(ctx, userID, orderNumber)
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// ListAll returns every order, newest first. Administrative.
func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.FindAll(ctx)
}

// Purge deletes an order and its lines. Administrative only; it does not
// restock anything.
func (s *Service) Purge(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// findOwned loads an order by number. With a non-empty userID the order must
// belong to that user; foreign orders are reported as not found rather than
// revealed.
func (s *Service) findOwned(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	o, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if userID != "" && o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// invalidTransition re-reads the order's current status so the error names
// the state that actually blocked the event.
func (s *Service) invalidTransition(ctx context.Context, orderID string, event domain.Event) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	return &domain.InvalidTransitionError{OrderID: orderID, From: o.Status, Event: event}
}

func validateReceiver(recv domain.Receiver) error {
	switch {
	case strings.TrimSpace(recv.Name) == "":
		return domain.ValidationError("receiver name required")
	case strings.TrimSpace(recv.Phone) == "":
		return domain.ValidationError("receiver phone required")
	case strings.TrimSpace(recv.Address) == "":
		return domain.ValidationError("receiver address required")
	}
	return nil
}

// newOrderNumber builds an external-facing token: a UTC timestamp plus
// random suffix. Uniqueness is ultimately enforced by the orders table;
// a collision is retried with a fresh token.
func newOrderNumber() string {
	return time.Now().UTC().Format("20060102150405") + "-" + strings.ToUpper(uuid.NewString()[:8])
}
