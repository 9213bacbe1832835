package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	"shopcore/internal/repository"
)

type postgresRepo struct {
	q      repository.Querier
	logger zerolog.Logger
}

// NewPostgres builds an order repository over q. Pass a pgx.Tx to make its
// writes part of a larger unit of work.
func NewPostgres(q repository.Querier, logger zerolog.Logger) Repository {
	return &postgresRepo{q: q, logger: logger}
}

const orderColumns = `id::text, order_number, user_id, total_amount::text, status,
receiver_name, receiver_phone, receiver_address, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	const insertOrder = `
INSERT INTO orders (order_number, user_id, total_amount, status, receiver_name, receiver_phone, receiver_address)
VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
RETURNING id::text, created_at, updated_at
`
	stored := *o
	err := r.q.QueryRow(ctx, insertOrder,
		o.OrderNumber,
		o.UserID,
		o.TotalAmount.String(),
		o.Status,
		o.Receiver.Name,
		o.Receiver.Phone,
		o.Receiver.Address,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if repository.IsUniqueViolation(err, "orders_order_number_key") {
			return nil, domain.ErrOrderNumberConflict
		}
		return nil, err
	}

	const insertLine = `
INSERT INTO order_lines (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4::numeric)
RETURNING id::text
`
	stored.Lines = make([]domain.OrderLine, len(o.Lines))
	for i, line := range o.Lines {
		line.OrderID = stored.ID
		if err := r.q.QueryRow(ctx, insertLine, stored.ID, line.ProductID, line.Quantity, line.UnitPrice.String()).Scan(&line.ID); err != nil {
			return nil, err
		}
		stored.Lines[i] = line
	}

	r.logger.Info().
		Str("order_id", stored.ID).
		Str("order_number", stored.OrderNumber).
		Str("user_id", stored.UserID).
		Int("lines", len(stored.Lines)).
		Msg("order created")
	return &stored, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.fetchOne(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE id = $1
`, id)
}

func (r *postgresRepo) FindByOrderNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.fetchOne(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE order_number = $1
`, number)
}

func (r *postgresRepo) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.fetchMany(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`, userID)
}

func (r *postgresRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.fetchMany(ctx, `
SELECT `+orderColumns+`
FROM orders
ORDER BY created_at DESC, id DESC
`)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	const q = `
UPDATE orders
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
`
	tag, err := r.q.Exec(ctx, q, id, from, to)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	r.logger.Info().Str("order_id", id).Str("from", string(from)).Str("to", string(to)).Msg("order status updated")
	return true, nil
}

func (r *postgresRepo) UpdateReceiver(ctx context.Context, id string, recv domain.Receiver) (bool, error) {
	const q = `
UPDATE orders
SET receiver_name = $2, receiver_phone = $3, receiver_address = $4, updated_at = now()
WHERE id = $1 AND status = $5
`
	tag, err := r.q.Exec(ctx, q, id, recv.Name, recv.Phone, recv.Address, domain.StatusPendingPayment)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `
DELETE FROM orders
WHERE id = $1
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info().Str("order_id", id).Msg("order purged")
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	const linesQuery = `
SELECT id::text, order_id::text, product_id::text, quantity, unit_price::text
FROM order_lines
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.q.Query(ctx, linesQuery, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line  domain.OrderLine
			price string
		)
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &price); err != nil {
			return nil, err
		}
		line.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o     domain.Order
		total string
	)
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&total,
		&o.Status,
		&o.Receiver.Name,
		&o.Receiver.Phone,
		&o.Receiver.Address,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
