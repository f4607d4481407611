package repository

import (
	"context"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db DB
}

func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `o.id, o.sender_id, o.receiver_name, o.receiver_address, o.receiver_phone,
	o.exchange_rate, o.amount, o.fee, o.total, o.send_date, o.tracking_number, o.status`

// Sender fields of a missing customer come back as empty strings.
const joinedSelect = `SELECT ` + orderColumns + `,
	COALESCE(c.name, ''), COALESCE(c.driver_license, ''), COALESCE(c.birth_date, ''),
	COALESCE(c.address, ''), COALESCE(c.phone, '')
	FROM orders o
	LEFT JOIN customers c ON o.sender_id = c.id`

// Public tracking view: no sender columns beyond the name.
const trackedSelect = `SELECT ` + orderColumns + `, COALESCE(c.name, '')
	FROM orders o
	LEFT JOIN customers c ON o.sender_id = c.id`

func (r *OrderRepository) InsertOrder(ctx context.Context, o *domain.Order) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO orders
			(sender_id, receiver_name, receiver_address, receiver_phone,
			 exchange_rate, amount, fee, total, send_date, tracking_number, status)
		 VALUES
			($1, $2, $3, $4,
			 $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		o.SenderID,
		o.ReceiverName,
		o.ReceiverAddress,
		o.ReceiverPhone,
		o.ExchangeRate,
		o.Amount,
		o.Fee,
		o.Total,
		o.SendDate,
		o.TrackingNumber,
		o.Status,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("insert order %s: %w", o.TrackingNumber, ErrDuplicateTracking)
	}
	if err != nil {
		return 0, fmt.Errorf("insert order %s: %w", o.TrackingNumber, err)
	}
	return id, nil
}

// UpdateOrder rewrites every editable column. tracking_number is not among them.
func (r *OrderRepository) UpdateOrder(ctx context.Context, id int64, o *domain.Order) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET sender_id = $1, receiver_name = $2, receiver_address = $3, receiver_phone = $4,
		     exchange_rate = $5, amount = $6, fee = $7, total = $8, send_date = $9, status = $10
		 WHERE id = $11`,
		o.SenderID,
		o.ReceiverName,
		o.ReceiverAddress,
		o.ReceiverPhone,
		o.ExchangeRate,
		o.Amount,
		o.Fee,
		o.Total,
		o.SendDate,
		o.Status,
		id,
	)
	if err != nil {
		return fmt.Errorf("update order %d: %w", id, err)
	}
	return requireAffected(tag, "order", id)
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return requireAffected(tag, "order", id)
}

func (r *OrderRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id).
		Scan(orderDest(&o)...)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderJoined(ctx context.Context, id int64) (*domain.OrderWithSender, error) {
	o, err := scanJoined(r.db.QueryRow(ctx, joinedSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return o, nil
}

func (r *OrderRepository) GetOrderByTracking(ctx context.Context, trackingNumber string) (*domain.TrackedOrder, error) {
	var o domain.TrackedOrder
	err := r.db.QueryRow(ctx, trackedSelect+` WHERE o.tracking_number = $1`, trackingNumber).
		Scan(append(orderDest(&o.Order), &o.SenderName)...)
	if err != nil {
		return nil, notFound(err, "tracking number", trackingNumber)
	}
	return &o, nil
}

// ListOrders returns every order, newest first.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.OrderWithSender, error) {
	rows, err := r.db.Query(ctx, joinedSelect+` ORDER BY o.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderWithSender
	for rows.Next() {
		o, err := scanJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func orderDest(o *domain.Order) []any {
	return []any{
		&o.ID, &o.SenderID, &o.ReceiverName, &o.ReceiverAddress, &o.ReceiverPhone,
		&o.ExchangeRate, &o.Amount, &o.Fee, &o.Total, &o.SendDate, &o.TrackingNumber, &o.Status,
	}
}

func scanJoined(row pgx.Row) (*domain.OrderWithSender, error) {
	var o domain.OrderWithSender
	dest := append(orderDest(&o.Order),
		&o.SenderName, &o.SenderDriverLicense, &o.SenderBirthDate, &o.SenderAddress, &o.SenderPhone)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &o, nil
}
