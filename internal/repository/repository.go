package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CustomerRepo interface {
	InsertCustomer(ctx context.Context, c *domain.Customer) (int64, error)
	UpdateCustomer(ctx context.Context, id int64, c *domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type OrderRepo interface {
	InsertOrder(ctx context.Context, o *domain.Order) (int64, error)
	UpdateOrder(ctx context.Context, id int64, o *domain.Order) error
	DeleteOrder(ctx context.Context, id int64) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderJoined(ctx context.Context, id int64) (*domain.OrderWithSender, error)
	GetOrderByTracking(ctx context.Context, trackingNumber string) (*domain.TrackedOrder, error)
	ListOrders(ctx context.Context) ([]domain.OrderWithSender, error)
}

// ErrDuplicateTracking reports a tracking number already held by another order.
var ErrDuplicateTracking = errors.New("tracking number already in use")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound.
func notFound(err error, what string, key any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, key, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s %v: %w", what, key, err)
}

func requireAffected(tag pgconn.CommandTag, what string, id int64) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
