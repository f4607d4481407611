package application

import (
	"context"
	"errors"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/cache"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/RaikyD/remit-desk/internal/logger"
	"github.com/RaikyD/remit-desk/internal/receipt"
	"github.com/RaikyD/remit-desk/internal/repository"
	"strings"
	"time"
)

// maxTrackingAttempts bounds retries when a fresh tracking number collides.
const maxTrackingAttempts = 3

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, e domain.OrderEvent) error
}

type ReceiptRenderer interface {
	Render(o *domain.OrderWithSender) ([]byte, error)
}

// Receipt is a rendered document ready to be sent as a download.
type Receipt struct {
	Filename    string
	ContentType string
	Data        []byte
}

type OrdersService struct {
	repo     repository.OrderRepo
	receipts ReceiptRenderer
	cache    cache.TrackingCache
	events   EventPublisher
	tracking domain.TrackingGenerator
	now      func() time.Time
}

type Option func(*OrdersService)

func WithTrackingCache(c cache.TrackingCache) Option {
	return func(s *OrdersService) { s.cache = c }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *OrdersService) { s.events = p }
}

func WithTrackingGenerator(g domain.TrackingGenerator) Option {
	return func(s *OrdersService) { s.tracking = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *OrdersService) { s.now = now }
}

func NewOrdersService(r repository.OrderRepo, receipts ReceiptRenderer, opts ...Option) *OrdersService {
	s := &OrdersService{
		repo:     r,
		receipts: receipts,
		cache:    cache.NewMemoryTrackingCache(0),
		tracking: domain.UUIDTrackingGenerator{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder derives a new order from raw fields and stores it.
func (s *OrdersService) CreateOrder(ctx context.Context, fields domain.OrderFields) (*domain.Order, error) {
	var (
		o   *domain.Order
		err error
	)
	for attempt := 1; ; attempt++ {
		o, err = domain.DeriveNewOrder(fields, s.tracking)
		if err != nil {
			return nil, err
		}
		o.ID, err = s.repo.InsertOrder(ctx, o)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateTracking) || attempt == maxTrackingAttempts {
			return nil, err
		}
		logger.Warn("tracking number collision, regenerating", "tracking_number", o.TrackingNumber, "attempt", attempt)
	}

	s.remember(ctx, o.TrackingNumber, o.ID)
	s.publish(ctx, domain.EventOrderCreated, o.ID, o.TrackingNumber, o)
	logger.Info("order created", "order_id", o.ID, "tracking_number", o.TrackingNumber, "total", o.Total)
	return o, nil
}

// UpdateOrder re-derives an existing order. Its tracking number is kept.
func (s *OrdersService) UpdateOrder(ctx context.Context, id int64, fields domain.OrderFields) (*domain.Order, error) {
	existing, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	o, err := domain.DeriveOrderEdit(existing.TrackingNumber, fields)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOrder(ctx, id, o); err != nil {
		return nil, err
	}
	o.ID = id

	s.publish(ctx, domain.EventOrderUpdated, o.ID, o.TrackingNumber, o)
	logger.Info("order updated", "order_id", id, "status", o.Status)
	return o, nil
}

func (s *OrdersService) DeleteOrder(ctx context.Context, id int64) error {
	existing, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, existing.TrackingNumber); err != nil {
		logger.Warn("tracking cache delete failed", "tracking_number", existing.TrackingNumber, "err", err)
	}
	s.publish(ctx, domain.EventOrderDeleted, id, existing.TrackingNumber, nil)
	logger.Info("order deleted", "order_id", id)
	return nil
}

func (s *OrdersService) GetOrder(ctx context.Context, id int64) (*domain.OrderWithSender, error) {
	return s.repo.GetOrderJoined(ctx, id)
}

func (s *OrdersService) ListOrders(ctx context.Context) ([]domain.OrderWithSender, error) {
	return s.repo.ListOrders(ctx)
}

// TrackOrder finds an order by its public tracking number. Lookups are case
// insensitive; a stale cache entry falls through to the store. Only the
// sender's name is returned.
func (s *OrdersService) TrackOrder(ctx context.Context, trackingNumber string) (*domain.TrackedOrder, error) {
	code := strings.ToUpper(strings.TrimSpace(trackingNumber))
	if code == "" {
		return nil, fmt.Errorf("%w: tracking number is required", domain.ErrInvalidInput)
	}

	id, ok, err := s.cache.Get(ctx, code)
	if err != nil {
		logger.Warn("tracking cache get failed", "tracking_number", code, "err", err)
	}
	if ok {
		o, err := s.repo.GetOrderJoined(ctx, id)
		if err == nil && o.TrackingNumber == code {
			return o.Tracked(), nil
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		_ = s.cache.Delete(ctx, code)
	}

	o, err := s.repo.GetOrderByTracking(ctx, code)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, code, o.ID)
	return o, nil
}

// Receipt renders the receipt of order id. The order must exist.
func (s *OrdersService) Receipt(ctx context.Context, id int64) (*Receipt, error) {
	o, err := s.repo.GetOrderJoined(ctx, id)
	if err != nil {
		return nil, err
	}

	started := s.now()
	data, err := s.receipts.Render(o)
	if err != nil {
		return nil, fmt.Errorf("render receipt for order %d: %w", id, err)
	}
	logger.Debug("receipt rendered", "order_id", id, "bytes", len(data), "took", s.now().Sub(started))

	return &Receipt{
		Filename:    receipt.Filename(o.TrackingNumber),
		ContentType: receipt.ContentType,
		Data:        data,
	}, nil
}

func (s *OrdersService) remember(ctx context.Context, code string, id int64) {
	if err := s.cache.Set(ctx, code, id); err != nil {
		logger.Warn("tracking cache set failed", "tracking_number", code, "err", err)
	}
}

// publish is best effort: the order is already stored when it runs.
func (s *OrdersService) publish(ctx context.Context, typ string, id int64, code string, o *domain.Order) {
	if s.events == nil {
		return
	}
	e := domain.OrderEvent{
		Type:           typ,
		OrderID:        id,
		TrackingNumber: code,
		Order:          o,
		OccurredAt:     s.now().UTC(),
	}
	if err := s.events.PublishOrderEvent(ctx, e); err != nil {
		logger.Warn("order event publish failed", "type", typ, "order_id", id, "err", err)
	}
}
