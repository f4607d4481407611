package kafka

import (
	"context"
	"errors"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/RaikyD/remit-desk/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/segmentio/kafka-go"
	"strings"
	"time"
)

type ConsumerConfig struct {
	Brokers string
	Topic   string
	GroupID string
}

// OrderIntake creates orders from raw entry fields.
type OrderIntake interface {
	CreateOrder(ctx context.Context, fields domain.OrderFields) (*domain.Order, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const retryBackoff = 300 * time.Millisecond

// StartConsumer reads order intake messages until ctx is cancelled.
func StartConsumer(ctx context.Context, intake OrderIntake, cfg ConsumerConfig) (*kafka.Reader, error) {
	brokers := strings.Split(cfg.Brokers, ",")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         brokers,
		GroupID:         cfg.GroupID,
		Topic:           cfg.Topic,
		MinBytes:        1,
		MaxBytes:        10e6,
		CommitInterval:  0,
		StartOffset:     kafka.FirstOffset,
		ReadLagInterval: -1,
	})

	logger.Info("kafka intake consumer starting", "brokers", cfg.Brokers, "topic", cfg.Topic, "group", cfg.GroupID)

	go consume(ctx, r, intake, retryBackoff)
	return r, nil
}

func consume(ctx context.Context, r messageReader, intake OrderIntake, backoff time.Duration) {
	defer r.Close()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("kafka fetch error", "err", err)
			if !sleep(ctx, backoff) {
				return
			}
			continue
		}
		logger.Debug("intake message fetched", "partition", m.Partition, "offset", m.Offset)

		// retry in place: committing a later offset would skip this one
		for !handleMessage(ctx, intake, m) {
			if !sleep(ctx, backoff) {
				return
			}
		}

		if err := r.CommitMessages(ctx, m); err != nil {
			logger.Warn("kafka commit failed", "err", err)
		}
	}
}

// handleMessage reports whether m is done with and may be committed.
// Malformed payloads, rejected input and data errors are committed; other
// storage failures are not.
func handleMessage(ctx context.Context, intake OrderIntake, m kafka.Message) bool {
	fields, err := domain.DecodeFields(m.Value)
	if err != nil {
		logger.Warn("intake message is not a JSON object, skipping", "offset", m.Offset, "err", err)
		return true
	}

	o, err := intake.CreateOrder(ctx, fields)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		logger.Warn("intake order rejected, skipping", "offset", m.Offset, "err", err)
		return true
	case isDataError(err):
		logger.Error("intake order cannot be stored, skipping", "offset", m.Offset, "value", string(m.Value), "err", err)
		return true
	case err != nil:
		logger.Warn("intake order failed, will retry", "offset", m.Offset, "err", err)
		return false
	}

	logger.Info("intake order created", "order_id", o.ID, "tracking_number", o.TrackingNumber)
	return true
}

// isDataError reports a Postgres data exception (class 22) or integrity
// constraint violation (class 23). Retrying the same message repeats them.
func isDataError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
