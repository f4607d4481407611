package kafka

import (
	"context"
	"encoding/json"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/segmentio/kafka-go"
	"strings"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	w messageWriter
}

func NewProducer(brokersSTR, topic string) *Producer {
	brokers := strings.Split(brokersSTR, ",")

	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

func (p *Producer) Close() error {
	return p.w.Close()
}

// PublishOrderEvent keys messages by tracking number so every event of one
// order lands on the same partition.
func (p *Producer) PublishOrderEvent(ctx context.Context, e domain.OrderEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.TrackingNumber),
		Value: b,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "event-type", Value: []byte(e.Type)},
		},
	})
}
