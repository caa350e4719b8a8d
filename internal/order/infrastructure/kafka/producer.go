package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer publishes outbox events. Messages carry their own topic, so one
// writer serves every event type.
type Writer struct {
	*kafka.Writer
}

func NewWriter(brokers []string) *Writer {
	return &Writer{
		Writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

func (w *Writer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return w.Writer.WriteMessages(ctx, msgs...)
}
