package outbox

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topic    string
	tracer   trace.Tracer
}

func NewDispatcher(log *slog.Logger, producer Producer, topic string) *Dispatcher {
	return &Dispatcher{
		log:      log,
		producer: producer,
		topic:    topic,
		tracer:   otel.Tracer("outbox-dispatcher"),
	}
}

// Dispatch publishes one event keyed by its aggregate, continuing the trace
// that was active when the event was recorded.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	ctx = tracing.ContextFromTraceparent(ctx, event.Traceparent)
	ctx, span := d.tracer.Start(ctx, "outbox.dispatch", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(
		attribute.Int64("outbox.event_id", event.ID),
		attribute.String("outbox.event_type", event.Type),
		attribute.String("messaging.destination.name", d.topic),
	)

	headers := make([]kafka.Header, 0, len(event.Headers)+2)
	for k, v := range event.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	headers = append(headers, kafka.Header{Key: "event_type", Value: []byte(event.Type)})
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   d.topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		d.log.ErrorContext(ctx, "outbox dispatch failed", "event_id", event.ID, "err", err)
		return err
	}
	d.log.InfoContext(ctx, "outbox dispatched", "event_id", event.ID, "type", event.Type)
	return nil
}
