//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermem "github.com/dmehra2102/storefront/internal/order/infrastructure/memory"
	"github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/internal/platform/testenv"
	"github.com/dmehra2102/storefront/pkg/outbox"
)

func TestRelayPublishesOrderPlaced(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	brokers := testenv.Kafka(t)
	const topic = "storefront.orders.test"

	repo := ordermem.NewRepository()
	payload, err := json.Marshal(domain.OrderPlaced{OrderID: "o1", TenantID: "t1"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, domain.Order{ID: "o1", TenantID: "t1", IdempotencyKey: "K1"},
		outbox.Record{AggregateType: domain.AggregateType, AggregateID: "o1", Type: domain.EventTypeOrderPlaced, Payload: payload}))

	writer := NewWriter(brokers)
	t.Cleanup(func() { _ = writer.Close() })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	relay := outbox.NewRelay(log, repo, outbox.NewDispatcher(log, writer, topic), "relay-it")

	require.Eventually(t, func() bool {
		n, err := relay.RunOnce(ctx)
		return err == nil && n == 1
	}, time.Minute, 500*time.Millisecond)

	reader := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: topic, Partition: 0})
	t.Cleanup(func() { _ = reader.Close() })
	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "o1", string(msg.Key))

	var got domain.OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "t1", got.TenantID)
}
