package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeStore struct {
	mu      sync.Mutex
	pending []Event
	sent    []int64
	failed  map[int64]bool // id -> retry
}

func (s *fakeStore) LockBatch(_ context.Context, _ string, batchSize int, _ time.Duration) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(batchSize, len(s.pending))
	batch := s.pending[:n]
	s.pending = s.pending[n:]
	return batch, nil
}

func (s *fakeStore) MarkSent(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id int64, _ string, retry bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed == nil {
		s.failed = map[int64]bool{}
	}
	s.failed[id] = retry
	return nil
}

func (s *fakeStore) sentIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.sent...)
}

type fakeProducer struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	failOn string
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		if string(m.Key) == p.failOn {
			return errors.New("broker unavailable")
		}
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunOnceDispatchesAndMarks(t *testing.T) {
	store := &fakeStore{pending: []Event{
		{ID: 1, AggregateID: "o-1", Type: "OrderPlaced", Payload: []byte(`{}`), Headers: map[string]string{"tenant_id": "acme"}},
		{ID: 2, AggregateID: "o-2", Type: "OrderPlaced", Payload: []byte(`{}`), RetryCount: 4},
		{ID: 3, AggregateID: "o-3", Type: "OrderPlaced", Payload: []byte(`{}`)},
	}}
	producer := &fakeProducer{failOn: "o-2"}
	relay := NewRelay(discard(), store, NewDispatcher(discard(), producer, "orders.placed"), "test", WithMaxRetries(5))

	n, err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{1, 3}, store.sentIDs())
	assert.Equal(t, map[int64]bool{2: false}, store.failed, "fifth failure parks the event")

	require.Len(t, producer.msgs, 2)
	msg := producer.msgs[0]
	assert.Equal(t, "orders.placed", msg.Topic)
	assert.Equal(t, "o-1", string(msg.Key))
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "OrderPlaced", headers["event_type"])
	assert.Equal(t, "acme", headers["tenant_id"])
}

func TestRunOnceRetriesBelowLimit(t *testing.T) {
	store := &fakeStore{pending: []Event{{ID: 7, AggregateID: "bad", Type: "OrderPlaced"}}}
	relay := NewRelay(discard(), store, NewDispatcher(discard(), &fakeProducer{failOn: "bad"}, "t"), "test")

	n, err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, map[int64]bool{7: true}, store.failed)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &fakeStore{pending: []Event{{ID: 1, AggregateID: "o-1", Type: "OrderPlaced"}}}
	relay := NewRelay(discard(), store, NewDispatcher(discard(), &fakeProducer{}, "t"), "test",
		WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool { return len(store.sentIDs()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
