package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/storefront/pkg/outbox"
)

// OutboxStore leases outbox rows to one relay at a time. Rows whose lease
// ran out are handed to the next relay that asks.
type OutboxStore struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{log: log, pool: pool}
}

func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, type, payload, headers, traceparent, retry_count, created_at
		FROM outbox
		WHERE status = 'pending'
		   OR (status = 'in_progress' AND lease_until < now())
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, err
	}

	var events []outbox.Event
	for rows.Next() {
		var event outbox.Event
		var headers map[string]string
		if err := rows.Scan(&event.ID, &event.AggregateType, &event.AggregateID, &event.Type, &event.Payload,
			&headers, &event.Traceparent, &event.RetryCount, &event.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		event.Headers = headers
		event.Status = outbox.StatusInProgress
		event.RelayID = relayID
		events = append(events, event)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	_, err = tx.Exec(ctx, `UPDATE outbox SET status='in_progress', relay_id=$1, lease_until=now() + $2::interval WHERE id = ANY($3)`,
		relayID, lease.String(), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	ct, err := s.pool.Exec(ctx, `UPDATE outbox SET status='sent', lease_until=NULL WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("no rows updated")
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, errMsg string, retry bool) error {
	status := outbox.StatusFailed
	if retry {
		status = outbox.StatusPending
	}
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status=$2, last_error=$3, retry_count=retry_count+1, lease_until=NULL WHERE id=$1`,
		id, string(status), errMsg)
	if err == nil && !retry {
		s.log.WarnContext(ctx, "outbox event parked", "event_id", id, "err", errMsg)
	}
	return err
}
