package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func paymentEvent(id, orderID string) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            id,
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     "order.paid",
		Payload:       []byte(`{"orderId":"` + orderID + `"}`),
	}
}

func TestOutboxRepository_PostgresDeliveryLifecycle(t *testing.T) {
	store := migratedIntegrationStore(t)
	repo := NewOutboxRepository(store)
	ctx := context.Background()

	generated, err := repo.Enqueue(ctx, paymentEvent("", "ord-1"))
	require.NoError(t, err)
	require.NotEmpty(t, generated.ID)

	fixed, err := repo.Enqueue(ctx, paymentEvent("evt-fixed", "ord-2"))
	require.NoError(t, err)
	require.Equal(t, "evt-fixed", fixed.ID)

	pending, err := repo.PullPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.JSONEq(t, `{"orderId":"ord-1"}`, string(pending[0].Payload))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.PendingCount)
	require.False(t, stats.OldestPendingAt.IsZero())

	require.NoError(t, repo.MarkSent(ctx, generated.ID))
	require.NoError(t, repo.MarkFailed(ctx, fixed.ID))

	pending, err = repo.PullPending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.PendingCount)
	require.True(t, stats.OldestPendingAt.IsZero())

	var (
		status    string
		attempts  int
		processed *time.Time
	)
	require.NoError(t, store.DB().QueryRowContext(ctx,
		`SELECT status, attempt_count, processed_at FROM outbox_messages WHERE id = $1`, fixed.ID,
	).Scan(&status, &attempts, &processed))
	require.Equal(t, "failed", status)
	require.Equal(t, 1, attempts)
	require.NotNil(t, processed)
}

func TestOutboxRepository_PostgresDuplicateEnqueueKeepsFirst(t *testing.T) {
	store := migratedIntegrationStore(t)
	repo := NewOutboxRepository(store)
	ctx := context.Background()

	_, err := repo.Enqueue(ctx, paymentEvent("evt-dup", "ord-first"))
	require.NoError(t, err)
	_, err = repo.Enqueue(ctx, paymentEvent("evt-dup", "ord-second"))
	require.NoError(t, err)

	pending, err := repo.PullPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "ord-first", pending[0].AggregateID)
}

func TestOutboxRepository_PostgresClosingTwiceFails(t *testing.T) {
	store := migratedIntegrationStore(t)
	repo := NewOutboxRepository(store)
	ctx := context.Background()

	require.ErrorIs(t, repo.MarkSent(ctx, "evt-missing"), domain.ErrOutboxPublish)
	require.ErrorIs(t, repo.MarkFailed(ctx, "evt-missing"), domain.ErrOutboxPublish)

	msg, err := repo.Enqueue(ctx, paymentEvent("evt-once", "ord-once"))
	require.NoError(t, err)
	require.NoError(t, repo.MarkSent(ctx, msg.ID))
	require.ErrorIs(t, repo.MarkFailed(ctx, msg.ID), domain.ErrOutboxPublish)
}

func TestOutboxRepository_PostgresPullsInEnqueueOrder(t *testing.T) {
	store := migratedIntegrationStore(t)
	repo := NewOutboxRepository(store).(*outboxRepository)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"evt-c", "evt-a", "evt-b"} {
		at := base.Add(time.Duration(i) * time.Second)
		repo.now = func() time.Time { return at }
		_, err := repo.Enqueue(ctx, paymentEvent(id, "ord-"+id))
		require.NoError(t, err)
	}

	pending, err := repo.PullPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "evt-c", pending[0].ID)
	require.Equal(t, "evt-a", pending[1].ID)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.PendingCount)
	require.True(t, stats.OldestPendingAt.Equal(base), "oldest pending %s", stats.OldestPendingAt)
}

func TestOutboxRepository_RejectsIncompleteMessage(t *testing.T) {
	repo := &outboxRepository{now: time.Now}

	_, err := repo.Enqueue(context.Background(), domain.OutboxMessage{AggregateID: "ord-1"})
	require.Error(t, err)
	_, err = repo.Enqueue(context.Background(), domain.OutboxMessage{EventType: "order.paid"})
	require.Error(t, err)
}
