package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

var workerNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func paidEvent(id, orderID string) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            id,
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     "order.paid",
		Payload:       []byte(`{"order_id":"` + orderID + `","session_id":"cs_test"}`),
	}
}

func newTestWorker(repo domain.OutboxRepository, publisher domain.OutboxPublisher, options ...Option) *Worker {
	base := []Option{
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
		WithClock(func() time.Time { return workerNow }),
	}
	return NewWorker(repo, publisher, append(base, options...)...)
}

func TestWorker_ProcessOnce_MarksSent(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{paidEvent("msg-1", "order-1")}}
	publisher := &stubPublisher{}

	result := newTestWorker(repo, publisher).ProcessOnce(context.Background())

	require.Equal(t, BatchResult{Sent: 1}, result)
	require.Equal(t, []string{"msg-1"}, repo.sentIDs)
	require.Empty(t, repo.failedIDs)
	require.Equal(t, 1, publisher.calls())
}

func TestWorker_ProcessOnce_DeadLettersAfterRetries(t *testing.T) {
	t.Parallel()

	event := paidEvent("msg-2", "order-2")
	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{event}}
	publisher := &stubPublisher{err: errors.New("broker unavailable")}
	dlq := &stubPublisher{}

	result := newTestWorker(repo, publisher, WithDLQPublisher(dlq)).ProcessOnce(context.Background())

	require.Equal(t, BatchResult{DeadLettered: 1}, result)
	require.Equal(t, 3, publisher.calls())
	require.Empty(t, repo.sentIDs)
	require.Equal(t, []string{"msg-2"}, repo.failedIDs)

	require.Len(t, dlq.published, 1)
	wrapped := dlq.published[0]
	require.Equal(t, event.ID, wrapped.ID)
	require.Equal(t, event.AggregateID, wrapped.AggregateID)
	require.Equal(t, event.EventType, wrapped.EventType)

	dl, err := DecodeDeadLetter(wrapped.Payload)
	require.NoError(t, err)
	require.Equal(t, "msg-2", dl.OutboxID)
	require.Equal(t, "order", dl.AggregateType)
	require.JSONEq(t, string(event.Payload), string(dl.Payload))
	require.Contains(t, dl.PublishError, "broker unavailable")
	require.Contains(t, dl.PublishError, "after 3 attempts")
	require.True(t, dl.DLQPublishedAt.Equal(workerNow))
	require.Equal(t, event, dl.Original())
}

func TestWorker_ProcessOnce_DLQFailureStillMarksFailed(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{paidEvent("msg-5", "order-5")}}
	reg := prometheus.NewRegistry()

	worker := newTestWorker(repo,
		&stubPublisher{err: errors.New("broker unavailable")},
		WithDLQPublisher(&stubPublisher{err: errors.New("dlq unavailable")}),
		WithMetrics(metrics.NewOutboxMetrics(reg)),
	)
	worker.ProcessOnce(context.Background())

	require.Equal(t, []string{"msg-5"}, repo.failedIDs)
	require.Equal(t, 3.0, gathered(t, reg, publishAttempts, metrics.OutboxRetry))
	require.Equal(t, 1.0, gathered(t, reg, publishAttempts, metrics.OutboxDLQFailed))
	require.Zero(t, gathered(t, reg, publishAttempts, metrics.OutboxDLQ))
}

func TestWorker_ProcessOnce_SucceedsAfterRetry(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{paidEvent("msg-3", "order-3")}}
	publisher := &stubPublisher{sequenceErrors: []error{errors.New("attempt 1"), errors.New("attempt 2"), nil}}
	reg := prometheus.NewRegistry()

	result := newTestWorker(repo, publisher, WithMetrics(metrics.NewOutboxMetrics(reg))).ProcessOnce(context.Background())

	require.Equal(t, BatchResult{Sent: 1}, result)
	require.Equal(t, 3, publisher.calls())
	require.Equal(t, []string{"msg-3"}, repo.sentIDs)
	require.Empty(t, repo.failedIDs)
	require.Equal(t, 2.0, gathered(t, reg, publishAttempts, metrics.OutboxRetry))
	require.Equal(t, 1.0, gathered(t, reg, publishAttempts, metrics.OutboxSent))
}

func TestWorker_ProcessOnce_CancelDuringBackoffKeepsPending(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{paidEvent("msg-4", "order-4")}}
	dlq := &stubPublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	publisher := &stubPublisher{err: errors.New("broker unavailable"), onPublish: cancel}

	result := newTestWorker(repo, publisher,
		WithRetryBaseDelay(time.Minute),
		WithDLQPublisher(dlq),
	).ProcessOnce(ctx)

	require.Equal(t, BatchResult{}, result)
	require.Equal(t, 1, publisher.calls())
	require.Empty(t, repo.failedIDs)
	require.Empty(t, repo.sentIDs)
	require.Zero(t, dlq.calls())
}

func TestWorker_ObservesBacklog(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	repo := &stubOutboxRepo{
		pending: []domain.OutboxMessage{paidEvent("msg-6", "order-6")},
		oldest:  workerNow.Add(-90 * time.Second),
	}

	newTestWorker(repo, &stubPublisher{err: errors.New("down")},
		WithMaxAttempts(1),
		WithMetrics(metrics.NewOutboxMetrics(reg)),
	).ProcessOnce(context.Background())

	require.Equal(t, 1.0, gathered(t, reg, "storefront_outbox_pending_records", ""))
	require.InDelta(t, 90.0, gathered(t, reg, "storefront_outbox_oldest_pending_age_seconds", ""), 0.001)
}

func TestWorker_RetryDelayDoublesAndCaps(t *testing.T) {
	t.Parallel()

	w := NewWorker(nil, nil, WithRetryBaseDelay(100*time.Millisecond))
	require.Equal(t, 100*time.Millisecond, w.retryDelay(1))
	require.Equal(t, 200*time.Millisecond, w.retryDelay(2))
	require.Equal(t, 800*time.Millisecond, w.retryDelay(4))
	require.Equal(t, maxRetryDelay, w.retryDelay(60))

	require.Zero(t, NewWorker(nil, nil, WithRetryBaseDelay(-time.Second)).retryDelay(3))
}

func TestWorker_Run_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	worker := newTestWorker(&stubOutboxRepo{}, &stubPublisher{}, WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}

func TestWorker_Run_DisabledWithoutPublisher(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewWorker(&stubOutboxRepo{}, nil).Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker without publisher must return immediately")
	}
}

func TestWorker_ProcessOnce_DrainsMemoryOutbox(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	for _, eventType := range []string{"order.created", "order.paid"} {
		_, err := repo.Enqueue(ctx, domain.OutboxMessage{
			AggregateType: "order",
			AggregateID:   "order-9",
			EventType:     eventType,
			Payload:       []byte(`{"order_id":"order-9"}`),
		})
		require.NoError(t, err)
	}
	publisher := &stubPublisher{}

	result := newTestWorker(repo, publisher).ProcessOnce(ctx)

	require.Equal(t, 2, result.Sent)
	require.Equal(t, 2, publisher.calls())
	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.PendingCount)
}

func TestDecodeDeadLetter_Rejects(t *testing.T) {
	t.Parallel()

	for name, payload := range map[string]string{
		"not json":        `{`,
		"missing id":      `{"payload":{"order_id":"o-1"}}`,
		"missing payload": `{"outbox_id":"msg-1"}`,
		"broken payload":  `{"outbox_id":"msg-1","payload":"not-an-object"`,
	} {
		_, err := DecodeDeadLetter([]byte(payload))
		require.ErrorIs(t, err, ErrNotDeadLetter, name)
	}
}

const publishAttempts = "storefront_outbox_publish_attempts_total"

// gathered возвращает значение метрики; label — значение метки result либо "" для метрик без меток.
func gathered(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if label != "" && (len(metric.GetLabel()) == 0 || metric.GetLabel()[0].GetValue() != label) {
				continue
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

type stubOutboxRepo struct {
	mu        sync.Mutex
	pending   []domain.OutboxMessage
	oldest    time.Time
	sentIDs   []string
	failedIDs []string
}

func (s *stubOutboxRepo) Enqueue(_ context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	return msg, nil
}

func (s *stubOutboxRepo) PullPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit >= len(s.pending) {
		return append([]domain.OutboxMessage(nil), s.pending...), nil
	}
	return append([]domain.OutboxMessage(nil), s.pending[:limit]...), nil
}

func (s *stubOutboxRepo) Stats(_ context.Context) (domain.OutboxStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.OutboxStats{PendingCount: len(s.pending), OldestPendingAt: s.oldest}, nil
}

func (s *stubOutboxRepo) MarkSent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentIDs = append(s.sentIDs, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedIDs = append(s.failedIDs, id)
	return nil
}

type stubPublisher struct {
	mu             sync.Mutex
	err            error
	sequenceErrors []error
	onPublish      func()
	published      []domain.OutboxMessage
	callCount      int
}

func (s *stubPublisher) Publish(msg domain.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callCount++
	if s.onPublish != nil {
		s.onPublish()
	}
	if len(s.sequenceErrors) > 0 {
		err := s.sequenceErrors[0]
		s.sequenceErrors = s.sequenceErrors[1:]
		return err
	}
	if s.err == nil {
		s.published = append(s.published, msg)
	}
	return s.err
}

func (s *stubPublisher) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

var (
	_ domain.OutboxRepository = (*stubOutboxRepo)(nil)
	_ domain.OutboxPublisher  = (*stubPublisher)(nil)
)
