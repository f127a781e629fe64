package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestIdempotencyRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIdempotencyRepository()
	ttl := time.Now().UTC().Add(2 * time.Hour).Round(time.Second)

	created, err := repo.CreateProcessing(ctx, " checkout-1 ", " hash-1 ", ttl)
	require.NoError(t, err)
	require.Equal(t, domain.IdempotencyStatusProcessing, created.Status)
	require.Equal(t, "checkout-1", created.Key)

	got, err := repo.Get(ctx, "checkout-1")
	require.NoError(t, err)
	require.Equal(t, "hash-1", got.RequestHash)
	require.True(t, got.TTLAt.Equal(ttl))
}

func TestIdempotencyRepository_Validation(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIdempotencyRepository()

	_, err := repo.CreateProcessing(ctx, " ", "hash", time.Time{})
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyRequired)
	_, err = repo.CreateProcessing(ctx, "key", "", time.Time{})
	require.ErrorIs(t, err, domain.ErrIdempotencyRequestHashRequired)
	_, err = repo.Get(ctx, "")
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyRequired)
	require.ErrorIs(t, repo.MarkDone(ctx, "missing", nil, 200), domain.ErrIdempotencyKeyNotFound)
}

func TestIdempotencyRepository_DefaultTTL(t *testing.T) {
	repo := memory.NewIdempotencyRepository()

	created, err := repo.CreateProcessing(context.Background(), "checkout-ttl", "hash", time.Time{})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), created.TTLAt, time.Minute)
}

func TestIdempotencyRepository_ConflictAndHashMismatch(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIdempotencyRepository()
	ttl := time.Now().UTC().Add(time.Hour)

	_, err := repo.CreateProcessing(ctx, "checkout-2", "hash-a", ttl)
	require.NoError(t, err)

	_, err = repo.CreateProcessing(ctx, "checkout-2", "hash-a", ttl)
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyAlreadyExists)

	held, err := repo.CreateProcessing(ctx, "checkout-2", "hash-b", ttl)
	require.ErrorIs(t, err, domain.ErrIdempotencyHashMismatch)
	require.Equal(t, "hash-a", held.RequestHash)
}

func TestIdempotencyRepository_MarkDoneStoresResponseCopy(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIdempotencyRepository()

	_, err := repo.CreateProcessing(ctx, "checkout-3", "hash", time.Now().Add(time.Hour))
	require.NoError(t, err)

	body := []byte(`{"orderId":"order-1"}`)
	require.NoError(t, repo.MarkDone(ctx, "checkout-3", body, 201))
	body[2] = 'X'

	record, err := repo.Get(ctx, "checkout-3")
	require.NoError(t, err)
	require.Equal(t, domain.IdempotencyStatusDone, record.Status)
	require.Equal(t, 201, record.HTTPStatus)
	require.JSONEq(t, `{"orderId":"order-1"}`, string(record.ResponseBody))

	record.ResponseBody[2] = 'Y'
	again, err := repo.Get(ctx, "checkout-3")
	require.NoError(t, err)
	require.JSONEq(t, `{"orderId":"order-1"}`, string(again.ResponseBody))

	require.NoError(t, repo.MarkFailed(ctx, "checkout-3", []byte(`{"error":"x"}`), 502))
	failed, err := repo.Get(ctx, "checkout-3")
	require.NoError(t, err)
	require.Equal(t, domain.IdempotencyStatusFailed, failed.Status)
}

func TestIdempotencyRepository_DeleteExpiredOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIdempotencyRepository()
	now := time.Now().UTC()

	for key, ttl := range map[string]time.Time{
		"checkout-oldest": now.Add(-time.Hour),
		"checkout-older":  now.Add(-time.Minute),
		"checkout-active": now.Add(time.Hour),
	} {
		_, err := repo.CreateProcessing(ctx, key, "hash-"+key, ttl)
		require.NoError(t, err)
	}

	removed, err := repo.DeleteExpired(ctx, now, 1)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	_, err = repo.Get(ctx, "checkout-oldest")
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyNotFound)
	_, err = repo.Get(ctx, "checkout-older")
	require.NoError(t, err)

	removed, err = repo.DeleteExpired(ctx, now, 10)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	_, err = repo.Get(ctx, "checkout-active")
	require.NoError(t, err)
}

func TestIdempotencyRepository_ExpiredKeyCanBeReused(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIdempotencyRepository()

	_, err := repo.CreateProcessing(ctx, "checkout-reuse", "hash-old", time.Now().UTC().Add(-time.Second))
	require.NoError(t, err)

	record, err := repo.CreateProcessing(ctx, "checkout-reuse", "hash-new", time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, "hash-new", record.RequestHash)
}
