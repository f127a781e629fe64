package idempotency

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestGuard_ExecuteOnceAndReplay(t *testing.T) {
	t.Parallel()

	guard := NewGuard(memory.NewIdempotencyRepository(), 0, nil)
	calls := 0
	handler := func(context.Context) Response {
		calls++
		return Response{Status: http.StatusCreated, Body: []byte(`{"orderId":"o-1"}`)}
	}

	first, replayed, err := guard.Execute(context.Background(), "key-1", "POST /api/checkout", []byte(`{"a":1}`), handler)
	require.NoError(t, err)
	require.False(t, replayed)
	require.Equal(t, http.StatusCreated, first.Status)

	second, replayed, err := guard.Execute(context.Background(), "key-1", "POST /api/checkout", []byte(`{"a":1}`), handler)
	require.NoError(t, err)
	require.True(t, replayed)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestGuard_HashMismatch(t *testing.T) {
	t.Parallel()

	guard := NewGuard(memory.NewIdempotencyRepository(), 0, nil)
	handler := func(context.Context) Response { return Response{Status: http.StatusCreated} }

	_, _, err := guard.Execute(context.Background(), "key-2", "POST /api/checkout", []byte(`{"a":1}`), handler)
	require.NoError(t, err)

	_, _, err = guard.Execute(context.Background(), "key-2", "POST /api/checkout", []byte(`{"a":2}`), handler)
	require.ErrorIs(t, err, domain.ErrIdempotencyHashMismatch)
}

func TestGuard_InFlight(t *testing.T) {
	t.Parallel()

	repo := memory.NewIdempotencyRepository()
	guard := NewGuard(repo, 0, nil)

	_, _, err := guard.Execute(context.Background(), "key-3", "scope", []byte("body"), func(ctx context.Context) Response {
		_, _, innerErr := guard.Execute(ctx, "key-3", "scope", []byte("body"), func(context.Context) Response {
			t.Fatal("nested handler must not run")
			return Response{}
		})
		require.True(t, errors.Is(innerErr, ErrRequestInFlight))
		return Response{Status: http.StatusOK}
	})
	require.NoError(t, err)
}

func TestGuard_ServerErrorStoredAsFailed(t *testing.T) {
	t.Parallel()

	repo := memory.NewIdempotencyRepository()
	guard := NewGuard(repo, 0, nil)

	_, _, err := guard.Execute(context.Background(), "key-4", "scope", nil, func(context.Context) Response {
		return Response{Status: http.StatusServiceUnavailable, Body: []byte(`{"error":{}}`)}
	})
	require.NoError(t, err)

	record, err := repo.Get(context.Background(), "key-4")
	require.NoError(t, err)
	require.Equal(t, domain.IdempotencyStatusFailed, record.Status)
	require.Equal(t, http.StatusServiceUnavailable, record.HTTPStatus)

	resp, replayed, err := guard.Execute(context.Background(), "key-4", "scope", nil, func(context.Context) Response {
		t.Fatal("handler must not run on replay")
		return Response{}
	})
	require.NoError(t, err)
	require.True(t, replayed)
	require.Equal(t, http.StatusServiceUnavailable, resp.Status)
}

func TestGuard_RequiresKey(t *testing.T) {
	t.Parallel()

	guard := NewGuard(memory.NewIdempotencyRepository(), 0, nil)
	_, _, err := guard.Execute(context.Background(), "  ", "scope", nil, func(context.Context) Response { return Response{} })
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyRequired)
}

func TestRequestHash_ScopeMatters(t *testing.T) {
	t.Parallel()

	require.Equal(t, RequestHash("a", []byte("x")), RequestHash("a", []byte("x")))
	require.NotEqual(t, RequestHash("a", []byte("x")), RequestHash("b", []byte("x")))
}
