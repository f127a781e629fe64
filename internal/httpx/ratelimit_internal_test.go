package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientLimiter_SweepRemovesIdleClients(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	limiter := NewClientLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.Allow("idle")
	now = now.Add(defaultIdleTTL / 2)
	limiter.Allow("active")

	now = now.Add(defaultIdleTTL/2 + time.Second)
	require.Equal(t, 1, limiter.Sweep())
	require.Equal(t, 1, limiter.size())
}

func TestRenderError_HidesInternalDetails(t *testing.T) {
	status, body := renderError(errRateLimited)
	require.Equal(t, 429, status)
	require.Contains(t, string(body), CodeRateLimited)

	status, body = renderError(errSecret{})
	require.Equal(t, 500, status)
	require.NotContains(t, string(body), "dsn=secret")
}

type errSecret struct{}

func (errSecret) Error() string { return "dial postgres dsn=secret" }
