package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func healthy(name string) Checker {
	return NewSimpleChecker(name, func() error { return nil })
}

func failing(name, reason string) Checker {
	return NewSimpleChecker(name, func() error { return errors.New(reason) })
}

func decodeReport(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var report Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	return report
}

func TestHandler_Report(t *testing.T) {
	tests := []struct {
		name     string
		register func(h *Handler)
		code     int
		status   Status
		perCheck map[string]Status
	}{
		{
			name:     "no checks",
			register: func(*Handler) {},
			code:     http.StatusOK,
			status:   StatusHealthy,
		},
		{
			name: "all critical healthy",
			register: func(h *Handler) {
				h.RegisterChecker("postgres", healthy("postgres"))
				h.RegisterChecker("mongo", healthy("mongo"))
			},
			code:     http.StatusOK,
			status:   StatusHealthy,
			perCheck: map[string]Status{"postgres": StatusHealthy, "mongo": StatusHealthy},
		},
		{
			name: "optional failure degrades",
			register: func(h *Handler) {
				h.RegisterChecker("postgres", healthy("postgres"))
				h.RegisterOptional("redis", failing("redis", "connection refused"))
			},
			code:     http.StatusOK,
			status:   StatusDegraded,
			perCheck: map[string]Status{"postgres": StatusHealthy, "redis": StatusDegraded},
		},
		{
			name: "critical failure wins over degraded",
			register: func(h *Handler) {
				h.RegisterChecker("postgres", failing("postgres", "dial tcp: refused"))
				h.RegisterOptional("redis", failing("redis", "timeout"))
			},
			code:     http.StatusServiceUnavailable,
			status:   StatusUnhealthy,
			perCheck: map[string]Status{"postgres": StatusUnhealthy, "redis": StatusDegraded},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler("v1.4.0")
			tt.register(h)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			require.Equal(t, tt.code, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			report := decodeReport(t, rec)
			require.Equal(t, tt.status, report.Status)
			require.Equal(t, "v1.4.0", report.Version)
			require.Len(t, report.Checks, len(tt.perCheck))
			for name, want := range tt.perCheck {
				require.Equal(t, want, report.Checks[name].Status, name)
			}
		})
	}
}

func TestHandler_ReportCarriesFailureMessage(t *testing.T) {
	h := NewHandler("dev")
	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	h.now = func() time.Time { return fixed }
	h.RegisterChecker("postgres", failing("postgres", "too many clients"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	report := decodeReport(t, rec)
	require.Equal(t, "too many clients", report.Checks["postgres"].Message)
	require.True(t, report.Timestamp.Equal(fixed))
}

func TestHandler_Readiness(t *testing.T) {
	h := NewHandler("dev")
	h.RegisterOptional("redis", failing("redis", "down"))

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ready", rec.Body.String())

	h.RegisterChecker("postgres", failing("postgres", "down"))
	rec = httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "not ready", rec.Body.String())
}

func TestHandler_ReRegisterReplacesCheck(t *testing.T) {
	h := NewHandler("dev")
	h.RegisterChecker("storage", failing("storage", "down"))
	h.RegisterOptional("storage", failing("storage", "down"))
	h.RegisterChecker("catalog", healthy("catalog"))

	require.Equal(t, []string{"catalog", "storage"}, h.Names())
	status, _ := h.evaluate()
	require.Equal(t, StatusDegraded, status)
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestSimpleChecker_MeasuresDuration(t *testing.T) {
	check := NewSimpleChecker("slow", func() error {
		time.Sleep(10 * time.Millisecond)
		return nil
	}).Check()

	require.Equal(t, "slow", check.Name)
	require.Equal(t, StatusHealthy, check.Status)
	require.GreaterOrEqual(t, check.DurationMs, int64(10))
	require.Empty(t, check.Message)
}

func TestPingChecker(t *testing.T) {
	t.Run("deadline applied", func(t *testing.T) {
		check := NewPingChecker("redis", 20*time.Millisecond, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}).Check()

		require.Equal(t, StatusUnhealthy, check.Status)
		require.Equal(t, context.DeadlineExceeded.Error(), check.Message)
	})

	t.Run("default timeout", func(t *testing.T) {
		checker := NewPingChecker("mongo", 0, func(ctx context.Context) error {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			require.WithinDuration(t, time.Now().Add(DefaultCheckTimeout), deadline, time.Second)
			return nil
		})
		require.Equal(t, DefaultCheckTimeout, checker.timeout)
		require.Equal(t, StatusHealthy, checker.Check().Status)
	})
}
