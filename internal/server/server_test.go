package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/unistay/internal/config"
	"github.com/gosuda/unistay/internal/events"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/metrics"
	"github.com/gosuda/unistay/internal/notify"
	"github.com/gosuda/unistay/internal/reminder"
	"github.com/gosuda/unistay/internal/store/memory"
)

type mockPinger struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.pingFunc(ctx)
}

type noopDeliverer struct{}

func (noopDeliverer) Deliver(context.Context, notify.Reminder) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Addr:            ":0",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
			CORSOrigins:     []string{"http://localhost:5173"},
			RateLimitRPS:    100,
			RateLimitBurst:  100,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, redis Pinger) *Server {
	t.Helper()

	initial, err := ledger.Seed()
	require.NoError(t, err)

	rec := metrics.New()
	bus := events.NewBus(events.NewLocal(), "unistay:state")
	store, err := memory.New(initial, memory.WithMetrics(rec), memory.WithPublisher(bus))
	require.NoError(t, err)

	svc := reminder.NewService(store, reminder.NewDrafter(nil, 0, rec), noopDeliverer{}, rec)

	return New(t.Context(), cfg, Deps{
		Store:     store,
		Reminders: svc,
		Events:    bus,
		Metrics:   rec,
		Redis:     redis,
		Now:       func() time.Time { return time.Date(2023, time.December, 20, 0, 0, 0, 0, time.UTC) },
	})
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// /healthz
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	t.Parallel()

	t.Run("ok_without_redis", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, testConfig(), nil)
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","version":0}`, rec.Body.String())
	})

	t.Run("ok_with_reachable_redis", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, testConfig(), &mockPinger{pingFunc: func(context.Context) error { return nil }})
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("degraded_when_redis_down", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, testConfig(), &mockPinger{pingFunc: func(context.Context) error {
			return errors.New("dial tcp: connection refused")
		}})
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "degraded")
	})
}

// ---------------------------------------------------------------------------
// /api/v1 mounting
// ---------------------------------------------------------------------------

func TestAPIMounted(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(), nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/subscription", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"plan":"BASIC"`)
}

func TestMutationUpdatesMetrics(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(), nil)

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/api/v1/payments/pay3/cycle", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `unistay_mutations_total{command="cycle-payment-status",outcome="applied"} 1`)
	assert.Contains(t, body, "unistay_snapshot_version 1")
}

func TestAPIRateLimited(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.RateLimitRPS = 0.001
	cfg.Server.RateLimitBurst = 1
	s := newTestServer(t, cfg, nil)

	first := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/plans", http.NoBody))
	require.Equal(t, http.StatusOK, first.Code)

	second := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/plans", http.NoBody))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health checks are outside the limited group.
	health := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/properties", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(s, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/properties", http.NoBody)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = serve(s, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// ---------------------------------------------------------------------------
// /slack/commands
// ---------------------------------------------------------------------------

func TestSlackCommands(t *testing.T) {
	t.Parallel()

	t.Run("not_implemented_without_secret", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, testConfig(), nil)
		rec := serve(s, httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader("text=status")))

		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("unsigned_request_rejected", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Slack.SigningSecret = "shh"
		s := newTestServer(t, cfg, nil)

		req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader("text=status"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := serve(s, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// ---------------------------------------------------------------------------
// originPatterns
// ---------------------------------------------------------------------------

func TestOriginPatterns(t *testing.T) {
	t.Parallel()

	got := originPatterns([]string{
		"http://localhost:5173",
		"https://app.unistay.example",
		"*",
		"not a url",
	})

	assert.Equal(t, []string{"localhost:5173", "app.unistay.example", "*"}, got)
}

func TestShutdownWithoutStart(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(), nil)

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
}
