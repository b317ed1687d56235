package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgersynth/internal/config"
	customMiddleware "ledgersynth/internal/middleware"
)

// createTestLogger creates a logger that discards output for testing
func createTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Server.Port = 0
	cfg.Server.MaxRows = 2000
	cfg.Generator.Rows = 100
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	app, err := New(testConfig(t), createTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func get(t *testing.T, app *Application, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNew(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Metrics)
	assert.NotNil(t, app.Services.Ledger)
	assert.NotNil(t, app.Services.Health)
	assert.DirExists(t, app.Paths.DataDir)
	assert.DirExists(t, app.Paths.ReportsDir)
	assert.Equal(t, ":0", app.Server.Addr)
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantContain string
	}{
		{"health", "/api/health", http.StatusOK, `"status":"ok"`},
		{"ready", "/api/health/ready", http.StatusOK, `"ready"`},
		{"live", "/api/health/live", http.StatusOK, `"alive"`},
		{"datasets", "/api/health/datasets", http.StatusOK, `"data_dir"`},
		{"detailed health", "/api/health/detailed", http.StatusOK, `"liveness"`},
		{"version", "/api/version", http.StatusOK, `"data_format"`},
		{"ledger defaults", "/api/ledger", http.StatusOK, `"rows":100`},
		{"ledger limit", "/api/ledger?rows=40&limit=3", http.StatusOK, `"returned":3`},
		{"ledger csv", "/api/ledger/csv?rows=10", http.StatusOK, "TransactionID,CustomerID,Date,Amount"},
		{"summary", "/api/ledger/summary?rows=200", http.StatusOK, `"total_transactions":200`},
		{"lite", "/api/ledger/lite?rows=300&negatives=5", http.StatusOK, `"negatives":5`},
		{"features", "/api/ledger/features?rows=30&limit=2", http.StatusOK, `"returned":2`},
		{"ledger as csv", "/api/ledger?rows=5&format=csv", http.StatusOK, "TransactionID,CustomerID"},
		{"rows over maximum", "/api/ledger?rows=2001", http.StatusBadRequest, "rows must be at most 2000"},
		{"unknown route", "/api/nope", http.StatusNotFound, "/errors/not-found"},
		{"metrics", "/metrics", http.StatusOK, "go_goroutines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, app, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantContain)
			assert.NotEmpty(t, rec.Header().Get(customMiddleware.RequestIDHeader))
		})
	}
}

func TestApplication_MethodNotAllowed(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ledger", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApplication_MetricsRecordGenerations(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusOK, get(t, app, "/api/ledger?rows=50").Code)

	body := get(t, app, "/metrics").Body.String()
	assert.Contains(t, body, "ledger_generations_total")
	assert.Contains(t, body, "http_requests_total")
}

func TestApplication_SameSeedSameBody(t *testing.T) {
	app := newTestApp(t)

	a := get(t, app, "/api/ledger/csv?seed=7&rows=200").Body.String()
	b := get(t, app, "/api/ledger/csv?seed=7&rows=200").Body.String()
	c := get(t, app, "/api/ledger/csv?seed=8&rows=200").Body.String()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}

	app, err := New(cfg, createTestLogger())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(t, app, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, app, "/api/health").Code)
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Start(ctx, cancel))

	addr := app.Addr()
	require.False(t, strings.HasSuffix(addr, ":0"))

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + addr + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	require.NoError(t, app.Stop(context.Background()))

	_, err = client.Get("http://" + addr + "/api/health")
	assert.Error(t, err)
}
