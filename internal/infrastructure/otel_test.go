package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgersynth/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stdoutTracingConfig() *OTelConfig {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "stdout"
	cfg.TraceWriter = io.Discard
	return cfg
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(stdoutTracingConfig(), quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelDefaultsToNoopTracing(t *testing.T) {
	providers, err := InitializeOTel(nil, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer, "a no-op tracer is still handed out")
	assert.NotNil(t, providers.MeterProvider)
}

func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		config     *OTelConfig
		wantTracer bool
		wantMeter  bool
		wantErr    bool
	}{
		{
			name: "stdout traces and prometheus metrics",
			config: &OTelConfig{
				ServiceName: "test-service", ServiceVersion: "v1.0.0", Environment: "test",
				TraceExporter: "stdout", MetricExporter: "prometheus", SampleRatio: 1.0, TraceWriter: io.Discard,
			},
			wantTracer: true,
			wantMeter:  true,
		},
		{
			name: "everything disabled",
			config: &OTelConfig{
				ServiceName: "test-service", ServiceVersion: "v1.0.0", Environment: "test",
				TraceExporter: "none", MetricExporter: "none",
			},
		},
		{
			name:    "unknown trace exporter",
			config:  &OTelConfig{ServiceName: "x", TraceExporter: "zipkin", MetricExporter: "none"},
			wantErr: true,
		},
		{
			name:    "unknown metric exporter",
			config:  &OTelConfig{ServiceName: "x", TraceExporter: "none", MetricExporter: "statsd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.config, quietLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer providers.Shutdown(context.Background())

			assert.Equal(t, tt.wantTracer, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMeter, providers.MeterProvider != nil)
		})
	}
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{ServiceName: "svc", TraceExporter: "stdout"})
	assert.Equal(t, "svc", cfg.ServiceName)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
}

func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(stdoutTracingConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestSpanHelpers(t *testing.T) {
	providers, err := InitializeOTel(stdoutTracingConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "test-span")
	defer span.End()

	SetSpanAttributes(ctx, map[string]interface{}{
		"string_attr": "test_value",
		"int_attr":    42,
		"int64_attr":  int64(7),
		"float_attr":  3.14,
		"bool_attr":   true,
		"other_attr":  []int{1},
	})
	RecordError(ctx, assert.AnError)
	assert.True(t, span.IsRecording())

	// no span in context: helpers are no-ops
	SetSpanAttributes(context.Background(), map[string]interface{}{"k": "v"})
	RecordError(context.Background(), assert.AnError)
}

func TestLedgerMetricsExposedOnPrometheus(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateLedgerMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordGeneration(ctx, metrics, 100, map[string]int{"high_amount": 2}, 10*time.Millisecond, nil)
	RecordGeneration(ctx, metrics, 0, nil, time.Millisecond, errors.New("boom"))
	RecordArtifact(ctx, metrics, "csv")

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "ledger_rows_generated_total")
	assert.Contains(t, text, "ledger_fraud_rows_total")
	assert.Contains(t, text, `pattern="high_amount"`)
	assert.Contains(t, text, "ledger_generation_errors_total")
	assert.Contains(t, text, `artifact="csv"`)
	assert.Contains(t, text, "go_goroutines")
}

func TestRecordHelpersTolerateNilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordGeneration(context.Background(), nil, 1, nil, time.Second, nil)
		RecordArtifact(context.Background(), nil, "csv")
	})
}
