package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTel_Defaults(t *testing.T) {
	providers, err := InitializeOTel(nil, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "stdout"
	cfg.TraceOutput = &out

	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "dashboard.view")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(ctx))
	assert.Contains(t, out.String(), "dashboard.view")
}

func TestInitializeOTel_UnknownExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "zipkin"

	_, err := InitializeOTel(cfg, quietLogger())
	assert.ErrorContains(t, err, "unsupported trace exporter")
}

func TestNoopProviders(t *testing.T) {
	providers := NoopProviders(nil)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	metrics, err := CreateDashboardMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordUpload(context.Background(), 10, nil)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestDashboardMetrics_ExposedOnPrometheus(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateDashboardMetrics(providers.Meter)
	require.NoError(t, err)
	require.NoError(t, RegisterRuntimeMetrics(providers.Meter, time.Now(), func() int64 { return 3 }))

	ctx := context.Background()
	metrics.RecordUpload(ctx, 120, nil)
	metrics.RecordPipeline(ctx, 15*time.Millisecond, true, assert.AnError)
	metrics.RecordExport(ctx, "summary", "csv", nil)
	metrics.RecordReset(ctx)
	metrics.RecordHTTPRequest(ctx, http.MethodGet, "/api/dashboard/view", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, name := range []string{
		"dashboard_uploads_total",
		"dashboard_pipeline_runs_total",
		"dashboard_filter_failures_total",
		"dashboard_exports_total",
		"dashboard_session_resets_total",
		"http_requests_total",
		"dashboard_active_sessions",
		"system_goroutines",
	} {
		assert.Contains(t, body, name)
	}
}

func TestDashboardMetrics_NilSafe(t *testing.T) {
	var metrics *DashboardMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		metrics.RecordUpload(ctx, 1, nil)
		metrics.RecordPipeline(ctx, time.Second, false, nil)
		metrics.RecordExport(ctx, "rows", "xlsx", nil)
		metrics.RecordReset(ctx)
		metrics.RecordHTTPRequest(ctx, "GET", "/", 200, time.Second)
	})
}

func TestRegisterRuntimeMetrics_Noop(t *testing.T) {
	assert.NoError(t, RegisterRuntimeMetrics(noop.NewMeterProvider().Meter("test"), time.Now(), nil))
}
