package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DashboardMetrics holds all application-specific metrics
type DashboardMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Upload metrics
	UploadsTotal metric.Int64Counter
	UploadRows   metric.Int64Histogram

	// Pipeline metrics
	PipelineRunsTotal metric.Int64Counter
	PipelineDuration  metric.Float64Histogram
	FilterFailures    metric.Int64Counter

	// Session and export metrics
	ExportsTotal  metric.Int64Counter
	SessionResets metric.Int64Counter
}

// CreateDashboardMetrics creates the dashboard metric instruments
func CreateDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	m := &DashboardMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.UploadsTotal, err = meter.Int64Counter(
		"dashboard_uploads_total",
		metric.WithDescription("Total number of workbook uploads"),
	); err != nil {
		return nil, err
	}

	if m.UploadRows, err = meter.Int64Histogram(
		"dashboard_upload_rows",
		metric.WithDescription("Rows read from uploaded annotation sheets"),
	); err != nil {
		return nil, err
	}

	if m.PipelineRunsTotal, err = meter.Int64Counter(
		"dashboard_pipeline_runs_total",
		metric.WithDescription("Total number of dashboard view evaluations"),
	); err != nil {
		return nil, err
	}

	if m.PipelineDuration, err = meter.Float64Histogram(
		"dashboard_pipeline_duration_seconds",
		metric.WithDescription("Dashboard view evaluation duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.FilterFailures, err = meter.Int64Counter(
		"dashboard_filter_failures_total",
		metric.WithDescription("Keyword searches that could not be evaluated"),
	); err != nil {
		return nil, err
	}

	if m.ExportsTotal, err = meter.Int64Counter(
		"dashboard_exports_total",
		metric.WithDescription("Total number of table downloads"),
	); err != nil {
		return nil, err
	}

	if m.SessionResets, err = meter.Int64Counter(
		"dashboard_session_resets_total",
		metric.WithDescription("Total number of session resets"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}

// RecordUpload records one upload attempt
func (m *DashboardMetrics) RecordUpload(ctx context.Context, rows int, err error) {
	if m == nil {
		return
	}
	m.UploadsTotal.Add(ctx, 1, metric.WithAttributes(status(err)))
	if err == nil {
		m.UploadRows.Record(ctx, int64(rows))
	}
}

// RecordPipeline records one view evaluation
func (m *DashboardMetrics) RecordPipeline(ctx context.Context, duration time.Duration, filterFailed bool, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(status(err))
	m.PipelineRunsTotal.Add(ctx, 1, attrs)
	m.PipelineDuration.Record(ctx, duration.Seconds(), attrs)
	if filterFailed {
		m.FilterFailures.Add(ctx, 1)
	}
}

// RecordExport records one download
func (m *DashboardMetrics) RecordExport(ctx context.Context, kind, format string, err error) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("format", format),
		status(err),
	))
}

// RecordReset records a session reset
func (m *DashboardMetrics) RecordReset(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionResets.Add(ctx, 1)
}

// RecordHTTPRequest records a completed HTTP request
func (m *DashboardMetrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status_code", statusCode),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RegisterRuntimeMetrics publishes Go runtime and process gauges that are
// sampled on every metrics collection. activeSessions may be nil.
func RegisterRuntimeMetrics(meter metric.Meter, startTime time.Time, activeSessions func() int64) error {
	goroutines, err := meter.Int64ObservableGauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return err
	}

	memoryUsage, err := meter.Int64ObservableGauge(
		"system_memory_usage_bytes",
		metric.WithDescription("Memory usage in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return err
	}

	uptime, err := meter.Float64ObservableGauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	sessions, err := meter.Int64ObservableGauge(
		"dashboard_active_sessions",
		metric.WithDescription("Sessions currently holding an uploaded table"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(memoryUsage, int64(memStats.Alloc))
		o.ObserveFloat64(uptime, time.Since(startTime).Seconds())
		if activeSessions != nil {
			o.ObserveInt64(sessions, activeSessions())
		}
		return nil
	}, goroutines, memoryUsage, uptime, sessions)
	return err
}
