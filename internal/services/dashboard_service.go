package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"supernova/internal/dataprocessing"
	"supernova/internal/exporter"
	"supernova/internal/infrastructure"
	"supernova/internal/session"
	"supernova/internal/validation"
	"supernova/pkg/contracts/domain"
)

// ExportFile is a rendered download
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// DashboardDeps are the collaborators of a DashboardService. Store and
// Pipeline are required; the rest fall back to no-op or default values.
type DashboardDeps struct {
	Store     session.Store
	Pipeline  *dataprocessing.Pipeline
	Exporter  *exporter.Exporter
	Validator *validation.FileValidator
	Tracer    trace.Tracer
	Metrics   *infrastructure.DashboardMetrics
	Logger    *slog.Logger
	Now       func() time.Time
}

// DashboardService orchestrates one browser session's interactions with
// its uploaded annotation table.
type DashboardService struct {
	store     session.Store
	pipeline  *dataprocessing.Pipeline
	exporter  *exporter.Exporter
	validator *validation.FileValidator
	tracer    trace.Tracer
	metrics   *infrastructure.DashboardMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewDashboardService creates a dashboard service
func NewDashboardService(deps DashboardDeps) *DashboardService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Pipeline == nil {
		deps.Pipeline = dataprocessing.NewPipeline(0)
	}
	if deps.Exporter == nil {
		deps.Exporter = exporter.New()
	}
	if deps.Validator == nil {
		deps.Validator = validation.NewFileValidator(deps.Logger, 0)
	}
	if deps.Tracer == nil {
		deps.Tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &DashboardService{
		store:     deps.Store,
		pipeline:  deps.Pipeline,
		exporter:  deps.Exporter,
		validator: deps.Validator,
		tracer:    deps.Tracer,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With(slog.String("component", "dashboard_service")),
		now:       deps.Now,
	}
}

// Upload parses the workbook and makes it the session's table. A failed
// upload leaves any earlier table in place.
func (s *DashboardService) Upload(ctx context.Context, sessionID, fileName string, size int64, r io.Reader) (*domain.UploadSummary, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.upload",
		trace.WithAttributes(
			attribute.String("upload.file_name", fileName),
			attribute.Int64("upload.size", size),
		),
	)
	defer span.End()

	table, err := s.parseUpload(ctx, fileName, size, r)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordUpload(ctx, 0, err)
		s.logger.WarnContext(ctx, "upload rejected",
			slog.String("file", fileName),
			slog.String("error", err.Error()))
		return nil, err
	}

	state := session.NewState(sessionID, fileName, table, s.now())
	if err := s.store.Save(ctx, state); err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordUpload(ctx, 0, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.metrics.RecordUpload(ctx, table.Len(), nil)
	span.SetAttributes(attribute.Int("table.rows", table.Len()))
	s.logger.InfoContext(ctx, "annotation table uploaded",
		slog.String("file", fileName),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)))

	return &domain.UploadSummary{
		FileName:        state.FileName,
		Rows:            table.Len(),
		Columns:         table.Columns,
		TaxonomyOptions: dataprocessing.TaxonomyOptions(table),
		UploadedAt:      state.UploadedAt,
	}, nil
}

func (s *DashboardService) parseUpload(ctx context.Context, fileName string, size int64, r io.Reader) (*domain.AnnotationTable, error) {
	if err := s.validator.ValidateUpload(fileName, size); err != nil {
		if errors.Is(err, validation.ErrTooLarge) {
			return nil, fmt.Errorf("%w: %v", ErrUploadTooLarge, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}

	body, err := s.validator.SniffWorkbook(r)
	if err != nil {
		if errors.Is(err, validation.ErrNotWorkbook) || errors.Is(err, validation.ErrEmptyUpload) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
		}
		return nil, err
	}

	_, span := s.tracer.Start(ctx, "workbook.parse")
	defer span.End()

	table, err := dataprocessing.ParseWorkbook(body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return table, nil
}

// View evaluates the dashboard for the session's table and query
func (s *DashboardService) View(ctx context.Context, sessionID string, q domain.ViewQuery) (*domain.DashboardView, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.view",
		trace.WithAttributes(
			attribute.String("query.keyword", q.Keyword),
			attribute.String("query.taxonomy", q.Taxonomy),
			attribute.String("query.category", q.Category),
		),
	)
	defer span.End()

	view, err := s.evaluate(ctx, sessionID, q)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("view.matched_rows", view.MatchedRows),
		attribute.Int("view.groups", len(view.Groups)),
	)
	return view, nil
}

func (s *DashboardService) evaluate(ctx context.Context, sessionID string, q domain.ViewQuery) (*domain.DashboardView, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	_, span := s.tracer.Start(ctx, "pipeline.evaluate")
	start := time.Now()
	view, err := s.pipeline.Evaluate(state.Table, q)
	duration := time.Since(start)
	span.End()

	s.metrics.RecordPipeline(ctx, duration, errors.Is(err, dataprocessing.ErrFilterFailed), err)
	if err != nil {
		s.logger.WarnContext(ctx, "pipeline evaluation failed",
			slog.String("keyword", q.Keyword),
			slog.String("taxonomy", q.Taxonomy),
			slog.String("error", err.Error()))
		return nil, err
	}

	view.FileName = state.FileName
	s.logger.DebugContext(ctx, "pipeline evaluated",
		slog.Int("total_rows", view.TotalRows),
		slog.Int("matched_rows", view.MatchedRows),
		slog.String("taxonomy", view.Taxonomy),
		slog.String("category", view.Category),
		slog.Duration("duration", duration))
	return view, nil
}

func (s *DashboardService) loadState(ctx context.Context, sessionID string) (*session.State, error) {
	if sessionID == "" {
		return nil, ErrNoUpload
	}

	state, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNoUpload
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !state.HasUpload() {
		return nil, ErrNoUpload
	}
	return state, nil
}

// Export renders one dataset of the current view as a downloadable file
func (s *DashboardService) Export(ctx context.Context, sessionID string, q domain.ViewQuery, kind exporter.Kind, format exporter.Format) (*ExportFile, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.export",
		trace.WithAttributes(
			attribute.String("export.kind", string(kind)),
			attribute.String("export.format", string(format)),
		),
	)
	defer span.End()

	view, err := s.evaluate(ctx, sessionID, q)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.exporter.Export(&buf, kind, format, view); err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordExport(ctx, string(kind), string(format), err)
		return nil, err
	}
	s.metrics.RecordExport(ctx, string(kind), string(format), nil)

	file := &ExportFile{
		FileName:    exporter.FileName(view.FileName, kind, format),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}
	s.logger.InfoContext(ctx, "export rendered",
		slog.String("file", file.FileName),
		slog.Int("bytes", len(file.Data)))
	return file, nil
}

// Reset discards the session's table. Resetting an empty session is not an error.
func (s *DashboardService) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Reset(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.metrics.RecordReset(ctx)
	s.logger.InfoContext(ctx, "session reset")
	return nil
}
