package http

import (
	"context"
	"io"

	"supernova/internal/exporter"
	"supernova/internal/services"
	"supernova/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations used by the handler
type DashboardServiceInterface interface {
	Upload(ctx context.Context, sessionID, fileName string, size int64, r io.Reader) (*domain.UploadSummary, error)
	View(ctx context.Context, sessionID string, q domain.ViewQuery) (*domain.DashboardView, error)
	Export(ctx context.Context, sessionID string, q domain.ViewQuery, kind exporter.Kind, format exporter.Format) (*services.ExportFile, error)
	Reset(ctx context.Context, sessionID string) error
}
