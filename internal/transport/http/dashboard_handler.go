package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"supernova/internal/dataprocessing"
	apierrors "supernova/internal/errors"
	"supernova/internal/exporter"
	mw "supernova/internal/middleware"
	"supernova/internal/services"
	"supernova/internal/session"
	"supernova/pkg/contracts/domain"
)

// multipartOverhead is allowed on top of the file limit for form framing
const multipartOverhead = 1 << 20

// DashboardHandlerConfig holds the HTTP-level dashboard settings
type DashboardHandlerConfig struct {
	MaxUploadBytes int64
	SecureCookie   bool
}

// DashboardHandler handles the upload, view, export and reset endpoints
type DashboardHandler struct {
	service      DashboardServiceInterface
	validation   *mw.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	cfg          DashboardHandlerConfig
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardServiceInterface, validation *mw.ValidationMiddleware, cfg DashboardHandlerConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validation:   validation,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		cfg:          cfg,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.validation.ContentTypeValidator("multipart/form-data")).Post("/upload", h.Upload)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/view", h.View)
	r.Get("/export/{kind}.{format}", h.Export)
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/reset", h.Reset)

	return r
}

// uploadForm is the validated metadata of an upload
type uploadForm struct {
	FileName string `json:"file_name" validate:"required,filename,max=255"`
}

// Upload handles POST /api/dashboard/upload
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	if h.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+multipartOverhead)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, apierrors.PayloadTooLarge(h.cfg.MaxUploadBytes))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A spreadsheet must be sent in the 'file' field"))
		return
	}
	defer file.Close()

	form := uploadForm{FileName: filepath.Base(strings.ReplaceAll(header.Filename, `\`, "/"))}
	if err := h.validation.ValidateStruct(form); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	sessionID := h.ensureSession(w, r)

	h.logger.InfoContext(r.Context(), "receiving upload",
		slog.String("request_id", reqID),
		slog.String("file", form.FileName),
		slog.Int64("size", header.Size),
	)

	summary, err := h.service.Upload(r.Context(), sessionID, form.FileName, header.Size, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, ""))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// View handles GET /api/dashboard/view
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	view, err := h.service.View(r.Context(), h.sessionID(r), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, q.Keyword))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// Export handles GET /api/dashboard/export/{kind}.{format}
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind, err := exporter.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("kind", "kind must be one of: rows, summary, groups"))
		return
	}
	format, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "format must be one of: csv, xlsx"))
		return
	}

	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	file, err := h.service.Export(r.Context(), h.sessionID(r), q, kind, format)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, q.Keyword))
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted",
			slog.String("file", file.FileName),
			slog.String("error", err.Error()))
	}
}

// Reset handles POST /api/dashboard/reset
func (h *DashboardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context(), h.sessionID(r)); err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, ""))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   map[string]bool{"reset": true},
	})
}

func (h *DashboardHandler) parseQuery(w http.ResponseWriter, r *http.Request) (domain.ViewQuery, bool) {
	values := r.URL.Query()
	q := domain.ViewQuery{
		Keyword:  values.Get("keyword"),
		Taxonomy: values.Get("taxonomy"),
		Category: values.Get("category"),
	}
	if err := h.validation.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return q, false
	}
	return q, true
}

// sessionID returns the id carried by the session cookie, or ""
func (h *DashboardHandler) sessionID(r *http.Request) string {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// ensureSession returns the current session id, issuing a new cookie when
// the request has none.
func (h *DashboardHandler) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := h.sessionID(r); id != "" {
		return id
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.DebugContext(r.Context(), "session started")
	return id
}

// mapError converts service errors to API errors
func (h *DashboardHandler) mapError(err error, keyword string) error {
	switch {
	case errors.Is(err, services.ErrNoUpload):
		return apierrors.ErrNoUpload
	case errors.Is(err, dataprocessing.ErrSheetRead):
		return apierrors.SheetReadFailed(err)
	case errors.Is(err, dataprocessing.ErrFilterFailed):
		return apierrors.FilterFailed(keyword, err)
	case errors.Is(err, dataprocessing.ErrUnknownTaxonomy):
		return apierrors.UnknownTaxonomy(err)
	case errors.Is(err, services.ErrUnsupportedFile):
		return apierrors.UnsupportedFile(err)
	case errors.Is(err, services.ErrUploadTooLarge):
		return apierrors.PayloadTooLarge(h.cfg.MaxUploadBytes)
	case errors.Is(err, services.ErrMissingSession):
		return apierrors.InvalidRequestWithError(err)
	case errors.Is(err, services.ErrStoreUnavailable):
		return apierrors.ErrServiceUnavailable
	case errors.Is(err, exporter.ErrUnknownKind), errors.Is(err, exporter.ErrUnknownFormat):
		return apierrors.InvalidRequestWithError(err)
	default:
		return err
	}
}
