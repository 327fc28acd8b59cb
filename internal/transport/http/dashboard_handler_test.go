package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "supernova/internal/errors"
	mw "supernova/internal/middleware"
	"supernova/internal/services"
	"supernova/internal/session"
	"supernova/internal/shared/testutil"
	"supernova/internal/validation"
)

const testUploadLimit = 1 << 20

type dashboardServer struct {
	router *chi.Mux
	cookie *http.Cookie
}

func newDashboardServer(t *testing.T, uploadLimit int64) *dashboardServer {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	svc := services.NewDashboardService(services.DashboardDeps{
		Store:     session.NewMemoryStore(time.Hour),
		Validator: validation.NewFileValidator(logger, uploadLimit),
		Logger:    logger,
	})
	handler := NewDashboardHandler(svc, mw.NewValidationMiddleware(logger, errorHandler),
		DashboardHandlerConfig{MaxUploadBytes: uploadLimit}, logger, errorHandler)

	r := chi.NewRouter()
	r.Mount("/api/dashboard", handler.Routes())
	return &dashboardServer{router: r}
}

func multipartBody(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (s *dashboardServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			s.cookie = c
		}
	}
	return w
}

func (s *dashboardServer) upload(t *testing.T, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "file", name, data)
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/upload", body)
	req.Header.Set("Content-Type", contentType)
	return s.do(req)
}

func (s *dashboardServer) get(path string, query url.Values) *httptest.ResponseRecorder {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestDashboardHandler_Upload(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)

	w := s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NotNil(t, s.cookie, "upload issues a session cookie")
	assert.True(t, s.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, s.cookie.SameSite)

	data := decodeJSON(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "genome.xlsx", data["file_name"])
	assert.Equal(t, float64(4), data["rows"])
}

func TestDashboardHandler_UploadKeepsCookie(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))
	first := s.cookie.Value

	w := s.upload(t, "genome2.xlsx", testutil.AnnotationWorkbook(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies(), "existing session is reused")
	assert.Equal(t, first, s.cookie.Value)
}

func TestDashboardHandler_UploadErrors(t *testing.T) {
	noSheet := testutil.BuildWorkbook(t, "Sheet1", [][]interface{}{{"Gene_Name"}, {"abc"}})

	tests := []struct {
		name       string
		limit      int64
		file       string
		data       []byte
		wantStatus int
		wantCode   string
	}{
		{name: "missing annotation sheet", limit: testUploadLimit, file: "genome.xlsx", data: noSheet, wantStatus: http.StatusUnprocessableEntity, wantCode: apierrors.CodeSheetReadFailed},
		{name: "csv upload", limit: testUploadLimit, file: "genome.csv", data: []byte("a,b\n"), wantStatus: http.StatusUnsupportedMediaType, wantCode: apierrors.CodeUnsupportedFile},
		{name: "renamed text file", limit: testUploadLimit, file: "genome.xlsx", data: []byte("not a workbook"), wantStatus: http.StatusUnsupportedMediaType, wantCode: apierrors.CodeUnsupportedFile},
		{name: "over the limit", limit: 100, file: "genome.xlsx", data: testutil.AnnotationWorkbook(t), wantStatus: http.StatusRequestEntityTooLarge, wantCode: apierrors.CodePayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newDashboardServer(t, tt.limit)
			w := s.upload(t, tt.file, tt.data)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, decodeJSON(t, w)["error_code"])
		})
	}
}

func TestDashboardHandler_UploadSheetErrorMessage(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	w := s.upload(t, "genome.xlsx", testutil.BuildWorkbook(t, "Genes", [][]interface{}{{"Gene_Name"}}))

	assert.Equal(t, "Error reading the 'Annotation' sheet. Please check your spreadsheet.", decodeJSON(t, w)["detail"])
}

func TestDashboardHandler_UploadRequestErrors(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)

	t.Run("wrong form field", func(t *testing.T) {
		body, contentType := multipartBody(t, "workbook", "genome.xlsx", testutil.AnnotationWorkbook(t))
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := s.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.CodeValidationFailed, decodeJSON(t, w)["error_code"])
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/upload", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		w := s.do(req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestDashboardHandler_ViewWithoutUpload(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)

	w := s.get("/api/dashboard/view", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierrors.CodeNoUpload, decodeJSON(t, w)["error_code"])
}

func TestDashboardHandler_View(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))

	w := s.get("/api/dashboard/view", url.Values{"keyword": {"iron"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeJSON(t, w)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "genome.xlsx", data["file_name"])
	assert.Equal(t, float64(3), data["matched_rows"])
	assert.Equal(t, "PGPT_CATEGORY_3", data["taxonomy"])
	assert.Len(t, data["groups"], 2)
	assert.Len(t, data["summary"], 3)
}

func TestDashboardHandler_ViewNoMatch(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))

	w := s.get("/api/dashboard/view", url.Values{"keyword": {"xyz"}})
	require.Equal(t, http.StatusOK, w.Code, "no match is a notice, not an error")

	data := decodeJSON(t, w)["data"].(map[string]interface{})
	notices := data["notices"].([]interface{})
	require.NotEmpty(t, notices)
	assert.Equal(t, "No results found for: 'xyz'.", notices[0].(map[string]interface{})["message"])
}

func TestDashboardHandler_ViewErrors(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))

	tests := []struct {
		name       string
		query      url.Values
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{name: "bad regex", query: url.Values{"keyword": {"[abc"}}, wantStatus: http.StatusUnprocessableEntity, wantCode: apierrors.CodeFilterFailed, wantDetail: "Error processing search term '[abc'."},
		{name: "absent taxonomy column", query: url.Values{"taxonomy": {"PGPT_CATEGORY_5"}}, wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeUnknownTaxonomy},
		{name: "not a taxonomy column", query: url.Values{"taxonomy": {"Gene_Name"}}, wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeValidationFailed},
		{name: "keyword too long", query: url.Values{"keyword": {strings.Repeat("k", 300)}}, wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.get("/api/dashboard/view", tt.query)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			body := decodeJSON(t, w)
			assert.Equal(t, tt.wantCode, body["error_code"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
		})
	}
}

func TestDashboardHandler_Export(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))

	w := s.get("/api/dashboard/export/summary.csv", url.Values{"category": {"NITROGEN_FIXATION"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="genome_summary.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(w.Body.String(), "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Gene_Name,Synonymous Gene Names,Gene_Product,Feature", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "nifH,"))
	assert.True(t, strings.HasSuffix(lines[1], ",NITROGEN_FIXATION"))
}

func TestDashboardHandler_ExportXLSX(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))

	w := s.get("/api/dashboard/export/rows.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestDashboardHandler_ExportErrors(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)

	w := s.get("/api/dashboard/export/rows.csv", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "nothing uploaded")

	w = s.get("/api/dashboard/export/genes.csv", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.get("/api/dashboard/export/rows.json", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_Reset(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))
	require.Equal(t, http.StatusOK, s.get("/api/dashboard/view", nil).Code)

	w := s.do(httptest.NewRequest(http.MethodPost, "/api/dashboard/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, s.get("/api/dashboard/view", nil).Code)

	s.cookie = nil
	w = s.do(httptest.NewRequest(http.MethodPost, "/api/dashboard/reset", nil))
	assert.Equal(t, http.StatusOK, w.Code, "reset without a session is a no-op")
}

func TestDashboardHandler_IgnoresForgedCookie(t *testing.T) {
	s := newDashboardServer(t, testUploadLimit)
	s.cookie = &http.Cookie{Name: session.CookieName, Value: "../../etc/passwd"}

	w := s.upload(t, "genome.xlsx", testutil.AnnotationWorkbook(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "../../etc/passwd", s.cookie.Value, "a fresh id replaces an invalid one")
}
