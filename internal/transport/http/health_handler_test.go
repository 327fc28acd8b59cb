package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supernova/internal/services"
	"supernova/internal/session"
	"supernova/internal/shared/testutil"
	"supernova/pkg/contracts"
)

type downStore struct{}

func (downStore) Ping(ctx context.Context) error { return errors.New("dial tcp: connection refused") }

func newHealthRouter(t *testing.T, store services.Pinger) *chi.Mux {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(services.NewHealthService(store, "memory", logger), logger)

	r := chi.NewRouter()
	r.Mount("/api/health", h.Routes())
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler(t *testing.T) {
	r := newHealthRouter(t, session.NewMemoryStore(time.Hour))

	tests := []struct {
		path       string
		wantStatus string
	}{
		{path: "/api/health", wantStatus: "ok"},
		{path: "/api/health/live", wantStatus: "alive"},
		{path: "/api/health/ready", wantStatus: "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body services.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, contracts.Version, body.Version)
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	r := newHealthRouter(t, downStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
	assert.Contains(t, w.Body.String(), "connection refused")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code, "liveness ignores the store")
}

func TestHealthHandler_Version(t *testing.T) {
	r := newHealthRouter(t, session.NewMemoryStore(time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, contracts.Version, body["version"])
	assert.Contains(t, body, "uptime")
}

func TestServeDashboard(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := ServeDashboard(50<<20, logger)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))

	page := w.Body.String()
	assert.Contains(t, page, "<title>SuperNova Genome Dashboard</title>")
	assert.Contains(t, page, `data-max-upload="52428800"`)
	assert.Contains(t, page, "v"+contracts.Version)
}
