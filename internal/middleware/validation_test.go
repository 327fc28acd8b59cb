package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "supernova/internal/errors"
	"supernova/internal/shared/testutil"
	"supernova/pkg/contracts/domain"
)

func newValidation(t *testing.T) *ValidationMiddleware {
	logger, _ := testutil.NewTestLogger(t)
	return NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))
}

func TestValidateStruct_ViewQuery(t *testing.T) {
	v := newValidation(t)

	tests := []struct {
		name    string
		query   domain.ViewQuery
		wantErr bool
		field   string
	}{
		{name: "empty query", query: domain.ViewQuery{}},
		{name: "valid taxonomy", query: domain.ViewQuery{Keyword: "iron", Taxonomy: "PGPT_CATEGORY_6"}},
		{name: "taxonomy out of range", query: domain.ViewQuery{Taxonomy: "PGPT_CATEGORY_7"}, wantErr: true, field: "taxonomy"},
		{name: "arbitrary column", query: domain.ViewQuery{Taxonomy: "Gene_Name"}, wantErr: true, field: "taxonomy"},
		{name: "keyword too long", query: domain.ViewQuery{Keyword: strings.Repeat("a", 257)}, wantErr: true, field: "keyword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.query)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			require.Len(t, details.Errors, 1)
			assert.Equal(t, tt.field, details.Errors[0].Field)
		})
	}
}

func TestValidateStruct_Filename(t *testing.T) {
	v := newValidation(t)

	type upload struct {
		Name string `json:"file_name" validate:"required,filename"`
	}

	assert.NoError(t, v.ValidateStruct(upload{Name: "genome.xlsx"}))
	assert.Error(t, v.ValidateStruct(upload{Name: "../genome.xlsx"}))
	assert.Error(t, v.ValidateStruct(upload{Name: `dir\genome.xlsx`}))
	assert.Error(t, v.ValidateStruct(upload{}))
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	v := newValidation(t)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, v.ValidateStruct("nope"), &apiErr)
	assert.Equal(t, apierrors.CodeInvalidRequest, apiErr.ErrorCode)
}

func TestContentTypeValidator(t *testing.T) {
	v := newValidation(t)
	h := v.ContentTypeValidator("multipart/form-data")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{name: "get skips the check", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "multipart accepted", method: http.MethodPost, contentType: "multipart/form-data; boundary=x", wantStatus: http.StatusOK},
		{name: "missing content type", method: http.MethodPost, wantStatus: http.StatusBadRequest},
		{name: "json rejected", method: http.MethodPost, contentType: "application/json", wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/dashboard/upload", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusUnsupportedMediaType {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, apierrors.CodeUnsupportedFile, body["error_code"])
			}
		})
	}
}
