package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"supernova/pkg/contracts"
)

//go:embed web/index.html
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// pageData is handed to the dashboard page template
type pageData struct {
	Title          string
	Version        string
	MaxUploadBytes int64
}

// ServeDashboard serves the single dashboard page. The page is rendered once
// since none of its inputs change at runtime.
func ServeDashboard(maxUploadBytes int64, logger *slog.Logger) http.HandlerFunc {
	var page bytes.Buffer
	err := indexTemplate.Execute(&page, pageData{
		Title:          "SuperNova Genome Dashboard",
		Version:        contracts.Version,
		MaxUploadBytes: maxUploadBytes,
	})

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			logger.ErrorContext(r.Context(), "dashboard page failed to render", slog.String("error", err.Error()))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(page.Bytes())
	}
}
