package middleware

import (
	"encoding/json"
	"net/http"
)

// Problem represents an RFC 7807 problem details object written by
// middleware that runs before the API error handler is reachable.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Trace  string `json:"trace_id,omitempty"`
}

// Render writes the problem as the response
func (p Problem) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	return json.NewEncoder(w).Encode(p)
}

// statusTypes covers the statuses middleware writes itself
var statusTypes = map[int]string{
	http.StatusBadRequest:           "/errors/bad-request",
	http.StatusUnsupportedMediaType: "/errors/unsupported-file",
	http.StatusTooManyRequests:      "/errors/rate-limit",
	http.StatusInternalServerError:  "/errors/internal",
}

// ProblemFromStatus creates a Problem from an HTTP status code
func ProblemFromStatus(status int, detail string, traceID string) Problem {
	problemType, ok := statusTypes[status]
	if !ok {
		problemType = "/errors/unknown"
	}

	return Problem{
		Type:   problemType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Trace:  traceID,
	}
}
