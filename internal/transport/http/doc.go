// Package http implements the HTTP handlers of the dashboard service.
// Handlers stay thin: they parse and validate the request, call a service
// and translate service errors into RFC 7807 responses through the shared
// ErrorHandler.
//
// # Endpoints
//
//	GET  /                                   dashboard page (embedded)
//	POST /api/dashboard/upload               multipart field "file"
//	GET  /api/dashboard/view                 ?keyword=&taxonomy=&category=
//	GET  /api/dashboard/export/{kind}.{fmt}  rows|summary|groups . csv|xlsx
//	POST /api/dashboard/reset
//	GET  /api/health, /api/health/live, /api/health/ready, /api/version
//
// # Sessions
//
// The browser is identified by the HttpOnly supernova_session cookie,
// issued on the first upload. Requests without it behave as a session
// with nothing uploaded.
package http
