// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the pure transformation core in
// dataprocessing, and owns everything that has side effects: session
// state, metrics, spans and logging.
//
// # Services
//
//	- DashboardService: upload, view, export and reset of one browser
//	  session's annotation table
//	- HealthService: liveness, readiness and version reporting
//
// Every view and export re-evaluates the full pipeline from the stored
// table; nothing derived is cached between interactions.
//
// # Error Handling
//
// Services return sentinel errors wrapped with context:
//
//	if !state.HasUpload() {
//	    return nil, ErrNoUpload
//	}
//
// Handlers map them to API errors with errors.Is.
package services
