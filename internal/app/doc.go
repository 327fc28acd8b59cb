// Package app wires the dashboard service together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, optional YAML file, SUPERNOVA_* env)
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Open the session store (memory or Redis)
//	4. Create dashboard metrics and services
//	5. Build the chi router and HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM. Serve runs the HTTP server, the
// expired-session sweeper and the rate limiter janitor in one errgroup; on
// cancellation the server drains in-flight requests within
// Server.ShutdownTimeout, then the session store and telemetry providers
// are closed.
package app
