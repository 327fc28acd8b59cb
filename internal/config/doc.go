// Package config loads the dashboard server configuration.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file: $SUPERNOVA_CONFIG, supernova.yaml or configs/supernova.yaml
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern SUPERNOVA_<SECTION>_<FIELD>:
//
//	SUPERNOVA_SERVER_PORT=8080
//	SUPERNOVA_UPLOAD_MAX_BYTES=52428800
//	SUPERNOVA_SESSION_BACKEND=redis
//	SUPERNOVA_SESSION_REDIS_URL=redis://localhost:6379/0
//	SUPERNOVA_SECURITY_ALLOWED_ORIGINS=http://localhost:8080,http://127.0.0.1:8080
//	SUPERNOVA_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Example File
//
//	server:
//	  port: 9090
//	session:
//	  backend: redis
//	  redis_url: redis://localhost:6379/0
//	  ttl: 1h
//
// Load validates the result and fails fast on impossible settings such as a
// non-positive port or an unknown session backend.
package config
