package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "supernova.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(50<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 2*time.Second, cfg.Search.MatchTimeout)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "supernova-dashboard", cfg.Telemetry.ServiceName)
	assert.True(t, cfg.Telemetry.MetricsEnabled)
}

func TestLoadFile_Precedence(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  read_timeout: 10s
session:
  backend: redis
  redis_url: redis://file:6379/0
  ttl: 30m
security:
  allowed_origins:
    - http://file.example
`)

	t.Setenv("SUPERNOVA_SERVER_PORT", "7070")
	t.Setenv("SUPERNOVA_SECURITY_ALLOWED_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("SUPERNOVA_SECURITY_RATE_LIMIT_RPS", "5.5")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port, "env overrides file")
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout, "file overrides default")
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout, "default kept")
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, "redis://file:6379/0", cfg.Session.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 5.5, cfg.Security.RateLimit.RPS)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing file",
			file:    filepath.Join(os.TempDir(), "does-not-exist", "supernova.yaml"),
			wantErr: "failed to load config from file",
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"SUPERNOVA_SERVER_PORT": "eighty"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SUPERNOVA_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "redis without url",
			env:     map[string]string{"SUPERNOVA_SESSION_BACKEND": "redis"},
			wantErr: "requires a redis url",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"SUPERNOVA_SESSION_BACKEND": "etcd"},
			wantErr: "unknown session backend",
		},
		{
			name:    "non-positive upload limit",
			env:     map[string]string{"SUPERNOVA_UPLOAD_MAX_BYTES": "0"},
			wantErr: "upload max bytes",
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"SUPERNOVA_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: "unknown trace exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFile(tt.file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Session.Backend = "MEMORY"

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
}

func TestGetConfigFilePath_Explicit(t *testing.T) {
	t.Setenv("SUPERNOVA_CONFIG", "/etc/supernova/custom.yaml")
	assert.Equal(t, "/etc/supernova/custom.yaml", getConfigFilePath())
}
