package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supernova/internal/session"
	"supernova/internal/shared/testutil"
	"supernova/pkg/contracts"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthService_HealthCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService(session.NewMemoryStore(0), "memory", logger)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, contracts.Version, status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus string
		wantStore  string
	}{
		{name: "memory store", store: session.NewMemoryStore(0), wantStatus: "ready", wantStore: "ready"},
		{name: "unreachable store", store: pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }), wantStatus: "not_ready", wantStore: "not_ready"},
		{name: "no store", store: nil, wantStatus: "not_ready", wantStore: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService(tt.store, "redis", logger)

			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)

			store, ok := status.Services["session_store"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, tt.wantStore, store.Status)
		})
	}
}

func TestHealthService_ReadinessCheckPassesDeadline(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	var hadDeadline bool
	hs := NewHealthService(pingFunc(func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}), "redis", logger)

	hs.ReadinessCheck(context.Background())
	assert.True(t, hadDeadline)
}

func TestHealthService_LivenessCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService(nil, "memory", logger)

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "goroutines")
	assert.Contains(t, status.Runtime, "go_version")
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService(nil, "memory", nil)

	info := hs.Version()
	assert.Equal(t, contracts.Version, info["version"])
	assert.Equal(t, contracts.APIVersion, info["api_version"])
	assert.Contains(t, info, "start_time")
}
