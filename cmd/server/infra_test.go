package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/platform/config"
	platformredis "abacus/internal/platform/redis"
)

func TestBuildInfraMemoryBackends(t *testing.T) {
	cfg := &config.Config{
		Usage: config.UsageConfig{Backend: config.BackendMemory},
		Audit: config.AuditConfig{Backend: config.BackendMemory, MemoryCapacity: 10},
	}
	in, err := buildInfra(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.NotNil(t, in.usage)
	assert.NotNil(t, in.audit)
	assert.Nil(t, in.worker, "memory audit needs no background worker")
	assert.NoError(t, in.Health(context.Background()))
	in.Close(context.Background())
}

func TestBuildInfraDisabledBackends(t *testing.T) {
	cfg := &config.Config{
		Usage: config.UsageConfig{Backend: config.BackendNone},
		Audit: config.AuditConfig{Backend: config.BackendNone},
	}
	in, err := buildInfra(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Nil(t, in.usage)
	assert.Nil(t, in.audit)
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(&infra{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandlerHidesBackendErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	backends := &infra{
		redis: &platformredis.Client{Client: client},
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	rec := httptest.NewRecorder()
	healthHandler(backends).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "127.0.0.1")
}
