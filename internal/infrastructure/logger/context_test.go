package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext_FromContext(t *testing.T) {
	log := zap.NewNop()
	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
	// No-op logger must swallow everything without panicking.
	log.Info("dropped")
}

func TestWithRequestID(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, enriched := WithRequestID(context.Background(), log, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	enriched.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithTenantID(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, enriched := WithTenantID(context.Background(), log, "tenant-9")

	assert.Equal(t, "tenant-9", GetTenantID(ctx))

	enriched.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "tenant-9", logs.All()[0].ContextMap()["tenant_id"])
}

func TestWithUserID(t *testing.T) {
	log, _ := newObservedLogger()

	ctx, _ := WithUserID(context.Background(), log, "user-7")
	assert.Equal(t, "user-7", GetUserID(ctx))
}

func TestGetters_Missing(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTenantID(ctx))
	assert.Empty(t, GetUserID(ctx))
}
