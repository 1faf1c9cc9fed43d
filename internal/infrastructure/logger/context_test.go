package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_NotFound(t *testing.T) {
	retrieved := FromContext(context.Background())
	assert.NotNil(t, retrieved, "should return a no-op logger, not nil")
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx, scoped := WithRequestID(context.Background(), zap.New(core), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, scoped, FromContext(ctx))

	scoped.Info("importing order")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithJob(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx, scoped := WithJob(context.Background(), zap.New(core), "order-import")

	assert.Equal(t, "order-import", GetJob(ctx))

	scoped.Info("run started")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "order-import", entries[0].ContextMap()["job"])
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetJob_NotFound(t *testing.T) {
	assert.Empty(t, GetJob(context.Background()))
}

func TestChainedEnrichment(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, _ = WithJob(ctx, logger, "ack-reconcile")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "ack-reconcile", GetJob(ctx))
}
