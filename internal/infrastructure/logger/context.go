package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}
type requestIDKey struct{}
type jobKey struct{}

// WithContext attaches the logger to the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to the context, or a no-op
// logger when none was attached
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stamps the context with a request id and returns a logger
// carrying it as a field
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey{}, requestID)
	scoped := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, scoped), scoped
}

// WithJob stamps the context with a background job name and returns a
// logger carrying it as a field
func WithJob(ctx context.Context, logger *zap.Logger, job string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, jobKey{}, job)
	scoped := logger.With(zap.String("job", job))
	return WithContext(ctx, scoped), scoped
}

// GetRequestID returns the request id from the context, if any
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// GetJob returns the background job name from the context, if any
func GetJob(ctx context.Context) string {
	if job, ok := ctx.Value(jobKey{}).(string); ok {
		return job
	}
	return ""
}
