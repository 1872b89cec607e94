// Package requestctx carries request-scoped logging and trace metadata.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerContextKey contextKey = "saraobi.com/web/internal/requestctx/logger"
	traceContextKey  contextKey = "saraobi.com/web/internal/requestctx/trace"
)

var noopLogger = zap.NewNop()

// TraceInfo is the span identity of the current request.
type TraceInfo struct {
	TraceID string
	SpanID  string
	Sampled bool
}

// WithLogger stores the logger in context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// Logger returns the context logger or the shared no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return noopLogger
	}
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return noopLogger
}

// NoopLogger exposes the shared no-op logger so callers can detect an unset context logger.
func NoopLogger() *zap.Logger { return noopLogger }

func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceContextKey, info)
}

func Trace(ctx context.Context) (TraceInfo, bool) {
	if ctx == nil {
		return TraceInfo{}, false
	}
	info, ok := ctx.Value(traceContextKey).(TraceInfo)
	return info, ok
}

// TraceID returns the trace identifier, or "".
func TraceID(ctx context.Context) string {
	info, _ := Trace(ctx)
	return info.TraceID
}
