// Package observability wires structured logging and tracing into the HTTP stack.
package observability

import (
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"saraobi.com/web/internal/httpx"
	"saraobi.com/web/internal/requestctx"
)

// InjectLoggerMiddleware stores logger on the request context.
func InjectLoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestctx.WithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLoggerMiddleware enriches the context logger with request fields and
// logs one completion line per request. Asset requests log at debug.
func RequestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		traceInfo, _ := requestctx.Trace(ctx)
		logger := requestctx.Logger(ctx).With(
			zap.String("request_id", middleware.GetReqID(ctx)),
			zap.String("method", SanitizeMethod(r.Method)),
			zap.String("path", SanitizeRoute(r.URL.Path)),
			zap.String("trace_id", traceInfo.TraceID),
		)
		if ip := realIP(r); ip != "" {
			logger = logger.With(zap.String("remote_ip", ip))
		}
		if r.Header.Get("HX-Request") == "true" {
			logger = logger.With(zap.Bool("htmx", true))
		}
		ctx = requestctx.WithLogger(ctx, logger)
		r = r.WithContext(ctx)

		recorder := newResponseRecorder(w)
		start := time.Now()
		logger.Debug("request started")

		var panicked bool
		defer func() {
			status := recorder.Status()
			if panicked && status < http.StatusInternalServerError {
				status = http.StatusInternalServerError
			}
			route := routePattern(r)

			span := trace.SpanFromContext(ctx)
			span.SetAttributes(semconv.HTTPResponseStatusCode(status), semconv.HTTPRoute(SanitizeRoute(route)))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			} else {
				span.SetStatus(codes.Ok, "")
			}

			fields := []zap.Field{
				zap.String("route", SanitizeRoute(route)),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes", recorder.BytesWritten()),
			}
			switch {
			case panicked || status >= http.StatusInternalServerError:
				logger.Error("request completed", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("request completed", fields...)
			case strings.HasPrefix(r.URL.Path, "/assets/"):
				logger.Debug("request completed", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		}()

		defer func() {
			if rec := recover(); rec != nil {
				panicked = true
				panic(rec)
			}
		}()

		next.ServeHTTP(recorder, r)
	})
}

// RecoveryMiddleware turns panics into a logged 500 response.
func RecoveryMiddleware(fallback *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				logger := requestctx.Logger(ctx)
				if logger == requestctx.NoopLogger() && fallback != nil {
					logger = fallback
				}
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				httpx.WriteError(ctx, w, r, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if r.URL != nil && r.URL.Path != "" {
		return r.URL.Path
	}
	return "/"
}

func realIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return sanitizeString(addr, 64)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
	bytes  int64
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *responseRecorder) WriteHeader(status int) {
	if !r.wrote {
		r.status = status
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *responseRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (r *responseRecorder) Status() int { return r.status }

func (r *responseRecorder) BytesWritten() int64 { return r.bytes }
