package observability

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"saraobi.com/web/internal/requestctx"
)

const tracerName = "saraobi.com/web/internal/observability"

var propagator = propagation.TraceContext{}

// TraceMiddleware continues an incoming W3C trace context when present, starts a
// server span, and stores its identity on the request context. Spans go to the
// global tracer provider, which is a no-op unless the binary installs one.
func TraceMiddleware(next http.Handler) http.Handler {
	if next == nil {
		next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	}
	tracer := otel.Tracer(tracerName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, spanNameFromRequest(r), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		span.SetAttributes(standardSpanAttributes(r)...)

		spanCtx := span.SpanContext()
		info := requestctx.TraceInfo{Sampled: spanCtx.IsSampled()}
		if spanCtx.HasTraceID() {
			info.TraceID = spanCtx.TraceID().String()
		}
		if spanCtx.HasSpanID() {
			info.SpanID = spanCtx.SpanID().String()
		}
		ctx = requestctx.WithTrace(ctx, info)
		propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func spanNameFromRequest(r *http.Request) string {
	if r == nil || r.URL == nil {
		return "unknown"
	}
	path := r.URL.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s %s", r.Method, path)
}

func standardSpanAttributes(r *http.Request) []attribute.KeyValue {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", r.Method),
		attribute.String("url.scheme", scheme),
	}
	if r.URL != nil && r.URL.Path != "" {
		attrs = append(attrs, attribute.String("url.path", r.URL.Path))
	}
	if r.Host != "" {
		attrs = append(attrs, attribute.String("server.address", r.Host))
	}
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, attribute.String("user_agent.original", ua))
	}
	if r.Header.Get("HX-Request") == "true" {
		attrs = append(attrs, attribute.Bool("htmx.request", true))
	}
	return attrs
}
