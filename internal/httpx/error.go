// Package httpx writes error responses for requests that never reach a page template.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"saraobi.com/web/internal/requestctx"
)

// Error is the JSON error envelope returned to htmx and API clients.
type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
}

// NewError constructs an Error. A zero status becomes 500.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{
		Code:    sanitize(code, 80),
		Message: sanitize(message, 512),
		Status:  status,
	}
}

// WithDetails attaches extra fields copied into the payload.
func (e Error) WithDetails(details map[string]any) Error {
	if len(details) == 0 {
		return e
	}
	cp := make(map[string]any, len(details))
	for k, v := range details {
		cp[k] = v
	}
	e.Details = cp
	return e
}

func (e Error) Error() string { return e.Code + ": " + e.Message }

// WriteError writes err as JSON when the caller is htmx or asked for JSON, and
// as plain text otherwise.
func WriteError(ctx context.Context, w http.ResponseWriter, r *http.Request, err Error) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if !WantsJSON(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(err.Message + "\n"))
		return
	}

	payload := map[string]any{
		"error":   err.Code,
		"message": err.Message,
		"status":  status,
	}
	if id := sanitize(middleware.GetReqID(ctx), 80); id != "" {
		payload["request_id"] = id
	}
	if id := sanitize(requestctx.TraceID(ctx), 64); id != "" {
		payload["trace_id"] = id
	}
	for k, v := range err.Details {
		payload[k] = v
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WantsJSON reports whether the request came from htmx or accepts JSON.
func WantsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func sanitize(value string, limit int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
