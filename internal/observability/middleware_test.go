package observability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"saraobi.com/web/internal/requestctx"
)

func newRouter(logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(InjectLoggerMiddleware(logger))
	r.Use(TraceMiddleware)
	r.Use(RequestLoggerMiddleware)
	r.Use(RecoveryMiddleware(logger))
	r.Get("/gallery", func(w http.ResponseWriter, r *http.Request) {
		requestctx.Logger(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	return r
}

func TestRequestLoggerRecordsCompletion(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	router := newRouter(zap.New(core))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery?category=GOLD", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	inner := logs.FilterMessage("inside handler").All()
	require.Len(t, inner, 1)
	assert.NotEmpty(t, inner[0].ContextMap()["request_id"])

	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/gallery", fields["route"])
	assert.Equal(t, int64(2), fields["bytes"])
	assert.Equal(t, zapcore.WarnLevel, done[0].Level)
}

func TestRecoveryWritesInternalError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	router := newRouter(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal_server_error", body["error"])
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())

	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 1)
	assert.Equal(t, zapcore.ErrorLevel, done[0].Level)
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("verbose", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	dev, err := NewLogger("error", true)
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestSanitizeRoute(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/", SanitizeRoute(""))
	assert.Equal(t, "/gallery", SanitizeRoute("/gal\x00lery"))
}
