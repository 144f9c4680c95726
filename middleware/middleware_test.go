package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newRouter(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(logger), CORS([]string{"http://localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.POST("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestPreflightIsAnsweredWithoutHandler(t *testing.T) {
	r := newRouter(zap.NewNop())

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDisallowedOriginGetsNoHeader(t *testing.T) {
	r := newRouter(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggerAndRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newRouter(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/ping", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "abc-123", fields["request_id"])
	}
}

func TestRequestIDGenerated(t *testing.T) {
	r := newRouter(zap.NewNop())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}
