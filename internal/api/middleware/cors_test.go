package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seren-labs/attune/internal/api/middleware"
)

func corsHandler(origins []string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.CORSMiddleware(origins)(next)
}

func TestCORSMiddleware_Allowlist(t *testing.T) {
	t.Run("allowed origin is echoed with Vary", func(t *testing.T) {
		handler := corsHandler([]string{"https://app.attune.dev"})

		req := httptest.NewRequest("GET", "/api/v1/executions", nil)
		req.Header.Set("Origin", "https://app.attune.dev")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://app.attune.dev", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		handler := corsHandler([]string{"https://app.attune.dev"})

		req := httptest.NewRequest("GET", "/api/v1/executions", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard stays a wildcard", func(t *testing.T) {
		handler := corsHandler(nil)

		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "https://anything.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
		handler := middleware.CORSMiddleware([]string{"*"})(next)

		req := httptest.NewRequest("OPTIONS", "/api/v1/checkins", nil)
		req.Header.Set("Origin", "https://app.attune.dev")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, called)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}
