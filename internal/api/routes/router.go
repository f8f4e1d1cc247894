package routes

import (
	"net/http"

	"github.com/seren-labs/attune/internal/api/handlers"
	"github.com/seren-labs/attune/internal/api/middleware"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	checkInHandler    *handlers.CheckInHandler
	suggestionHandler *handlers.SuggestionHandler
	streamHandler     *handlers.StreamHandler

	metrics        *observability.Metrics
	allowedOrigins []string
}

// NewRouter creates a new router
func NewRouter(
	checkInHandler *handlers.CheckInHandler,
	suggestionHandler *handlers.SuggestionHandler,
	streamHandler *handlers.StreamHandler,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		checkInHandler:    checkInHandler,
		suggestionHandler: suggestionHandler,
		streamHandler:     streamHandler,
		metrics:           metrics,
		allowedOrigins:    allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Check-in endpoints
	r.mux.HandleFunc("POST /api/v1/checkins", r.checkInHandler.CreateCheckIn)
	r.mux.HandleFunc("PUT /api/v1/checkins/{id}", r.checkInHandler.UpdateCheckIn)
	r.mux.HandleFunc("GET /api/v1/checkins/{id}/suggestions", r.checkInHandler.GetSuggestions)

	// Suggestion endpoints
	r.mux.HandleFunc("POST /api/v1/suggestions/{id}/execute", r.suggestionHandler.ExecuteSuggestion)
	r.mux.HandleFunc("POST /api/v1/suggestions/{id}/dismiss", r.suggestionHandler.DismissSuggestion)

	// Execution endpoints
	r.mux.HandleFunc("GET /api/v1/executions", r.suggestionHandler.ListExecutions)
	r.mux.HandleFunc("GET /api/v1/executions/{id}/stream", r.streamHandler.StreamExecution)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflight requests short-circuit early
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
