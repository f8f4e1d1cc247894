package handlers

import (
	"net/http"
	"strconv"

	"github.com/seren-labs/attune/internal/application/services"
)

// SuggestionHandler handles suggestion execution and dismissal
type SuggestionHandler struct {
	suggestions *services.SuggestionService
	automations *services.AutomationService
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestions *services.SuggestionService, automations *services.AutomationService) *SuggestionHandler {
	return &SuggestionHandler{
		suggestions: suggestions,
		automations: automations,
	}
}

// ExecuteSuggestion handles POST /api/v1/suggestions/{id}/execute.
// A failed execution returns the FAILED record with 502 so the client
// can surface the cause; the suggestion itself stays retryable.
func (h *SuggestionHandler) ExecuteSuggestion(w http.ResponseWriter, r *http.Request) {
	suggestionID := r.PathValue("id")
	if suggestionID == "" {
		respondWithError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	record, err := h.automations.Execute(r.Context(), suggestionID)
	if err != nil {
		if record != nil {
			respondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
				"record": record,
				"error":  record.CompletionStatus,
			})
			return
		}
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"record": record,
	})
}

// DismissSuggestion handles POST /api/v1/suggestions/{id}/dismiss
func (h *SuggestionHandler) DismissSuggestion(w http.ResponseWriter, r *http.Request) {
	suggestionID := r.PathValue("id")
	if suggestionID == "" {
		respondWithError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	if err := h.suggestions.Dismiss(r.Context(), suggestionID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "dismissed",
	})
}

// ListExecutions handles GET /api/v1/executions?limit=n
func (h *SuggestionHandler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	records, err := h.automations.ListRecentExecutions(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"executions": records,
		"count":      len(records),
	})
}
