package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seren-labs/attune/internal/application/services"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

// CheckInHandler handles check-in HTTP requests
type CheckInHandler struct {
	checkIns    *services.CheckInService
	suggestions *services.SuggestionService
}

// NewCheckInHandler creates a new check-in handler
func NewCheckInHandler(checkIns *services.CheckInService, suggestions *services.SuggestionService) *CheckInHandler {
	return &CheckInHandler{
		checkIns:    checkIns,
		suggestions: suggestions,
	}
}

type checkInRequest struct {
	UserID      string   `json:"user_id"`
	EmotionTags []string `json:"emotion_tags"`
	FreeText    string   `json:"free_text"`
}

// CreateCheckIn handles POST /api/v1/checkins. The check-in save fails
// loudly; a failed suggestion cycle degrades to an empty list so the
// saved check-in is never lost.
func (h *CheckInHandler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	var payload checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	checkIn := &entities.CheckIn{
		UserID:      payload.UserID,
		EmotionTags: payload.EmotionTags,
		FreeText:    payload.FreeText,
	}

	if err := h.checkIns.Create(r.Context(), checkIn); err != nil {
		respondWithAppError(w, err)
		return
	}

	suggestions, err := h.suggestions.GenerateForCheckIn(r.Context(), checkIn)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("check_in_id", checkIn.ID).
			Msg("Suggestion cycle failed")
		suggestions = nil
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"check_in":    checkIn,
		"suggestions": suggestions,
	})
}

// UpdateCheckIn handles PUT /api/v1/checkins/{id}. The edit replaces
// the tag/text pair under the same id and reruns the suggestion cycle
// against the new emotional state.
func (h *CheckInHandler) UpdateCheckIn(w http.ResponseWriter, r *http.Request) {
	checkInID := r.PathValue("id")
	if checkInID == "" {
		respondWithError(w, http.StatusBadRequest, "check-in ID is required")
		return
	}

	var payload checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	checkIn, err := h.checkIns.Update(r.Context(), checkInID, payload.EmotionTags, payload.FreeText)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	suggestions, err := h.suggestions.GenerateForCheckIn(r.Context(), checkIn)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("check_in_id", checkIn.ID).
			Msg("Suggestion cycle failed")
		suggestions = nil
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"check_in":    checkIn,
		"suggestions": suggestions,
	})
}

// GetSuggestions handles GET /api/v1/checkins/{id}/suggestions
func (h *CheckInHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	checkInID := r.PathValue("id")
	if checkInID == "" {
		respondWithError(w, http.StatusBadRequest, "check-in ID is required")
		return
	}

	if _, err := h.checkIns.Get(r.Context(), checkInID); err != nil {
		respondWithAppError(w, err)
		return
	}

	suggestions, err := h.suggestions.ListActive(r.Context(), checkInID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
