package repositories

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// SuggestionRepository defines persistence for generated suggestions.
// Writes are serialized per suggestion id by the adapter.
type SuggestionRepository interface {
	// Create stores a new suggestion produced by a generation cycle.
	// Duplicate titles across check-ins are allowed; deduplication is
	// per-cycle, not global.
	Create(ctx context.Context, suggestion *entities.Suggestion) error

	// GetByID retrieves a suggestion by id.
	GetByID(ctx context.Context, id string) (*entities.Suggestion, error)

	// Update persists an execute transition. Terminal suggestions are
	// rejected with a conflict error.
	Update(ctx context.Context, suggestion *entities.Suggestion) error

	// Dismiss marks a pending suggestion dismissed, a terminal state.
	Dismiss(ctx context.Context, id string) error

	// ListActiveByCheckIn returns non-terminal suggestions for a
	// check-in in generation order.
	ListActiveByCheckIn(ctx context.Context, checkInID string) ([]*entities.Suggestion, error)

	// ListRecentTitles returns titles of the user's most recent
	// suggestions, newest first, for prompt history.
	ListRecentTitles(ctx context.Context, userID string, limit int) ([]string, error)
}
