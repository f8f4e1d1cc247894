package repositories

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// ContactRepository defines read access to the user's contacts.
type ContactRepository interface {
	// ListFrequent returns the user's contacts ordered by call count,
	// most called first.
	ListFrequent(ctx context.Context, userID string, limit int) ([]*entities.Contact, error)

	// GetEmergencyContact returns the first contact tagged "emergency",
	// or a not-found error when none exists.
	GetEmergencyContact(ctx context.Context, userID string) (*entities.Contact, error)
}
