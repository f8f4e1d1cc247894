package repositories

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// CheckInRepository defines persistence for mood check-ins.
type CheckInRepository interface {
	// Create stores a new check-in. The write is durable before return.
	Create(ctx context.Context, checkIn *entities.CheckIn) error

	// GetByID retrieves a check-in by id.
	GetByID(ctx context.Context, id string) (*entities.CheckIn, error)

	// Update replaces the emotion tags and free text under the same id.
	// This is the only mutation a persisted check-in supports.
	Update(ctx context.Context, checkIn *entities.CheckIn) error

	// ListByUser returns the user's check-ins, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*entities.CheckIn, error)
}
