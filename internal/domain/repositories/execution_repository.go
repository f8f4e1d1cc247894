package repositories

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// ExecutionRepository defines the append-only execution audit log.
type ExecutionRepository interface {
	// Create appends one execution record. Records are never updated.
	Create(ctx context.Context, record *entities.ExecutionRecord) error

	// ListRecent returns the most recent records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entities.ExecutionRecord, error)

	// ListBySuggestion returns all attempts for one suggestion,
	// newest first.
	ListBySuggestion(ctx context.Context, suggestionID string) ([]*entities.ExecutionRecord, error)
}
