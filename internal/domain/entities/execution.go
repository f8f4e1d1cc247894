package entities

import (
	"time"
)

// Completion status values recorded for an execution attempt.
const (
	ExecutionStatusSuccess      = "SUCCESS"
	ExecutionStatusFailedPrefix = "FAILED: "
)

// ExecutionRecord is one append-only audit entry per execution attempt.
// Records are never updated after insertion.
type ExecutionRecord struct {
	ID               string    `json:"id" db:"id"`
	SuggestionID     string    `json:"suggestion_id" db:"suggestion_id"`
	CheckInID        string    `json:"check_in_id" db:"check_in_id"`
	ExecutedAt       time.Time `json:"executed_at" db:"executed_at"`
	CompletionStatus string    `json:"completion_status" db:"completion_status"`
}

// Succeeded reports whether this attempt completed successfully.
func (r *ExecutionRecord) Succeeded() bool {
	return r.CompletionStatus == ExecutionStatusSuccess
}

// ExecutionEvent is one human-readable progress line published to the
// status stream while an execution runs. The stream resets when a new
// execution for the same suggestion starts; events are not persisted.
type ExecutionEvent struct {
	ID           string    `json:"id"`
	SuggestionID string    `json:"suggestion_id"`
	Message      string    `json:"message"`
	Final        bool      `json:"final"`
	Timestamp    time.Time `json:"timestamp"`
}
