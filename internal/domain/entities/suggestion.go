package entities

import (
	"time"
)

// SuggestionCategory groups suggestions by what they act on.
type SuggestionCategory string

const (
	CategoryEnvironment SuggestionCategory = "environment"
	CategoryActivity    SuggestionCategory = "activity"
	CategorySocial      SuggestionCategory = "social"
	CategoryWellness    SuggestionCategory = "wellness"
	CategoryCrisis      SuggestionCategory = "crisis"
)

// SuggestionPriority orders suggestions for display and ranking.
type SuggestionPriority string

const (
	PriorityLow    SuggestionPriority = "low"
	PriorityMedium SuggestionPriority = "medium"
	PriorityHigh   SuggestionPriority = "high"
	PriorityUrgent SuggestionPriority = "urgent"
)

// ActionKind identifies what an ActionSpec instructs.
type ActionKind string

const (
	ActionDeviceControl ActionKind = "device_control"
	ActionBreathing     ActionKind = "breathing_exercise"
	ActionCallContact   ActionKind = "call_contact"
	ActionOpenResource  ActionKind = "open_resource"
	ActionManual        ActionKind = "manual_guidance"
)

// ActionSpec is a declarative instruction attached to a suggestion.
// It is not yet bound to the automation engine's types; the compiler
// resolves it against the live device inventory at execution time.
type ActionSpec struct {
	Kind           ActionKind        `json:"kind"`
	TargetDeviceID string            `json:"target_device_id,omitempty"`
	Parameters     map[string]string `json:"parameters,omitempty"`
	DisplayText    string            `json:"display_text"`
}

// Suggestion is a proposed automation or wellness action derived from
// a check-in. Once persisted it only moves through one-way transitions:
// pending -> executed or pending -> dismissed, both terminal.
type Suggestion struct {
	ID                string             `json:"id" db:"id"`
	CheckInID         string             `json:"check_in_id" db:"check_in_id"`
	Title             string             `json:"title" db:"title"`
	Description       string             `json:"description" db:"description"`
	Category          SuggestionCategory `json:"category" db:"category"`
	Priority          SuggestionPriority `json:"priority" db:"priority"`
	Actions           []ActionSpec       `json:"actions" db:"actions"`
	Rationale         string             `json:"rationale,omitempty" db:"rationale"`
	EstimatedDuration string             `json:"estimated_duration,omitempty" db:"estimated_duration"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
	IsExecuted        bool               `json:"is_executed" db:"is_executed"`
	ExecutedAt        *time.Time         `json:"executed_at,omitempty" db:"executed_at"`
	IsDismissed       bool               `json:"is_dismissed" db:"is_dismissed"`
}

// IsTerminal reports whether the suggestion reached a terminal state.
func (s *Suggestion) IsTerminal() bool {
	return s.IsExecuted || s.IsDismissed
}

// Environment returns the environment profile name carried by the first
// action, or the empty string when none is set.
func (s *Suggestion) Environment() string {
	if len(s.Actions) == 0 {
		return ""
	}
	return s.Actions[0].Parameters["environment"]
}
