package services

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// GenerationInput is the shared input every suggestion generator takes.
// Generators are independently callable and side-effect free except
// for the AI generator's external call.
type GenerationInput struct {
	CheckIn      *entities.CheckIn
	Assessment   *entities.EmotionAssessment
	Summary      *entities.DeviceCapabilitySummary
	Devices      []CategorizedDevice
	PriorityHint entities.SuggestionPriority
}

// SuggestionGenerator is one strategy in the orchestrator's fallback
// chain. A failed generator returns (nil, err); the orchestrator treats
// that as "produced nothing" and moves on, so errors here never abort a
// check-in cycle.
type SuggestionGenerator interface {
	Generate(ctx context.Context, in GenerationInput) ([]*entities.Suggestion, error)
}

// dedupeByTitle keeps the first occurrence of each title, preserving
// order.
func dedupeByTitle(suggestions []*entities.Suggestion) []*entities.Suggestion {
	seen := make(map[string]bool, len(suggestions))
	out := suggestions[:0:0]
	for _, s := range suggestions {
		if seen[s.Title] {
			continue
		}
		seen[s.Title] = true
		out = append(out, s)
	}
	return out
}
