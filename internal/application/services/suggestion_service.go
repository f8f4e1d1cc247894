package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/internal/domain/repositories"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

const (
	maxSuggestionsPerCycle = 5
	recentTitleHistory     = 5
)

// SuggestionService drives one suggestion-generation cycle per
// check-in: classify, aggregate capabilities, run the generator
// waterfall, dedupe, cap, persist. Generator failures degrade to
// fewer suggestions; the cycle itself only fails on invariant
// violations, never because a single source produced nothing.
type SuggestionService struct {
	suggestions repositories.SuggestionRepository
	inventory   providers.DeviceInventoryProvider
	classifier  *EmotionClassifier
	aggregator  *CapabilityAggregator
	deviceGen   *DeviceAwareGenerator
	aiGen       *AIGenerator
	templateGen *TemplateGenerator
	metrics     *observability.Metrics
	structureID string
}

// NewSuggestionService creates a new suggestion orchestrator. aiGen
// may be nil when no text-generation credentials are configured; the
// waterfall then goes straight to the template generator.
func NewSuggestionService(
	suggestions repositories.SuggestionRepository,
	inventory providers.DeviceInventoryProvider,
	classifier *EmotionClassifier,
	aggregator *CapabilityAggregator,
	deviceGen *DeviceAwareGenerator,
	aiGen *AIGenerator,
	templateGen *TemplateGenerator,
	metrics *observability.Metrics,
	structureID string,
) *SuggestionService {
	return &SuggestionService{
		suggestions: suggestions,
		inventory:   inventory,
		classifier:  classifier,
		aggregator:  aggregator,
		deviceGen:   deviceGen,
		aiGen:       aiGen,
		templateGen: templateGen,
		metrics:     metrics,
		structureID: structureID,
	}
}

// GenerateForCheckIn runs one full generation cycle and persists the
// surviving suggestions.
func (s *SuggestionService) GenerateForCheckIn(ctx context.Context, checkIn *entities.CheckIn) ([]*entities.Suggestion, error) {
	if checkIn == nil {
		return nil, apperrors.NewValidationError("check-in is required")
	}

	logger := observability.LoggerFromContext(ctx)
	cycleStart := time.Now()

	assessment := s.classifier.Classify(checkIn.EmotionTags, checkIn.FreeText)

	// An unreachable inventory degrades to the all-zero summary; the
	// no-devices fallback covers the rest.
	devices, err := s.inventory.ListDevices(ctx, s.structureID)
	if err != nil {
		logger.Warn().Err(err).Msg("device inventory unavailable, using empty snapshot")
		devices = nil
	}
	categorized, summary := s.aggregator.Aggregate(devices)

	in := GenerationInput{
		CheckIn:      checkIn,
		Assessment:   assessment,
		Summary:      summary,
		Devices:      categorized,
		PriorityHint: priorityHintFor(assessment),
	}

	// Device-aware first: its output also seeds the degree of device
	// context the AI prompt carries.
	deviceSugs, err := s.deviceGen.Generate(ctx, in)
	if err != nil {
		logger.Warn().Err(err).Msg("device-aware generator failed")
		deviceSugs = nil
	}
	observability.RecordSuggestionMetric(ctx, s.metrics, "device_aware", len(deviceSugs))

	branchSugs := s.runWaterfall(ctx, in)

	combined := append(append([]*entities.Suggestion{}, deviceSugs...), branchSugs...)

	if !summary.HasControllableDevices() {
		combined = append(combined, s.manualFallback(in)...)
	}

	combined = dedupeByTitle(combined)

	// Crisis suggestions ride on top of whichever branch ran and are
	// immune to both dedup and the cycle cap.
	crisis := s.templateGen.Crisis(ctx, in)
	final := mergeWithCrisis(combined, crisis, maxSuggestionsPerCycle)

	// Only persisted suggestions are returned: anything that failed to
	// insert would vanish from the next ListActive read anyway.
	persisted := final[:0:0]
	for _, suggestion := range final {
		if err := s.suggestions.Create(ctx, suggestion); err != nil {
			logger.Error().Err(err).
				Str("suggestion_id", suggestion.ID).
				Msg("failed to persist suggestion")
			continue
		}
		persisted = append(persisted, suggestion)
	}

	if s.metrics != nil {
		s.metrics.GenerationDuration.Record(ctx, float64(time.Since(cycleStart).Milliseconds()))
	}
	logger.Info().
		Str("check_in_id", checkIn.ID).
		Str("risk_level", string(assessment.RiskLevel)).
		Int("suggestions", len(persisted)).
		Msg("suggestion cycle complete")

	return persisted, nil
}

// runWaterfall tries the AI generator and falls back to the template
// catalog on error or empty output. The two branches are mutually
// exclusive within one cycle and strictly sequential.
func (s *SuggestionService) runWaterfall(ctx context.Context, in GenerationInput) []*entities.Suggestion {
	logger := observability.LoggerFromContext(ctx)

	if s.aiGen != nil {
		recentTitles, err := s.suggestions.ListRecentTitles(ctx, in.CheckIn.UserID, recentTitleHistory)
		if err != nil {
			recentTitles = nil
		}

		aiSugs, err := s.aiGen.GenerateWithHistory(ctx, in, recentTitles)
		if err != nil {
			logger.Warn().Err(err).Msg("ai generator failed, falling back to templates")
		} else if len(aiSugs) > 0 {
			observability.RecordSuggestionMetric(ctx, s.metrics, "ai", len(aiSugs))
			return aiSugs
		}
	}

	templateSugs, err := s.templateGen.Generate(ctx, in)
	if err != nil {
		logger.Warn().Err(err).Msg("template generator failed")
		return nil
	}
	observability.RecordSuggestionMetric(ctx, s.metrics, "template", len(templateSugs))
	return templateSugs
}

// manualFallback produces guidance that needs no devices at all, for
// homes with nothing controllable.
func (s *SuggestionService) manualFallback(in GenerationInput) []*entities.Suggestion {
	return []*entities.Suggestion{
		{
			ID:          uuid.New().String(),
			CheckInID:   in.CheckIn.ID,
			Title:       "Two minutes of slow breathing",
			Description: "No devices needed: breathe in for four counts, hold for four, out for six.",
			Category:    entities.CategoryWellness,
			Priority:    in.PriorityHint,
			Actions: []entities.ActionSpec{
				{
					Kind:        entities.ActionBreathing,
					Parameters:  map[string]string{"pattern": "4-4-6"},
					DisplayText: "Start guided breathing",
				},
			},
			EstimatedDuration: "2 minutes",
			CreatedAt:         time.Now(),
		},
		{
			ID:          uuid.New().String(),
			CheckInID:   in.CheckIn.ID,
			Title:       "Change your surroundings by hand",
			Description: "Open a window, adjust the lighting you have, or move to the most comfortable room.",
			Category:    entities.CategoryWellness,
			Priority:    entities.PriorityLow,
			Actions: []entities.ActionSpec{
				{
					Kind:        entities.ActionManual,
					DisplayText: "Adjust your space manually",
				},
			},
			EstimatedDuration: "5 minutes",
			CreatedAt:         time.Now(),
		},
	}
}

// mergeWithCrisis appends crisis suggestions and applies the cycle cap
// without ever truncating a crisis entry. A crisis suggestion replaces
// any same-title lower-priority entry.
func mergeWithCrisis(base []*entities.Suggestion, crisis []*entities.Suggestion, limit int) []*entities.Suggestion {
	crisis = dedupeByTitle(crisis)

	crisisTitles := make(map[string]bool, len(crisis))
	for _, c := range crisis {
		crisisTitles[c.Title] = true
	}

	kept := make([]*entities.Suggestion, 0, len(base))
	for _, s := range base {
		if crisisTitles[s.Title] {
			continue
		}
		kept = append(kept, s)
	}

	room := limit - len(crisis)
	if room < 0 {
		room = 0
	}
	if len(kept) > room {
		kept = kept[:room]
	}

	return append(kept, crisis...)
}

func priorityHintFor(assessment *entities.EmotionAssessment) entities.SuggestionPriority {
	switch assessment.SupportLevel {
	case entities.SupportHigh, entities.SupportUrgent:
		return entities.PriorityHigh
	case entities.SupportMedium:
		return entities.PriorityMedium
	default:
		return entities.PriorityLow
	}
}

// ListActive returns the non-terminal suggestions for a check-in.
func (s *SuggestionService) ListActive(ctx context.Context, checkInID string) ([]*entities.Suggestion, error) {
	if checkInID == "" {
		return nil, apperrors.NewValidationError("check-in id is required")
	}
	return s.suggestions.ListActiveByCheckIn(ctx, checkInID)
}

// Dismiss moves a pending suggestion to its dismissed terminal state.
func (s *SuggestionService) Dismiss(ctx context.Context, suggestionID string) error {
	if suggestionID == "" {
		return apperrors.NewValidationError("suggestion id is required")
	}

	suggestion, err := s.suggestions.GetByID(ctx, suggestionID)
	if err != nil {
		return err
	}
	if suggestion.IsTerminal() {
		return apperrors.NewConflictError("suggestion is already executed or dismissed")
	}

	return s.suggestions.Dismiss(ctx, suggestionID)
}
