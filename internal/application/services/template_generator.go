package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/repositories"
)

// CrisisHotline is the fixed hotline surfaced by the crisis rule.
const (
	CrisisHotlineName   = "988 Suicide & Crisis Lifeline"
	CrisisHotlineNumber = "988"
)

const maxTemplateSuggestions = 3

// TemplateGenerator serves the static fallback catalog: canned
// suggestions keyed by support level, sentiment, and time of day. It
// needs no devices and no network, so it is the floor the waterfall
// can always land on. The crisis rule lives here too but is exposed
// separately so the orchestrator can apply it regardless of which
// generator branch ran.
type TemplateGenerator struct {
	contacts repositories.ContactRepository
	now      func() time.Time
}

// NewTemplateGenerator creates a new template generator.
func NewTemplateGenerator(contacts repositories.ContactRepository) *TemplateGenerator {
	return &TemplateGenerator{contacts: contacts, now: time.Now}
}

// Generate returns 1-3 canned suggestions for the assessment. Crisis
// suggestions are not included here; see Crisis.
func (g *TemplateGenerator) Generate(ctx context.Context, in GenerationInput) ([]*entities.Suggestion, error) {
	var suggestions []*entities.Suggestion

	switch in.Assessment.SupportLevel {
	case entities.SupportHigh, entities.SupportUrgent:
		suggestions = append(suggestions,
			g.socialSupportSuggestion(ctx, in),
			g.canned(in, "Calm your surroundings",
				"Dim the lights, quiet the noise, and give yourself a softer space for the next little while.",
				entities.CategoryEnvironment, entities.PriorityHigh, EnvAnxietyRelief, "15 minutes"),
		)
	case entities.SupportMedium:
		suggestions = append(suggestions,
			g.breathingSuggestion(in, entities.PriorityMedium),
			g.canned(in, "Calm your surroundings",
				"A softer, dimmer space can take the edge off. Settle in somewhere comfortable.",
				entities.CategoryEnvironment, entities.PriorityMedium, EnvAnxietyRelief, "10 minutes"),
		)
	case entities.SupportLow:
		suggestions = append(suggestions, g.gentleResetSuggestion(in))
	default:
		if in.Assessment.Sentiment == entities.SentimentPositive {
			suggestions = append(suggestions, g.canned(in, "Ride the good mood",
				"You're feeling good — brighten the house and put some energy into something you enjoy.",
				entities.CategoryActivity, entities.PriorityLow, EnvMoodBoost, "30 minutes"))
		} else {
			suggestions = append(suggestions, g.canned(in, "Take a quiet moment",
				"Nothing urgent — a few unhurried minutes to yourself can still be worth having.",
				entities.CategoryWellness, entities.PriorityLow, EnvBalanced, "5 minutes"))
		}
	}

	if len(suggestions) > maxTemplateSuggestions {
		suggestions = suggestions[:maxTemplateSuggestions]
	}
	return suggestions, nil
}

// Crisis returns up to two urgent suggestions whenever the risk level
// crossed the safety threshold, and nil otherwise. A fixed hotline
// suggestion always comes first; an emergency-contact suggestion is
// added when such a contact exists. These are never suppressed by
// per-cycle deduplication.
func (g *TemplateGenerator) Crisis(ctx context.Context, in GenerationInput) []*entities.Suggestion {
	if !in.Assessment.NeedsCrisisSupport() {
		return nil
	}

	suggestions := []*entities.Suggestion{
		{
			ID:          uuid.New().String(),
			CheckInID:   in.CheckIn.ID,
			Title:       "Talk to someone right now",
			Description: fmt.Sprintf("The %s is free, confidential, and available 24/7.", CrisisHotlineName),
			Category:    entities.CategoryCrisis,
			Priority:    entities.PriorityUrgent,
			Actions: []entities.ActionSpec{
				{
					Kind: entities.ActionOpenResource,
					Parameters: map[string]string{
						"resource": "crisis_hotline",
						"phone":    CrisisHotlineNumber,
					},
					DisplayText: fmt.Sprintf("Call %s", CrisisHotlineNumber),
				},
			},
			Rationale: "Your check-in shows signs you may be going through something serious.",
			CreatedAt: time.Now(),
		},
	}

	if g.contacts != nil {
		if contact, err := g.contacts.GetEmergencyContact(ctx, in.CheckIn.UserID); err == nil && contact != nil {
			suggestions = append(suggestions, &entities.Suggestion{
				ID:          uuid.New().String(),
				CheckInID:   in.CheckIn.ID,
				Title:       fmt.Sprintf("Reach out to %s", contact.Name),
				Description: fmt.Sprintf("%s asked to be there for moments like this.", contact.Name),
				Category:    entities.CategoryCrisis,
				Priority:    entities.PriorityUrgent,
				Actions: []entities.ActionSpec{
					{
						Kind: entities.ActionCallContact,
						Parameters: map[string]string{
							"contact_name":  contact.Name,
							"contact_phone": contact.Phone,
						},
						DisplayText: fmt.Sprintf("Call %s", contact.Name),
					},
				},
				CreatedAt: time.Now(),
			})
		}
	}

	return suggestions
}

func (g *TemplateGenerator) socialSupportSuggestion(ctx context.Context, in GenerationInput) *entities.Suggestion {
	suggestion := &entities.Suggestion{
		ID:          uuid.New().String(),
		CheckInID:   in.CheckIn.ID,
		Title:       "Reach out to someone you trust",
		Description: "You don't have to carry this alone. A short call or message can change the shape of a hard day.",
		Category:    entities.CategorySocial,
		Priority:    entities.PriorityHigh,
		Actions: []entities.ActionSpec{
			{
				Kind:        entities.ActionManual,
				DisplayText: "Message or call someone you trust",
			},
		},
		EstimatedDuration: "10 minutes",
		CreatedAt:         time.Now(),
	}

	if g.contacts != nil {
		if contacts, err := g.contacts.ListFrequent(ctx, in.CheckIn.UserID, 1); err == nil && len(contacts) > 0 {
			contact := contacts[0]
			suggestion.Actions = []entities.ActionSpec{
				{
					Kind: entities.ActionCallContact,
					Parameters: map[string]string{
						"contact_name":  contact.Name,
						"contact_phone": contact.Phone,
					},
					DisplayText: fmt.Sprintf("Call %s", contact.Name),
				},
			}
		}
	}

	return suggestion
}

func (g *TemplateGenerator) breathingSuggestion(in GenerationInput, priority entities.SuggestionPriority) *entities.Suggestion {
	return &entities.Suggestion{
		ID:          uuid.New().String(),
		CheckInID:   in.CheckIn.ID,
		Title:       "Two minutes of slow breathing",
		Description: "Breathe in for four counts, hold for four, out for six. Repeat for two minutes.",
		Category:    entities.CategoryWellness,
		Priority:    priority,
		Actions: []entities.ActionSpec{
			{
				Kind: entities.ActionBreathing,
				Parameters: map[string]string{
					"pattern":     "4-4-6",
					"environment": EnvAnxietyRelief,
				},
				DisplayText: "Start guided breathing",
			},
		},
		EstimatedDuration: "2 minutes",
		CreatedAt:         time.Now(),
	}
}

func (g *TemplateGenerator) gentleResetSuggestion(in GenerationInput) *entities.Suggestion {
	hour := g.now().Hour()

	title := "Step outside for a few minutes"
	description := "Daylight and a change of air reliably shift a flat mood, even briefly."
	switch {
	case hour < 11:
		title = "Start the day on your terms"
		description = "A slow cup of something warm before the day grabs you counts as self-care."
	case hour >= 20:
		title = "Wind down early tonight"
		description = "Low light and no screens for the last hour helps the day land more softly."
	}

	return &entities.Suggestion{
		ID:          uuid.New().String(),
		CheckInID:   in.CheckIn.ID,
		Title:       title,
		Description: description,
		Category:    entities.CategoryWellness,
		Priority:    entities.PriorityLow,
		Actions: []entities.ActionSpec{
			{
				Kind:        entities.ActionManual,
				DisplayText: title,
			},
		},
		EstimatedDuration: "10 minutes",
		CreatedAt:         time.Now(),
	}
}

func (g *TemplateGenerator) canned(in GenerationInput, title, description string, category entities.SuggestionCategory, priority entities.SuggestionPriority, environment, duration string) *entities.Suggestion {
	return &entities.Suggestion{
		ID:          uuid.New().String(),
		CheckInID:   in.CheckIn.ID,
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Actions: []entities.ActionSpec{
			{
				Kind:        entities.ActionDeviceControl,
				Parameters:  map[string]string{"environment": environment},
				DisplayText: title,
			},
		},
		EstimatedDuration: duration,
		CreatedAt:         time.Now(),
	}
}
