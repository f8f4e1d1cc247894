package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/internal/domain/repositories"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
)

// AIGenerator produces suggestions by prompting the external text
// generation service with the emotional state, the device capability
// summary, and recent suggestion history. Model output is untrusted:
// malformed envelopes are rejected and logged, and the generator then
// returns an empty list so the caller falls back. An AI failure is
// never fatal to the check-in cycle.
type AIGenerator struct {
	textGen  providers.TextGenerationProvider
	contacts repositories.ContactRepository
}

// NewAIGenerator creates a new AI-backed generator.
func NewAIGenerator(textGen providers.TextGenerationProvider, contacts repositories.ContactRepository) *AIGenerator {
	return &AIGenerator{textGen: textGen, contacts: contacts}
}

// aiEnvelope mirrors the JSON contract the system prompt asks for.
type aiEnvelope struct {
	Suggestions []aiSuggestion `json:"suggestions"`
}

type aiSuggestion struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	Actions     []aiAction `json:"actions"`
	Reasoning   string     `json:"reasoning"`
	Duration    string     `json:"duration"`
}

type aiAction struct {
	Type        string                 `json:"type"`
	DisplayText string                 `json:"displayText"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// GenerateWithHistory runs the external call with recent-title context.
func (g *AIGenerator) GenerateWithHistory(ctx context.Context, in GenerationInput, recentTitles []string) ([]*entities.Suggestion, error) {
	prompt := buildSuggestionPrompt(in, recentTitles)

	raw, err := g.textGen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := parseSuggestionEnvelope(raw)
	if err != nil {
		// Malformed model output degrades to an empty result; the
		// orchestrator falls back to the template generator.
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("check_in_id", in.CheckIn.ID).
			Msg("rejecting malformed ai suggestion payload")
		return nil, nil
	}

	return g.bind(ctx, in, parsed), nil
}

// Generate implements SuggestionGenerator without prompt history.
func (g *AIGenerator) Generate(ctx context.Context, in GenerationInput) ([]*entities.Suggestion, error) {
	return g.GenerateWithHistory(ctx, in, nil)
}

// buildSuggestionPrompt renders the user prompt the system prompt's
// schema expects to accompany.
func buildSuggestionPrompt(in GenerationInput, recentTitles []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Emotions: %s\n", strings.Join(in.CheckIn.EmotionTags, ", "))
	if in.CheckIn.FreeText != "" {
		fmt.Fprintf(&b, "In their own words: %q\n", in.CheckIn.FreeText)
	}
	fmt.Fprintf(&b, "Sentiment: %s, intensity: %s, support level: %s\n",
		in.Assessment.Sentiment, in.Assessment.Intensity, in.Assessment.SupportLevel)

	s := in.Summary
	fmt.Fprintf(&b, "Home devices: %d lights (dimmable: %t, color: %t), %d thermostats, %d speakers, %d sensors\n",
		s.LightCount, s.DimmableLights, s.ColorLights, s.ThermostatCount, s.SpeakerCount, s.SensorCount)
	if len(s.Rooms) > 0 {
		fmt.Fprintf(&b, "Rooms: %s\n", strings.Join(s.Rooms, ", "))
	}

	if len(recentTitles) > 0 {
		fmt.Fprintf(&b, "Recently suggested (avoid repeating): %s\n", strings.Join(recentTitles, "; "))
	}

	return b.String()
}

// parseSuggestionEnvelope isolates the JSON object in raw model text
// (markdown fences and prose around it are common) and decodes it
// structurally. Nested objects inside action parameters are legal; any
// envelope that does not decode is an error, not a partial result.
func parseSuggestionEnvelope(raw string) (*aiEnvelope, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in model output")
	}

	var envelope aiEnvelope
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion envelope: %w", err)
	}
	if len(envelope.Suggestions) == 0 {
		return nil, fmt.Errorf("suggestion envelope is empty")
	}
	return &envelope, nil
}

// bind converts parsed payloads into suggestions, defaulting missing
// fields and resolving contact actions against the user's own contacts
// rather than trusting model output.
func (g *AIGenerator) bind(ctx context.Context, in GenerationInput, envelope *aiEnvelope) []*entities.Suggestion {
	var firstContact *entities.Contact
	if g.contacts != nil {
		contacts, err := g.contacts.ListFrequent(ctx, in.CheckIn.UserID, 1)
		if err == nil && len(contacts) > 0 {
			firstContact = contacts[0]
		}
	}

	suggestions := make([]*entities.Suggestion, 0, len(envelope.Suggestions))
	for _, payload := range envelope.Suggestions {
		if strings.TrimSpace(payload.Title) == "" {
			continue
		}

		suggestion := &entities.Suggestion{
			ID:                uuid.New().String(),
			CheckInID:         in.CheckIn.ID,
			Title:             payload.Title,
			Description:       payload.Description,
			Category:          mapAICategory(payload.Type),
			Priority:          mapAIPriority(payload.Priority, in.PriorityHint),
			Rationale:         payload.Reasoning,
			EstimatedDuration: payload.Duration,
			CreatedAt:         time.Now(),
		}

		for _, action := range payload.Actions {
			spec, ok := bindAIAction(action, firstContact)
			if ok {
				suggestion.Actions = append(suggestion.Actions, spec)
			}
		}
		if len(suggestion.Actions) == 0 {
			suggestion.Actions = []entities.ActionSpec{{
				Kind:        entities.ActionManual,
				DisplayText: payload.Title,
			}}
		}

		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

func bindAIAction(action aiAction, contact *entities.Contact) (entities.ActionSpec, bool) {
	kind := mapAIActionKind(action.Type)

	spec := entities.ActionSpec{
		Kind:        kind,
		Parameters:  flattenParameters(action.Parameters),
		DisplayText: action.DisplayText,
	}
	if spec.DisplayText == "" {
		spec.DisplayText = strings.ReplaceAll(strings.ToLower(action.Type), "_", " ")
	}

	if kind == entities.ActionCallContact {
		// Contact identity comes from the user's address book, never
		// from the model.
		if contact == nil {
			return entities.ActionSpec{}, false
		}
		if spec.Parameters == nil {
			spec.Parameters = make(map[string]string)
		}
		spec.Parameters["contact_name"] = contact.Name
		spec.Parameters["contact_phone"] = contact.Phone
		spec.DisplayText = fmt.Sprintf("Call %s", contact.Name)
	}

	return spec, true
}

func flattenParameters(params map[string]interface{}) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for key, value := range params {
		switch v := value.(type) {
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out
}

func mapAICategory(t string) entities.SuggestionCategory {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "ENVIRONMENT":
		return entities.CategoryEnvironment
	case "ACTIVITY":
		return entities.CategoryActivity
	case "SOCIAL":
		return entities.CategorySocial
	default:
		return entities.CategoryWellness
	}
}

func mapAIPriority(p string, hint entities.SuggestionPriority) entities.SuggestionPriority {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case "LOW":
		return entities.PriorityLow
	case "HIGH":
		return entities.PriorityHigh
	case "URGENT":
		return entities.PriorityUrgent
	case "MEDIUM":
		return entities.PriorityMedium
	default:
		if hint != "" {
			return hint
		}
		return entities.PriorityMedium
	}
}

func mapAIActionKind(t string) entities.ActionKind {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "DEVICE_CONTROL":
		return entities.ActionDeviceControl
	case "BREATHING_EXERCISE":
		return entities.ActionBreathing
	case "CALL_CONTACT":
		return entities.ActionCallContact
	case "OPEN_RESOURCE":
		return entities.ActionOpenResource
	default:
		return entities.ActionManual
	}
}
