package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seren-labs/attune/internal/domain/entities"
)

// Emotional needs the device-aware generator recognizes from tag
// substrings, and the environment each maps to.
type emotionalNeed struct {
	name        string
	markers     []string
	environment string
	title       string
}

var emotionalNeeds = []emotionalNeed{
	{
		name:        "calming",
		markers:     []string{"anxious", "stressed", "overwhelmed", "angry", "worried", "tense", "irritable"},
		environment: EnvAnxietyRelief,
		title:       "Soften your space",
	},
	{
		name:        "energizing",
		markers:     []string{"tired", "sluggish", "unmotivated", "exhausted", "numb", "drained"},
		environment: EnvMoodBoost,
		title:       "Brighten things up",
	},
	{
		name:        "focus",
		markers:     []string{"distracted", "scattered", "unfocused", "restless"},
		environment: EnvFocusClarity,
		title:       "Set up a focus zone",
	},
	{
		name:        "comfort",
		markers:     []string{"sad", "lonely", "hopeless", "grieving", "hurt", "down"},
		environment: EnvDeepRelaxation,
		title:       "Make it cozy",
	},
}

const maxDeviceSuggestions = 3

// DeviceAwareGenerator emits environment suggestions grounded in what
// the home can actually do: one per matched emotional need, naming
// concrete device counts, plus supplemental suggestions when motion
// sensors pair with lights or color lights exist.
type DeviceAwareGenerator struct{}

// NewDeviceAwareGenerator creates a new device-aware generator.
func NewDeviceAwareGenerator() *DeviceAwareGenerator {
	return &DeviceAwareGenerator{}
}

// Generate produces at most three suggestions for the current inventory.
func (g *DeviceAwareGenerator) Generate(ctx context.Context, in GenerationInput) ([]*entities.Suggestion, error) {
	if in.Summary == nil || !in.Summary.HasControllableDevices() {
		return nil, nil
	}

	var suggestions []*entities.Suggestion
	for _, need := range emotionalNeeds {
		if !matchesNeed(in.CheckIn.EmotionTags, need.markers) {
			continue
		}
		suggestions = append(suggestions, g.environmentSuggestion(in, need))
	}

	if in.Summary.SensorCount > 0 && in.Summary.LightCount > 0 {
		suggestions = append(suggestions, g.presenceSuggestion(in))
	}
	if in.Summary.ColorLights {
		suggestions = append(suggestions, g.colorSuggestion(in))
	}

	suggestions = dedupeByTitle(suggestions)
	if len(suggestions) > maxDeviceSuggestions {
		suggestions = suggestions[:maxDeviceSuggestions]
	}
	return suggestions, nil
}

func (g *DeviceAwareGenerator) environmentSuggestion(in GenerationInput, need emotionalNeed) *entities.Suggestion {
	parts := describeDevices(in.Summary)
	description := fmt.Sprintf("Adjust %s to match how you're feeling right now.", parts)

	return &entities.Suggestion{
		ID:          uuid.New().String(),
		CheckInID:   in.CheckIn.ID,
		Title:       need.title,
		Description: description,
		Category:    entities.CategoryEnvironment,
		Priority:    in.PriorityHint,
		Actions: []entities.ActionSpec{
			{
				Kind:        entities.ActionDeviceControl,
				Parameters:  map[string]string{"environment": need.environment},
				DisplayText: fmt.Sprintf("Apply the %s scene", strings.ReplaceAll(need.environment, "_", " ")),
			},
		},
		Rationale:         fmt.Sprintf("Your check-in suggests a %s environment could help.", need.name),
		EstimatedDuration: "2 minutes",
		CreatedAt:         time.Now(),
	}
}

func (g *DeviceAwareGenerator) presenceSuggestion(in GenerationInput) *entities.Suggestion {
	return &entities.Suggestion{
		ID:          uuid.New().String(),
		CheckInID:   in.CheckIn.ID,
		Title:       "Let light follow you",
		Description: fmt.Sprintf("Your motion sensors can bring up gentle lighting in each of your %d lit rooms as you move around.", len(in.Summary.Rooms)),
		Category:    entities.CategoryEnvironment,
		Priority:    entities.PriorityLow,
		Actions: []entities.ActionSpec{
			{
				Kind:        entities.ActionDeviceControl,
				Parameters:  map[string]string{"environment": EnvBalanced, "starter": "occupancy"},
				DisplayText: "Turn on lights when presence is detected",
			},
		},
		EstimatedDuration: "1 minute",
		CreatedAt:         time.Now(),
	}
}

func (g *DeviceAwareGenerator) colorSuggestion(in GenerationInput) *entities.Suggestion {
	environment := EnvBalanced
	switch in.Assessment.Sentiment {
	case entities.SentimentPositive:
		environment = EnvMoodBoost
	case entities.SentimentNegative:
		environment = EnvAnxietyRelief
	}

	return &entities.Suggestion{
		ID:          uuid.New().String(),
		CheckInID:   in.CheckIn.ID,
		Title:       "Shift the color of your light",
		Description: "Your color-capable lights can move to a warmer or cooler tone to match your mood.",
		Category:    entities.CategoryEnvironment,
		Priority:    entities.PriorityLow,
		Actions: []entities.ActionSpec{
			{
				Kind:        entities.ActionDeviceControl,
				Parameters:  map[string]string{"environment": environment},
				DisplayText: "Retune light color temperature",
			},
		},
		EstimatedDuration: "1 minute",
		CreatedAt:         time.Now(),
	}
}

func matchesNeed(tags []string, markers []string) bool {
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// describeDevices renders the capability summary as prose naming
// concrete counts.
func describeDevices(summary *entities.DeviceCapabilitySummary) string {
	var parts []string
	if summary.LightCount > 0 {
		noun := "lights"
		if summary.LightCount == 1 {
			noun = "light"
		}
		parts = append(parts, fmt.Sprintf("your %d %s", summary.LightCount, noun))
	}
	if summary.ThermostatCount > 0 {
		parts = append(parts, "the thermostat")
	}
	if summary.SpeakerCount > 0 {
		parts = append(parts, "your speakers")
	}
	if len(parts) == 0 {
		return "your home"
	}
	return strings.Join(parts, " and ")
}
