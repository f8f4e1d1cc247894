package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seren-labs/attune/internal/application/services"
	"github.com/seren-labs/attune/internal/domain/entities"
)

func generationInput(tags []string, devices []entities.Device) services.GenerationInput {
	checkIn := &entities.CheckIn{
		ID:          "checkin-1",
		UserID:      "user-1",
		EmotionTags: tags,
		CreatedAt:   time.Now(),
	}
	classifier := services.NewEmotionClassifier()
	assessment := classifier.Classify(tags, "")
	categorized, summary := services.NewCapabilityAggregator().Aggregate(devices)
	return services.GenerationInput{
		CheckIn:      checkIn,
		Assessment:   assessment,
		Summary:      summary,
		Devices:      categorized,
		PriorityHint: entities.PriorityMedium,
	}
}

func dimmableLight(id, room string) entities.Device {
	return entities.Device{
		ID:           id,
		Name:         "Light " + id,
		Type:         "light",
		Room:         room,
		Connectivity: entities.ConnectivityOnline,
		Traits:       []string{entities.TraitOnOff, entities.TraitBrightness},
	}
}

func TestDeviceAwareGenerator_NoControllableDevices(t *testing.T) {
	gen := services.NewDeviceAwareGenerator()

	t.Run("empty inventory produces nothing", func(t *testing.T) {
		in := generationInput([]string{"stressed"}, nil)
		suggestions, err := gen.Generate(context.Background(), in)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("sensor-only inventory produces nothing", func(t *testing.T) {
		in := generationInput([]string{"stressed"}, []entities.Device{
			{ID: "m1", Type: "motion_sensor", Connectivity: entities.ConnectivityOnline, Traits: []string{entities.TraitOccupancySensing}},
		})
		suggestions, err := gen.Generate(context.Background(), in)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})
}

func TestDeviceAwareGenerator_EmotionalNeeds(t *testing.T) {
	gen := services.NewDeviceAwareGenerator()

	tests := []struct {
		name        string
		tags        []string
		wantTitle   string
		environment string
	}{
		{"stressed maps to calming", []string{"stressed"}, "Soften your space", services.EnvAnxietyRelief},
		{"tired maps to energizing", []string{"tired"}, "Brighten things up", services.EnvMoodBoost},
		{"distracted maps to focus", []string{"distracted"}, "Set up a focus zone", services.EnvFocusClarity},
		{"lonely maps to comfort", []string{"lonely"}, "Make it cozy", services.EnvDeepRelaxation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := generationInput(tt.tags, []entities.Device{dimmableLight("l1", "Bedroom")})
			suggestions, err := gen.Generate(context.Background(), in)
			require.NoError(t, err)
			require.NotEmpty(t, suggestions)

			first := suggestions[0]
			assert.Equal(t, tt.wantTitle, first.Title)
			assert.Equal(t, entities.CategoryEnvironment, first.Category)
			require.NotEmpty(t, first.Actions)
			assert.Equal(t, entities.ActionDeviceControl, first.Actions[0].Kind)
			assert.Equal(t, tt.environment, first.Actions[0].Parameters["environment"])
		})
	}
}

func TestDeviceAwareGenerator_PriorityFollowsHint(t *testing.T) {
	gen := services.NewDeviceAwareGenerator()

	in := generationInput([]string{"stressed"}, []entities.Device{dimmableLight("l1", "Bedroom")})
	in.PriorityHint = entities.PriorityHigh

	suggestions, err := gen.Generate(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, entities.PriorityHigh, suggestions[0].Priority)
}

func TestDeviceAwareGenerator_PresenceSuggestion(t *testing.T) {
	gen := services.NewDeviceAwareGenerator()

	in := generationInput([]string{"fine"}, []entities.Device{
		dimmableLight("l1", "Hallway"),
		{ID: "m1", Type: "motion_sensor", Connectivity: entities.ConnectivityOnline, Traits: []string{entities.TraitOccupancySensing}},
	})

	suggestions, err := gen.Generate(context.Background(), in)
	require.NoError(t, err)

	titles := suggestionTitles(suggestions)
	assert.Contains(t, titles, "Let light follow you")
}

func TestDeviceAwareGenerator_ColorSuggestionFollowsSentiment(t *testing.T) {
	gen := services.NewDeviceAwareGenerator()
	colorLight := entities.Device{
		ID:           "c1",
		Type:         "light",
		Room:         "Living Room",
		Connectivity: entities.ConnectivityOnline,
		Traits:       []string{entities.TraitOnOff, entities.TraitBrightness, entities.TraitColorSetting},
	}

	t.Run("negative sentiment retunes toward anxiety relief", func(t *testing.T) {
		in := generationInput([]string{"worried"}, []entities.Device{colorLight})
		suggestions, err := gen.Generate(context.Background(), in)
		require.NoError(t, err)

		found := findByTitle(suggestions, "Shift the color of your light")
		require.NotNil(t, found)
		assert.Equal(t, services.EnvAnxietyRelief, found.Actions[0].Parameters["environment"])
	})

	t.Run("positive sentiment retunes toward mood boost", func(t *testing.T) {
		in := generationInput([]string{"happy"}, []entities.Device{colorLight})
		suggestions, err := gen.Generate(context.Background(), in)
		require.NoError(t, err)

		found := findByTitle(suggestions, "Shift the color of your light")
		require.NotNil(t, found)
		assert.Equal(t, services.EnvMoodBoost, found.Actions[0].Parameters["environment"])
	})
}

func TestDeviceAwareGenerator_CapsAtThree(t *testing.T) {
	gen := services.NewDeviceAwareGenerator()

	// Two matched needs plus presence plus color would be four.
	in := generationInput([]string{"stressed", "tired"}, []entities.Device{
		{
			ID:           "c1",
			Type:         "light",
			Room:         "Living Room",
			Connectivity: entities.ConnectivityOnline,
			Traits:       []string{entities.TraitOnOff, entities.TraitBrightness, entities.TraitColorSetting},
		},
		{ID: "m1", Type: "motion_sensor", Connectivity: entities.ConnectivityOnline, Traits: []string{entities.TraitOccupancySensing}},
	})

	suggestions, err := gen.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(suggestions), 3)
}

func suggestionTitles(suggestions []*entities.Suggestion) []string {
	titles := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		titles = append(titles, s.Title)
	}
	return titles
}

func findByTitle(suggestions []*entities.Suggestion, title string) *entities.Suggestion {
	for _, s := range suggestions {
		if s.Title == title {
			return s
		}
	}
	return nil
}
