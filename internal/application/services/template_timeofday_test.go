package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// White-box: the gentle-reset branch keys off the generator's clock.
func TestTemplateGenerator_GentleResetTimeOfDay(t *testing.T) {
	tests := []struct {
		name      string
		hour      int
		wantTitle string
	}{
		{"morning", 8, "Start the day on your terms"},
		{"afternoon", 14, "Step outside for a few minutes"},
		{"late evening", 21, "Wind down early tonight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewTemplateGenerator(nil)
			gen.now = func() time.Time {
				return time.Date(2026, 3, 14, tt.hour, 0, 0, 0, time.UTC)
			}

			in := GenerationInput{
				CheckIn: &entities.CheckIn{ID: "checkin-1", UserID: "user-1", EmotionTags: []string{"sad"}},
				Assessment: &entities.EmotionAssessment{
					Sentiment:    entities.SentimentNegative,
					SupportLevel: entities.SupportLow,
					RiskLevel:    entities.RiskSafe,
					Intensity:    entities.IntensityLow,
				},
				Summary: &entities.DeviceCapabilitySummary{},
			}

			suggestions, err := gen.Generate(context.Background(), in)
			require.NoError(t, err)
			require.Len(t, suggestions, 1)
			assert.Equal(t, tt.wantTitle, suggestions[0].Title)
			assert.Equal(t, entities.PriorityLow, suggestions[0].Priority)
		})
	}
}
