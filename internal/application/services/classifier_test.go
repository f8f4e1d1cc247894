package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/seren-labs/attune/internal/application/services"
	"github.com/seren-labs/attune/internal/domain/entities"
)

func TestClassify_EmptyInputIsNeutralAndSafe(t *testing.T) {
	classifier := services.NewEmotionClassifier()

	assessment := classifier.Classify(nil, "")

	assert.Equal(t, entities.SentimentNeutral, assessment.Sentiment)
	assert.Equal(t, entities.IntensityLow, assessment.Intensity)
	assert.Equal(t, entities.SupportNone, assessment.SupportLevel)
	assert.Equal(t, entities.RiskSafe, assessment.RiskLevel)
	assert.Empty(t, assessment.DominantEmotions)
	assert.False(t, assessment.NeedsCrisisSupport())
}

func TestClassify_Sentiment(t *testing.T) {
	classifier := services.NewEmotionClassifier()

	tests := []struct {
		name string
		tags []string
		want entities.Sentiment
	}{
		{"positive majority", []string{"happy", "grateful", "tired"}, entities.SentimentPositive},
		{"negative majority", []string{"sad", "anxious", "calm"}, entities.SentimentNegative},
		{"tie is neutral", []string{"happy", "sad"}, entities.SentimentNeutral},
		{"unknown tags are neutral", []string{"curious", "pensive"}, entities.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := classifier.Classify(tt.tags, "")
			assert.Equal(t, tt.want, assessment.Sentiment)
		})
	}
}

func TestClassify_SupportLevel(t *testing.T) {
	classifier := services.NewEmotionClassifier()

	tests := []struct {
		name string
		tags []string
		text string
		want entities.SupportLevel
	}{
		{"no signals", []string{"happy"}, "", entities.SupportNone},
		{"one support tag", []string{"sad"}, "", entities.SupportLow},
		{"two support tags", []string{"sad", "lonely"}, "", entities.SupportMedium},
		{"three support tags", []string{"sad", "lonely", "anxious"}, "", entities.SupportHigh},
		{"one text marker", []string{"happy"}, "I feel so alone tonight", entities.SupportMedium},
		{"two text markers", nil, "feeling worthless and trapped", entities.SupportHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := classifier.Classify(tt.tags, tt.text)
			assert.Equal(t, tt.want, assessment.SupportLevel)
		})
	}
}

func TestClassify_RiskLevel(t *testing.T) {
	classifier := services.NewEmotionClassifier()

	t.Run("crisis keyword short-circuits to urgent", func(t *testing.T) {
		assessment := classifier.Classify([]string{"happy"}, "sometimes I think about suicide")
		assert.Equal(t, entities.RiskUrgent, assessment.RiskLevel)
		assert.True(t, assessment.NeedsCrisisSupport())
	})

	t.Run("two concern markers raise concern", func(t *testing.T) {
		assessment := classifier.Classify(nil, "I feel hopeless and trapped")
		assert.Equal(t, entities.RiskConcern, assessment.RiskLevel)
		assert.True(t, assessment.NeedsCrisisSupport())
	})

	t.Run("three severe tags raise concern", func(t *testing.T) {
		assessment := classifier.Classify([]string{"sad", "tired", "overwhelmed"}, "")
		assert.Equal(t, entities.RiskConcern, assessment.RiskLevel)
	})

	t.Run("two severe tags stay safe", func(t *testing.T) {
		assessment := classifier.Classify([]string{"sad", "tired"}, "")
		assert.Equal(t, entities.RiskSafe, assessment.RiskLevel)
		assert.False(t, assessment.NeedsCrisisSupport())
	})

	t.Run("tags never produce urgent on their own", func(t *testing.T) {
		assessment := classifier.Classify(
			[]string{"sad", "hopeless", "numb", "depressed", "scared"}, "")
		assert.Equal(t, entities.RiskConcern, assessment.RiskLevel)
	})
}

func TestClassify_Intensity(t *testing.T) {
	classifier := services.NewEmotionClassifier()

	tests := []struct {
		name string
		tags []string
		text string
		want entities.Intensity
	}{
		{"single tag no adverbs", []string{"sad"}, "", entities.IntensityLow},
		{"two tags", []string{"sad", "tired"}, "", entities.IntensityMedium},
		{"one adverb", []string{"sad"}, "really rough day", entities.IntensityMedium},
		{"four tags", []string{"sad", "tired", "angry", "numb"}, "", entities.IntensityHigh},
		{"three adverbs", []string{"sad"}, "very very extremely bad", entities.IntensityExtreme},
		{"five tags", []string{"sad", "tired", "angry", "numb", "scared"}, "", entities.IntensityExtreme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := classifier.Classify(tt.tags, tt.text)
			assert.Equal(t, tt.want, assessment.Intensity)
		})
	}
}

func TestClassify_DominantEmotionsKeepSubmissionOrder(t *testing.T) {
	classifier := services.NewEmotionClassifier()

	assessment := classifier.Classify([]string{"Tired", " SAD ", "angry", "numb"}, "")

	assert.Equal(t, []string{"tired", "sad", "angry"}, assessment.DominantEmotions)
}
