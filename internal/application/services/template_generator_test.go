package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seren-labs/attune/internal/application/services"
	"github.com/seren-labs/attune/internal/domain/entities"
)

func TestTemplateGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("high support includes social outreach and calm environment", func(t *testing.T) {
		contacts := &mockContactRepo{frequent: []*entities.Contact{
			{Name: "Sam Rivera", Phone: "+1-555-0100"},
		}}
		gen := services.NewTemplateGenerator(contacts)

		// Three support-needing tags push the level to high.
		in := generationInput([]string{"sad", "lonely", "hopeless"}, nil)
		suggestions, err := gen.Generate(ctx, in)
		require.NoError(t, err)
		require.Len(t, suggestions, 2)

		social := suggestions[0]
		assert.Equal(t, "Reach out to someone you trust", social.Title)
		assert.Equal(t, entities.CategorySocial, social.Category)
		assert.Equal(t, entities.PriorityHigh, social.Priority)
		require.Len(t, social.Actions, 1)
		assert.Equal(t, entities.ActionCallContact, social.Actions[0].Kind)
		assert.Equal(t, "Sam Rivera", social.Actions[0].Parameters["contact_name"])

		calm := suggestions[1]
		assert.Equal(t, "Calm your surroundings", calm.Title)
		assert.Equal(t, entities.PriorityHigh, calm.Priority)
		assert.Equal(t, services.EnvAnxietyRelief, calm.Actions[0].Parameters["environment"])
	})

	t.Run("social outreach stays manual without contacts", func(t *testing.T) {
		gen := services.NewTemplateGenerator(&mockContactRepo{})

		in := generationInput([]string{"sad", "lonely", "hopeless"}, nil)
		suggestions, err := gen.Generate(ctx, in)
		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, entities.ActionManual, suggestions[0].Actions[0].Kind)
	})

	t.Run("medium support pairs breathing with a calmer space", func(t *testing.T) {
		gen := services.NewTemplateGenerator(&mockContactRepo{})

		in := generationInput([]string{"anxious", "stressed"}, nil)
		suggestions, err := gen.Generate(ctx, in)
		require.NoError(t, err)
		require.Len(t, suggestions, 2)

		breathing := suggestions[0]
		assert.Equal(t, "Two minutes of slow breathing", breathing.Title)
		assert.Equal(t, entities.PriorityMedium, breathing.Priority)
		require.Len(t, breathing.Actions, 1)
		assert.Equal(t, entities.ActionBreathing, breathing.Actions[0].Kind)
		assert.Equal(t, "4-4-6", breathing.Actions[0].Parameters["pattern"])
	})

	t.Run("no support needed follows sentiment", func(t *testing.T) {
		gen := services.NewTemplateGenerator(&mockContactRepo{})

		positive := generationInput([]string{"happy", "energetic"}, nil)
		suggestions, err := gen.Generate(ctx, positive)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "Ride the good mood", suggestions[0].Title)
		assert.Equal(t, entities.CategoryActivity, suggestions[0].Category)

		neutral := generationInput([]string{"meh", "fine"}, nil)
		suggestions, err = gen.Generate(ctx, neutral)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "Take a quiet moment", suggestions[0].Title)
	})
}

func TestTemplateGenerator_Crisis(t *testing.T) {
	ctx := context.Background()

	t.Run("nil below the safety threshold", func(t *testing.T) {
		gen := services.NewTemplateGenerator(&mockContactRepo{})
		in := generationInput([]string{"stressed"}, nil)
		assert.Nil(t, gen.Crisis(ctx, in))
	})

	t.Run("hotline always leads", func(t *testing.T) {
		gen := services.NewTemplateGenerator(&mockContactRepo{})
		in := generationInput([]string{"sad"}, nil)
		in.CheckIn.FreeText = "hopeless and trapped"
		in.Assessment = services.NewEmotionClassifier().Classify(in.CheckIn.EmotionTags, in.CheckIn.FreeText)

		crisis := gen.Crisis(ctx, in)
		require.Len(t, crisis, 1)

		hotline := crisis[0]
		assert.Equal(t, "Talk to someone right now", hotline.Title)
		assert.Equal(t, entities.CategoryCrisis, hotline.Category)
		assert.Equal(t, entities.PriorityUrgent, hotline.Priority)
		require.Len(t, hotline.Actions, 1)
		assert.Equal(t, entities.ActionOpenResource, hotline.Actions[0].Kind)
		assert.Equal(t, services.CrisisHotlineNumber, hotline.Actions[0].Parameters["phone"])
	})

	t.Run("emergency contact is added when one exists", func(t *testing.T) {
		contacts := &mockContactRepo{emergency: &entities.Contact{
			Name:  "Dana Okafor",
			Phone: "+1-555-0199",
			Tags:  []string{"family", "emergency"},
		}}
		gen := services.NewTemplateGenerator(contacts)
		in := generationInput([]string{"sad"}, nil)
		in.CheckIn.FreeText = "hopeless and trapped"
		in.Assessment = services.NewEmotionClassifier().Classify(in.CheckIn.EmotionTags, in.CheckIn.FreeText)

		crisis := gen.Crisis(ctx, in)
		require.Len(t, crisis, 2)

		contact := crisis[1]
		assert.Equal(t, "Reach out to Dana Okafor", contact.Title)
		assert.Equal(t, entities.PriorityUrgent, contact.Priority)
		require.Len(t, contact.Actions, 1)
		assert.Equal(t, entities.ActionCallContact, contact.Actions[0].Kind)
		assert.Equal(t, "+1-555-0199", contact.Actions[0].Parameters["contact_phone"])
	})
}
