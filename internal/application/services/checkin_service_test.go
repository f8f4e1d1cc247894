package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seren-labs/attune/internal/application/services"
	"github.com/seren-labs/attune/internal/domain/entities"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

func TestCheckInService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a valid check-in and assigns an id", func(t *testing.T) {
		repo := newMockCheckInRepo()
		svc := services.NewCheckInService(repo, services.NewEmotionClassifier())

		checkIn := &entities.CheckIn{UserID: "user-1", EmotionTags: []string{"stressed"}}
		require.NoError(t, svc.Create(ctx, checkIn))

		assert.NotEmpty(t, checkIn.ID)
		assert.False(t, checkIn.CreatedAt.IsZero())

		stored, err := repo.GetByID(ctx, checkIn.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"stressed"}, stored.EmotionTags)
	})

	t.Run("free text alone is enough", func(t *testing.T) {
		repo := newMockCheckInRepo()
		svc := services.NewCheckInService(repo, services.NewEmotionClassifier())

		checkIn := &entities.CheckIn{UserID: "user-1", FreeText: "long day, can't settle"}
		assert.NoError(t, svc.Create(ctx, checkIn))
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := services.NewCheckInService(newMockCheckInRepo(), services.NewEmotionClassifier())

		assert.True(t, apperrors.IsType(svc.Create(ctx, nil), apperrors.ErrorTypeValidation))
		assert.True(t, apperrors.IsType(
			svc.Create(ctx, &entities.CheckIn{EmotionTags: []string{"sad"}}),
			apperrors.ErrorTypeValidation), "missing user id")
		assert.True(t, apperrors.IsType(
			svc.Create(ctx, &entities.CheckIn{UserID: "user-1"}),
			apperrors.ErrorTypeValidation), "no tags and no text")
	})

	t.Run("repository errors surface unchanged", func(t *testing.T) {
		repo := newMockCheckInRepo()
		repo.createErr = errors.New("connection refused")
		svc := services.NewCheckInService(repo, services.NewEmotionClassifier())

		err := svc.Create(ctx, &entities.CheckIn{UserID: "user-1", EmotionTags: []string{"sad"}})
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestCheckInService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces tags and text under the same id", func(t *testing.T) {
		repo := newMockCheckInRepo()
		svc := services.NewCheckInService(repo, services.NewEmotionClassifier())

		checkIn := &entities.CheckIn{UserID: "user-1", EmotionTags: []string{"stressed"}}
		require.NoError(t, svc.Create(ctx, checkIn))
		createdAt := checkIn.CreatedAt

		updated, err := svc.Update(ctx, checkIn.ID, []string{"calm"}, "feeling better now")
		require.NoError(t, err)
		assert.Equal(t, checkIn.ID, updated.ID)
		assert.Equal(t, []string{"calm"}, updated.EmotionTags)
		assert.Equal(t, "feeling better now", updated.FreeText)
		assert.Equal(t, createdAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(createdAt) || updated.UpdatedAt.Equal(createdAt))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc := services.NewCheckInService(newMockCheckInRepo(), services.NewEmotionClassifier())
		_, err := svc.Update(ctx, "missing", []string{"calm"}, "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		svc := services.NewCheckInService(newMockCheckInRepo(), services.NewEmotionClassifier())
		_, err := svc.Update(ctx, "some-id", nil, "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestCheckInService_Assess(t *testing.T) {
	svc := services.NewCheckInService(newMockCheckInRepo(), services.NewEmotionClassifier())

	assessment := svc.Assess(&entities.CheckIn{EmotionTags: []string{"happy", "grateful"}})
	assert.Equal(t, entities.SentimentPositive, assessment.Sentiment)
	assert.Equal(t, entities.SupportNone, assessment.SupportLevel)
}
