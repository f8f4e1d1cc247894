package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/repositories"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

// CheckInService owns the check-in lifecycle. Saving a check-in is the
// user's primary action and fails loudly; everything downstream of a
// successful save degrades silently instead.
type CheckInService struct {
	repo       repositories.CheckInRepository
	classifier *EmotionClassifier
}

// NewCheckInService creates a new check-in service.
func NewCheckInService(repo repositories.CheckInRepository, classifier *EmotionClassifier) *CheckInService {
	return &CheckInService{repo: repo, classifier: classifier}
}

// Create validates and persists a new check-in.
func (s *CheckInService) Create(ctx context.Context, checkIn *entities.CheckIn) error {
	if checkIn == nil {
		return apperrors.NewValidationError("check-in is required")
	}
	if checkIn.UserID == "" {
		return apperrors.NewValidationError("user id is required")
	}
	if len(checkIn.EmotionTags) == 0 && checkIn.FreeText == "" {
		return apperrors.NewValidationError("a check-in needs emotion tags or free text")
	}

	if checkIn.ID == "" {
		checkIn.ID = uuid.New().String()
	}
	checkIn.CreatedAt = time.Now()
	checkIn.UpdatedAt = checkIn.CreatedAt

	if err := s.repo.Create(ctx, checkIn); err != nil {
		return err
	}
	return nil
}

// Update replaces the tags and free text of an existing check-in,
// keeping its id. This is the only mutation check-ins support.
func (s *CheckInService) Update(ctx context.Context, id string, emotionTags []string, freeText string) (*entities.CheckIn, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("check-in id is required")
	}
	if len(emotionTags) == 0 && freeText == "" {
		return nil, apperrors.NewValidationError("a check-in needs emotion tags or free text")
	}

	checkIn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	checkIn.EmotionTags = emotionTags
	checkIn.FreeText = freeText
	checkIn.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, checkIn); err != nil {
		return nil, err
	}
	return checkIn, nil
}

// Get retrieves one check-in.
func (s *CheckInService) Get(ctx context.Context, id string) (*entities.CheckIn, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("check-in id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Assess recomputes the derived assessment for a check-in.
func (s *CheckInService) Assess(checkIn *entities.CheckIn) *entities.EmotionAssessment {
	return s.classifier.Classify(checkIn.EmotionTags, checkIn.FreeText)
}
