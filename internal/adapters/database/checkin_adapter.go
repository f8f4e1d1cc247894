package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/repositories"
	"github.com/seren-labs/attune/internal/infrastructure/clients/postgres"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

// CheckInAdapter implements the CheckInRepository interface
type CheckInAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCheckInAdapter creates a new check-in adapter
func NewCheckInAdapter(client *postgres.Client) repositories.CheckInRepository {
	return &CheckInAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a new check-in
func (a *CheckInAdapter) Create(ctx context.Context, checkIn *entities.CheckIn) error {
	record := goqu.Record{
		"id":           checkIn.ID,
		"user_id":      checkIn.UserID,
		"emotion_tags": pq.Array(checkIn.EmotionTags),
		"free_text":    checkIn.FreeText,
		"created_at":   checkIn.CreatedAt,
		"updated_at":   checkIn.UpdatedAt,
	}

	query, args, err := a.db.Insert("check_ins").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create check-in", err)
	}

	return nil
}

// GetByID retrieves a check-in by ID
func (a *CheckInAdapter) GetByID(ctx context.Context, id string) (*entities.CheckIn, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "emotion_tags", "free_text", "created_at", "updated_at",
	).From("check_ins").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	checkIn := &entities.CheckIn{}
	var freeText sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&checkIn.ID,
		&checkIn.UserID,
		pq.Array(&checkIn.EmotionTags),
		&freeText,
		&checkIn.CreatedAt,
		&checkIn.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("check-in with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get check-in", err)
	}

	checkIn.FreeText = freeText.String
	return checkIn, nil
}

// Update replaces the emotion tags and free text under the same id
func (a *CheckInAdapter) Update(ctx context.Context, checkIn *entities.CheckIn) error {
	checkIn.UpdatedAt = time.Now()

	query, args, err := a.db.Update("check_ins").
		Set(goqu.Record{
			"emotion_tags": pq.Array(checkIn.EmotionTags),
			"free_text":    checkIn.FreeText,
			"updated_at":   checkIn.UpdatedAt,
		}).
		Where(goqu.Ex{"id": checkIn.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update check-in", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("check-in with id %s not found", checkIn.ID))
	}

	return nil
}

// ListByUser retrieves a user's check-ins, newest first
func (a *CheckInAdapter) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.CheckIn, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := a.db.Select(
		"id", "user_id", "emotion_tags", "free_text", "created_at", "updated_at",
	).From("check_ins").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list check-ins", err)
	}
	defer rows.Close()

	var checkIns []*entities.CheckIn
	for rows.Next() {
		checkIn := &entities.CheckIn{}
		var freeText sql.NullString
		if err := rows.Scan(
			&checkIn.ID,
			&checkIn.UserID,
			pq.Array(&checkIn.EmotionTags),
			&freeText,
			&checkIn.CreatedAt,
			&checkIn.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan check-in", err)
		}
		checkIn.FreeText = freeText.String
		checkIns = append(checkIns, checkIn)
	}

	return checkIns, rows.Err()
}
