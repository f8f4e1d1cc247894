package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/repositories"
	"github.com/seren-labs/attune/internal/infrastructure/clients/postgres"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

// SuggestionAdapter implements the SuggestionRepository interface.
// Actions are stored as a jsonb column; terminal-state transitions are
// guarded in SQL so concurrent writers cannot resurrect a terminal
// suggestion.
type SuggestionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSuggestionAdapter creates a new suggestion adapter
func NewSuggestionAdapter(client *postgres.Client) repositories.SuggestionRepository {
	return &SuggestionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a new suggestion
func (a *SuggestionAdapter) Create(ctx context.Context, suggestion *entities.Suggestion) error {
	actions, err := json.Marshal(suggestion.Actions)
	if err != nil {
		return apperrors.NewInternalError("failed to encode actions", err)
	}

	record := goqu.Record{
		"id":                 suggestion.ID,
		"check_in_id":        suggestion.CheckInID,
		"title":              suggestion.Title,
		"description":        suggestion.Description,
		"category":           suggestion.Category,
		"priority":           suggestion.Priority,
		"actions":            string(actions),
		"rationale":          suggestion.Rationale,
		"estimated_duration": suggestion.EstimatedDuration,
		"created_at":         suggestion.CreatedAt,
		"is_executed":        suggestion.IsExecuted,
		"executed_at":        suggestion.ExecutedAt,
		"is_dismissed":       suggestion.IsDismissed,
	}

	query, args, err := a.db.Insert("suggestions").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create suggestion", err)
	}

	return nil
}

var suggestionColumns = []interface{}{
	"id", "check_in_id", "title", "description", "category", "priority",
	"actions", "rationale", "estimated_duration", "created_at",
	"is_executed", "executed_at", "is_dismissed",
}

// GetByID retrieves a suggestion by ID
func (a *SuggestionAdapter) GetByID(ctx context.Context, id string) (*entities.Suggestion, error) {
	query, args, err := a.db.Select(suggestionColumns...).
		From("suggestions").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	suggestion, err := a.scanSuggestion(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("suggestion with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get suggestion", err)
	}

	return suggestion, nil
}

// Update persists an execute transition. The WHERE clause rejects
// writes against suggestions that already reached a terminal state.
func (a *SuggestionAdapter) Update(ctx context.Context, suggestion *entities.Suggestion) error {
	query, args, err := a.db.Update("suggestions").
		Set(goqu.Record{
			"is_executed": suggestion.IsExecuted,
			"executed_at": suggestion.ExecutedAt,
		}).
		Where(goqu.Ex{
			"id":           suggestion.ID,
			"is_dismissed": false,
		}).
		Where(goqu.C("is_executed").Eq(false)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update suggestion", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("suggestion %s is terminal or missing", suggestion.ID))
	}

	return nil
}

// Dismiss marks a pending suggestion dismissed
func (a *SuggestionAdapter) Dismiss(ctx context.Context, id string) error {
	query, args, err := a.db.Update("suggestions").
		Set(goqu.Record{"is_dismissed": true}).
		Where(goqu.Ex{
			"id":           id,
			"is_executed":  false,
			"is_dismissed": false,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build dismiss query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to dismiss suggestion", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("suggestion %s is terminal or missing", id))
	}

	return nil
}

// ListActiveByCheckIn returns non-terminal suggestions in generation order
func (a *SuggestionAdapter) ListActiveByCheckIn(ctx context.Context, checkInID string) ([]*entities.Suggestion, error) {
	query, args, err := a.db.Select(suggestionColumns...).
		From("suggestions").
		Where(goqu.Ex{
			"check_in_id":  checkInID,
			"is_executed":  false,
			"is_dismissed": false,
		}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list suggestions", err)
	}
	defer rows.Close()

	var suggestions []*entities.Suggestion
	for rows.Next() {
		suggestion, err := a.scanSuggestion(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan suggestion", err)
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, rows.Err()
}

// ListRecentTitles returns the user's newest suggestion titles
func (a *SuggestionAdapter) ListRecentTitles(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}

	query, args, err := a.db.Select(goqu.I("s.title")).
		From(goqu.T("suggestions").As("s")).
		Join(
			goqu.T("check_ins").As("c"),
			goqu.On(goqu.Ex{"s.check_in_id": goqu.I("c.id")}),
		).
		Where(goqu.Ex{"c.user_id": userID}).
		Order(goqu.I("s.created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list recent titles", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, apperrors.NewInternalError("failed to scan title", err)
		}
		titles = append(titles, title)
	}

	return titles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *SuggestionAdapter) scanSuggestion(row rowScanner) (*entities.Suggestion, error) {
	suggestion := &entities.Suggestion{}
	var actionsJSON []byte
	var rationale, estimatedDuration sql.NullString
	var executedAt sql.NullTime

	err := row.Scan(
		&suggestion.ID,
		&suggestion.CheckInID,
		&suggestion.Title,
		&suggestion.Description,
		&suggestion.Category,
		&suggestion.Priority,
		&actionsJSON,
		&rationale,
		&estimatedDuration,
		&suggestion.CreatedAt,
		&suggestion.IsExecuted,
		&executedAt,
		&suggestion.IsDismissed,
	)
	if err != nil {
		return nil, err
	}

	if len(actionsJSON) > 0 {
		if err := json.Unmarshal(actionsJSON, &suggestion.Actions); err != nil {
			return nil, fmt.Errorf("failed to decode actions: %w", err)
		}
	}
	suggestion.Rationale = rationale.String
	suggestion.EstimatedDuration = estimatedDuration.String
	if executedAt.Valid {
		t := executedAt.Time
		suggestion.ExecutedAt = &t
	}

	return suggestion, nil
}
