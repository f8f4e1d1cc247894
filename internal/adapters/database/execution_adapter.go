package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/repositories"
	"github.com/seren-labs/attune/internal/infrastructure/clients/postgres"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

// ExecutionAdapter implements the ExecutionRepository interface.
// The table is append-only: there is no update path.
type ExecutionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewExecutionAdapter creates a new execution adapter
func NewExecutionAdapter(client *postgres.Client) repositories.ExecutionRepository {
	return &ExecutionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create appends one execution record
func (a *ExecutionAdapter) Create(ctx context.Context, record *entities.ExecutionRecord) error {
	row := goqu.Record{
		"id":                record.ID,
		"suggestion_id":     record.SuggestionID,
		"check_in_id":       record.CheckInID,
		"executed_at":       record.ExecutedAt,
		"completion_status": record.CompletionStatus,
	}

	query, args, err := a.db.Insert("execution_records").Rows(row).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create execution record", err)
	}

	return nil
}

// ListRecent retrieves the most recent records, newest first
func (a *ExecutionAdapter) ListRecent(ctx context.Context, limit int) ([]*entities.ExecutionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := a.db.Select(
		"id", "suggestion_id", "check_in_id", "executed_at", "completion_status",
	).From("execution_records").
		Order(goqu.I("executed_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryRecords(ctx, query, args)
}

// ListBySuggestion retrieves all attempts for one suggestion, newest first
func (a *ExecutionAdapter) ListBySuggestion(ctx context.Context, suggestionID string) ([]*entities.ExecutionRecord, error) {
	query, args, err := a.db.Select(
		"id", "suggestion_id", "check_in_id", "executed_at", "completion_status",
	).From("execution_records").
		Where(goqu.Ex{"suggestion_id": suggestionID}).
		Order(goqu.I("executed_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryRecords(ctx, query, args)
}

func (a *ExecutionAdapter) queryRecords(ctx context.Context, query string, args []interface{}) ([]*entities.ExecutionRecord, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list execution records", err)
	}
	defer rows.Close()

	var records []*entities.ExecutionRecord
	for rows.Next() {
		record := &entities.ExecutionRecord{}
		err := rows.Scan(
			&record.ID,
			&record.SuggestionID,
			&record.CheckInID,
			&record.ExecutedAt,
			&record.CompletionStatus,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan execution record", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate execution records", err)
	}

	return records, nil
}
