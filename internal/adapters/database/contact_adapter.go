package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/repositories"
	"github.com/seren-labs/attune/internal/infrastructure/clients/postgres"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

// ContactAdapter implements the ContactRepository interface
type ContactAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewContactAdapter creates a new contact adapter
func NewContactAdapter(client *postgres.Client) repositories.ContactRepository {
	return &ContactAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListFrequent retrieves the user's contacts, most called first
func (a *ContactAdapter) ListFrequent(ctx context.Context, userID string, limit int) ([]*entities.Contact, error) {
	if limit <= 0 {
		limit = 5
	}

	query, args, err := a.db.Select(
		"id", "user_id", "name", "phone", "tags", "call_count", "created_at",
	).From("contacts").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("call_count").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list contacts", err)
	}
	defer rows.Close()

	var contacts []*entities.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate contacts", err)
	}

	return contacts, nil
}

// GetEmergencyContact retrieves the first contact tagged "emergency"
func (a *ContactAdapter) GetEmergencyContact(ctx context.Context, userID string) (*entities.Contact, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "name", "phone", "tags", "call_count", "created_at",
	).From("contacts").
		Where(
			goqu.Ex{"user_id": userID},
			goqu.L("? = ANY(tags)", "emergency"),
		).
		Order(goqu.I("call_count").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get emergency contact", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, apperrors.NewInternalError("failed to get emergency contact", err)
		}
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no emergency contact for user %s", userID))
	}

	return scanContact(rows)
}

func scanContact(rows *sql.Rows) (*entities.Contact, error) {
	contact := &entities.Contact{}
	err := rows.Scan(
		&contact.ID,
		&contact.UserID,
		&contact.Name,
		&contact.Phone,
		pq.Array(&contact.Tags),
		&contact.CallCount,
		&contact.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan contact", err)
	}
	return contact, nil
}
