package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/seren-labs/attune/internal/adapters/database"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/infrastructure/clients/postgres"
	"github.com/seren-labs/attune/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS check_ins (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	emotion_tags TEXT[] NOT NULL DEFAULT '{}',
	free_text TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS suggestions (
	id UUID PRIMARY KEY,
	check_in_id UUID NOT NULL REFERENCES check_ins(id),
	title TEXT NOT NULL,
	description TEXT,
	category TEXT NOT NULL,
	priority TEXT NOT NULL,
	actions JSONB NOT NULL DEFAULT '[]',
	rationale TEXT,
	estimated_duration TEXT,
	is_dismissed BOOLEAN NOT NULL DEFAULT false,
	is_executed BOOLEAN NOT NULL DEFAULT false,
	executed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_suggestions_check_in ON suggestions(check_in_id);

CREATE TABLE IF NOT EXISTS execution_records (
	id UUID PRIMARY KEY,
	suggestion_id UUID NOT NULL REFERENCES suggestions(id),
	check_in_id UUID NOT NULL,
	executed_at TIMESTAMPTZ NOT NULL,
	completion_status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_execution_records_suggestion ON execution_records(suggestion_id);

CREATE TABLE IF NOT EXISTS contacts (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	tags TEXT[] NOT NULL DEFAULT '{}',
	call_count INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				execution_records,
				suggestions,
				check_ins,
				contacts
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Printf("Warning: failed to truncate tables (may not exist yet): %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema applied")

	userID := envOr("SEED_USER_ID", "demo-user")
	contactRepo := database.NewContactAdapter(pgClient)
	checkInRepo := database.NewCheckInAdapter(pgClient)

	contacts := []*entities.Contact{
		{
			ID: uuid.New().String(), UserID: userID,
			Name: "Sam Rivera", Phone: "555-0142",
			Tags: []string{"friend"}, CallCount: 23,
		},
		{
			ID: uuid.New().String(), UserID: userID,
			Name: "Dana Okafor", Phone: "555-0117",
			Tags: []string{"family", "emergency"}, CallCount: 9,
		},
	}
	for _, c := range contacts {
		if err := insertContact(ctx, pgClient, c); err != nil {
			log.Printf("Warning: failed to seed contact %s: %v", c.Name, err)
		}
	}
	log.Printf("Seeded %d contacts for %s", len(contacts), userID)

	checkIn := &entities.CheckIn{
		ID:          uuid.New().String(),
		UserID:      userID,
		EmotionTags: []string{"stressed", "tired"},
		FreeText:    "long week, everything feels like too much",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := checkInRepo.Create(ctx, checkIn); err != nil {
		log.Fatalf("Failed to seed check-in: %v", err)
	}
	log.Printf("Seeded check-in %s", checkIn.ID)

	// Sanity read back through the adapter
	if _, err := contactRepo.GetEmergencyContact(ctx, userID); err != nil {
		log.Printf("Warning: emergency contact lookup failed: %v", err)
	}

	log.Println("Seeding complete")
}

func insertContact(ctx context.Context, client *postgres.Client, c *entities.Contact) error {
	_, err := client.DB().ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, name, phone, tags, call_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, c.ID, c.UserID, c.Name, c.Phone, pq.Array(c.Tags), c.CallCount)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
