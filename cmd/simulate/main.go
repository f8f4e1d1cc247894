package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/seren-labs/attune/internal/adapters/providers/devices"
	"github.com/seren-labs/attune/internal/application/services"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

// simulate runs one suggestion cycle against the mock inventory without
// a database or a live hub. Useful for tuning the lexicons and the
// generator output by hand:
//
//	go run ./cmd/simulate -tags anxious,overwhelmed -text "can't slow down"

func main() {
	tags := flag.String("tags", "stressed", "comma-separated emotion tags")
	text := flag.String("text", "", "free-text note")
	flag.Parse()

	observability.InitLogger("attune-simulate", "development")

	checkIn := &entities.CheckIn{
		ID:          "simulated",
		UserID:      "simulated-user",
		EmotionTags: splitTags(*tags),
		FreeText:    *text,
		CreatedAt:   time.Now(),
	}

	classifier := services.NewEmotionClassifier()
	assessment := classifier.Classify(checkIn.EmotionTags, checkIn.FreeText)

	svc := services.NewSuggestionService(
		&memorySuggestionRepo{},
		devices.NewMockAdapter(),
		classifier,
		services.NewCapabilityAggregator(),
		services.NewDeviceAwareGenerator(),
		nil, // no AI without credentials; waterfall falls to templates
		services.NewTemplateGenerator(&memoryContactRepo{}),
		nil,
		"simulated-structure",
	)

	suggestions, err := svc.GenerateForCheckIn(context.Background(), checkIn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	out := map[string]interface{}{
		"assessment":  assessment,
		"suggestions": suggestions,
	}
	encoded, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(encoded))
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// memorySuggestionRepo satisfies the repository so the cycle can run
// without Postgres. Only the methods the cycle touches do anything.
type memorySuggestionRepo struct {
	stored []*entities.Suggestion
}

func (r *memorySuggestionRepo) Create(ctx context.Context, s *entities.Suggestion) error {
	r.stored = append(r.stored, s)
	return nil
}

func (r *memorySuggestionRepo) GetByID(ctx context.Context, id string) (*entities.Suggestion, error) {
	for _, s := range r.stored {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.NewNotFoundError("suggestion not found")
}

func (r *memorySuggestionRepo) Update(ctx context.Context, s *entities.Suggestion) error {
	return nil
}

func (r *memorySuggestionRepo) Dismiss(ctx context.Context, id string) error {
	return nil
}

func (r *memorySuggestionRepo) ListActiveByCheckIn(ctx context.Context, checkInID string) ([]*entities.Suggestion, error) {
	return r.stored, nil
}

func (r *memorySuggestionRepo) ListRecentTitles(ctx context.Context, userID string, limit int) ([]string, error) {
	return nil, nil
}

type memoryContactRepo struct{}

func (r *memoryContactRepo) ListFrequent(ctx context.Context, userID string, limit int) ([]*entities.Contact, error) {
	return []*entities.Contact{
		{ID: "c1", UserID: userID, Name: "Alex", Phone: "555-0100", CallCount: 12},
	}, nil
}

func (r *memoryContactRepo) GetEmergencyContact(ctx context.Context, userID string) (*entities.Contact, error) {
	return &entities.Contact{
		ID: "c2", UserID: userID, Name: "Jordan", Phone: "555-0911",
		Tags: []string{"emergency"}, CallCount: 2,
	}, nil
}
