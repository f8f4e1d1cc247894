package services_test

import (
	"context"
	"sync"

	"github.com/seren-labs/attune/internal/domain/entities"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

// In-memory doubles for the repository and provider ports. Behaviors
// are toggled per test through the exported fields.

type mockSuggestionRepo struct {
	mu           sync.Mutex
	created      []*entities.Suggestion
	byID         map[string]*entities.Suggestion
	recentTitles []string
	createErr    error
	failTitles   map[string]bool
	updated      []*entities.Suggestion
	dismissed    []string
}

func newMockSuggestionRepo() *mockSuggestionRepo {
	return &mockSuggestionRepo{byID: make(map[string]*entities.Suggestion)}
}

func (m *mockSuggestionRepo) Create(ctx context.Context, s *entities.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.failTitles[s.Title] {
		return apperrors.NewInternalError("insert failed", nil)
	}
	m.created = append(m.created, s)
	m.byID[s.ID] = s
	return nil
}

func (m *mockSuggestionRepo) GetByID(ctx context.Context, id string) (*entities.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, apperrors.NewNotFoundError("suggestion not found")
}

func (m *mockSuggestionRepo) Update(ctx context.Context, s *entities.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, s)
	m.byID[s.ID] = s
	return nil
}

func (m *mockSuggestionRepo) Dismiss(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dismissed = append(m.dismissed, id)
	if s, ok := m.byID[id]; ok {
		s.IsDismissed = true
	}
	return nil
}

func (m *mockSuggestionRepo) ListActiveByCheckIn(ctx context.Context, checkInID string) ([]*entities.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.Suggestion
	for _, s := range m.created {
		if s.CheckInID == checkInID && !s.IsTerminal() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSuggestionRepo) ListRecentTitles(ctx context.Context, userID string, limit int) ([]string, error) {
	return m.recentTitles, nil
}

type mockCheckInRepo struct {
	mu        sync.Mutex
	byID      map[string]*entities.CheckIn
	createErr error
	updated   []*entities.CheckIn
}

func newMockCheckInRepo() *mockCheckInRepo {
	return &mockCheckInRepo{byID: make(map[string]*entities.CheckIn)}
}

func (m *mockCheckInRepo) Create(ctx context.Context, checkIn *entities.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.byID[checkIn.ID] = checkIn
	return nil
}

func (m *mockCheckInRepo) GetByID(ctx context.Context, id string) (*entities.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, apperrors.NewNotFoundError("check-in not found")
}

func (m *mockCheckInRepo) Update(ctx context.Context, checkIn *entities.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, checkIn)
	m.byID[checkIn.ID] = checkIn
	return nil
}

func (m *mockCheckInRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.CheckIn
	for _, c := range m.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockContactRepo struct {
	frequent  []*entities.Contact
	emergency *entities.Contact
}

func (m *mockContactRepo) ListFrequent(ctx context.Context, userID string, limit int) ([]*entities.Contact, error) {
	if limit < len(m.frequent) {
		return m.frequent[:limit], nil
	}
	return m.frequent, nil
}

func (m *mockContactRepo) GetEmergencyContact(ctx context.Context, userID string) (*entities.Contact, error) {
	if m.emergency == nil {
		return nil, apperrors.NewNotFoundError("no emergency contact")
	}
	return m.emergency, nil
}

type mockInventory struct {
	devices []entities.Device
	err     error
}

func (m *mockInventory) ListDevices(ctx context.Context, structureID string) ([]entities.Device, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.devices, nil
}

type mockTextGen struct {
	response string
	err      error
	prompts  []string
}

func (m *mockTextGen) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type mockEngine struct {
	mu            sync.Mutex
	graphs        []*entities.AutomationGraph
	commands      []entities.DeviceCommand
	createErr     error
	executeErr    error
	executedIDs   []string
	automationIDs int
}

func (m *mockEngine) CreateAutomation(ctx context.Context, graph *entities.AutomationGraph) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.graphs = append(m.graphs, graph)
	m.automationIDs++
	return "automation-1", nil
}

func (m *mockEngine) ExecuteAutomation(ctx context.Context, automationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.executeErr != nil {
		return m.executeErr
	}
	m.executedIDs = append(m.executedIDs, automationID)
	return nil
}

func (m *mockEngine) SendCommand(ctx context.Context, command entities.DeviceCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, command)
	return nil
}

type mockExecutionRepo struct {
	mu      sync.Mutex
	records []*entities.ExecutionRecord
}

func (m *mockExecutionRepo) Create(ctx context.Context, record *entities.ExecutionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockExecutionRepo) ListRecent(ctx context.Context, limit int) ([]*entities.ExecutionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockExecutionRepo) ListBySuggestion(ctx context.Context, suggestionID string) ([]*entities.ExecutionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.ExecutionRecord
	for _, r := range m.records {
		if r.SuggestionID == suggestionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockEventBus struct {
	mu        sync.Mutex
	published []*entities.ExecutionEvent
	channels  []string
}

func (m *mockEventBus) Publish(ctx context.Context, channel string, event *entities.ExecutionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	m.channels = append(m.channels, channel)
	return nil
}

func (m *mockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ExecutionEvent, error) {
	ch := make(chan *entities.ExecutionEvent)
	close(ch)
	return ch, nil
}

func (m *mockEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (m *mockEventBus) Close() error { return nil }
