package automation

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
)

// MockAdapter is an in-memory automation engine for development and
// tests. It registers graphs and logs commands instead of driving
// hardware.
type MockAdapter struct {
	mu     sync.Mutex
	graphs map[string]*entities.AutomationGraph
}

// NewMockAdapter creates a mock automation engine
func NewMockAdapter() providers.AutomationEngine {
	return &MockAdapter{
		graphs: make(map[string]*entities.AutomationGraph),
	}
}

// CreateAutomation registers a graph in memory
func (a *MockAdapter) CreateAutomation(ctx context.Context, graph *entities.AutomationGraph) (string, error) {
	if err := graph.Validate(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	a.mu.Lock()
	a.graphs[id] = graph
	a.mu.Unlock()

	observability.GetLogger().Debug().
		Str("automation_id", id).
		Str("name", graph.Name).
		Int("sequences", len(graph.Parallel)).
		Msg("Registered mock automation")
	return id, nil
}

// ExecuteAutomation logs the run of a registered graph
func (a *MockAdapter) ExecuteAutomation(ctx context.Context, automationID string) error {
	a.mu.Lock()
	graph, ok := a.graphs[automationID]
	a.mu.Unlock()
	if !ok {
		return fmt.Errorf("automation %s not registered", automationID)
	}

	for _, seq := range graph.Parallel {
		for _, cmd := range seq.Commands {
			observability.GetLogger().Debug().
				Str("device_id", seq.DeviceID).
				Str("command", cmd.Command).
				Msg("Mock automation command")
		}
	}
	return nil
}

// SendCommand logs an ad-hoc command
func (a *MockAdapter) SendCommand(ctx context.Context, command entities.DeviceCommand) error {
	observability.GetLogger().Debug().
		Str("device_id", command.DeviceID).
		Str("command", command.Command).
		Msg("Mock device command")
	return nil
}
