package providers

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// AutomationEngine defines the hub's automation surface: persistent
// registration of a compiled graph, triggering a registered automation,
// and ad-hoc device commands. Graph shape is externally defined; the
// compiler's job is only to produce a structurally valid instance.
type AutomationEngine interface {
	// CreateAutomation registers a compiled graph with the hub and
	// returns the engine-assigned automation id.
	CreateAutomation(ctx context.Context, graph *entities.AutomationGraph) (string, error)

	// ExecuteAutomation triggers one run of a registered automation.
	ExecuteAutomation(ctx context.Context, automationID string) error

	// SendCommand issues one ad-hoc command to a device.
	SendCommand(ctx context.Context, command entities.DeviceCommand) error
}
