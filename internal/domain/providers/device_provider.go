package providers

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// DeviceInventoryProvider exposes the structure-scoped device list the
// hub reports. The core only reads; it never owns device identity. A
// nil or empty inventory is a valid answer and maps to the all-zero
// capability summary.
type DeviceInventoryProvider interface {
	// ListDevices returns the live inventory for a structure.
	ListDevices(ctx context.Context, structureID string) ([]entities.Device, error)
}
