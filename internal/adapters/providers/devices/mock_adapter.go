package devices

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
)

// MockAdapter returns a canned inventory for development and tests.
type MockAdapter struct{}

// NewMockAdapter creates a mock inventory provider
func NewMockAdapter() providers.DeviceInventoryProvider {
	return &MockAdapter{}
}

// ListDevices returns a fixed inventory regardless of structure
func (a *MockAdapter) ListDevices(ctx context.Context, structureID string) ([]entities.Device, error) {
	return []entities.Device{
		{
			ID:           "mock-light-living",
			Name:         "Living Room Light",
			Type:         "light",
			Room:         "Living Room",
			Connectivity: entities.ConnectivityOnline,
			Traits:       []string{entities.TraitOnOff, entities.TraitBrightness, entities.TraitColorSetting},
		},
		{
			ID:           "mock-light-bedroom",
			Name:         "Bedroom Lamp",
			Type:         "lamp",
			Room:         "Bedroom",
			Connectivity: entities.ConnectivityOnline,
			Traits:       []string{entities.TraitOnOff, entities.TraitBrightness},
		},
		{
			ID:           "mock-thermostat",
			Name:         "Hallway Thermostat",
			Type:         "thermostat",
			Room:         "Hallway",
			Connectivity: entities.ConnectivityOnline,
			Traits:       []string{entities.TraitTemperatureSet},
		},
		{
			ID:           "mock-speaker",
			Name:         "Living Room Speaker",
			Type:         "speaker",
			Room:         "Living Room",
			Connectivity: entities.ConnectivityOnline,
			Traits:       []string{entities.TraitOnOff, entities.TraitVolume},
		},
		{
			ID:           "mock-motion",
			Name:         "Bedroom Motion Sensor",
			Type:         "motion_sensor",
			Room:         "Bedroom",
			Connectivity: entities.ConnectivityOnline,
			Traits:       []string{entities.TraitOccupancySensing},
		},
		{
			ID:           "mock-outlet",
			Name:         "Office Outlet",
			Type:         "outlet",
			Room:         "Office",
			Connectivity: entities.ConnectivityOffline,
			Traits:       []string{entities.TraitOnOff},
		},
	}, nil
}
