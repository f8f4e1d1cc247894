package devices

import (
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/pkg/config"
)

// NewDeviceInventoryProvider selects an inventory provider from config.
// An unconfigured or "mock" provider yields the canned inventory so the
// rest of the pipeline works without a live hub.
func NewDeviceInventoryProvider(cfg config.HubConfig) providers.DeviceInventoryProvider {
	if cfg.Provider == "mock" || cfg.BaseURL == "" {
		return NewMockAdapter()
	}
	return NewHubAdapter(cfg.BaseURL, cfg.APIKey)
}
