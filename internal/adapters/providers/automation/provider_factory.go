package automation

import (
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/pkg/config"
)

// NewAutomationEngine selects an automation engine from config. The
// mock engine keeps the execution path runnable without a live hub.
func NewAutomationEngine(cfg config.HubConfig) providers.AutomationEngine {
	if cfg.Provider == "mock" || cfg.BaseURL == "" {
		return NewMockAdapter()
	}
	return NewHubAdapter(cfg.BaseURL, cfg.APIKey, cfg.StructureID)
}
