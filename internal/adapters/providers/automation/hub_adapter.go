package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
)

// HubAdapter implements AutomationEngine against the smart-home hub's
// REST API. The graph wire shape mirrors entities.AutomationGraph.
type HubAdapter struct {
	apiKey      string
	baseURL     string
	structureID string
	client      *http.Client
}

// NewHubAdapter creates a new hub automation adapter
func NewHubAdapter(baseURL, apiKey, structureID string) providers.AutomationEngine {
	return &HubAdapter{
		apiKey:      apiKey,
		baseURL:     baseURL,
		structureID: structureID,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateAutomation registers a compiled graph and returns its engine id
func (a *HubAdapter) CreateAutomation(ctx context.Context, graph *entities.AutomationGraph) (string, error) {
	url := fmt.Sprintf("%s/structures/%s/automations", a.baseURL, a.structureID)

	body, err := json.Marshal(graph)
	if err != nil {
		return "", fmt.Errorf("failed to encode automation graph: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	a.addHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("hub automation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("hub api error: status %d", resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode automation response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("hub returned no automation id")
	}

	return result.ID, nil
}

// ExecuteAutomation triggers one run of a registered automation
func (a *HubAdapter) ExecuteAutomation(ctx context.Context, automationID string) error {
	url := fmt.Sprintf("%s/structures/%s/automations/%s/execute", a.baseURL, a.structureID, automationID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return err
	}
	a.addHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("hub execute request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("hub api error: status %d", resp.StatusCode)
	}

	return nil
}

// SendCommand issues one ad-hoc command to a device
func (a *HubAdapter) SendCommand(ctx context.Context, command entities.DeviceCommand) error {
	url := fmt.Sprintf("%s/devices/%s/commands", a.baseURL, command.DeviceID)

	body, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("failed to encode device command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	a.addHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("hub command request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("hub api error: status %d", resp.StatusCode)
	}

	return nil
}

func (a *HubAdapter) addHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))
	req.Header.Set("Content-Type", "application/json")
}
