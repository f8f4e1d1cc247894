package devices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
)

// HubAdapter implements DeviceInventoryProvider against the smart-home
// hub's REST API. The hub owns device identity; this adapter only reads
// the structure-scoped snapshot.
type HubAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHubAdapter creates a new hub inventory adapter
func NewHubAdapter(baseURL, apiKey string) providers.DeviceInventoryProvider {
	return &HubAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type hubDevice struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Room         string            `json:"room"`
	Connectivity string            `json:"connectivity"`
	Traits       []string          `json:"traits"`
	TraitValues  map[string]string `json:"trait_values"`
}

// ListDevices returns the live inventory for a structure
func (a *HubAdapter) ListDevices(ctx context.Context, structureID string) ([]entities.Device, error) {
	url := fmt.Sprintf("%s/structures/%s/devices", a.baseURL, structureID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub inventory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub api error: status %d", resp.StatusCode)
	}

	var result struct {
		Devices []hubDevice `json:"devices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode hub inventory: %w", err)
	}

	devices := make([]entities.Device, 0, len(result.Devices))
	for _, d := range result.Devices {
		devices = append(devices, entities.Device{
			ID:           d.ID,
			Name:         d.Name,
			Type:         d.Type,
			Room:         d.Room,
			Connectivity: mapConnectivity(d.Connectivity),
			Traits:       d.Traits,
			TraitValues:  d.TraitValues,
		})
	}

	return devices, nil
}

func mapConnectivity(raw string) entities.Connectivity {
	switch raw {
	case "online":
		return entities.ConnectivityOnline
	case "partially_online":
		return entities.ConnectivityPartiallyOnline
	case "offline":
		return entities.ConnectivityOffline
	default:
		return entities.ConnectivityUnknown
	}
}
