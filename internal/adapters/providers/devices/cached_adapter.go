package devices

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
)

// Inventory snapshots only need to stay fresh within one generation
// cycle, so the TTL is kept short.
const inventoryTTL = 15

// CachedAdapter wraps a DeviceInventoryProvider with short-lived
// caching so a generation cycle followed by an execution does not hit
// the hub twice for the same snapshot.
type CachedAdapter struct {
	provider providers.DeviceInventoryProvider
	cache    providers.CacheProvider
	metrics  *observability.Metrics
}

// NewCachedAdapter creates a caching inventory decorator
func NewCachedAdapter(provider providers.DeviceInventoryProvider, cache providers.CacheProvider, metrics *observability.Metrics) providers.DeviceInventoryProvider {
	return &CachedAdapter{
		provider: provider,
		cache:    cache,
		metrics:  metrics,
	}
}

func inventoryCacheKey(structureID string) string {
	return fmt.Sprintf("inventory:%s", structureID)
}

// ListDevices returns the inventory, preferring a recent cached snapshot
func (a *CachedAdapter) ListDevices(ctx context.Context, structureID string) ([]entities.Device, error) {
	cacheKey := inventoryCacheKey(structureID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var devices []entities.Device
		if err := json.Unmarshal(cached, &devices); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "inventory")
			return devices, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("structure_id", structureID).
			Msg("Failed to unmarshal cached inventory")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "inventory")

	devices, err := a.provider.ListDevices(ctx, structureID)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(devices); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, inventoryTTL); err != nil {
				observability.GetLogger().Warn().Err(err).
					Str("structure_id", structureID).
					Msg("Failed to cache inventory")
			}
		}
	}()

	return devices, nil
}
