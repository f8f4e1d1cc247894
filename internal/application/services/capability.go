package services

import (
	"sort"
	"strings"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// CategorizedDevice pairs an inventory device with its resolved
// category. Classification happens here once; generators and the graph
// compiler consume the closed category instead of re-inspecting types.
type CategorizedDevice struct {
	entities.Device
	Category entities.DeviceCategory
	Dimmable bool
	Color    bool
}

// Controllable reports whether the device can be targeted by an
// automation action (sensors and unknowns cannot).
func (d *CategorizedDevice) Controllable() bool {
	switch d.Category {
	case entities.DeviceLight, entities.DeviceThermostat, entities.DeviceSpeaker,
		entities.DeviceSwitch, entities.DeviceOutlet:
		return true
	default:
		return false
	}
}

// CapabilityAggregator scans a device inventory snapshot into a
// capability summary. It tolerates a nil or empty inventory, which
// yields the all-zero summary that routes the orchestrator onto the
// no-devices fallback path.
type CapabilityAggregator struct{}

// NewCapabilityAggregator creates a new aggregator.
func NewCapabilityAggregator() *CapabilityAggregator {
	return &CapabilityAggregator{}
}

// Categorize resolves one device's declared type into the closed
// category set. Unrecognized types map to DeviceUnknown and contribute
// to no summary bucket.
func (a *CapabilityAggregator) Categorize(device entities.Device) CategorizedDevice {
	cd := CategorizedDevice{Device: device, Category: entities.DeviceUnknown}

	t := strings.ToLower(device.Type)
	switch {
	case strings.Contains(t, "light"), strings.Contains(t, "lamp"), strings.Contains(t, "bulb"):
		cd.Category = entities.DeviceLight
		cd.Dimmable = device.HasTrait(entities.TraitBrightness)
		cd.Color = device.HasTrait(entities.TraitColorSetting)
	case strings.Contains(t, "thermostat"), strings.Contains(t, "ac_unit"), strings.Contains(t, "heater"):
		cd.Category = entities.DeviceThermostat
	case strings.Contains(t, "speaker"), strings.Contains(t, "audio"):
		cd.Category = entities.DeviceSpeaker
	case strings.Contains(t, "occupancy"), strings.Contains(t, "motion"), strings.Contains(t, "presence"):
		cd.Category = entities.DeviceOccupancySensor
	case strings.Contains(t, "contact"), strings.Contains(t, "door"), strings.Contains(t, "window"):
		cd.Category = entities.DeviceContactSensor
	case strings.Contains(t, "switch"):
		cd.Category = entities.DeviceSwitch
	case strings.Contains(t, "outlet"), strings.Contains(t, "plug"):
		cd.Category = entities.DeviceOutlet
	}

	return cd
}

// Aggregate categorizes every device and builds the capability summary
// in a single pass over the inventory.
func (a *CapabilityAggregator) Aggregate(devices []entities.Device) ([]CategorizedDevice, *entities.DeviceCapabilitySummary) {
	summary := &entities.DeviceCapabilitySummary{}
	categorized := make([]CategorizedDevice, 0, len(devices))
	rooms := make(map[string]bool)

	for _, device := range devices {
		cd := a.Categorize(device)
		categorized = append(categorized, cd)

		if device.Room != "" {
			rooms[device.Room] = true
		}

		switch cd.Category {
		case entities.DeviceLight:
			summary.LightCount++
			if cd.Dimmable {
				summary.DimmableLights = true
			}
			if cd.Color {
				summary.ColorLights = true
			}
		case entities.DeviceThermostat:
			summary.ThermostatCount++
		case entities.DeviceSpeaker:
			summary.SpeakerCount++
		case entities.DeviceOccupancySensor, entities.DeviceContactSensor:
			summary.SensorCount++
		case entities.DeviceSwitch:
			summary.HasSwitches = true
		case entities.DeviceOutlet:
			summary.HasOutlets = true
		}
	}

	summary.Rooms = make([]string, 0, len(rooms))
	for room := range rooms {
		summary.Rooms = append(summary.Rooms, room)
	}
	sort.Strings(summary.Rooms)

	return categorized, summary
}
