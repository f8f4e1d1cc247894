package entities

// DeviceCategory is the closed classification of a device's declared
// type. It is produced once by the capability aggregator and consumed
// by the generators and the graph compiler, so type inspection happens
// in exactly one place.
type DeviceCategory string

const (
	DeviceLight           DeviceCategory = "light"
	DeviceThermostat      DeviceCategory = "thermostat"
	DeviceSpeaker         DeviceCategory = "speaker"
	DeviceOccupancySensor DeviceCategory = "occupancy_sensor"
	DeviceContactSensor   DeviceCategory = "contact_sensor"
	DeviceSwitch          DeviceCategory = "switch"
	DeviceOutlet          DeviceCategory = "outlet"
	DeviceUnknown         DeviceCategory = "unknown"
)

// Connectivity is the hub-reported reachability of a device.
type Connectivity string

const (
	ConnectivityOnline          Connectivity = "online"
	ConnectivityPartiallyOnline Connectivity = "partially_online"
	ConnectivityOffline         Connectivity = "offline"
	ConnectivityUnknown         Connectivity = "unknown"
)

// Trait names a control capability a device exposes through the hub.
const (
	TraitOnOff            = "OnOff"
	TraitBrightness       = "Brightness"
	TraitColorSetting     = "ColorSetting"
	TraitTemperatureSet   = "TemperatureSetting"
	TraitVolume           = "Volume"
	TraitOccupancySensing = "OccupancySensing"
	TraitOpenClose        = "OpenClose"
)

// Device is one entry of the structure-scoped inventory snapshot read
// from the hub. The core never owns device identity; it only reads.
type Device struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Room         string            `json:"room,omitempty"`
	Connectivity Connectivity      `json:"connectivity"`
	Traits       []string          `json:"traits"`
	TraitValues  map[string]string `json:"trait_values,omitempty"`
}

// HasTrait reports whether the device exposes the named trait.
func (d *Device) HasTrait(name string) bool {
	for _, t := range d.Traits {
		if t == name {
			return true
		}
	}
	return false
}

// IsOnline reports whether the hub considers the device reachable
// enough to receive commands.
func (d *Device) IsOnline() bool {
	return d.Connectivity == ConnectivityOnline || d.Connectivity == ConnectivityPartiallyOnline
}

// DeviceCapabilitySummary aggregates what the current inventory can do.
// It is recomputed for every generation cycle so it always reflects the
// live inventory.
type DeviceCapabilitySummary struct {
	LightCount      int      `json:"light_count"`
	DimmableLights  bool     `json:"dimmable_lights"`
	ColorLights     bool     `json:"color_lights"`
	ThermostatCount int      `json:"thermostat_count"`
	SpeakerCount    int      `json:"speaker_count"`
	SensorCount     int      `json:"sensor_count"`
	HasSwitches     bool     `json:"has_switches"`
	HasOutlets      bool     `json:"has_outlets"`
	Rooms           []string `json:"rooms"`
}

// HasControllableDevices reports whether any device category exists
// that a suggestion could act on. When false the orchestrator takes
// the manual-guidance fallback path.
func (s *DeviceCapabilitySummary) HasControllableDevices() bool {
	return s.LightCount+s.ThermostatCount+s.SpeakerCount > 0
}
