package entities

import "errors"

// Graph composition violations surfaced by Validate.
var (
	ErrGraphNoStarter     = errors.New("automation graph has no starter")
	ErrGraphNoActions     = errors.New("automation graph has no action sequences")
	ErrGraphEmptySequence = errors.New("automation graph contains an empty action sequence")
)

// Starter kinds accepted by the hub's automation engine.
type StarterKind string

const (
	StarterManual      StarterKind = "manual"
	StarterDeviceEvent StarterKind = "device_event"
	StarterDeviceState StarterKind = "device_state"
)

// StarterCondition guards a device-based starter.
type StarterCondition struct {
	Trait    string `json:"trait"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Starter is one trigger of an automation graph. The manual starter is
// always present; a device starter is best-effort.
type Starter struct {
	Kind      StarterKind       `json:"kind"`
	DeviceID  string            `json:"device_id,omitempty"`
	Condition *StarterCondition `json:"condition,omitempty"`
}

// DeviceCommand is one engine-native command issued to a device.
type DeviceCommand struct {
	DeviceID   string            `json:"device_id"`
	Command    string            `json:"command"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Command names understood by the hub.
const (
	CommandOn               = "on_off.on"
	CommandOff              = "on_off.off"
	CommandSetLevel         = "brightness.set_level"
	CommandSetColorTemp     = "color.set_temperature"
	CommandSetTargetTemp    = "thermostat.set_target"
	CommandPlayAmbientSound = "speaker.play_ambient"
)

// ActionSequence is an ordered command list for one device. Commands in
// a sequence run in order; sequences in the same parallel block carry
// no ordering guarantee relative to each other.
type ActionSequence struct {
	DeviceID string          `json:"device_id"`
	Commands []DeviceCommand `json:"commands"`
}

// AutomationGraph is the engine-specific structure compiled from one
// accepted suggestion: starters plus a parallel block of per-device
// sequences. It is built fresh per execution and never persisted.
type AutomationGraph struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Starters    []Starter        `json:"starters"`
	Parallel    []ActionSequence `json:"parallel"`
}

// Validate checks the composition rules the engine enforces: at least
// one starter, a non-empty action section, and no empty sequence.
func (g *AutomationGraph) Validate() error {
	if len(g.Starters) == 0 {
		return ErrGraphNoStarter
	}
	if len(g.Parallel) == 0 {
		return ErrGraphNoActions
	}
	for _, seq := range g.Parallel {
		if len(seq.Commands) == 0 {
			return ErrGraphEmptySequence
		}
	}
	return nil
}
