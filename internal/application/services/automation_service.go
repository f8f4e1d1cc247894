package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/internal/domain/repositories"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

const (
	maxGraphDevices = 3

	// The hub's native brightness range.
	engineLevelMax = 254

	defaultRestoreDelay = 10 * time.Minute
)

// ExecutionContext carries the per-execution status log sink and
// cancellation. It is created fresh for each Execute call; nothing
// about an execution lives in process-wide state.
type ExecutionContext struct {
	SuggestionID string

	bus   providers.EventBus
	lines []string
}

func newExecutionContext(suggestionID string, bus providers.EventBus) *ExecutionContext {
	return &ExecutionContext{SuggestionID: suggestionID, bus: bus}
}

// Log appends a human-readable progress line and publishes it to the
// status stream. Publishing is best-effort; execution never fails
// because a status line could not be delivered.
func (e *ExecutionContext) Log(ctx context.Context, message string) {
	e.append(ctx, message, false)
}

// Finish appends the terminal line of this execution's status stream.
func (e *ExecutionContext) Finish(ctx context.Context, message string) {
	e.append(ctx, message, true)
}

func (e *ExecutionContext) append(ctx context.Context, message string, final bool) {
	e.lines = append(e.lines, message)
	if e.bus == nil {
		return
	}
	event := &entities.ExecutionEvent{
		ID:           uuid.New().String(),
		SuggestionID: e.SuggestionID,
		Message:      message,
		Final:        final,
		Timestamp:    time.Now(),
	}
	if err := e.bus.Publish(ctx, providers.GetExecutionChannel(e.SuggestionID), event); err != nil {
		observability.LoggerFromContext(ctx).Debug().Err(err).Msg("status stream publish failed")
	}
}

// Lines returns the accumulated status log.
func (e *ExecutionContext) Lines() []string {
	return e.lines
}

// AutomationService compiles an accepted suggestion into an automation
// graph, registers and runs it on the hub, and records the outcome.
// State machine per suggestion: pending -> compiling -> executing ->
// executed | failed. A failed execution leaves the suggestion pending
// and may be retried by calling Execute again; dismissal bypasses
// compilation entirely and is handled by the suggestion service.
type AutomationService struct {
	suggestions repositories.SuggestionRepository
	executions  repositories.ExecutionRepository
	inventory   providers.DeviceInventoryProvider
	engine      providers.AutomationEngine
	bus         providers.EventBus
	aggregator  *CapabilityAggregator
	effects     *EffectScheduler
	metrics     *observability.Metrics
	structureID string
}

// NewAutomationService creates a new automation service.
func NewAutomationService(
	suggestions repositories.SuggestionRepository,
	executions repositories.ExecutionRepository,
	inventory providers.DeviceInventoryProvider,
	engine providers.AutomationEngine,
	bus providers.EventBus,
	aggregator *CapabilityAggregator,
	effects *EffectScheduler,
	metrics *observability.Metrics,
	structureID string,
) *AutomationService {
	return &AutomationService{
		suggestions: suggestions,
		executions:  executions,
		inventory:   inventory,
		engine:      engine,
		bus:         bus,
		aggregator:  aggregator,
		effects:     effects,
		metrics:     metrics,
		structureID: structureID,
	}
}

// Execute runs the full compile/execute path for one suggestion.
func (s *AutomationService) Execute(ctx context.Context, suggestionID string) (*entities.ExecutionRecord, error) {
	suggestion, err := s.suggestions.GetByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	if suggestion.IsDismissed {
		return nil, apperrors.NewConflictError("suggestion was dismissed")
	}
	if suggestion.IsExecuted {
		return nil, apperrors.NewConflictError("suggestion was already executed")
	}

	// A fresh execution owns the status stream; stale effect timers
	// from a previous attempt are cancelled before anything runs.
	if s.effects != nil {
		s.effects.CancelPending(suggestionID)
	}
	execCtx := newExecutionContext(suggestionID, s.bus)
	execCtx.Log(ctx, fmt.Sprintf("Preparing %q...", suggestion.Title))

	record, err := s.run(ctx, execCtx, suggestion)
	if err != nil {
		execCtx.Finish(ctx, fmt.Sprintf("Failed: %v", err))
		observability.RecordExecutionMetric(ctx, s.metrics, "failed")
		return record, err
	}

	execCtx.Finish(ctx, "All set. Enjoy your space.")
	observability.RecordExecutionMetric(ctx, s.metrics, "success")
	return record, nil
}

// run performs compilation and execution, always appending exactly one
// execution record regardless of outcome.
func (s *AutomationService) run(ctx context.Context, execCtx *ExecutionContext, suggestion *entities.Suggestion) (*entities.ExecutionRecord, error) {
	devices, err := s.inventory.ListDevices(ctx, s.structureID)
	if err != nil {
		return s.recordFailure(ctx, suggestion, fmt.Errorf("device inventory unavailable: %w", err))
	}
	categorized, _ := s.aggregator.Aggregate(devices)

	environment := suggestion.Environment()
	execCtx.Log(ctx, "Compiling automation...")

	graph, selected := CompileGraph(suggestion, environment, categorized)
	if err := graph.Validate(); err != nil {
		return s.recordFailure(ctx, suggestion, fmt.Errorf("compiled graph invalid: %w", err))
	}
	execCtx.Log(ctx, fmt.Sprintf("Automation targets %d device(s)", len(graph.Parallel)))

	automationID, err := s.engine.CreateAutomation(ctx, graph)
	if err != nil {
		return s.recordFailure(ctx, suggestion, fmt.Errorf("automation registration failed: %w", err))
	}
	execCtx.Log(ctx, "Automation registered with your hub")

	if err := s.engine.ExecuteAutomation(ctx, automationID); err != nil {
		return s.recordFailure(ctx, suggestion, fmt.Errorf("automation run failed: %w", err))
	}
	execCtx.Log(ctx, "Devices are adjusting")

	s.startAmbientEffects(suggestion, environment, selected)

	now := time.Now()
	suggestion.IsExecuted = true
	suggestion.ExecutedAt = &now
	if err := s.suggestions.Update(ctx, suggestion); err != nil {
		return s.recordFailure(ctx, suggestion, fmt.Errorf("failed to mark suggestion executed: %w", err))
	}

	record := &entities.ExecutionRecord{
		ID:               uuid.New().String(),
		SuggestionID:     suggestion.ID,
		CheckInID:        suggestion.CheckInID,
		ExecutedAt:       now,
		CompletionStatus: entities.ExecutionStatusSuccess,
	}
	if err := s.executions.Create(ctx, record); err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("failed to append execution record")
	}
	return record, nil
}

// recordFailure appends a FAILED record and leaves the suggestion in
// its retryable pending state.
func (s *AutomationService) recordFailure(ctx context.Context, suggestion *entities.Suggestion, cause error) (*entities.ExecutionRecord, error) {
	record := &entities.ExecutionRecord{
		ID:               uuid.New().String(),
		SuggestionID:     suggestion.ID,
		CheckInID:        suggestion.CheckInID,
		ExecutedAt:       time.Now(),
		CompletionStatus: entities.ExecutionStatusFailedPrefix + cause.Error(),
	}
	if err := s.executions.Create(ctx, record); err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("failed to append execution record")
	}
	return record, apperrors.NewExternalError("automation execution failed", cause)
}

// startAmbientEffects launches the breathing pulse for calming
// environments and arms the restore timer from the suggestion's
// declared duration.
func (s *AutomationService) startAmbientEffects(suggestion *entities.Suggestion, environment string, selected []CategorizedDevice) {
	if s.effects == nil {
		return
	}

	if environment == EnvAnxietyRelief || environment == EnvDeepRelaxation {
		for _, device := range selected {
			if device.Category == entities.DeviceLight && device.Dimmable {
				profile := ProfileFor(environment)
				s.effects.StartBreathing(suggestion.ID, device.ID, profile.LightLevel, profile.LightLevel+25)
				break
			}
		}
	}

	restoreAfter := parseDuration(suggestion.EstimatedDuration)
	engine := s.engine
	devices := selected
	s.effects.ScheduleRestore(suggestion.ID, restoreAfter, func(ctx context.Context) {
		profile := defaultEnvironmentProfile
		for _, device := range devices {
			if device.Category == entities.DeviceLight && device.Dimmable {
				_ = engine.SendCommand(ctx, entities.DeviceCommand{
					DeviceID:   device.ID,
					Command:    entities.CommandSetLevel,
					Parameters: map[string]string{"level": strconv.Itoa(scaleLevel(profile.LightLevel))},
				})
			}
		}
	})
}

// ListRecentExecutions returns the newest execution records.
func (s *AutomationService) ListRecentExecutions(ctx context.Context, limit int) ([]*entities.ExecutionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.executions.ListRecent(ctx, limit)
}

// CompileGraph builds the automation graph for one suggestion against
// the categorized live inventory. It returns the graph and the devices
// an action sequence was emitted for.
func CompileGraph(suggestion *entities.Suggestion, environment string, devices []CategorizedDevice) (*entities.AutomationGraph, []CategorizedDevice) {
	profile := ProfileFor(environment)

	graph := &entities.AutomationGraph{
		Name:        fmt.Sprintf("attune: %s", suggestion.Title),
		Description: suggestion.Description,
		Starters:    compileStarters(devices),
	}

	selected := selectDevices(devices, maxGraphDevices)
	for _, device := range selected {
		graph.Parallel = append(graph.Parallel, compileSequence(device, profile))
	}

	return graph, selected
}

// compileStarters always includes the manual starter and adds one
// device starter when a usable device exists. Starter selection is
// best-effort: with nothing suitable the graph stays manual-only.
func compileStarters(devices []CategorizedDevice) []entities.Starter {
	starters := []entities.Starter{{Kind: entities.StarterManual}}

	for _, device := range devices {
		if !device.IsOnline() {
			continue
		}
		switch device.Category {
		case entities.DeviceOccupancySensor:
			starters = append(starters, entities.Starter{
				Kind:     entities.StarterDeviceEvent,
				DeviceID: device.ID,
				Condition: &entities.StarterCondition{
					Trait:    entities.TraitOccupancySensing,
					Operator: "==",
					Value:    "occupied",
				},
			})
			return starters
		case entities.DeviceContactSensor:
			starters = append(starters, entities.Starter{
				Kind:     entities.StarterDeviceEvent,
				DeviceID: device.ID,
				Condition: &entities.StarterCondition{
					Trait:    entities.TraitOpenClose,
					Operator: "==",
					Value:    "open",
				},
			})
			return starters
		}
	}

	for _, device := range devices {
		if device.IsOnline() && device.HasTrait(entities.TraitOnOff) {
			starters = append(starters, entities.Starter{
				Kind:     entities.StarterDeviceState,
				DeviceID: device.ID,
				Condition: &entities.StarterCondition{
					Trait:    entities.TraitOnOff,
					Operator: "==",
					Value:    "on",
				},
			})
			break
		}
	}

	return starters
}

// selectDevices picks the first n controllable, online devices.
func selectDevices(devices []CategorizedDevice, n int) []CategorizedDevice {
	selected := make([]CategorizedDevice, 0, n)
	for _, device := range devices {
		if !device.Controllable() || !device.IsOnline() {
			continue
		}
		selected = append(selected, device)
		if len(selected) == n {
			break
		}
	}
	return selected
}

// compileSequence emits the ordered command list for one device.
// Ordering within a sequence is guaranteed by the engine: lights turn
// on before their level changes.
func compileSequence(device CategorizedDevice, profile EnvironmentProfile) entities.ActionSequence {
	seq := entities.ActionSequence{DeviceID: device.ID}

	switch device.Category {
	case entities.DeviceLight:
		seq.Commands = append(seq.Commands, entities.DeviceCommand{
			DeviceID: device.ID,
			Command:  entities.CommandOn,
		})
		if device.Dimmable {
			seq.Commands = append(seq.Commands, entities.DeviceCommand{
				DeviceID:   device.ID,
				Command:    entities.CommandSetLevel,
				Parameters: map[string]string{"level": strconv.Itoa(scaleLevel(profile.LightLevel))},
			})
		}
		if device.Color {
			seq.Commands = append(seq.Commands, entities.DeviceCommand{
				DeviceID:   device.ID,
				Command:    entities.CommandSetColorTemp,
				Parameters: map[string]string{"temperature_k": strconv.Itoa(profile.ColorTempK)},
			})
		}
	case entities.DeviceThermostat:
		seq.Commands = append(seq.Commands, entities.DeviceCommand{
			DeviceID:   device.ID,
			Command:    entities.CommandSetTargetTemp,
			Parameters: map[string]string{"target_c": strconv.Itoa(profile.TargetTempC)},
		})
	default:
		seq.Commands = append(seq.Commands, entities.DeviceCommand{
			DeviceID: device.ID,
			Command:  entities.CommandOn,
		})
	}

	return seq
}

// scaleLevel maps a 0-100 percentage to the engine's native range.
func scaleLevel(percent int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent * engineLevelMax / 100
}

// parseDuration turns a human duration like "10 minutes" into a delay,
// defaulting when the text is absent or unparseable.
func parseDuration(text string) time.Duration {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) < 2 {
		return defaultRestoreDelay
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return defaultRestoreDelay
	}
	switch {
	case strings.HasPrefix(fields[1], "minute"):
		return time.Duration(n) * time.Minute
	case strings.HasPrefix(fields[1], "hour"):
		return time.Duration(n) * time.Hour
	case strings.HasPrefix(fields[1], "second"):
		return time.Duration(n) * time.Second
	default:
		return defaultRestoreDelay
	}
}
