package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seren-labs/attune/internal/application/services"
	"github.com/seren-labs/attune/internal/domain/entities"
	apperrors "github.com/seren-labs/attune/pkg/errors"
)

type automationFixture struct {
	suggestions *mockSuggestionRepo
	executions  *mockExecutionRepo
	inventory   *mockInventory
	engine      *mockEngine
	bus         *mockEventBus
	service     *services.AutomationService
}

func newAutomationFixture(devices []entities.Device) *automationFixture {
	f := &automationFixture{
		suggestions: newMockSuggestionRepo(),
		executions:  &mockExecutionRepo{},
		inventory:   &mockInventory{devices: devices},
		engine:      &mockEngine{},
		bus:         &mockEventBus{},
	}
	f.service = services.NewAutomationService(
		f.suggestions,
		f.executions,
		f.inventory,
		f.engine,
		f.bus,
		services.NewCapabilityAggregator(),
		nil,
		nil,
		"structure-1",
	)
	return f
}

func pendingSuggestion(id string) *entities.Suggestion {
	return &entities.Suggestion{
		ID:          id,
		CheckInID:   "checkin-1",
		Title:       "Soften your space",
		Description: "Dim the lights for a calmer evening.",
		Category:    entities.CategoryEnvironment,
		Priority:    entities.PriorityMedium,
		Actions: []entities.ActionSpec{
			{
				Kind:        entities.ActionDeviceControl,
				Parameters:  map[string]string{"environment": services.EnvAnxietyRelief},
				DisplayText: "Apply the anxiety relief scene",
			},
		},
		EstimatedDuration: "10 minutes",
	}
}

func TestAutomationService_Execute(t *testing.T) {
	ctx := context.Background()
	devices := []entities.Device{dimmableLight("l1", "Bedroom")}

	t.Run("successful execution", func(t *testing.T) {
		f := newAutomationFixture(devices)
		require.NoError(t, f.suggestions.Create(ctx, pendingSuggestion("s1")))

		record, err := f.service.Execute(ctx, "s1")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.True(t, record.Succeeded())
		assert.Equal(t, "s1", record.SuggestionID)
		assert.Equal(t, "checkin-1", record.CheckInID)

		// The graph was registered and run exactly once.
		require.Len(t, f.engine.graphs, 1)
		assert.Equal(t, []string{"automation-1"}, f.engine.executedIDs)

		// The suggestion transitioned to executed.
		stored, err := f.suggestions.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, stored.IsExecuted)
		require.NotNil(t, stored.ExecutedAt)

		// Exactly one audit record was appended.
		require.Len(t, f.executions.records, 1)
		assert.Equal(t, entities.ExecutionStatusSuccess, f.executions.records[0].CompletionStatus)
	})

	t.Run("status stream ends with a final event", func(t *testing.T) {
		f := newAutomationFixture(devices)
		require.NoError(t, f.suggestions.Create(ctx, pendingSuggestion("s1")))

		_, err := f.service.Execute(ctx, "s1")
		require.NoError(t, err)

		require.NotEmpty(t, f.bus.published)
		last := f.bus.published[len(f.bus.published)-1]
		assert.True(t, last.Final)
		assert.Equal(t, "s1", last.SuggestionID)
		for _, channel := range f.bus.channels {
			assert.Equal(t, "execution:s1", channel)
		}
		for _, event := range f.bus.published[:len(f.bus.published)-1] {
			assert.False(t, event.Final)
		}
	})

	t.Run("engine failure appends a FAILED record and stays retryable", func(t *testing.T) {
		f := newAutomationFixture(devices)
		require.NoError(t, f.suggestions.Create(ctx, pendingSuggestion("s1")))
		f.engine.executeErr = errors.New("hub unreachable")

		record, err := f.service.Execute(ctx, "s1")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
		require.NotNil(t, record)
		assert.True(t, strings.HasPrefix(record.CompletionStatus, entities.ExecutionStatusFailedPrefix))
		assert.Contains(t, record.CompletionStatus, "hub unreachable")

		stored, err := f.suggestions.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.False(t, stored.IsExecuted, "failed execution leaves the suggestion pending")

		// A retry after the hub recovers succeeds and appends a second
		// record; the failed one is never rewritten.
		f.engine.executeErr = nil
		retried, err := f.service.Execute(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, retried.Succeeded())
		require.Len(t, f.executions.records, 2)
		assert.True(t, strings.HasPrefix(f.executions.records[0].CompletionStatus, entities.ExecutionStatusFailedPrefix))
		assert.Equal(t, entities.ExecutionStatusSuccess, f.executions.records[1].CompletionStatus)
	})

	t.Run("registration failure is recorded", func(t *testing.T) {
		f := newAutomationFixture(devices)
		require.NoError(t, f.suggestions.Create(ctx, pendingSuggestion("s1")))
		f.engine.createErr = errors.New("invalid structure")

		record, err := f.service.Execute(ctx, "s1")
		require.Error(t, err)
		require.NotNil(t, record)
		assert.Contains(t, record.CompletionStatus, "automation registration failed")
		assert.Empty(t, f.engine.executedIDs)
	})

	t.Run("unreachable inventory is recorded", func(t *testing.T) {
		f := newAutomationFixture(nil)
		f.inventory.err = errors.New("hub timeout")
		require.NoError(t, f.suggestions.Create(ctx, pendingSuggestion("s1")))

		record, err := f.service.Execute(ctx, "s1")
		require.Error(t, err)
		require.NotNil(t, record)
		assert.Contains(t, record.CompletionStatus, "device inventory unavailable")
	})

	t.Run("empty inventory fails graph validation", func(t *testing.T) {
		f := newAutomationFixture(nil)
		require.NoError(t, f.suggestions.Create(ctx, pendingSuggestion("s1")))

		record, err := f.service.Execute(ctx, "s1")
		require.Error(t, err)
		require.NotNil(t, record)
		assert.Contains(t, record.CompletionStatus, "compiled graph invalid")
	})

	t.Run("dismissed suggestion conflicts", func(t *testing.T) {
		f := newAutomationFixture(devices)
		dismissed := pendingSuggestion("s1")
		dismissed.IsDismissed = true
		require.NoError(t, f.suggestions.Create(ctx, dismissed))

		record, err := f.service.Execute(ctx, "s1")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
		assert.Nil(t, record)
		assert.Empty(t, f.executions.records)
	})

	t.Run("executed suggestion conflicts", func(t *testing.T) {
		f := newAutomationFixture(devices)
		executed := pendingSuggestion("s1")
		executed.IsExecuted = true
		require.NoError(t, f.suggestions.Create(ctx, executed))

		_, err := f.service.Execute(ctx, "s1")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("unknown suggestion is not found", func(t *testing.T) {
		f := newAutomationFixture(devices)
		_, err := f.service.Execute(ctx, "missing")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestAutomationService_ListRecentExecutions(t *testing.T) {
	ctx := context.Background()
	f := newAutomationFixture(nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.executions.Create(ctx, &entities.ExecutionRecord{ID: "r" + string(rune('1'+i))}))
	}

	records, err := f.service.ListRecentExecutions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = f.service.ListRecentExecutions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3, "non-positive limit falls back to the default")
}

func TestCompileGraph(t *testing.T) {
	aggregator := services.NewCapabilityAggregator()

	t.Run("light and thermostat sequences follow the environment profile", func(t *testing.T) {
		categorized, _ := aggregator.Aggregate([]entities.Device{
			{
				ID:           "l1",
				Type:         "light",
				Connectivity: entities.ConnectivityOnline,
				Traits:       []string{entities.TraitOnOff, entities.TraitBrightness, entities.TraitColorSetting},
			},
			{
				ID:           "t1",
				Type:         "thermostat",
				Connectivity: entities.ConnectivityOnline,
				Traits:       []string{entities.TraitTemperatureSet},
			},
		})

		graph, selected := services.CompileGraph(pendingSuggestion("s1"), services.EnvAnxietyRelief, categorized)
		require.NoError(t, graph.Validate())
		assert.Len(t, selected, 2)
		require.Len(t, graph.Parallel, 2)

		light := graph.Parallel[0]
		require.Len(t, light.Commands, 3)
		assert.Equal(t, entities.CommandOn, light.Commands[0].Command)
		assert.Equal(t, entities.CommandSetLevel, light.Commands[1].Command)
		// 30% of the engine's 0-254 range.
		assert.Equal(t, "76", light.Commands[1].Parameters["level"])
		assert.Equal(t, entities.CommandSetColorTemp, light.Commands[2].Command)
		assert.Equal(t, "2700", light.Commands[2].Parameters["temperature_k"])

		thermostat := graph.Parallel[1]
		require.Len(t, thermostat.Commands, 1)
		assert.Equal(t, entities.CommandSetTargetTemp, thermostat.Commands[0].Command)
		assert.Equal(t, "22", thermostat.Commands[0].Parameters["target_c"])
	})

	t.Run("occupancy sensor becomes a device starter", func(t *testing.T) {
		categorized, _ := aggregator.Aggregate([]entities.Device{
			dimmableLight("l1", "Bedroom"),
			{ID: "m1", Type: "motion_sensor", Connectivity: entities.ConnectivityOnline, Traits: []string{entities.TraitOccupancySensing}},
		})

		graph, _ := services.CompileGraph(pendingSuggestion("s1"), services.EnvAnxietyRelief, categorized)
		require.Len(t, graph.Starters, 2)
		assert.Equal(t, entities.StarterManual, graph.Starters[0].Kind)
		assert.Equal(t, entities.StarterDeviceEvent, graph.Starters[1].Kind)
		assert.Equal(t, "m1", graph.Starters[1].DeviceID)
		require.NotNil(t, graph.Starters[1].Condition)
		assert.Equal(t, entities.TraitOccupancySensing, graph.Starters[1].Condition.Trait)
	})

	t.Run("offline and sensor devices are never targeted", func(t *testing.T) {
		categorized, _ := aggregator.Aggregate([]entities.Device{
			{ID: "off1", Type: "light", Connectivity: entities.ConnectivityOffline, Traits: []string{entities.TraitOnOff}},
			{ID: "m1", Type: "motion_sensor", Connectivity: entities.ConnectivityOnline, Traits: []string{entities.TraitOccupancySensing}},
			dimmableLight("l1", "Bedroom"),
		})

		graph, selected := services.CompileGraph(pendingSuggestion("s1"), services.EnvAnxietyRelief, categorized)
		require.Len(t, selected, 1)
		assert.Equal(t, "l1", selected[0].ID)
		require.Len(t, graph.Parallel, 1)
		assert.Equal(t, "l1", graph.Parallel[0].DeviceID)
	})

	t.Run("at most three devices per graph", func(t *testing.T) {
		categorized, _ := aggregator.Aggregate([]entities.Device{
			dimmableLight("l1", "A"),
			dimmableLight("l2", "B"),
			dimmableLight("l3", "C"),
			dimmableLight("l4", "D"),
		})

		graph, selected := services.CompileGraph(pendingSuggestion("s1"), services.EnvMoodBoost, categorized)
		assert.Len(t, selected, 3)
		assert.Len(t, graph.Parallel, 3)
	})

	t.Run("unknown environment falls back to the balanced profile", func(t *testing.T) {
		categorized, _ := aggregator.Aggregate([]entities.Device{dimmableLight("l1", "Bedroom")})

		graph, _ := services.CompileGraph(pendingSuggestion("s1"), "does_not_exist", categorized)
		require.Len(t, graph.Parallel, 1)
		require.Len(t, graph.Parallel[0].Commands, 2)
		// 50% of 254.
		assert.Equal(t, "127", graph.Parallel[0].Commands[1].Parameters["level"])
	})
}
