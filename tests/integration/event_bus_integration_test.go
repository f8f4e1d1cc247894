//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/seren-labs/attune/internal/adapters/events"
	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
)

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	suggestionID := uuid.New().String()
	channel := providers.GetExecutionChannel(suggestionID)
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := eventBus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx2, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := &entities.ExecutionEvent{
		ID:           uuid.New().String(),
		SuggestionID: suggestionID,
		Message:      "Devices are adjusting",
		Timestamp:    time.Now(),
	}

	err = eventBus.Publish(context.Background(), channel, event)
	require.NoError(t, err)

	received1 := waitForExecutionEvent(t, sub1)
	received2 := waitForExecutionEvent(t, sub2)

	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	assert.Equal(t, event.Message, received1.Message)
}

func TestRedisEventBusFinalEventIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	suggestionID := uuid.New().String()
	channel := providers.GetExecutionChannel(suggestionID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := eventBus.Subscribe(ctx, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	final := &entities.ExecutionEvent{
		ID:           uuid.New().String(),
		SuggestionID: suggestionID,
		Message:      "All set. Enjoy your space.",
		Final:        true,
		Timestamp:    time.Now(),
	}
	require.NoError(t, eventBus.Publish(context.Background(), channel, final))

	received := waitForExecutionEvent(t, sub)
	assert.True(t, received.Final)
}

func waitForExecutionEvent(t *testing.T, ch <-chan *entities.ExecutionEvent) *entities.ExecutionEvent {
	t.Helper()

	select {
	case event := <-ch:
		require.NotNil(t, event)
		return event
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for execution event")
		return nil
	}
}
