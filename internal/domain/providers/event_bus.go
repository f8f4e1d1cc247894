package providers

import (
	"context"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// EventBus defines the append-only status stream publishing execution
// progress lines to UI subscribers. Events are not persisted.
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel.
	Publish(ctx context.Context, channel string, event *entities.ExecutionEvent) error

	// Subscribe subscribes to events on a channel. The returned channel
	// closes when ctx is cancelled or the bus shuts down.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ExecutionEvent, error)

	// Unsubscribe tears down a channel's subscription.
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions.
	Close() error
}

// EventChannelExecutionPrefix is the prefix for per-suggestion
// execution status channels.
const EventChannelExecutionPrefix = "execution:"

// GetExecutionChannel returns the status channel for one suggestion.
func GetExecutionChannel(suggestionID string) string {
	return EventChannelExecutionPrefix + suggestionID
}
