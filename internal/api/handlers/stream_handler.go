package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
)

// StreamHandler handles Server-Sent Events for execution status lines
type StreamHandler struct {
	eventBus providers.EventBus
	clients  map[string]map[chan *entities.ExecutionEvent]bool
	mu       sync.RWMutex
}

// NewStreamHandler creates a new execution stream handler
func NewStreamHandler(eventBus providers.EventBus) *StreamHandler {
	return &StreamHandler{
		eventBus: eventBus,
		clients:  make(map[string]map[chan *entities.ExecutionEvent]bool),
	}
}

// StreamExecution handles SSE connections for one suggestion's status
// stream. A new execution for the same suggestion resets the stream,
// so subscribers always see the current attempt from its first line.
// GET /api/v1/executions/{id}/stream
func (h *StreamHandler) StreamExecution(w http.ResponseWriter, r *http.Request) {
	suggestionID := r.PathValue("id")
	if suggestionID == "" {
		respondWithError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan *entities.ExecutionEvent, 10)
	channel := providers.GetExecutionChannel(suggestionID)

	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("channel", channel).
			Msg("Failed to subscribe to execution channel")
		return
	}

	h.sendEvent(w, "connected", map[string]interface{}{
		"suggestion_id": suggestionID,
		"timestamp":     time.Now(),
	})
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			eventType := "progress"
			if event.Final {
				eventType = "final"
			}
			h.sendEvent(w, eventType, event)
			flusher.Flush()
		}
	}
}

// forwardEvents forwards events from the event bus to a client channel
func (h *StreamHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.ExecutionEvent, clientChan chan<- *entities.ExecutionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Client channel full, skip event
			}
		}
	}
}

// registerClient registers a client for a channel
func (h *StreamHandler) registerClient(channel string, clientChan chan *entities.ExecutionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.ExecutionEvent]bool)
	}
	h.clients[channel][clientChan] = true
}

// unregisterClient unregisters a client from a channel
func (h *StreamHandler) unregisterClient(channel string, clientChan chan *entities.ExecutionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent sends an SSE event to the client
func (h *StreamHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Warn().Err(err).Msg("Failed to marshal stream event")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// GetClientCount returns the number of connected clients for debugging
func (h *StreamHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
