package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/seren-labs/attune/internal/domain/entities"
	"github.com/seren-labs/attune/internal/domain/providers"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
)

const (
	breathingCycles   = 6
	breathingInterval = 5 * time.Second
)

// EffectScheduler owns the ambient background effects an execution can
// start: the breathing light pulse and the environment-restoration
// timer. Every task it launches is cancellable and registered per
// suggestion, so a re-entrant execution cancels stale tasks instead of
// racing them.
type EffectScheduler struct {
	engine providers.AutomationEngine

	mu      sync.Mutex
	gen     uint64
	pending map[string]effectTask
}

// effectTask tags each registration with a generation so a finished
// task only releases its own entry, never a replacement registered
// under the same key.
type effectTask struct {
	cancel context.CancelFunc
	gen    uint64
}

// NewEffectScheduler creates a new effect scheduler.
func NewEffectScheduler(engine providers.AutomationEngine) *EffectScheduler {
	return &EffectScheduler{
		engine:  engine,
		pending: make(map[string]effectTask),
	}
}

// CancelPending cancels any in-flight effect tasks for a suggestion.
// Called at the start of a new execution for the same suggestion.
func (s *EffectScheduler) CancelPending(suggestionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, task := range s.pending {
		if keySuggestion(key) == suggestionID {
			task.cancel()
			delete(s.pending, key)
		}
	}
}

// StartBreathing pulses a dimmable light between a low and high level
// for a fixed number of cycles. Returns immediately; the animation runs
// in the background until done or cancelled.
func (s *EffectScheduler) StartBreathing(suggestionID, deviceID string, lowLevel, highLevel int) {
	ctx, gen := s.register(suggestionID + "/breathing")

	go func() {
		defer s.release(suggestionID+"/breathing", gen)
		logger := observability.GetLogger()

		for cycle := 0; cycle < breathingCycles; cycle++ {
			if !s.setLevel(ctx, deviceID, lowLevel) {
				return
			}
			if !sleepOrDone(ctx, breathingInterval) {
				return
			}
			if !s.setLevel(ctx, deviceID, highLevel) {
				return
			}
			if !sleepOrDone(ctx, breathingInterval) {
				return
			}
		}
		logger.Debug().Str("device_id", deviceID).Msg("breathing effect finished")
	}()
}

// ScheduleRestore arms a one-shot timer that restores the environment
// after the suggestion's declared duration elapses.
func (s *EffectScheduler) ScheduleRestore(suggestionID string, delay time.Duration, restore func(ctx context.Context)) {
	ctx, gen := s.register(suggestionID + "/restore")

	go func() {
		defer s.release(suggestionID+"/restore", gen)
		if !sleepOrDone(ctx, delay) {
			return
		}
		restore(ctx)
	}()
}

func (s *EffectScheduler) register(key string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.pending[key]; ok {
		task.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.gen++
	s.pending[key] = effectTask{cancel: cancel, gen: s.gen}
	return ctx, s.gen
}

// release removes the caller's own registration. The entry under the
// key may already belong to a newer task; that one stays untouched.
func (s *EffectScheduler) release(key string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.pending[key]; ok && task.gen == gen {
		task.cancel()
		delete(s.pending, key)
	}
}

func (s *EffectScheduler) setLevel(ctx context.Context, deviceID string, level int) bool {
	err := s.engine.SendCommand(ctx, entities.DeviceCommand{
		DeviceID:   deviceID,
		Command:    entities.CommandSetLevel,
		Parameters: map[string]string{"level": strconv.Itoa(scaleLevel(level))},
	})
	if err != nil {
		observability.GetLogger().Warn().Err(err).
			Str("device_id", deviceID).
			Msg("breathing effect command failed")
		return false
	}
	return true
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func keySuggestion(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i]
		}
	}
	return key
}
