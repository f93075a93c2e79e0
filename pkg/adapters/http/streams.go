package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/schat/internal/logging"
	"github.com/aretw0/schat/pkg/domain"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  string
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
	logger      *slog.Logger
}

// StreamOption configures the StreamManager.
type StreamOption func(*StreamManager)

// WithStreamLogger configures a logger for dropped messages.
func WithStreamLogger(logger *slog.Logger) StreamOption {
	return func(sm *StreamManager) {
		sm.logger = logger
	}
}

// NewStreamManager creates a StreamManager with no subscribers.
func NewStreamManager(opts ...StreamOption) *StreamManager {
	sm := &StreamManager{
		subscribers: make(map[chan Message]struct{}),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// Subscribe registers a new listener. The returned func unregisters it and
// closes the channel.
func (sm *StreamManager) Subscribe() (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of active listeners.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every listener. Slow listeners miss messages.
func (sm *StreamManager) Broadcast(msg Message) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "event", msg.Event)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every session event as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSubmit: func(_ context.Context, e *domain.ExchangeEvent) {
			sm.publish(string(e.Type), e)
		},
		OnSettle: func(_ context.Context, e *domain.ExchangeEvent) {
			sm.publish(string(e.Type), e)
		},
		OnReset: func(_ context.Context, e *domain.SessionEvent) {
			sm.publish(string(e.Type), e)
		},
	}
}

func (sm *StreamManager) publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		sm.logger.Error("SSE: Failed to encode event", "event", event, "error", err)
		return
	}
	sm.Broadcast(Message{Event: event, Data: string(data)})
}
