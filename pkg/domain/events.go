package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSubmit EventType = "exchange_submit"
	EventSettle EventType = "exchange_settle"
	EventReset  EventType = "session_reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ExchangeEvent is fired when an exchange is accepted and again when it settles.
type ExchangeEvent struct {
	EventBase
	Exchange   Exchange      `json:"exchange"`
	NewSession bool          `json:"new_session"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// SessionEvent is fired when the conversation is reset.
type SessionEvent struct {
	EventBase
	PreviousSessionID string `json:"previous_session_id"`
	Discarded         int    `json:"discarded"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnSubmit func(context.Context, *ExchangeEvent)
	OnSettle func(context.Context, *ExchangeEvent)
	OnReset  func(context.Context, *SessionEvent)
}
