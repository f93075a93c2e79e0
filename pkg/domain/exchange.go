package domain

import "time"

// Status is the lifecycle status of an Exchange.
type Status string

const (
	StatusPending   Status = "pending"   // Submitted, waiting for the agent
	StatusSucceeded Status = "succeeded" // Agent exited 0
	StatusFailed    Status = "failed"    // Spawn failure, non-zero exit or timeout
)

// Settled reports whether the status is terminal.
func (s Status) Settled() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Exchange is one prompt/response pair.
// IDs are unique and strictly increasing for the lifetime of the process.
type Exchange struct {
	ID         int       `json:"id"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	Status     Status    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Duration returns how long the exchange took to settle, or zero while pending.
func (e Exchange) Duration() time.Duration {
	if e.FinishedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}
