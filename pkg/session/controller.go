package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/aretw0/schat/internal/logging"
	"github.com/aretw0/schat/pkg/domain"
	"github.com/google/uuid"
)

// ErrorPrefix marks the response of a failed exchange.
const ErrorPrefix = "Error: "

// Invoker runs one agent turn. *agent.Invoker satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, newSession bool) domain.InvokeResult
}

// Controller is the single owner of the conversation state.
type Controller struct {
	mu sync.Mutex

	invoker    Invoker
	buffer     *InputBuffer
	history    *History
	newSession bool
	nextID     int
	inFlight   *domain.Exchange
	sessionID  string

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger configures a logger for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithHooks registers lifecycle callbacks (metrics, logging).
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithClock overrides the time source used to stamp exchanges.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a Controller with an empty conversation.
// The first submission starts a new agent session.
func NewController(invoker Invoker, opts ...Option) *Controller {
	c := &Controller{
		invoker:    invoker,
		buffer:     NewInputBuffer(),
		history:    NewHistory(),
		newSession: true,
		sessionID:  uuid.NewString(),
		logger:     logging.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit accepts raw as the next prompt and starts the agent in the background.
// It returns domain.ErrBusy while another exchange is in flight and
// domain.ErrEmptyPrompt when nothing but whitespace was submitted.
func (c *Controller) Submit(ctx context.Context, raw string) (*Ticket, error) {
	return c.submit(ctx, raw, false)
}

// SubmitBuffer submits the input buffer. The buffer is cleared only when
// the submission is accepted.
func (c *Controller) SubmitBuffer(ctx context.Context) (*Ticket, error) {
	return c.submit(ctx, "", true)
}

func (c *Controller) submit(ctx context.Context, raw string, fromBuffer bool) (*Ticket, error) {
	c.mu.Lock()
	if c.inFlight != nil {
		c.mu.Unlock()
		return nil, domain.ErrBusy
	}
	if fromBuffer {
		raw = c.buffer.Value()
	}

	prompt, err := SanitizeInput(raw)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	// Stripping control characters can expose trailing whitespace.
	prompt = strings.TrimRightFunc(prompt, unicode.IsSpace)
	if strings.TrimSpace(prompt) == "" {
		c.mu.Unlock()
		return nil, domain.ErrEmptyPrompt
	}

	ex := domain.Exchange{
		ID:        c.nextID,
		Prompt:    prompt,
		Status:    domain.StatusPending,
		StartedAt: c.now(),
	}
	c.nextID++
	c.inFlight = &ex
	newSession := c.newSession
	sessionID := c.sessionID
	if fromBuffer {
		c.buffer.Clear()
	}
	c.wg.Add(1)
	c.mu.Unlock()

	ticket := newTicket(ex)

	c.logger.Info("Exchange submitted", "session_id", sessionID, "exchange", ex.ID, "new_session", newSession)
	if c.hooks.OnSubmit != nil {
		c.hooks.OnSubmit(ctx, &domain.ExchangeEvent{
			EventBase:  domain.EventBase{Timestamp: ex.StartedAt, Type: domain.EventSubmit, SessionID: sessionID},
			Exchange:   ex,
			NewSession: newSession,
		})
	}

	go c.run(ctx, ticket, ex, newSession, sessionID)
	return ticket, nil
}

func (c *Controller) run(ctx context.Context, ticket *Ticket, ex domain.Exchange, newSession bool, sessionID string) {
	defer c.wg.Done()

	res := c.invoker.Invoke(ctx, ex.Prompt, newSession)
	settled := c.finish(ex, res)

	if settled.Status == domain.StatusFailed {
		c.logger.Warn("Exchange failed", "session_id", sessionID, "exchange", settled.ID, "error", res.ErrorMessage, "duration", settled.Duration())
	} else {
		c.logger.Info("Exchange settled", "session_id", sessionID, "exchange", settled.ID, "duration", settled.Duration())
	}

	// OnSettle runs while the exchange still counts as in flight, so the
	// next OnSubmit can never overtake it.
	if c.hooks.OnSettle != nil {
		// The submitting context may be gone by now; hooks still need to run.
		c.hooks.OnSettle(context.WithoutCancel(ctx), &domain.ExchangeEvent{
			EventBase:  domain.EventBase{Timestamp: settled.FinishedAt, Type: domain.EventSettle, SessionID: sessionID},
			Exchange:   settled,
			NewSession: newSession,
			Duration:   settled.Duration(),
		})
	}

	c.commit(settled)
	ticket.resolve(settled)
}

// finish turns an invocation result into the settled exchange.
func (c *Controller) finish(ex domain.Exchange, res domain.InvokeResult) domain.Exchange {
	ex.FinishedAt = c.now()
	if res.Succeeded {
		ex.Status = domain.StatusSucceeded
		ex.Response = res.Text
		return ex
	}
	ex.Status = domain.StatusFailed
	ex.Response = ErrorPrefix + res.ErrorMessage
	if res.Text != "" {
		ex.Response += "\n\n" + res.Text
	}
	return ex
}

// commit records ex and releases the single-flight slot.
func (c *Controller) commit(ex domain.Exchange) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.history.Append(ex); err != nil {
		c.logger.Error("Failed to record exchange", "exchange", ex.ID, "error", err)
	}
	c.inFlight = nil
	// Any settlement, failed or not, means the agent saw a turn.
	c.newSession = false
}

// HandleKey routes a key event: editing keys go to the buffer, trigger keys
// to the matching controller operation. Rejected triggers are silent; the
// returned Ticket is non-nil only when a submission was accepted.
func (c *Controller) HandleKey(ctx context.Context, ev KeyEvent) (Action, *Ticket) {
	c.mu.Lock()
	action := c.buffer.Apply(ev)
	c.mu.Unlock()

	switch action {
	case ActionSubmit:
		ticket, err := c.SubmitBuffer(ctx)
		if err != nil {
			c.logger.Debug("Submission ignored", "error", err)
			return action, nil
		}
		return action, ticket
	case ActionReset:
		if err := c.Reset(ctx); err != nil {
			c.logger.Debug("Reset ignored", "error", err)
		}
	case ActionClear:
		c.ClearInput()
	}
	return action, nil
}

// Reset starts a fresh conversation: empty history and buffer, and the next
// submission opens a new agent session. It returns domain.ErrBusy while an
// exchange is in flight.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight != nil {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	discarded := c.history.Len()
	previous := c.sessionID

	c.history.Clear()
	c.buffer.Clear()
	c.newSession = true
	c.sessionID = uuid.NewString()
	current := c.sessionID
	c.mu.Unlock()

	c.logger.Info("Session reset", "session_id", current, "previous_session_id", previous, "discarded", discarded)
	if c.hooks.OnReset != nil {
		c.hooks.OnReset(ctx, &domain.SessionEvent{
			EventBase:         domain.EventBase{Timestamp: c.now(), Type: domain.EventReset, SessionID: current},
			PreviousSessionID: previous,
			Discarded:         discarded,
		})
	}
	return nil
}

// ClearInput empties the input buffer, whatever the controller state.
func (c *Controller) ClearInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer.Clear()
}

// InsertInput appends s to the input buffer (pastes, headless input).
func (c *Controller) InsertInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer.InsertString(s)
}

// Processing reports whether an exchange is in flight.
func (c *Controller) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight != nil
}

// SessionID returns the correlation id of the current conversation.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// History returns a copy of the settled exchanges.
func (c *Controller) History() []domain.Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.All()
}

// Wait blocks until every started exchange has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Snapshot is a read-only view of the controller state.
type Snapshot struct {
	SessionID  string            `json:"session_id"`
	Exchanges  []domain.Exchange `json:"exchanges"`
	InFlight   *domain.Exchange  `json:"in_flight,omitempty"`
	Processing bool              `json:"processing"`
	Input      string            `json:"input"`
	NewSession bool              `json:"new_session"`
}

// Snapshot returns a consistent copy of the state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		SessionID:  c.sessionID,
		Exchanges:  c.history.All(),
		Processing: c.inFlight != nil,
		Input:      c.buffer.Value(),
		NewSession: c.newSession,
	}
	if c.inFlight != nil {
		ex := *c.inFlight
		snap.InFlight = &ex
	}
	return snap
}
