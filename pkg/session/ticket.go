package session

import (
	"context"
	"sync"

	"github.com/aretw0/schat/pkg/domain"
)

// Ticket tracks one accepted submission until it settles.
type Ticket struct {
	pending domain.Exchange

	once     sync.Once
	done     chan struct{}
	exchange domain.Exchange
}

func newTicket(pending domain.Exchange) *Ticket {
	return &Ticket{
		pending: pending,
		done:    make(chan struct{}),
	}
}

// ID returns the exchange id assigned on submission.
func (t *Ticket) ID() int {
	return t.pending.ID
}

// Done is closed once the exchange has settled.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Exchange returns the settled exchange, or the pending one before settlement.
func (t *Ticket) Exchange() domain.Exchange {
	select {
	case <-t.done:
		return t.exchange
	default:
		return t.pending
	}
}

// Wait blocks until the exchange settles or ctx is done.
func (t *Ticket) Wait(ctx context.Context) (domain.Exchange, error) {
	select {
	case <-t.done:
		return t.exchange, nil
	case <-ctx.Done():
		return t.pending, ctx.Err()
	}
}

func (t *Ticket) resolve(ex domain.Exchange) {
	t.once.Do(func() {
		t.exchange = ex
		close(t.done)
	})
}
