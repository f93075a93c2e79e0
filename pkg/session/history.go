package session

import (
	"fmt"

	"github.com/aretw0/schat/pkg/domain"
)

// History is the ordered, append-only list of settled exchanges.
// Ordering survives Clear: IDs are unique for the lifetime of the process.
type History struct {
	items  []domain.Exchange
	lastID int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{lastID: -1}
}

// Append adds a settled exchange. The ID must be greater than the last one appended.
func (h *History) Append(ex domain.Exchange) error {
	if ex.ID <= h.lastID {
		return fmt.Errorf("%w: id %d after %d", domain.ErrOutOfOrder, ex.ID, h.lastID)
	}
	h.items = append(h.items, ex)
	h.lastID = ex.ID
	return nil
}

// All returns a copy of the exchanges in insertion order.
func (h *History) All() []domain.Exchange {
	out := make([]domain.Exchange, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of exchanges.
func (h *History) Len() int {
	return len(h.items)
}

// Clear drops every exchange.
func (h *History) Clear() {
	h.items = nil
}
