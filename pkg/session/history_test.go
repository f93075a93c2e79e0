package session

import (
	"testing"

	"github.com/aretw0/schat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	t.Run("Append Keeps Order", func(t *testing.T) {
		h := NewHistory()
		require.NoError(t, h.Append(domain.Exchange{ID: 0, Prompt: "a"}))
		require.NoError(t, h.Append(domain.Exchange{ID: 2, Prompt: "b"}))

		all := h.All()
		require.Len(t, all, 2)
		assert.Equal(t, "a", all[0].Prompt)
		assert.Equal(t, "b", all[1].Prompt)
	})

	t.Run("Rejects Out Of Order", func(t *testing.T) {
		h := NewHistory()
		require.NoError(t, h.Append(domain.Exchange{ID: 1}))

		assert.ErrorIs(t, h.Append(domain.Exchange{ID: 1}), domain.ErrOutOfOrder)
		assert.ErrorIs(t, h.Append(domain.Exchange{ID: 0}), domain.ErrOutOfOrder)
		assert.Equal(t, 1, h.Len())
	})

	t.Run("All Returns A Copy", func(t *testing.T) {
		h := NewHistory()
		require.NoError(t, h.Append(domain.Exchange{ID: 0, Response: "original"}))

		all := h.All()
		all[0].Response = "mutated"

		assert.Equal(t, "original", h.All()[0].Response)
	})

	t.Run("Clear Keeps Ordering", func(t *testing.T) {
		h := NewHistory()
		require.NoError(t, h.Append(domain.Exchange{ID: 3}))
		h.Clear()

		assert.Zero(t, h.Len())
		assert.Empty(t, h.All())
		assert.ErrorIs(t, h.Append(domain.Exchange{ID: 2}), domain.ErrOutOfOrder)
		assert.NoError(t, h.Append(domain.Exchange{ID: 4}))
	})
}
