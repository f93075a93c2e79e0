package observability

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/schat/internal/logging"
	"github.com/aretw0/schat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settleEvent(status domain.Status, d time.Duration) *domain.ExchangeEvent {
	return &domain.ExchangeEvent{
		EventBase: domain.EventBase{Type: domain.EventSettle, SessionID: "s-1"},
		Exchange:  domain.Exchange{ID: 0, Prompt: "hello", Status: status},
		Duration:  d,
	}
}

func TestMetrics_Hooks(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics("opencode")
	hooks := m.Hooks()

	hooks.OnSubmit(ctx, &domain.ExchangeEvent{})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlight))

	hooks.OnSettle(ctx, settleEvent(domain.StatusSucceeded, 2*time.Second))
	hooks.OnSettle(ctx, settleEvent(domain.StatusFailed, time.Second))
	hooks.OnSettle(ctx, settleEvent(domain.StatusSucceeded, time.Second))
	hooks.OnReset(ctx, &domain.SessionEvent{})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Exchanges.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exchanges.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resets))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("cursor")
	m.Hooks().OnSettle(context.Background(), settleEvent(domain.StatusSucceeded, time.Second))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `schat_exchanges_total{provider="cursor",status="succeeded"} 1`)
	assert.Contains(t, body, "schat_exchange_duration_seconds_bucket")
}

func TestCombine(t *testing.T) {
	ctx := context.Background()
	var order []string

	combined := Combine(
		domain.LifecycleHooks{
			OnSettle: func(context.Context, *domain.ExchangeEvent) { order = append(order, "first") },
		},
		domain.LifecycleHooks{},
		domain.LifecycleHooks{
			OnSettle: func(context.Context, *domain.ExchangeEvent) { order = append(order, "second") },
			OnReset:  func(context.Context, *domain.SessionEvent) { order = append(order, "reset") },
		},
	)

	require.NotNil(t, combined.OnSettle)
	assert.Nil(t, combined.OnSubmit)

	combined.OnSettle(ctx, settleEvent(domain.StatusSucceeded, 0))
	combined.OnReset(ctx, &domain.SessionEvent{})
	assert.Equal(t, []string{"first", "second", "reset"}, order)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := LogHooks(logging.New(slog.LevelDebug, &buf))
	ctx := context.Background()

	hooks.OnSettle(ctx, settleEvent(domain.StatusFailed, time.Second))
	hooks.OnReset(ctx, &domain.SessionEvent{EventBase: domain.EventBase{SessionID: "s-2"}, PreviousSessionID: "s-1", Discarded: 3})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "msg=exchange_settle")
	assert.Contains(t, lines[0], "status=failed")
	assert.Contains(t, lines[1], "previous_session_id=s-1")
	assert.Contains(t, lines[1], "discarded=3")
}
