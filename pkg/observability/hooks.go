package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/schat/pkg/domain"
)

// Combine merges several hook sets into one. Nil callbacks are skipped and
// the remaining ones run in argument order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var combined domain.LifecycleHooks

	var onSubmit, onSettle []func(context.Context, *domain.ExchangeEvent)
	var onReset []func(context.Context, *domain.SessionEvent)
	for _, s := range sets {
		if s.OnSubmit != nil {
			onSubmit = append(onSubmit, s.OnSubmit)
		}
		if s.OnSettle != nil {
			onSettle = append(onSettle, s.OnSettle)
		}
		if s.OnReset != nil {
			onReset = append(onReset, s.OnReset)
		}
	}

	if len(onSubmit) > 0 {
		combined.OnSubmit = func(ctx context.Context, e *domain.ExchangeEvent) {
			for _, fn := range onSubmit {
				fn(ctx, e)
			}
		}
	}
	if len(onSettle) > 0 {
		combined.OnSettle = func(ctx context.Context, e *domain.ExchangeEvent) {
			for _, fn := range onSettle {
				fn(ctx, e)
			}
		}
	}
	if len(onReset) > 0 {
		combined.OnReset = func(ctx context.Context, e *domain.SessionEvent) {
			for _, fn := range onReset {
				fn(ctx, e)
			}
		}
	}
	return combined
}

// LogHooks writes one structured record per lifecycle event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSubmit: func(ctx context.Context, e *domain.ExchangeEvent) {
			logger.InfoContext(ctx, "exchange_submit",
				"session_id", e.SessionID,
				"exchange", e.Exchange.ID,
				"new_session", e.NewSession,
				"prompt_bytes", len(e.Exchange.Prompt),
			)
		},
		OnSettle: func(ctx context.Context, e *domain.ExchangeEvent) {
			logger.InfoContext(ctx, "exchange_settle",
				"session_id", e.SessionID,
				"exchange", e.Exchange.ID,
				"status", e.Exchange.Status,
				"duration", e.Duration,
			)
		},
		OnReset: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session_reset",
				"session_id", e.SessionID,
				"previous_session_id", e.PreviousSessionID,
				"discarded", e.Discarded,
			)
		},
	}
}
