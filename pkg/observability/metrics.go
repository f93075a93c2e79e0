package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/schat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for one schat process.
// Collectors live on their own registry so tests and embedders never clash
// with the global one.
type Metrics struct {
	Registry *prometheus.Registry

	Exchanges *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	InFlight  prometheus.Gauge
	Resets    prometheus.Counter
}

// NewMetrics creates and registers the collectors. provider is attached as a
// constant label.
func NewMetrics(provider string) *Metrics {
	labels := prometheus.Labels{"provider": provider}
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Exchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "schat_exchanges_total",
				Help:        "Total number of settled exchanges",
				ConstLabels: labels,
			},
			[]string{"status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "schat_exchange_duration_seconds",
				Help:        "Time from submission to settlement",
				ConstLabels: labels,
				Buckets:     []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"status"},
		),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "schat_exchange_in_flight",
			Help:        "1 while an exchange is waiting for the agent",
			ConstLabels: labels,
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "schat_session_resets_total",
			Help:        "Total number of conversation resets",
			ConstLabels: labels,
		}),
	}
	m.Registry.MustRegister(m.Exchanges, m.Duration, m.InFlight, m.Resets)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSubmit: func(_ context.Context, _ *domain.ExchangeEvent) {
			m.InFlight.Set(1)
		},
		OnSettle: func(_ context.Context, e *domain.ExchangeEvent) {
			status := string(e.Exchange.Status)
			m.InFlight.Set(0)
			m.Exchanges.WithLabelValues(status).Inc()
			m.Duration.WithLabelValues(status).Observe(e.Duration.Seconds())
		},
		OnReset: func(_ context.Context, _ *domain.SessionEvent) {
			m.Resets.Inc()
		},
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
