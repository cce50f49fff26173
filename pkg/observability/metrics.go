package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akilivoice/pathrag/pkg/domain"
)

// Metrics holds the Prometheus collectors for the diagnostic engine.
type Metrics struct {
	registry *prometheus.Registry

	SessionsCreated  prometheus.Counter
	SessionsResolved prometheus.Counter
	NodesEntered     *prometheus.CounterVec
	Retries          *prometheus.CounterVec
	Escalations      *prometheus.CounterVec
	NoiseDropped     prometheus.Counter
}

// NewMetrics creates and registers the engine collectors on a fresh
// registry, keeping tests isolated from the global default.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pathrag",
			Name:      "sessions_created_total",
			Help:      "Diagnostic sessions started.",
		}),
		SessionsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pathrag",
			Name:      "sessions_resolved_total",
			Help:      "Diagnostic sessions that reached a successful resolution.",
		}),
		NodesEntered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathrag",
			Name:      "nodes_entered_total",
			Help:      "Node entries, labeled by diagnostic phase.",
		}, []string{"phase"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathrag",
			Name:      "retries_total",
			Help:      "Re-presented nodes after an unresolvable answer, by node.",
		}, []string{"node"}),
		Escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathrag",
			Name:      "escalations_total",
			Help:      "Sessions handed off to a human agent, by trigger reason.",
		}, []string{"reason"}),
		NoiseDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pathrag",
			Name:      "voice_noise_dropped_total",
			Help:      "Transcripts discarded by the voice noise filter.",
		}),
	}

	registry.MustRegister(
		m.SessionsCreated,
		m.SessionsResolved,
		m.NodesEntered,
		m.Retries,
		m.Escalations,
		m.NoiseDropped,
	)
	return m
}

// Hooks adapts the metrics into engine lifecycle hooks. Compose with other
// hooks via Combine when callers need their own callbacks too.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionCreate: func(_ context.Context, _ *domain.NodeEvent) {
			m.SessionsCreated.Inc()
		},
		OnNodeEnter: func(_ context.Context, ev *domain.NodeEvent) {
			m.NodesEntered.WithLabelValues(string(ev.Phase)).Inc()
		},
		OnRetry: func(_ context.Context, ev *domain.NodeEvent) {
			m.Retries.WithLabelValues(ev.NodeID).Inc()
		},
		OnEscalate: func(_ context.Context, ev *domain.EscalationEvent) {
			m.Escalations.WithLabelValues(ev.Reason).Inc()
		},
		OnResolve: func(_ context.Context, _ *domain.NodeEvent) {
			m.SessionsResolved.Inc()
		},
	}
}

// Handler exposes the registry for a /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for callers that register
// additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Combine merges lifecycle hook sets; every non-nil callback in each set
// runs, in argument order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionCreate: func(ctx context.Context, ev *domain.NodeEvent) {
			for _, s := range sets {
				if s.OnSessionCreate != nil {
					s.OnSessionCreate(ctx, ev)
				}
			}
		},
		OnNodeEnter: func(ctx context.Context, ev *domain.NodeEvent) {
			for _, s := range sets {
				if s.OnNodeEnter != nil {
					s.OnNodeEnter(ctx, ev)
				}
			}
		},
		OnRetry: func(ctx context.Context, ev *domain.NodeEvent) {
			for _, s := range sets {
				if s.OnRetry != nil {
					s.OnRetry(ctx, ev)
				}
			}
		},
		OnEscalate: func(ctx context.Context, ev *domain.EscalationEvent) {
			for _, s := range sets {
				if s.OnEscalate != nil {
					s.OnEscalate(ctx, ev)
				}
			}
		},
		OnResolve: func(ctx context.Context, ev *domain.NodeEvent) {
			for _, s := range sets {
				if s.OnResolve != nil {
					s.OnResolve(ctx, ev)
				}
			}
		},
	}
}
