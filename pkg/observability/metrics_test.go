package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/observability"
)

func nodeEvent(kind domain.EventType, nodeID string, phase domain.Phase) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      kind,
			SessionID: "s1",
		},
		NodeID: nodeID,
		Phase:  phase,
	}
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnSessionCreate(ctx, nodeEvent(domain.EventSessionCreate, "entry_start", domain.PhaseEntry))
	hooks.OnNodeEnter(ctx, nodeEvent(domain.EventNodeEnter, "entry_start", domain.PhaseEntry))
	hooks.OnNodeEnter(ctx, nodeEvent(domain.EventNodeEnter, "physical_power_led", domain.PhasePhysicalLayer))
	hooks.OnRetry(ctx, nodeEvent(domain.EventRetry, "physical_power_led", domain.PhasePhysicalLayer))
	hooks.OnResolve(ctx, nodeEvent(domain.EventResolve, "verification_complete", domain.PhaseVerification))
	hooks.OnEscalate(ctx, &domain.EscalationEvent{
		EventBase: domain.EventBase{Type: domain.EventEscalate, SessionID: "s1"},
		NodeID:    "physical_power_led",
		Reason:    "User expressed uncertainty",
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodesEntered.WithLabelValues("PHASE_0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodesEntered.WithLabelValues("PHASE_1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Retries.WithLabelValues("physical_power_led")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsResolved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Escalations.WithLabelValues("User expressed uncertainty")))
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnSessionCreate: func(context.Context, *domain.NodeEvent) { calls = append(calls, "a-create") },
		OnNodeEnter:     func(context.Context, *domain.NodeEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnNodeEnter: func(context.Context, *domain.NodeEvent) { calls = append(calls, "b") },
		OnResolve:   func(context.Context, *domain.NodeEvent) { calls = append(calls, "b-resolve") },
	}

	combined := observability.Combine(a, b)
	combined.OnSessionCreate(context.Background(), nodeEvent(domain.EventSessionCreate, "entry_start", domain.PhaseEntry))
	combined.OnNodeEnter(context.Background(), nodeEvent(domain.EventNodeEnter, "entry_start", domain.PhaseEntry))
	combined.OnResolve(context.Background(), nodeEvent(domain.EventResolve, "verification_complete", domain.PhaseVerification))

	assert.Equal(t, []string{"a-create", "a", "b", "b-resolve"}, calls)
}
