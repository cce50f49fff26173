package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akilivoice/pathrag/internal/engine"
	"github.com/akilivoice/pathrag/pkg/domain"
)

func escalatingNode(cond domain.EscalationConditions) *domain.DiagnosticNode {
	return &domain.DiagnosticNode{
		ID:        "esc_node",
		Phase:     domain.PhaseRouterLogin,
		InputType: domain.InputObservation,
		ExpectedAnswers: []domain.ExpectedAnswer{
			{Answer: "yes", Next: "a"},
			{Answer: "no", Next: "b"},
		},
		Escalation: cond,
	}
}

func sessionWithRetries(nodeID string, n int) *domain.DiagnosticSession {
	s := domain.NewSession("s1", nodeID, domain.PhaseRouterLogin)
	for i := 0; i < n; i++ {
		s.History = append(s.History, domain.HistoryEntry{
			NodeID:    nodeID,
			Timestamp: time.Now(),
			Response:  "mumble",
			Outcome:   domain.OutcomeFailure,
		})
	}
	return s
}

func TestShouldEscalate_UserUncertain(t *testing.T) {
	node := escalatingNode(domain.EscalationConditions{UserUncertain: true})
	session := domain.NewSession("s1", node.ID, node.Phase)

	for _, utterance := range []string{
		"i'm not sure",
		"i don't know",
		"i dont know what that is",
		"i'm confused",
		"i can't tell",
		"help",
		"i cannot find it",
	} {
		escalate, reason := engine.ShouldEscalate(node, engine.Normalize(utterance), session)
		assert.True(t, escalate, "utterance %q should escalate", utterance)
		assert.Equal(t, engine.ReasonUserUncertain, reason)
	}
}

func TestShouldEscalate_FlagGatesPhrases(t *testing.T) {
	node := escalatingNode(domain.EscalationConditions{})
	session := domain.NewSession("s1", node.ID, node.Phase)

	escalate, _ := engine.ShouldEscalate(node, "i don't know", session)
	assert.False(t, escalate, "uncertain phrase must not escalate when the flag is off")
}

func TestShouldEscalate_ScreenMismatch(t *testing.T) {
	node := escalatingNode(domain.EscalationConditions{ScreenMismatch: true})
	session := domain.NewSession("s1", node.ID, node.Phase)

	escalate, reason := engine.ShouldEscalate(node, "my screen looks different", session)
	assert.True(t, escalate)
	assert.Equal(t, engine.ReasonScreenMismatch, reason)
}

func TestShouldEscalate_UncertainBeatsMismatch(t *testing.T) {
	node := escalatingNode(domain.EscalationConditions{UserUncertain: true, ScreenMismatch: true})
	session := domain.NewSession("s1", node.ID, node.Phase)

	escalate, reason := engine.ShouldEscalate(node, "i'm not sure, it looks different", session)
	assert.True(t, escalate)
	assert.Equal(t, engine.ReasonUserUncertain, reason)
}

func TestShouldEscalate_RetryExceeded(t *testing.T) {
	node := escalatingNode(domain.EscalationConditions{RetryExceeded: true, MaxRetries: 2})

	escalate, _ := engine.ShouldEscalate(node, "yes", sessionWithRetries(node.ID, 1))
	assert.False(t, escalate, "under budget must not escalate")

	escalate, reason := engine.ShouldEscalate(node, "yes", sessionWithRetries(node.ID, 2))
	assert.True(t, escalate, "at budget must escalate")
	assert.Equal(t, engine.ReasonRetryExceeded, reason)
}

func TestShouldEscalate_DefaultRetryBudget(t *testing.T) {
	node := escalatingNode(domain.EscalationConditions{RetryExceeded: true})

	escalate, _ := engine.ShouldEscalate(node, "yes", sessionWithRetries(node.ID, domain.DefaultMaxRetries-1))
	assert.False(t, escalate)

	escalate, _ = engine.ShouldEscalate(node, "yes", sessionWithRetries(node.ID, domain.DefaultMaxRetries))
	assert.True(t, escalate)
}
