package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akilivoice/pathrag/internal/logging"
	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/graph"
	"github.com/akilivoice/pathrag/pkg/ports"
)

// VendorSelectNodeID is the node whose answer selects the vendor profile.
const VendorSelectNodeID = "entry_router_identify"

// Engine walks a diagnostic graph one utterance at a time. It is stateless
// and safe for concurrent use: Evaluate never mutates its inputs and
// Advance returns a new session, so callers own persistence and per-session
// serialization.
type Engine struct {
	graph   *graph.Graph
	catalog ports.AssetCatalog
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	newID   func() string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog configures the asset catalog used to attach visual guides
// to traversal results.
func WithCatalog(catalog ports.AssetCatalog) Option {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// WithHooks configures lifecycle callbacks. Hooks run synchronously inside
// Advance and must be fast.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithIDGenerator overrides session id generation, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// New creates an Engine over a validated graph.
func New(g *graph.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:  g,
		logger: logging.NewNop(),
		newID: func() string {
			return "session_" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph exposes the underlying diagnostic graph.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// CreateSession starts a new active session positioned at the entry node
// and fires the session-create and node-enter hooks for it.
func (e *Engine) CreateSession(ctx context.Context) (*domain.DiagnosticSession, error) {
	entry, err := e.graph.Get(graph.EntryNodeID)
	if err != nil {
		return nil, fmt.Errorf("resolving entry node: %w", err)
	}

	session := domain.NewSession(e.newID(), entry.ID, entry.Phase)
	e.logger.Info("session created", "session_id", session.ID, "node", entry.ID)
	e.fireNodeEnter(ctx, domain.EventSessionCreate, session, entry)
	e.fireNodeEnter(ctx, domain.EventNodeEnter, session, entry)
	return session, nil
}

// Evaluate resolves one utterance against the session's current node and
// returns the transition to take. The session is not mutated; expected
// conditions (retry, escalation) are result values, never errors.
func (e *Engine) Evaluate(session *domain.DiagnosticSession, utterance string) *domain.TraversalResult {
	current, err := e.graph.Get(session.CurrentNodeID)
	if err != nil {
		// Corrupt session, not a user-facing fault.
		e.logger.Error("current node missing", "session_id", session.ID, "node", session.CurrentNodeID)
		return &domain.TraversalResult{
			ShouldEscalate:   true,
			EscalationReason: fmt.Sprintf("current node missing: %s", session.CurrentNodeID),
		}
	}

	normalized := Normalize(utterance)

	// Escalation checks precede answer resolution so an uncertain "I
	// don't know, maybe yes" hands off instead of guessing.
	if escalate, reason := ShouldEscalate(current, normalized, session); escalate {
		return &domain.TraversalResult{
			ShouldEscalate:   true,
			EscalationReason: reason,
			AssetsToShow:     e.assetsFor(current.ID),
		}
	}

	nextID := ResolveAnswer(current, normalized)
	if nextID == "" {
		if session.RetryCount(current.ID) >= current.Escalation.RetryBudget() {
			return &domain.TraversalResult{
				ShouldEscalate:   true,
				EscalationReason: ReasonNoMatchExceeded,
				AssetsToShow:     e.assetsFor(current.ID),
			}
		}
		// Retry path: re-present the same node.
		return &domain.TraversalResult{
			NextNode:     current,
			AssetsToShow: e.assetsFor(current.ID),
		}
	}

	next, err := e.graph.Get(nextID)
	if err != nil {
		// Configuration-integrity failure: an edge points at a node that
		// does not exist. Fatal for this conversation, never retried.
		e.logger.Error("dangling node reference",
			"session_id", session.ID, "node", current.ID, "answer_next", nextID)
		return &domain.TraversalResult{
			ShouldEscalate:   true,
			EscalationReason: fmt.Sprintf("graph integrity: node %q references missing node %q", current.ID, nextID),
		}
	}

	return &domain.TraversalResult{
		NextNode:     next,
		AssetsToShow: e.assetsFor(next.ID),
	}
}

// Advance applies an evaluation result to a session and returns the new
// session. It is a pure function of (session, utterance, result): the input
// session is never mutated, and replaying the same inputs yields the same
// output (modulo timestamps).
func (e *Engine) Advance(ctx context.Context, session *domain.DiagnosticSession, utterance string, result *domain.TraversalResult) *domain.DiagnosticSession {
	next := session.Clone()
	normalized := Normalize(utterance)

	outcome := domain.OutcomeSuccess
	switch {
	case result.ShouldEscalate && result.EscalationReason == ReasonUserUncertain:
		outcome = domain.OutcomeUncertain
	case result.ShouldEscalate, result.Retry(session.CurrentNodeID):
		outcome = domain.OutcomeFailure
	}

	// History is recorded against the node being answered, before moving.
	next.History = append(next.History, domain.HistoryEntry{
		NodeID:    session.CurrentNodeID,
		Timestamp: time.Now(),
		Response:  utterance,
		Outcome:   outcome,
	})
	next.Observations[session.CurrentNodeID] = normalized

	if session.CurrentNodeID == VendorSelectNodeID && next.VendorProfile == nil {
		profile := DetectVendor(utterance)
		next.VendorProfile = &profile
		e.logger.Info("vendor detected", "session_id", session.ID, "vendor", profile.VendorID)
	}

	if result.ShouldEscalate {
		return e.escalate(ctx, next, result.EscalationReason)
	}

	if result.Retry(session.CurrentNodeID) {
		e.fireNodeEnter(ctx, domain.EventRetry, next, result.NextNode)
		return next
	}

	if result.NextNode.Phase == domain.PhaseEscalation {
		// A scripted escalation sink hands off like an evaluator-triggered
		// escalation: the current node stays put so the payload reflects
		// the phase that was being diagnosed.
		return e.escalate(ctx, next, "Diagnostic path reached escalation: "+result.NextNode.ID)
	}

	next.CurrentNodeID = result.NextNode.ID
	next.CurrentPhase = result.NextNode.Phase

	switch result.NextNode.ID {
	case graph.ResolvedNodeID:
		next.Status = domain.StatusResolved
		e.logger.Info("session resolved", "session_id", next.ID)
		e.fireNodeEnter(ctx, domain.EventResolve, next, result.NextNode)
	case graph.AbandonedNodeID:
		next.Status = domain.StatusAbandoned
		e.logger.Info("session abandoned", "session_id", next.ID)
	default:
		e.fireNodeEnter(ctx, domain.EventNodeEnter, next, result.NextNode)
	}
	return next
}

// RecordAction logs a corrective action attempt against the session,
// returning a new session. The attempt feeds the escalation payload if the
// session later hands off. Attempts are kept out of History so they never
// count against the node's answer-retry budget.
func (e *Engine) RecordAction(session *domain.DiagnosticSession, action domain.AllowedAction, result domain.ActionResult, notes string) *domain.DiagnosticSession {
	next := session.Clone()
	next.ActionsAttempted = append(next.ActionsAttempted, domain.ActionAttempt{
		Action:    action,
		Timestamp: time.Now(),
		Result:    result,
		Notes:     notes,
	})
	return next
}

func (e *Engine) escalate(ctx context.Context, session *domain.DiagnosticSession, reason string) *domain.DiagnosticSession {
	session.Status = domain.StatusEscalated
	session.Escalation = buildEscalationPayload(session, reason)
	e.logger.Warn("session escalated",
		"session_id", session.ID, "node", session.CurrentNodeID, "reason", reason)
	if e.hooks.OnEscalate != nil {
		e.hooks.OnEscalate(ctx, &domain.EscalationEvent{
			EventBase: eventBase(domain.EventEscalate, session.ID),
			NodeID:    session.CurrentNodeID,
			Reason:    reason,
		})
	}
	return session
}

// buildEscalationPayload assembles the hand-off summary for a human agent:
// which steps ran, what the user reported, what was already tried, and
// which fault domain the current phase implicates.
func buildEscalationPayload(session *domain.DiagnosticSession, reason string) *domain.EscalationPayload {
	steps := make([]string, 0, len(session.History))
	seen := make(map[string]bool, len(session.History))
	for _, h := range session.History {
		if !seen[h.NodeID] {
			seen[h.NodeID] = true
			steps = append(steps, h.NodeID)
		}
	}

	observations := make(map[string]string, len(session.Observations))
	for k, v := range session.Observations {
		observations[k] = v
	}

	return &domain.EscalationPayload{
		Trigger:              reason,
		StepsCompleted:       steps,
		Observations:         observations,
		ActionsAttempted:     append([]domain.ActionAttempt(nil), session.ActionsAttempted...),
		SuspectedFaultDomain: session.CurrentPhase.FaultDomain(),
		Timestamp:            time.Now(),
	}
}

func (e *Engine) fireNodeEnter(ctx context.Context, kind domain.EventType, session *domain.DiagnosticSession, node *domain.DiagnosticNode) {
	var hook func(context.Context, *domain.NodeEvent)
	switch kind {
	case domain.EventSessionCreate:
		hook = e.hooks.OnSessionCreate
	case domain.EventRetry:
		hook = e.hooks.OnRetry
	case domain.EventResolve:
		hook = e.hooks.OnResolve
	default:
		hook = e.hooks.OnNodeEnter
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.NodeEvent{
		EventBase: eventBase(kind, session.ID),
		NodeID:    node.ID,
		Phase:     node.Phase,
	})
}

func eventBase(kind domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      kind,
		SessionID: sessionID,
	}
}

func (e *Engine) assetsFor(nodeID string) []domain.RouterAsset {
	if e.catalog == nil {
		return nil
	}
	return e.catalog.AssetsFor(nodeID)
}
