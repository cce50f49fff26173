package domain

import "time"

// Status is the lifecycle state of a diagnostic session. Transitions are
// one-directional: active -> {resolved, escalated, abandoned}.
type Status string

const (
	StatusActive    Status = "active"
	StatusResolved  Status = "resolved"
	StatusEscalated Status = "escalated"
	StatusAbandoned Status = "abandoned"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s != StatusActive
}

// Outcome records how a single step went.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeUncertain Outcome = "uncertain"
)

// HistoryEntry is one visited step: the node, what the user said, and how
// it went. History is append-only; retries append new entries for the same
// node rather than overwriting.
type HistoryEntry struct {
	NodeID    string        `json:"node_id"`
	Timestamp time.Time     `json:"timestamp"`
	Response  string        `json:"user_response,omitempty"`
	Action    AllowedAction `json:"action_taken,omitempty"`
	Outcome   Outcome       `json:"outcome,omitempty"`
}

// ActionResult is the recorded result of a corrective action attempt.
type ActionResult string

const (
	ActionSucceeded ActionResult = "success"
	ActionFailed    ActionResult = "failure"
	ActionPending   ActionResult = "pending"
)

// ActionAttempt logs one corrective action taken during the session.
type ActionAttempt struct {
	Action    AllowedAction `json:"action"`
	Timestamp time.Time     `json:"timestamp"`
	Result    ActionResult  `json:"result"`
	Notes     string        `json:"notes,omitempty"`
}

// EscalationPayload captures everything a human agent needs at hand-off.
// It is created exactly once per session and never mutated afterwards.
type EscalationPayload struct {
	Trigger              string            `json:"trigger"`
	StepsCompleted       []string          `json:"steps_completed"`
	Observations         map[string]string `json:"observations"`
	ActionsAttempted     []ActionAttempt   `json:"actions_attempted"`
	SuspectedFaultDomain string            `json:"suspected_fault_domain"`
	Timestamp            time.Time         `json:"timestamp"`
}

// DiagnosticSession is the mutable conversation state. The engine treats it
// with value semantics: Advance returns a new session, the input is never
// mutated, and a session becomes immutable once its status leaves active.
type DiagnosticSession struct {
	ID        string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`

	CurrentNodeID string `json:"current_node_id"`
	CurrentPhase  Phase  `json:"current_phase"`

	VendorProfile *VendorProfile `json:"vendor_profile,omitempty"`

	// History is the ordered, append-only record of visited nodes.
	History []HistoryEntry `json:"history"`

	// Observations keeps the latest response per node id; later responses
	// for the same node overwrite earlier ones.
	Observations map[string]string `json:"observations"`

	ActionsAttempted []ActionAttempt `json:"actions_attempted"`

	Escalation *EscalationPayload `json:"escalation_payload,omitempty"`

	Status Status `json:"status"`
}

// NewSession creates a fresh active session positioned at startNodeID.
func NewSession(id, startNodeID string, phase Phase) *DiagnosticSession {
	return &DiagnosticSession{
		ID:               id,
		StartedAt:        time.Now(),
		CurrentNodeID:    startNodeID,
		CurrentPhase:     phase,
		History:          []HistoryEntry{},
		Observations:     map[string]string{},
		ActionsAttempted: []ActionAttempt{},
		Status:           StatusActive,
	}
}

// Clone returns a deep copy safe for independent mutation. Slices and maps
// are copied; the escalation payload is shared because it is write-once.
func (s *DiagnosticSession) Clone() *DiagnosticSession {
	if s == nil {
		return nil
	}
	next := *s
	next.History = make([]HistoryEntry, len(s.History))
	copy(next.History, s.History)
	next.Observations = make(map[string]string, len(s.Observations))
	for k, v := range s.Observations {
		next.Observations[k] = v
	}
	next.ActionsAttempted = make([]ActionAttempt, len(s.ActionsAttempted))
	copy(next.ActionsAttempted, s.ActionsAttempted)
	return &next
}

// RetryCount returns how many history entries were recorded against nodeID.
func (s *DiagnosticSession) RetryCount(nodeID string) int {
	n := 0
	for _, h := range s.History {
		if h.NodeID == nodeID {
			n++
		}
	}
	return n
}
