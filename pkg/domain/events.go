package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSessionCreate EventType = "session_create"
	EventNodeEnter     EventType = "node_enter"
	EventRetry         EventType = "retry"
	EventEscalate      EventType = "escalate"
	EventResolve       EventType = "resolve"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// NodeEvent represents entering a node (including re-entry on retry).
type NodeEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Phase  Phase  `json:"phase"`
}

// EscalationEvent carries the hand-off reason alongside the node.
type EscalationEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Reason string `json:"reason"`
}

// LifecycleHooks defines callbacks for engine observability. All hooks are
// optional and invoked synchronously during CreateSession and Advance.
type LifecycleHooks struct {
	OnSessionCreate func(context.Context, *NodeEvent)
	OnNodeEnter     func(context.Context, *NodeEvent)
	OnRetry         func(context.Context, *NodeEvent)
	OnEscalate      func(context.Context, *EscalationEvent)
	OnResolve       func(context.Context, *NodeEvent)
}
