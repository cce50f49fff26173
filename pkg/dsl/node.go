package dsl

import (
	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/graph"
)

// NodeBuilder provides a fluent API for configuring one diagnostic node.
type NodeBuilder struct {
	node    domain.DiagnosticNode
	builder *Builder
}

// Phase assigns the node to a troubleshooting phase.
func (n *NodeBuilder) Phase(p domain.Phase) *NodeBuilder {
	n.node.Phase = p
	return n
}

// Confirmation sets the question and marks the node as a yes/no checkpoint.
func (n *NodeBuilder) Confirmation(question string) *NodeBuilder {
	n.node.InputType = domain.InputConfirmation
	n.node.Question = question
	return n
}

// Observation sets the question and marks the node as asking the user to
// report something they can see.
func (n *NodeBuilder) Observation(question string) *NodeBuilder {
	n.node.InputType = domain.InputObservation
	n.node.Question = question
	return n
}

// Action sets the question and marks the node as asking the user to perform
// a step and confirm it.
func (n *NodeBuilder) Action(question string) *NodeBuilder {
	n.node.InputType = domain.InputAction
	n.node.Question = question
	return n
}

// Voice sets the sentence handed to the speech collaborator. Nodes without
// one fall back to the question text.
func (n *NodeBuilder) Voice(instruction string) *NodeBuilder {
	n.node.VoiceInstruction = instruction
	return n
}

// Expect adds an outgoing edge: a normalized answer key and its destination.
// Declaration order is preserved and matters for answer resolution.
func (n *NodeBuilder) Expect(answer, next string) *NodeBuilder {
	n.node.ExpectedAnswers = append(n.node.ExpectedAnswers, domain.ExpectedAnswer{
		Answer: answer,
		Next:   next,
	})
	return n
}

// Allow permits corrective actions at this node.
func (n *NodeBuilder) Allow(actions ...domain.AllowedAction) *NodeBuilder {
	n.node.ActionsAllowed = append(n.node.ActionsAllowed, actions...)
	return n
}

// EscalateOnUncertain arms the uncertainty trigger for this node.
func (n *NodeBuilder) EscalateOnUncertain() *NodeBuilder {
	n.node.Escalation.UserUncertain = true
	return n
}

// EscalateOnMismatch arms the screen-mismatch trigger for this node.
func (n *NodeBuilder) EscalateOnMismatch() *NodeBuilder {
	n.node.Escalation.ScreenMismatch = true
	return n
}

// Retries sets the retry budget and arms the retry-exceeded trigger.
func (n *NodeBuilder) Retries(max int) *NodeBuilder {
	n.node.Escalation.RetryExceeded = true
	n.node.Escalation.MaxRetries = max
	return n
}

// Meta attaches vendor/firmware annotations.
func (n *NodeBuilder) Meta(vendor, firmware, category string) *NodeBuilder {
	n.node.Metadata = &domain.NodeMetadata{
		Vendor:   vendor,
		Firmware: firmware,
		Category: category,
	}
	return n
}

// Add declares the next node on the parent builder, allowing one
// uninterrupted chain for the whole graph.
func (n *NodeBuilder) Add(id string) *NodeBuilder {
	return n.builder.Add(id)
}

// Build compiles the parent builder's graph.
func (n *NodeBuilder) Build() (*graph.Graph, error) {
	return n.builder.Build()
}
