package domain

// TraversalResult is the outcome of evaluating one utterance against the
// current node. Expected conditions (no-match retry, escalation) are data,
// not errors: the engine never fails for user input.
type TraversalResult struct {
	// NextNode is the destination node, or the current node again on the
	// retry path, or nil when escalating.
	NextNode *DiagnosticNode `json:"next_node"`

	ShouldEscalate   bool   `json:"should_escalate"`
	EscalationReason string `json:"escalation_reason,omitempty"`

	// AssetsToShow are the visual guides for the node the caller should
	// now present. Empty is valid.
	AssetsToShow []RouterAsset `json:"assets_to_show"`
}

// Retry reports whether the result re-presents the current node.
func (r *TraversalResult) Retry(current string) bool {
	return !r.ShouldEscalate && r.NextNode != nil && r.NextNode.ID == current
}
