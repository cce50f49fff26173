package domain

// InputType classifies what kind of user input a node expects.
type InputType string

const (
	// InputObservation asks the user to report something they can see
	// (an LED color, a status page value).
	InputObservation InputType = "user_observation"
	// InputAction asks the user to perform a step and confirm it.
	InputAction InputType = "user_action"
	// InputConfirmation is a plain yes/no checkpoint.
	InputConfirmation InputType = "confirmation"
	// InputSystemCheck is a step the system verifies rather than the user
	// (e.g. "wait and re-read the status").
	InputSystemCheck InputType = "system_check"
)

// AllowedAction enumerates the corrective actions a node may permit.
type AllowedAction string

const (
	ActionReconnectSession AllowedAction = "RECONNECT_SESSION"
	ActionSaveApply        AllowedAction = "SAVE_APPLY"
	ActionSoftReboot       AllowedAction = "SOFT_REBOOT"
	ActionReseatCable      AllowedAction = "RESEAT_CABLE"
	ActionPowerCycle       AllowedAction = "POWER_CYCLE"
	ActionResetCredentials AllowedAction = "RESET_CREDENTIALS"
	ActionFactoryReset     AllowedAction = "FACTORY_RESET"
)

// DefaultMaxRetries is the per-node retry budget when a node does not
// override it.
const DefaultMaxRetries = 3

// EscalationConditions configures which hand-off triggers are live for a
// node. Flags gate the evaluator; MaxRetries bounds the no-match loop.
type EscalationConditions struct {
	UserUncertain  bool `json:"user_uncertain,omitempty" yaml:"user_uncertain,omitempty"`
	ScreenMismatch bool `json:"screen_mismatch,omitempty" yaml:"screen_mismatch,omitempty"`
	RetryExceeded  bool `json:"retry_exceeded,omitempty" yaml:"retry_exceeded,omitempty"`
	MaxRetries     int  `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// RetryBudget returns the configured maximum, falling back to the default.
func (c EscalationConditions) RetryBudget() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return DefaultMaxRetries
}

// ExpectedAnswer is one outgoing edge of a node: a normalized answer key
// and the node it leads to. Order matters for tie-breaking in the answer
// resolver, so edges are a slice, not a map.
type ExpectedAnswer struct {
	Answer string `json:"answer" yaml:"answer"`
	Next   string `json:"next" yaml:"next"`
}

// NodeMetadata carries optional vendor/firmware annotations, decoded from
// loose YAML maps by the graph loader.
type NodeMetadata struct {
	Vendor   string `json:"vendor,omitempty" yaml:"vendor,omitempty" mapstructure:"vendor"`
	Firmware string `json:"firmware,omitempty" yaml:"firmware,omitempty" mapstructure:"firmware"`
	Category string `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category"`
}

// DiagnosticNode is one scripted step of the troubleshooting graph.
// Nodes are immutable after load; the graph may cycle (retries revisit the
// same node) but every ExpectedAnswer destination must exist.
type DiagnosticNode struct {
	ID        string    `json:"node_id" yaml:"node_id"`
	Phase     Phase     `json:"phase" yaml:"phase"`
	InputType InputType `json:"input_type" yaml:"input_type"`

	// Question is the short display form; VoiceInstruction is the sentence
	// handed to the speech collaborator.
	Question         string `json:"question" yaml:"question"`
	VoiceInstruction string `json:"voice_instruction" yaml:"voice_instruction"`

	ExpectedAnswers []ExpectedAnswer `json:"expected_answers" yaml:"expected_answers"`

	ActionsAllowed []AllowedAction      `json:"actions_allowed,omitempty" yaml:"actions_allowed,omitempty"`
	Escalation     EscalationConditions `json:"escalation_conditions" yaml:"escalation_conditions"`

	Metadata *NodeMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NextFor returns the destination for an exact answer key, if present.
func (n *DiagnosticNode) NextFor(answer string) (string, bool) {
	for _, ea := range n.ExpectedAnswers {
		if ea.Answer == answer {
			return ea.Next, true
		}
	}
	return "", false
}

// AnswerKeys returns the answer keys in their defined order.
func (n *DiagnosticNode) AnswerKeys() []string {
	keys := make([]string, 0, len(n.ExpectedAnswers))
	for _, ea := range n.ExpectedAnswers {
		keys = append(keys, ea.Answer)
	}
	return keys
}

// Terminal reports whether this node has no outgoing answers (a sink:
// diagnosis complete, session end, or an escalation hand-off step).
func (n *DiagnosticNode) Terminal() bool {
	return len(n.ExpectedAnswers) == 0
}
