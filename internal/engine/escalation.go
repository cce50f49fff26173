package engine

import "github.com/akilivoice/pathrag/pkg/domain"

// Escalation reason strings. They are carried into the hand-off payload
// and telemetry but have no control-flow meaning beyond the boolean.
const (
	ReasonUserUncertain   = "User expressed uncertainty"
	ReasonScreenMismatch  = "Screen does not match expected layout"
	ReasonRetryExceeded   = "Maximum retry attempts exceeded"
	ReasonNoMatchExceeded = "Maximum retries exceeded"
)

// uncertainPhrases signal that the user is lost and wants a human.
// Apostrophe-free forms cover transcription engines that strip punctuation.
var uncertainPhrases = []string{
	"not sure",
	"don't know", "dont know",
	"confused",
	"can't tell", "cant tell",
	"help",
	"unsure",
	"i don't see", "i dont see",
	"can't find", "cant find", "cannot find",
	"don't see", "dont see",
	"can't see", "cant see",
}

// mismatchPhrases signal that the screen in front of the user does not
// look like what the instruction described.
var mismatchPhrases = []string{
	"doesn't match", "doesnt match",
	"different",
	"not the same",
	"don't see that", "dont see that",
	"looks different",
}

// ShouldEscalate is a pure predicate over the node's escalation flags, the
// normalized utterance, and the session's history. Triggers are checked in
// a fixed order (uncertain, mismatch, retry) and the first hit wins, so an
// utterance matching both an uncertainty phrase and a valid answer key
// always escalates: callers run this before answer resolution.
func ShouldEscalate(node *domain.DiagnosticNode, utterance string, session *domain.DiagnosticSession) (bool, string) {
	cond := node.Escalation

	if cond.UserUncertain && containsAny(utterance, uncertainPhrases) {
		return true, ReasonUserUncertain
	}
	if cond.ScreenMismatch && containsAny(utterance, mismatchPhrases) {
		return true, ReasonScreenMismatch
	}
	if cond.RetryExceeded && session.RetryCount(node.ID) >= cond.RetryBudget() {
		return true, ReasonRetryExceeded
	}
	return false, ""
}
