// Package voice drives one spoken conversation: it builds expectation
// windows for each diagnostic step and runs the control loop that
// sequences speaking, listening, and answer validation against an
// external audio collaborator.
package voice

import (
	"regexp"
	"strings"
	"time"

	"github.com/akilivoice/pathrag/pkg/domain"
)

// DefaultListenTimeout bounds how long the loop waits for a transcript
// after an instruction finishes speaking.
const DefaultListenTimeout = 10 * time.Second

// DefaultRetryBudget is the number of failed validations tolerated before
// the loop signals escalation.
const DefaultRetryBudget = 3

// NoiseSensitivity tunes how aggressively short transcripts are discarded.
type NoiseSensitivity string

const (
	SensitivityLow    NoiseSensitivity = "low"
	SensitivityMedium NoiseSensitivity = "medium"
	SensitivityHigh   NoiseSensitivity = "high"
)

// fillerPattern matches transcripts that are pure hesitation sounds.
var fillerPattern = regexp.MustCompile(`^(uh+|um+|hmm+|mm+|ah+|eh+|oh+|er+)$`)

// ExpectationWindow is what the loop listens for after speaking one node:
// the allowed answer tokens, a listening timeout, noise sensitivity, and
// the retry budget. Windows are cheap value objects rebuilt on every node
// transition; a stale window validated against a new node is a correctness
// hazard, so they are never cached.
type ExpectationWindow struct {
	NodeID        string
	AllowedTokens []string
	Timeout       time.Duration
	Sensitivity   NoiseSensitivity
	RetryBudget   int
}

// BuildWindow derives the expectation window for the node about to be
// spoken. Pure and deterministic: same node, same window.
func BuildWindow(node *domain.DiagnosticNode, opts ...WindowOption) ExpectationWindow {
	w := ExpectationWindow{
		NodeID:        node.ID,
		AllowedTokens: normalizeTokens(node.AnswerKeys()),
		Timeout:       DefaultListenTimeout,
		Sensitivity:   SensitivityMedium,
		RetryBudget:   node.Escalation.RetryBudget(),
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// WindowOption adjusts a freshly built window.
type WindowOption func(*ExpectationWindow)

// WithTimeout overrides the listening timeout.
func WithTimeout(d time.Duration) WindowOption {
	return func(w *ExpectationWindow) {
		if d > 0 {
			w.Timeout = d
		}
	}
}

// WithSensitivity overrides the noise sensitivity.
func WithSensitivity(s NoiseSensitivity) WindowOption {
	return func(w *ExpectationWindow) {
		w.Sensitivity = s
	}
}

func normalizeTokens(keys []string) []string {
	tokens := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			tokens = append(tokens, k)
		}
	}
	return tokens
}

// ValidationVerdict classifies one transcript against a window.
type ValidationVerdict int

const (
	// VerdictMatch means the transcript matched an allowed token.
	VerdictMatch ValidationVerdict = iota
	// VerdictNovel means the transcript is real speech that matched no
	// token; it is passed through for the traversal layer to judge.
	VerdictNovel
	// VerdictNoise means the transcript is filler and must be dropped
	// without any state change.
	VerdictNoise
)

// Validate classifies a raw transcript. Token matching runs before noise
// rejection so a short-but-valid answer like "ok" is never discarded as
// filler. Returns the matched token on VerdictMatch, the cleaned transcript
// on VerdictNovel, and "" on VerdictNoise.
func (w ExpectationWindow) Validate(transcript string) (ValidationVerdict, string) {
	cleaned := strings.ToLower(strings.TrimSpace(transcript))

	for _, token := range w.AllowedTokens {
		if cleaned == token || containsToken(cleaned, token) {
			return VerdictMatch, token
		}
		// A terse echo: the user said a fragment of the token.
		if cleaned != "" && strings.Contains(token, cleaned) {
			return VerdictMatch, token
		}
	}

	if w.IsNoise(cleaned) {
		return VerdictNoise, ""
	}
	return VerdictNovel, cleaned
}

// IsNoise reports whether a cleaned transcript is filler rather than real
// speech: too short to carry meaning, a hesitation sound, or a bracketed
// recognizer annotation like "[inaudible]".
func (w ExpectationWindow) IsNoise(cleaned string) bool {
	minLen := 2
	if w.Sensitivity == SensitivityHigh {
		minLen = 3
	}
	if len(cleaned) < minLen {
		return true
	}
	if fillerPattern.MatchString(cleaned) {
		return true
	}
	if strings.HasPrefix(cleaned, "[") && strings.HasSuffix(cleaned, "]") {
		return true
	}
	switch cleaned {
	case "cough", "laugh", "sigh":
		return true
	}
	return false
}

func containsToken(transcript, token string) bool {
	return strings.Contains(" "+transcript+" ", " "+token+" ")
}
