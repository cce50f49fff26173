package voice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/akilivoice/pathrag/internal/logging"
	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/ports"
)

// State is one position of the control loop's state machine.
type State string

const (
	StateIdle        State = "idle"
	StateSpeaking    State = "speaking"
	StateListening   State = "listening"
	StateProcessing  State = "processing"
	StateAdvancing   State = "advancing"
	StateReprompting State = "reprompting"
)

// ReasonRetriesExhausted is the escalation signal emitted when the retry
// budget runs out inside the loop.
const ReasonRetriesExhausted = "voice retry budget exhausted"

// Snapshot is a point-in-time copy of the loop's externally visible state.
type Snapshot struct {
	State          State
	NodeID         string
	RetryCount     int
	LastValidInput string
}

// Loop sequences one spoken conversation: speak the instruction, listen
// for a transcript, validate it, and either hand the answer to the owner
// or re-prompt. It is a cooperative, event-driven state machine: every
// entry point returns immediately and all long-running audio work happens
// in the external collaborator. Out-of-order events (a transcript while
// speaking, speech-complete while idle) are dropped, never errors: the
// audio side is imperfectly synchronized and the loop must not crash on
// its timing.
type Loop struct {
	mu sync.Mutex

	state      State
	node       *domain.DiagnosticNode
	window     ExpectationWindow
	retryCount int
	lastValid  string

	// listenSeq invalidates stale timeout timers: each listening period
	// gets a fresh sequence number and a timer firing for an old one is
	// ignored.
	listenSeq int
	timer     *time.Timer

	speaker    ports.Speaker
	onAdvance  func(context.Context, string)
	onEscalate func(context.Context, string)
	onNoise    func(nodeID, transcript string)
	logger     *slog.Logger
	windowOpts []WindowOption
}

// LoopOption configures the Loop.
type LoopOption func(*Loop)

// WithSpeaker sets the audio collaborator the loop speaks through.
func WithSpeaker(s ports.Speaker) LoopOption {
	return func(l *Loop) {
		l.speaker = s
	}
}

// WithOnAdvance sets the callback receiving validated answers. The owning
// traversal layer decides the next node; the loop only filters input.
func WithOnAdvance(fn func(context.Context, string)) LoopOption {
	return func(l *Loop) {
		l.onAdvance = fn
	}
}

// WithOnEscalate sets the callback fired when the retry budget runs out.
func WithOnEscalate(fn func(context.Context, string)) LoopOption {
	return func(l *Loop) {
		l.onEscalate = fn
	}
}

// WithOnNoise sets the callback fired each time the noise filter drops a
// transcript, e.g. to feed a counter.
func WithOnNoise(fn func(nodeID, transcript string)) LoopOption {
	return func(l *Loop) {
		l.onNoise = fn
	}
}

// WithLoopLogger sets the structured logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithWindowOptions forwards options to every expectation window the loop
// builds, e.g. a shorter timeout in tests.
func WithWindowOptions(opts ...WindowOption) LoopOption {
	return func(l *Loop) {
		l.windowOpts = opts
	}
}

// NewLoop creates an idle control loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		state:  StateIdle,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetNode points the loop at a diagnostic node: builds a fresh expectation
// window, resets the retry counter, and speaks the instruction. Windows
// are rebuilt on every call, never carried over from the previous node.
func (l *Loop) SetNode(ctx context.Context, node *domain.DiagnosticNode) {
	l.mu.Lock()
	l.stopTimerLocked()
	l.node = node
	l.window = BuildWindow(node, l.windowOpts...)
	l.retryCount = 0
	l.state = StateSpeaking
	l.mu.Unlock()

	l.speak(ctx, node.VoiceInstruction)
}

// SpeechComplete signals that the audio collaborator finished speaking.
// Only meaningful while speaking; the loop never listens while it believes
// itself to be mid-sentence.
func (l *Loop) SpeechComplete(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateSpeaking {
		l.logger.Debug("speech-complete ignored", "state", string(l.state))
		return
	}
	l.state = StateListening
	l.armTimeoutLocked(ctx)
}

// HandleTranscript feeds one recognized utterance into the loop. Dropped
// without side effects unless the loop is listening. Noise never increments
// the retry counter; a matched token or novel real speech is handed to the
// owner via the advance callback.
func (l *Loop) HandleTranscript(ctx context.Context, transcript string) {
	l.mu.Lock()

	if l.state != StateListening {
		l.logger.Debug("transcript ignored", "state", string(l.state), "transcript", transcript)
		l.mu.Unlock()
		return
	}

	l.state = StateProcessing
	verdict, value := l.window.Validate(transcript)

	switch verdict {
	case VerdictNoise:
		// Filler: drop and keep listening, same timeout still armed.
		l.logger.Debug("noise dropped", "transcript", transcript)
		l.state = StateListening
		nodeID := l.window.NodeID
		l.mu.Unlock()
		if l.onNoise != nil {
			l.onNoise(nodeID, transcript)
		}
		return

	case VerdictMatch, VerdictNovel:
		l.stopTimerLocked()
		l.state = StateAdvancing
		l.lastValid = value
		l.retryCount = 0
		nodeID := l.window.NodeID
		l.mu.Unlock()

		l.logger.Info("transcript accepted", "node", nodeID, "value", value)
		if l.onAdvance != nil {
			l.onAdvance(ctx, value)
		}
		return
	}
	l.mu.Unlock()
}

// Reprompt re-speaks the current instruction after a failed attempt: the
// owning traversal layer calls this when the answer resolved to a retry.
// When the budget is spent the loop signals escalation instead of speaking.
func (l *Loop) Reprompt(ctx context.Context) {
	l.mu.Lock()
	if l.node == nil || l.state == StateIdle {
		l.mu.Unlock()
		return
	}
	l.stopTimerLocked()
	l.retryCount++
	nodeID := l.window.NodeID
	retries := l.retryCount

	if retries >= l.window.RetryBudget {
		l.state = StateIdle
		l.mu.Unlock()

		l.logger.Warn("retry budget exhausted", "node", nodeID, "retries", retries)
		if l.onEscalate != nil {
			l.onEscalate(ctx, ReasonRetriesExhausted)
		}
		return
	}

	l.state = StateReprompting
	instruction := l.node.VoiceInstruction
	l.mu.Unlock()

	l.logger.Info("reprompting", "node", nodeID, "retry", retries)
	l.speakReprompt(ctx, instruction)
}

// HandleTimeout is the synthetic event fired when listening exceeded the
// window's timeout without a usable transcript. It follows the same
// failure path as an invalid answer: re-prompt under budget, escalate at
// budget.
func (l *Loop) HandleTimeout(ctx context.Context) {
	l.mu.Lock()
	if l.state != StateListening {
		l.mu.Unlock()
		return
	}
	nodeID := l.window.NodeID
	l.mu.Unlock()

	l.logger.Info("listening timed out", "node", nodeID)
	l.Reprompt(ctx)
}

// Listening reports whether the loop is currently waiting for input.
func (l *Loop) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateListening
}

// Snapshot returns a copy of the loop's externally visible state.
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		State:          l.state,
		RetryCount:     l.retryCount,
		LastValidInput: l.lastValid,
	}
	if l.node != nil {
		s.NodeID = l.node.ID
	}
	return s
}

// Window returns the active expectation window.
func (l *Loop) Window() ExpectationWindow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.window
}

func (l *Loop) speak(ctx context.Context, instruction string) {
	if l.speaker == nil {
		// No collaborator wired (tests drive transitions manually):
		// treat speech as instantly complete.
		l.SpeechComplete(ctx)
		return
	}
	if err := l.speaker.Speak(ctx, instruction); err != nil {
		l.logger.Error("speak failed", "err", err)
	}
}

func (l *Loop) speakReprompt(ctx context.Context, instruction string) {
	l.mu.Lock()
	l.state = StateSpeaking
	l.mu.Unlock()
	l.speak(ctx, instruction)
}

// armTimeoutLocked starts the listening timer for the current window.
// Caller holds l.mu.
func (l *Loop) armTimeoutLocked(ctx context.Context) {
	if l.window.Timeout <= 0 {
		return
	}
	l.listenSeq++
	seq := l.listenSeq
	l.timer = time.AfterFunc(l.window.Timeout, func() {
		l.mu.Lock()
		stale := seq != l.listenSeq || l.state != StateListening
		l.mu.Unlock()
		if stale {
			return
		}
		l.HandleTimeout(context.WithoutCancel(ctx))
	})
}

// stopTimerLocked cancels any armed listening timer. Caller holds l.mu.
func (l *Loop) stopTimerLocked() {
	l.listenSeq++
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
