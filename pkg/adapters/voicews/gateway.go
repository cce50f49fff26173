// Package voicews bridges a browser or softphone to the voice control
// loop over a WebSocket. The client streams transcripts and playback
// marks; the gateway answers with speak requests and state snapshots.
package voicews

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akilivoice/pathrag"
	"github.com/akilivoice/pathrag/internal/logging"
	"github.com/akilivoice/pathrag/internal/voice"
	"github.com/akilivoice/pathrag/pkg/domain"
)

// DefaultHandshakeTimeout bounds how long the gateway waits for the
// client hello after the upgrade.
const DefaultHandshakeTimeout = 5 * time.Second

// ClientMessage is any frame the client sends.
type ClientMessage struct {
	Type string `json:"type"`

	// hello
	SessionID string `json:"session_id,omitempty"`
	VendorID  string `json:"vendor_id,omitempty"`

	// transcript
	Text string `json:"text,omitempty"`
}

// ServerMessage is any frame the gateway sends.
type ServerMessage struct {
	Type string `json:"type"`

	SessionID string `json:"session_id,omitempty"`

	// speak
	Instruction string `json:"instruction,omitempty"`
	NodeID      string `json:"node_id,omitempty"`

	// state
	State *pathrag.TransitionOutcome `json:"state,omitempty"`

	// escalated / error
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client frame types.
const (
	MsgHello          = "hello"
	MsgTranscript     = "transcript"
	MsgSpeechComplete = "speech_complete"
)

// Server frame types.
const (
	MsgHelloAck  = "hello_ack"
	MsgSpeak     = "speak"
	MsgState     = "state"
	MsgEscalated = "escalated"
	MsgClosed    = "closed"
	MsgError     = "error"
)

// Gateway upgrades HTTP requests and runs one voice loop per connection.
type Gateway struct {
	service          *pathrag.Service
	logger           *slog.Logger
	handshakeTimeout time.Duration
	windowOpts       []voice.WindowOption
	onNoise          func(nodeID, transcript string)
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithHandshakeTimeout overrides the hello deadline.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.handshakeTimeout = d
	}
}

// WithWindowOptions forwards expectation-window tuning to each loop.
func WithWindowOptions(opts ...voice.WindowOption) Option {
	return func(g *Gateway) {
		g.windowOpts = opts
	}
}

// WithNoiseCallback forwards dropped-transcript notifications from each
// loop, e.g. into a metrics counter.
func WithNoiseCallback(fn func(nodeID, transcript string)) Option {
	return func(g *Gateway) {
		g.onNoise = fn
	}
}

// NewGateway builds the WebSocket adapter for a service.
func NewGateway(service *pathrag.Service, opts ...Option) *Gateway {
	g := &Gateway{
		service:          service,
		logger:           logging.NewNop(),
		handshakeTimeout: DefaultHandshakeTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ServeHTTP upgrades the connection and drives the session until the
// client disconnects or the session reaches a terminal state.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wc := &wsConn{conn: conn}

	_ = conn.SetReadDeadline(time.Now().Add(g.handshakeTimeout))
	var hello ClientMessage
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != MsgHello {
		wc.writeError("first frame must be hello", true)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	ctx := r.Context()

	state, err := g.resolveSession(r, hello)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			wc.writeError("unknown session", true)
		} else {
			wc.writeError("failed to start session", true)
			g.logger.Error("voicews: session start failed", "err", err)
		}
		return
	}
	if state.Status.Terminal() {
		wc.writeError("session is closed", true)
		return
	}

	sessionID := state.SessionID
	wc.write(ServerMessage{Type: MsgHelloAck, SessionID: sessionID})

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	var loop *voice.Loop
	loop = voice.NewLoop(
		voice.WithSpeaker(&wsSpeaker{conn: wc, loop: func() *voice.Loop { return loop }}),
		voice.WithLoopLogger(g.logger),
		voice.WithWindowOptions(g.windowOpts...),
		voice.WithOnNoise(g.onNoise),
		voice.WithOnAdvance(func(ctx context.Context, transcript string) {
			outcome, err := g.service.Process(ctx, sessionID, transcript)
			if err != nil {
				if errors.Is(err, domain.ErrSessionClosed) {
					wc.write(ServerMessage{Type: MsgClosed, SessionID: sessionID})
				} else {
					wc.writeError("processing failed", false)
					g.logger.Error("voicews: process failed", "session_id", sessionID, "err", err)
				}
				finish()
				return
			}

			wc.write(ServerMessage{Type: MsgState, SessionID: sessionID, State: outcome})

			if outcome.Status.Terminal() {
				if outcome.ShouldEscalate {
					wc.write(ServerMessage{Type: MsgEscalated, SessionID: sessionID, Reason: outcome.EscalationReason})
				} else {
					wc.write(ServerMessage{Type: MsgClosed, SessionID: sessionID})
				}
				finish()
				return
			}

			node, err := g.service.Graph().Get(outcome.CurrentNode.ID)
			if err != nil {
				wc.writeError("graph lookup failed", false)
				finish()
				return
			}
			loop.SetNode(ctx, node)
		}),
		voice.WithOnEscalate(func(_ context.Context, reason string) {
			wc.write(ServerMessage{Type: MsgEscalated, SessionID: sessionID, Reason: reason})
			finish()
		}),
	)

	startNode, err := g.service.Graph().Get(state.CurrentNode.ID)
	if err != nil {
		wc.writeError("graph lookup failed", true)
		return
	}
	loop.SetNode(ctx, startNode)

	go func() {
		defer finish()
		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			switch msg.Type {
			case MsgTranscript:
				loop.HandleTranscript(ctx, msg.Text)
			case MsgSpeechComplete:
				loop.SpeechComplete(ctx)
			default:
				g.logger.Warn("voicews: unknown frame", "type", msg.Type)
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(2*time.Second))
}

func (g *Gateway) resolveSession(r *http.Request, hello ClientMessage) (*pathrag.StateSnapshot, error) {
	if hello.SessionID != "" {
		return g.service.GetState(r.Context(), hello.SessionID)
	}
	return g.service.Create(r.Context(), hello.VendorID)
}

// wsSpeaker forwards voice instructions as speak frames. The client is
// expected to synthesize them and answer with speech_complete.
type wsSpeaker struct {
	conn *wsConn
	loop func() *voice.Loop
}

func (s *wsSpeaker) Speak(_ context.Context, instruction string) error {
	nodeID := ""
	if l := s.loop(); l != nil {
		nodeID = l.Snapshot().NodeID
	}
	s.conn.write(ServerMessage{Type: MsgSpeak, Instruction: instruction, NodeID: nodeID})
	return nil
}

// wsConn serializes writes; gorilla connections allow one writer at a
// time and frames come from both the reader goroutine and loop timers.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(msg ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteJSON(msg)
}

func (c *wsConn) writeError(message string, close bool) {
	c.write(ServerMessage{Type: MsgError, Message: message})
	if close {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message),
			time.Now().Add(2*time.Second))
	}
}
