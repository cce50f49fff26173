package voicews_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akilivoice/pathrag"
	"github.com/akilivoice/pathrag/pkg/adapters/voicews"
	"github.com/akilivoice/pathrag/pkg/graph"
)

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, opts ...pathrag.Option) *wsClient {
	t.Helper()
	svc, err := pathrag.New(opts...)
	require.NoError(t, err)

	srv := httptest.NewServer(voicews.NewGateway(svc))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(msg voicews.ClientMessage) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *wsClient) read() voicews.ServerMessage {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg voicews.ServerMessage
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return msg
}

// readUntil skips frames until one of the wanted type arrives.
func (c *wsClient) readUntil(msgType string) voicews.ServerMessage {
	c.t.Helper()
	for i := 0; i < 10; i++ {
		msg := c.read()
		if msg.Type == msgType {
			return msg
		}
	}
	c.t.Fatalf("no %s frame within 10 messages", msgType)
	return voicews.ServerMessage{}
}

func TestGateway_HelloAckAndFirstSpeak(t *testing.T) {
	c := dial(t)

	c.send(voicews.ClientMessage{Type: voicews.MsgHello})

	ack := c.read()
	assert.Equal(t, voicews.MsgHelloAck, ack.Type)
	assert.NotEmpty(t, ack.SessionID)

	speak := c.read()
	assert.Equal(t, voicews.MsgSpeak, speak.Type)
	assert.Equal(t, graph.EntryNodeID, speak.NodeID)
	assert.NotEmpty(t, speak.Instruction)
}

func TestGateway_FirstFrameMustBeHello(t *testing.T) {
	c := dial(t)

	c.send(voicews.ClientMessage{Type: voicews.MsgTranscript, Text: "yes"})

	msg := c.read()
	assert.Equal(t, voicews.MsgError, msg.Type)
}

func TestGateway_UnknownSessionRejected(t *testing.T) {
	c := dial(t)

	c.send(voicews.ClientMessage{Type: voicews.MsgHello, SessionID: "session_nope"})

	msg := c.read()
	assert.Equal(t, voicews.MsgError, msg.Type)
}

func TestGateway_TranscriptAdvances(t *testing.T) {
	c := dial(t)

	c.send(voicews.ClientMessage{Type: voicews.MsgHello})
	c.read() // hello_ack
	c.read() // speak

	c.send(voicews.ClientMessage{Type: voicews.MsgSpeechComplete})
	c.send(voicews.ClientMessage{Type: voicews.MsgTranscript, Text: "yes please"})

	state := c.readUntil(voicews.MsgState)
	require.NotNil(t, state.State)
	assert.Equal(t, "entry_router_identify", state.State.CurrentNode.ID)
	assert.False(t, state.State.ShouldEscalate)

	speak := c.readUntil(voicews.MsgSpeak)
	assert.Equal(t, "entry_router_identify", speak.NodeID)
}

func TestGateway_NoiseIsDroppedSilently(t *testing.T) {
	c := dial(t)

	c.send(voicews.ClientMessage{Type: voicews.MsgHello})
	c.read() // hello_ack
	c.read() // speak

	c.send(voicews.ClientMessage{Type: voicews.MsgSpeechComplete})
	c.send(voicews.ClientMessage{Type: voicews.MsgTranscript, Text: "umm"})
	c.send(voicews.ClientMessage{Type: voicews.MsgTranscript, Text: "yes"})

	// The filler produces no frame; the next frame is the state change
	// from the real answer.
	state := c.readUntil(voicews.MsgState)
	assert.Equal(t, "entry_router_identify", state.State.CurrentNode.ID)
}

func TestGateway_DeclineClosesSession(t *testing.T) {
	c := dial(t)

	c.send(voicews.ClientMessage{Type: voicews.MsgHello})
	c.read() // hello_ack
	c.read() // speak

	c.send(voicews.ClientMessage{Type: voicews.MsgSpeechComplete})
	c.send(voicews.ClientMessage{Type: voicews.MsgTranscript, Text: "no thanks"})

	// The first decline routes to the postpone offer.
	state := c.readUntil(voicews.MsgState)
	assert.Equal(t, "entry_postpone", state.State.CurrentNode.ID)

	c.readUntil(voicews.MsgSpeak)
	c.send(voicews.ClientMessage{Type: voicews.MsgSpeechComplete})
	c.send(voicews.ClientMessage{Type: voicews.MsgTranscript, Text: "no"})

	state = c.readUntil(voicews.MsgState)
	assert.Equal(t, "abandoned", string(state.State.Status))

	closed := c.readUntil(voicews.MsgClosed)
	assert.Equal(t, voicews.MsgClosed, closed.Type)
}

func TestGateway_UncertaintyEscalates(t *testing.T) {
	c := dial(t)

	c.send(voicews.ClientMessage{Type: voicews.MsgHello})
	c.read() // hello_ack
	c.read() // speak

	c.send(voicews.ClientMessage{Type: voicews.MsgSpeechComplete})
	c.send(voicews.ClientMessage{Type: voicews.MsgTranscript, Text: "i'm really not sure"})

	state := c.readUntil(voicews.MsgState)
	assert.True(t, state.State.ShouldEscalate)

	escalated := c.readUntil(voicews.MsgEscalated)
	assert.Equal(t, "User expressed uncertainty", escalated.Reason)
}

func TestGateway_ResumeExistingSession(t *testing.T) {
	svc, err := pathrag.New()
	require.NoError(t, err)

	created, err := svc.Create(t.Context(), "tplink")
	require.NoError(t, err)

	srv := httptest.NewServer(voicews.NewGateway(svc))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	c := &wsClient{t: t, conn: conn}

	c.send(voicews.ClientMessage{Type: voicews.MsgHello, SessionID: created.SessionID})

	ack := c.read()
	assert.Equal(t, voicews.MsgHelloAck, ack.Type)
	assert.Equal(t, created.SessionID, ack.SessionID)

	speak := c.read()
	assert.Equal(t, graph.EntryNodeID, speak.NodeID)
}
