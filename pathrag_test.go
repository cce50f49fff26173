package pathrag_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akilivoice/pathrag"
	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/graph"
)

func newService(t *testing.T, opts ...pathrag.Option) *pathrag.Service {
	t.Helper()
	svc, err := pathrag.New(opts...)
	require.NoError(t, err)
	return svc
}

func TestService_CreateStartsAtEntry(t *testing.T) {
	svc := newService(t)

	state, err := svc.Create(context.Background(), "")
	require.NoError(t, err)

	assert.NotEmpty(t, state.SessionID)
	require.NotNil(t, state.CurrentNode)
	assert.Equal(t, graph.EntryNodeID, state.CurrentNode.ID)
	assert.Equal(t, domain.StatusActive, state.Status)
	assert.Equal(t, 0, state.Progress)
	assert.Contains(t, state.VoiceContext, "NODE_ID: "+graph.EntryNodeID)
	assert.Nil(t, state.Vendor)
}

func TestService_CreateWithVendorHint(t *testing.T) {
	svc := newService(t)

	state, err := svc.Create(context.Background(), "netgear")
	require.NoError(t, err)

	require.NotNil(t, state.Vendor)
	assert.Equal(t, "netgear", state.Vendor.VendorID)

	// Unknown hints fall back to the generic profile rather than failing.
	state, err = svc.Create(context.Background(), "linksys")
	require.NoError(t, err)
	require.NotNil(t, state.Vendor)
	assert.Equal(t, domain.GenericVendorID, state.Vendor.VendorID)
}

func TestService_ProcessAdvances(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	state, err := svc.Create(ctx, "")
	require.NoError(t, err)

	outcome, err := svc.Process(ctx, state.SessionID, "yes please")
	require.NoError(t, err)

	assert.False(t, outcome.ShouldEscalate)
	assert.False(t, outcome.Retried)
	require.NotNil(t, outcome.CurrentNode)
	assert.NotEqual(t, graph.EntryNodeID, outcome.CurrentNode.ID)
	assert.Equal(t, domain.StatusActive, outcome.Status)
}

func TestService_ProcessRetriesOnNoMatch(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	state, err := svc.Create(ctx, "")
	require.NoError(t, err)

	outcome, err := svc.Process(ctx, state.SessionID, "the quick brown fox")
	require.NoError(t, err)

	assert.True(t, outcome.Retried)
	assert.Equal(t, graph.EntryNodeID, outcome.CurrentNode.ID)
}

func TestService_ProcessUncertaintyEscalates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	state, err := svc.Create(ctx, "")
	require.NoError(t, err)

	outcome, err := svc.Process(ctx, state.SessionID, "i'm really not sure")
	require.NoError(t, err)

	assert.True(t, outcome.ShouldEscalate)
	assert.Equal(t, "User expressed uncertainty", outcome.EscalationReason)
	assert.Equal(t, domain.StatusEscalated, outcome.Status)
	require.NotNil(t, outcome.Escalation)
	assert.Equal(t, "User expressed uncertainty", outcome.Escalation.Trigger)
}

func TestService_ProcessRejectsTerminalSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	state, err := svc.Create(ctx, "")
	require.NoError(t, err)

	// Declining help twice (opener, then the postpone offer) abandons
	// the session.
	outcome, err := svc.Process(ctx, state.SessionID, "no thanks")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, outcome.Status)
	assert.Equal(t, "entry_postpone", outcome.CurrentNode.ID)

	outcome, err = svc.Process(ctx, state.SessionID, "no")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAbandoned, outcome.Status)

	_, err = svc.Process(ctx, state.SessionID, "actually yes")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestService_ProcessUnknownSession(t *testing.T) {
	svc := newService(t)

	_, err := svc.Process(context.Background(), "session_missing", "yes")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestService_GetStateAndContext(t *testing.T) {
	svc := newService(t, pathrag.WithIDGenerator(func() string { return "session_fixed" }))
	ctx := context.Background()

	_, err := svc.Create(ctx, "")
	require.NoError(t, err)

	state, err := svc.GetState(ctx, "session_fixed")
	require.NoError(t, err)
	assert.Equal(t, "session_fixed", state.SessionID)
	assert.Equal(t, graph.EntryNodeID, state.CurrentNode.ID)

	voiceCtx, err := svc.GetContext(ctx, "session_fixed")
	require.NoError(t, err)
	assert.Contains(t, voiceCtx, "YOUR TASK:")
	assert.Contains(t, voiceCtx, "WHAT TO LISTEN FOR")
}

func TestService_RecordAction(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	state, err := svc.Create(ctx, "")
	require.NoError(t, err)

	updated, err := svc.RecordAction(ctx, state.SessionID, domain.ActionPowerCycle, domain.ActionSucceeded, "asked user to reboot")
	require.NoError(t, err)

	loaded, err := svc.GetState(ctx, updated.SessionID)
	require.NoError(t, err)
	assert.Equal(t, updated.SessionID, loaded.SessionID)
}

func TestService_ConcurrentProcessSerializes(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	state, err := svc.Create(ctx, "")
	require.NoError(t, err)

	// Fire overlapping no-match utterances. Transitions serialize per
	// session id, so regardless of interleaving exactly three retries
	// land, the fourth call escalates, and the fifth finds the session
	// closed.
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Process(ctx, state.SessionID, "gibberish input")
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrSessionClosed)
			}
		}()
	}
	wg.Wait()

	final, err := svc.GetState(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEscalated, final.Status)
	require.NotNil(t, final.Escalation)
	assert.Equal(t, "Maximum retry attempts exceeded", final.Escalation.Trigger)
}

func TestService_InvalidGraphRejected(t *testing.T) {
	g, err := graph.New([]domain.DiagnosticNode{{
		ID:               graph.EntryNodeID,
		Phase:            domain.PhaseEntry,
		VoiceInstruction: "hello",
		ExpectedAnswers: []domain.ExpectedAnswer{
			{Answer: "yes", Next: "missing_node"},
		},
	}})
	require.NoError(t, err)

	_, err = pathrag.New(pathrag.WithGraph(g))
	assert.Error(t, err)
}
