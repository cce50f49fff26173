package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akilivoice/pathrag/internal/engine"
	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/graph"
)

// walk feeds utterances through evaluate/advance in order, failing the test
// if the session leaves the active state before the script ends.
func walk(t *testing.T, eng *engine.Engine, session *domain.DiagnosticSession, utterances ...string) *domain.DiagnosticSession {
	t.Helper()
	ctx := context.Background()
	for i, u := range utterances {
		require.Equal(t, domain.StatusActive, session.Status,
			"session left active state before utterance %d (%q)", i, u)
		result := eng.Evaluate(session, u)
		session = eng.Advance(ctx, session, u, result)
	}
	return session
}

func TestScenario_QuickResolution(t *testing.T) {
	eng := newEngine(t)
	session, err := eng.CreateSession(context.Background())
	require.NoError(t, err)

	session = walk(t, eng, session,
		"yes",                     // entry_start
		"some other brand",        // entry_router_identify
		"it's on",                 // physical_power_led
		"solid green",             // physical_internet_led
		"i'm on wifi",             // local_network_check
		"yes i'm connected",       // local_wifi_connected
		"the page loaded fine",    // local_browser_test
	)

	assert.Equal(t, domain.StatusResolved, session.Status)
	assert.Equal(t, graph.ResolvedNodeID, session.CurrentNodeID)
	assert.Len(t, session.History, 7)
	assert.Equal(t, 100, session.CurrentPhase.Progress())
}

func TestScenario_WANCableRepair(t *testing.T) {
	eng := newEngine(t)
	session, err := eng.CreateSession(context.Background())
	require.NoError(t, err)

	session = walk(t, eng, session,
		"yes",              // entry_start
		"it's a tp-link",   // entry_router_identify
		"on",               // physical_power_led
		"it's red",         // physical_internet_led -> wan cable check
		"yes",              // physical_wan_cable_check -> reseat
		"done",             // physical_wan_reseat -> reboot
		"done",             // action_reboot_router -> internet test
		"it's working now", // verification_internet_test
	)

	assert.Equal(t, domain.StatusResolved, session.Status)
	require.NotNil(t, session.VendorProfile)
	assert.Equal(t, "tplink", session.VendorProfile.VendorID)
	assert.Equal(t, "it's red", session.Observations["physical_internet_led"])
}

func TestScenario_RouterLoginWANReconnect(t *testing.T) {
	eng := newEngine(t)
	session, err := eng.CreateSession(context.Background())
	require.NoError(t, err)

	session = walk(t, eng, session,
		"yes",               // entry_start
		"netgear",           // entry_router_identify
		"on",                // physical_power_led
		"green",             // physical_internet_led
		"ethernet",          // local_network_check
		"done",              // local_ethernet_check
		"it failed to load", // local_browser_test -> router login
		"yes",               // router_login_prompt
		"yes",               // router_dashboard_confirm
		"done",              // router_navigate_status
		"disconnected",      // wan_status_check -> reconnect
		"connected",         // action_reconnect_wan -> internet test
		"working",           // verification_internet_test
	)

	assert.Equal(t, domain.StatusResolved, session.Status)
	assert.Equal(t, domain.PhaseVerification, session.CurrentPhase)
}

func TestScenario_ScriptedEscalationSink(t *testing.T) {
	eng := newEngine(t)
	session, err := eng.CreateSession(context.Background())
	require.NoError(t, err)

	session = walk(t, eng, session,
		"yes",         // entry_start
		"dlink",       // entry_router_identify
		"on",          // physical_power_led
		"green",       // physical_internet_led
		"wifi",        // local_network_check
		"no",          // local_wifi_connected -> reconnect
		"it failed",   // local_wifi_reconnect -> escalation_wifi_issue
	)

	assert.Equal(t, domain.StatusEscalated, session.Status)
	require.NotNil(t, session.Escalation)
	assert.Contains(t, session.Escalation.Trigger, "escalation_wifi_issue")
	// The session stays on the node being answered; the payload implicates
	// the local-network phase, not the sink.
	assert.Equal(t, "local_wifi_reconnect", session.CurrentNodeID)
	assert.Equal(t, "Local Network/Device", session.Escalation.SuspectedFaultDomain)
}

func TestScenario_UserUncertaintyEndToEnd(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	session, err := eng.CreateSession(ctx)
	require.NoError(t, err)

	session = walk(t, eng, session, "yes", "asus", "on")

	// physical_internet_led flags user-uncertain.
	result := eng.Evaluate(session, "i really don't know, sorry")
	require.True(t, result.ShouldEscalate)
	session = eng.Advance(ctx, session, "i really don't know, sorry", result)

	assert.Equal(t, domain.StatusEscalated, session.Status)
	require.NotNil(t, session.Escalation)
	assert.Equal(t, engine.ReasonUserUncertain, session.Escalation.Trigger)
	assert.Equal(t, "Physical/Hardware", session.Escalation.SuspectedFaultDomain)
	assert.NotEmpty(t, session.Escalation.StepsCompleted)
	assert.Equal(t, "i really don't know, sorry", session.Escalation.Observations["physical_internet_led"])
}

func TestScenario_DeclineHelp(t *testing.T) {
	eng := newEngine(t)
	session, err := eng.CreateSession(context.Background())
	require.NoError(t, err)

	session = walk(t, eng, session,
		"not now", // entry_start -> postpone offer
		"no",      // entry_postpone -> session_end
	)

	assert.Equal(t, domain.StatusAbandoned, session.Status)
	assert.Equal(t, graph.AbandonedNodeID, session.CurrentNodeID)
	assert.Nil(t, session.Escalation)
}
