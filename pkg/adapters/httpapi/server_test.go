package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akilivoice/pathrag"
	"github.com/akilivoice/pathrag/pkg/adapters/httpapi"
	"github.com/akilivoice/pathrag/pkg/graph"
	"github.com/akilivoice/pathrag/pkg/observability"
)

func newTestHandler(t *testing.T, opts ...pathrag.Option) http.Handler {
	t.Helper()
	svc, err := pathrag.New(opts...)
	require.NoError(t, err)
	return httpapi.NewHandler(svc)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestServer_Health(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_CreateSession(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions", map[string]string{})
	require.Equal(t, http.StatusCreated, rec.Code)

	var state pathrag.StateSnapshot
	decode(t, rec, &state)
	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, graph.EntryNodeID, state.CurrentNode.ID)
	assert.Equal(t, "active", string(state.Status))
}

func TestServer_CreateSessionWithVendor(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions", map[string]string{"vendor_id": "tplink"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var state pathrag.StateSnapshot
	decode(t, rec, &state)
	require.NotNil(t, state.Vendor)
	assert.Equal(t, "TP-Link", state.Vendor.Name)
}

func TestServer_CreateSessionEmptyBody(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestServer_ProcessAdvances(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions", nil)
	var state pathrag.StateSnapshot
	decode(t, rec, &state)

	rec = doJSON(t, handler, http.MethodPost, "/sessions/"+state.SessionID+"/process",
		map[string]string{"transcript": "yes please"})
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome pathrag.TransitionOutcome
	decode(t, rec, &outcome)
	assert.False(t, outcome.ShouldEscalate)
	assert.Equal(t, "entry_router_identify", outcome.CurrentNode.ID)
}

func TestServer_ProcessValidation(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions", nil)
	var state pathrag.StateSnapshot
	decode(t, rec, &state)

	t.Run("missing transcript", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/sessions/"+state.SessionID+"/process",
			map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized transcript", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/sessions/"+state.SessionID+"/process",
			map[string]string{"transcript": strings.Repeat("a", httpapi.MaxTranscriptBytes+1)})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions/"+state.SessionID+"/process",
			strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ProcessUnknownSessionIs404(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions/session_nope/process",
		map[string]string{"transcript": "yes"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ProcessClosedSessionIs409(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions", nil)
	var state pathrag.StateSnapshot
	decode(t, rec, &state)

	// Decline help twice (opener, then the postpone offer) so the
	// session lands in a terminal state.
	rec = doJSON(t, handler, http.MethodPost, "/sessions/"+state.SessionID+"/process",
		map[string]string{"transcript": "no"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, handler, http.MethodPost, "/sessions/"+state.SessionID+"/process",
		map[string]string{"transcript": "no"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/sessions/"+state.SessionID+"/process",
		map[string]string{"transcript": "yes"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_GetSessionAndContext(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions", nil)
	var created pathrag.StateSnapshot
	decode(t, rec, &created)

	rec = doJSON(t, handler, http.MethodGet, "/sessions/"+created.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state pathrag.StateSnapshot
	decode(t, rec, &state)
	assert.Equal(t, created.SessionID, state.SessionID)

	rec = doJSON(t, handler, http.MethodGet, "/sessions/"+created.SessionID+"/context", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ctxResp struct {
		SessionID    string `json:"session_id"`
		VoiceContext string `json:"voice_context"`
	}
	decode(t, rec, &ctxResp)
	assert.Equal(t, created.SessionID, ctxResp.SessionID)
	assert.Contains(t, ctxResp.VoiceContext, "YOUR TASK:")
}

func TestServer_ListAndDelete(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions", nil)
	var state pathrag.StateSnapshot
	decode(t, rec, &state)

	rec = doJSON(t, handler, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Sessions []string `json:"sessions"`
	}
	decode(t, rec, &list)
	assert.Contains(t, list.Sessions, state.SessionID)

	rec = doJSON(t, handler, http.MethodDelete, "/sessions/"+state.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/sessions/"+state.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RecordAction(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/sessions", nil)
	var state pathrag.StateSnapshot
	decode(t, rec, &state)

	rec = doJSON(t, handler, http.MethodPost, "/sessions/"+state.SessionID+"/actions",
		map[string]string{"action": "POWER_CYCLE", "result": "success", "notes": "user rebooted"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/sessions/"+state.SessionID+"/actions",
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_GetGraph(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/graph", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var nodes []struct {
		ID string `json:"node_id"`
	}
	decode(t, rec, &nodes)
	assert.Equal(t, graph.Default().Len(), len(nodes))
}

func TestServer_MetricsMounted(t *testing.T) {
	metrics := observability.NewMetrics()
	svc, err := pathrag.New(pathrag.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	handler := httpapi.NewHandler(svc, httpapi.WithMetricsHandler(metrics.Handler()))

	rec := doJSON(t, handler, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pathrag_sessions_created_total")
}

func TestServer_CORSPreflight(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
