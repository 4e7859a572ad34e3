package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/thinkd/internal/session"
	"github.com/fyrsmithlabs/thinkd/internal/thinking"
)

func newTestServer(t *testing.T) (*Server, *session.Registry) {
	t.Helper()
	registry := session.NewRegistry(thinking.DefaultOptions(), zap.NewNop())
	srv, err := NewServer(registry, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv, registry
}

func seedSession(t *testing.T, registry *session.Registry, id string) *session.Session {
	t.Helper()
	sess := registry.GetOrCreate(id)
	for n := 1; n <= 3; n++ {
		_, err := sess.Process(map[string]any{
			"text":           "step",
			"sequenceNumber": float64(n),
			"estimatedTotal": float64(3),
			"continuesNext":  n < 3,
		})
		require.NoError(t, err)
	}
	_, err := sess.Process(map[string]any{
		"text":           "side quest",
		"sequenceNumber": float64(2),
		"estimatedTotal": float64(3),
		"continuesNext":  true,
		"branchId":       "alt",
	})
	require.NoError(t, err)
	return sess
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestNewServer(t *testing.T) {
	t.Run("requires registry", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		assert.Error(t, err)
	})

	t.Run("requires logger", func(t *testing.T) {
		registry := session.NewRegistry(thinking.DefaultOptions(), zap.NewNop())
		_, err := NewServer(registry, nil, nil)
		assert.Error(t, err)
	})
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "thinkd", resp.Service)
}

func TestHandleSessions(t *testing.T) {
	srv, registry := newTestServer(t)
	seedSession(t, registry, "sess-1")

	rec := doRequest(srv, http.MethodGet, "/api/v1/sessions")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "sess-1", resp.Sessions[0].ID)
	assert.Equal(t, 3, resp.Sessions[0].HistoryLength)
	assert.Equal(t, 1, resp.Sessions[0].BranchCount)
}

func TestHandleHistory(t *testing.T) {
	srv, registry := newTestServer(t)
	seedSession(t, registry, "sess-1")

	rec := doRequest(srv, http.MethodGet, "/api/v1/sessions/sess-1/history?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 2, resp.Records[0].SequenceNumber)
	assert.Equal(t, 3, resp.Records[1].SequenceNumber)
}

func TestHandleHistory_BadLimit(t *testing.T) {
	srv, registry := newTestServer(t)
	seedSession(t, registry, "sess-1")

	rec := doRequest(srv, http.MethodGet, "/api/v1/sessions/sess-1/history?limit=many")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHistory_UnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/v1/sessions/missing/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBranches(t *testing.T) {
	srv, registry := newTestServer(t)
	seedSession(t, registry, "sess-1")

	rec := doRequest(srv, http.MethodGet, "/api/v1/sessions/sess-1/branches")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BranchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 1, resp.Branches["alt"].Length)
}

func TestHandleBranch(t *testing.T) {
	srv, registry := newTestServer(t)
	seedSession(t, registry, "sess-1")

	rec := doRequest(srv, http.MethodGet, "/api/v1/sessions/sess-1/branches/alt")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BranchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "alt", resp.BranchID)

	// Unknown branch ids are empty, not 404.
	rec = doRequest(srv, http.MethodGet, "/api/v1/sessions/sess-1/branches/nope")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestHandleDashboard(t *testing.T) {
	srv, registry := newTestServer(t)
	seedSession(t, registry, "sess-1")

	rec := doRequest(srv, http.MethodGet, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "sess-1"))
	assert.True(t, strings.Contains(body, "alt"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
