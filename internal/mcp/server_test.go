package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/thinkd/internal/session"
	"github.com/fyrsmithlabs/thinkd/internal/thinking"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	registry := session.NewRegistry(thinking.DefaultOptions(), zap.NewNop())
	srv, err := NewServer(DefaultConfig(), registry)
	require.NoError(t, err)
	return srv
}

func thought(n int, continues bool) map[string]any {
	return map[string]any{
		"text":           "step",
		"sequenceNumber": float64(n),
		"estimatedTotal": float64(10),
		"continuesNext":  continues,
	}
}

func TestNewServer(t *testing.T) {
	t.Run("requires registry", func(t *testing.T) {
		_, err := NewServer(DefaultConfig(), nil)
		assert.Error(t, err)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		registry := session.NewRegistry(thinking.DefaultOptions(), zap.NewNop())
		srv, err := NewServer(nil, registry)
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})
}

func TestHandleThink(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	res, out, err := srv.handleThink(ctx, nil, thinkInput{Thought: thought(1, true)})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.NotEmpty(t, out.SessionID, "a session id is allocated when omitted")
	assert.Equal(t, 1, out.HistoryLength)
	assert.Equal(t, 0, out.BranchCount)
	assert.Equal(t, 1, out.Record.SequenceNumber)

	// Subsequent calls with the returned id hit the same session.
	_, out2, err := srv.handleThink(ctx, nil, thinkInput{
		SessionID: out.SessionID,
		Thought:   thought(2, true),
	})
	require.NoError(t, err)
	assert.Equal(t, out.SessionID, out2.SessionID)
	assert.Equal(t, 2, out2.HistoryLength)
}

func TestHandleThink_ValidationError(t *testing.T) {
	srv := newTestServer(t)

	_, _, err := srv.handleThink(context.Background(), nil, thinkInput{
		Thought: map[string]any{"text": "x", "sequenceNumber": "1"},
	})
	require.Error(t, err)
	assert.True(t, thinking.IsValidationError(err))

	var ve *thinking.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "sequenceNumber", ve.Field)
}

func TestHandleThink_Branch(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	in := thought(2, true)
	in["branchId"] = "alt"
	in["branchOrigin"] = float64(1)

	_, out, err := srv.handleThink(ctx, nil, thinkInput{Thought: in})
	require.NoError(t, err)
	assert.Equal(t, 1, out.BranchCount)
	assert.Equal(t, []string{"alt"}, out.Branches)
	assert.Equal(t, 0, out.HistoryLength, "branch records stay out of the main history")
}

func TestHandleHistory(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, out, err := srv.handleThink(ctx, nil, thinkInput{Thought: thought(1, true)})
	require.NoError(t, err)
	for n := 2; n <= 5; n++ {
		_, _, err := srv.handleThink(ctx, nil, thinkInput{SessionID: out.SessionID, Thought: thought(n, true)})
		require.NoError(t, err)
	}

	_, hist, err := srv.handleHistory(ctx, nil, historyInput{SessionID: out.SessionID, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, hist.Count)
	assert.Equal(t, 4, hist.Records[0].SequenceNumber)
	assert.Equal(t, 5, hist.Records[1].SequenceNumber)
}

func TestHandleHistory_UnknownSession(t *testing.T) {
	srv := newTestServer(t)

	_, _, err := srv.handleHistory(context.Background(), nil, historyInput{SessionID: "missing"})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestHandleBranch_UnknownBranchIsEmpty(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, out, err := srv.handleThink(ctx, nil, thinkInput{Thought: thought(1, true)})
	require.NoError(t, err)

	_, br, err := srv.handleBranch(ctx, nil, branchInput{SessionID: out.SessionID, BranchID: "nope"})
	require.NoError(t, err, "unknown branch must not be an error")
	assert.Equal(t, 0, br.Count)
	assert.Empty(t, br.Records)
}

func TestHandleSummaryAndReset(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, out, err := srv.handleThink(ctx, nil, thinkInput{Thought: thought(1, false)})
	require.NoError(t, err)

	_, sum, err := srv.handleSummary(ctx, nil, summaryInput{SessionID: out.SessionID})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Summary.HistoryLength)

	_, rst, err := srv.handleReset(ctx, nil, resetInput{SessionID: out.SessionID})
	require.NoError(t, err)
	assert.True(t, rst.Reset)

	_, sum, err = srv.handleSummary(ctx, nil, summaryInput{SessionID: out.SessionID})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Summary.HistoryLength)
}

func TestCategorizeError(t *testing.T) {
	assert.Equal(t, "", categorizeError(nil))
	assert.Equal(t, "validation_error", categorizeError(&thinking.ValidationError{Field: "text", Reason: "must be a string"}))
	assert.Equal(t, "not_found", categorizeError(session.ErrSessionNotFound))
	assert.Equal(t, "internal_error", categorizeError(errors.New("boom")))
}
