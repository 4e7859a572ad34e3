package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/thinkd/internal/thinking"
)

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "think",
		Description: "Record one step of a reasoning trace. Steps may revise earlier " +
			"steps or fork into named branches; the trace is kept in memory under " +
			"configured bounds for later inspection.",
	}, instrumented(s, "think", s.handleThink))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "think_history",
		Description: "Return the main reasoning history of a session, oldest first.",
	}, instrumented(s, "think_history", s.handleHistory))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "think_branch",
		Description: "Return the records of a named branch. Unknown branches are empty.",
	}, instrumented(s, "think_branch", s.handleBranch))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "think_summary",
		Description: "Return occupancy and eviction totals for a session's trace.",
	}, instrumented(s, "think_summary", s.handleSummary))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "think_reset",
		Description: "Discard a session's reasoning trace and start fresh.",
	}, instrumented(s, "think_reset", s.handleReset))
}

// instrumented wraps a handler with invocation metrics and error logging.
// It is a free function because methods cannot introduce type parameters.
func instrumented[In, Out any](s *Server, name string, fn mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, name)
		res, out, err := fn(ctx, req, args)
		s.metrics.DecrementActive(ctx, name)
		s.metrics.RecordInvocation(ctx, name, time.Since(start), err)
		if err != nil {
			s.logger.Warn("tool call failed",
				zap.String("tool", name),
				zap.Error(err))
		}
		return res, out, err
	}
}

// ===== THINK =====

type thinkInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session identifier; a new session is created when omitted"`
	// Thought is the raw record. Required fields: text (string),
	// sequenceNumber (number), estimatedTotal (number), continuesNext
	// (boolean). Optional: isRevision, revisesSequence, branchOrigin,
	// branchId, needsMoreSteps.
	Thought map[string]any `json:"thought" jsonschema:"required,Thought record to store"`
}

type thinkOutput struct {
	SessionID     string          `json:"session_id" jsonschema:"Session the record was stored in"`
	Record        thinking.Record `json:"record" jsonschema:"The stored record"`
	HistoryLength int             `json:"history_length" jsonschema:"Current main history length"`
	BranchCount   int             `json:"branch_count" jsonschema:"Current live branch count"`
	Branches      []string        `json:"branches,omitempty" jsonschema:"Live branch ids"`
}

func (s *Server) handleThink(ctx context.Context, req *mcp.CallToolRequest, args thinkInput) (*mcp.CallToolResult, thinkOutput, error) {
	sess := s.sessions.GetOrCreate(args.SessionID)

	rec, err := sess.Process(args.Thought)
	if err != nil {
		return nil, thinkOutput{}, err
	}

	sum := sess.Summary()
	out := thinkOutput{
		SessionID:     sess.ID,
		Record:        rec,
		HistoryLength: sum.HistoryLength,
		BranchCount:   sum.BranchCount,
		Branches:      sess.BranchIDs(),
	}

	text := fmt.Sprintf("Stored thought %d/%d (history: %d, branches: %d)",
		rec.SequenceNumber, rec.EstimatedTotal, out.HistoryLength, out.BranchCount)
	if rec.BranchID != "" {
		text = fmt.Sprintf("Stored thought %d on branch %q (branches: %d)",
			rec.SequenceNumber, rec.BranchID, out.BranchCount)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, out, nil
}

// ===== HISTORY =====

type historyInput struct {
	SessionID string `json:"session_id" jsonschema:"required,Session identifier"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Return only the newest N records"`
}

type historyOutput struct {
	SessionID string            `json:"session_id" jsonschema:"Session identifier"`
	Records   []thinking.Record `json:"records" jsonschema:"Main history records, oldest first"`
	Count     int               `json:"count" jsonschema:"Number of records returned"`
}

func (s *Server) handleHistory(ctx context.Context, req *mcp.CallToolRequest, args historyInput) (*mcp.CallToolResult, historyOutput, error) {
	sess, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return nil, historyOutput{}, err
	}

	records := sess.History(args.Limit)
	out := historyOutput{
		SessionID: sess.ID,
		Records:   records,
		Count:     len(records),
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("%d history records", out.Count),
		}},
	}, out, nil
}

// ===== BRANCH =====

type branchInput struct {
	SessionID string `json:"session_id" jsonschema:"required,Session identifier"`
	BranchID  string `json:"branch_id" jsonschema:"required,Branch identifier"`
}

type branchOutput struct {
	SessionID string            `json:"session_id" jsonschema:"Session identifier"`
	BranchID  string            `json:"branch_id" jsonschema:"Branch identifier"`
	Records   []thinking.Record `json:"records" jsonschema:"Branch records, oldest first"`
	Count     int               `json:"count" jsonschema:"Number of records returned"`
}

func (s *Server) handleBranch(ctx context.Context, req *mcp.CallToolRequest, args branchInput) (*mcp.CallToolResult, branchOutput, error) {
	sess, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return nil, branchOutput{}, err
	}

	// An unknown branch id is an empty sequence, not an error.
	records := sess.Branch(args.BranchID)
	out := branchOutput{
		SessionID: sess.ID,
		BranchID:  args.BranchID,
		Records:   records,
		Count:     len(records),
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("branch %q: %d records", args.BranchID, out.Count),
		}},
	}, out, nil
}

// ===== SUMMARY =====

type summaryInput struct {
	SessionID string `json:"session_id" jsonschema:"required,Session identifier"`
}

type summaryOutput struct {
	SessionID string           `json:"session_id" jsonschema:"Session identifier"`
	Summary   thinking.Summary `json:"summary" jsonschema:"Occupancy and eviction totals"`
}

func (s *Server) handleSummary(ctx context.Context, req *mcp.CallToolRequest, args summaryInput) (*mcp.CallToolResult, summaryOutput, error) {
	sess, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return nil, summaryOutput{}, err
	}

	sum := sess.Summary()
	out := summaryOutput{SessionID: sess.ID, Summary: sum}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("history: %d, branches: %d, evicted: %d records / %d chains / %d branches",
				sum.HistoryLength, sum.BranchCount,
				sum.EvictedRecords, sum.EvictedChains, sum.EvictedBranches),
		}},
	}, out, nil
}

// ===== RESET =====

type resetInput struct {
	SessionID string `json:"session_id" jsonschema:"required,Session identifier"`
}

type resetOutput struct {
	SessionID string `json:"session_id" jsonschema:"Session identifier"`
	Reset     bool   `json:"reset" jsonschema:"True when the trace was discarded"`
}

func (s *Server) handleReset(ctx context.Context, req *mcp.CallToolRequest, args resetInput) (*mcp.CallToolResult, resetOutput, error) {
	sess, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return nil, resetOutput{}, err
	}

	sess.Reset()

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("session %s reset", sess.ID),
		}},
	}, resetOutput{SessionID: sess.ID, Reset: true}, nil
}
