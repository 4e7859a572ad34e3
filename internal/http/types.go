// Package http provides the thinkd dashboard and inspection API.
package http

import (
	"time"

	"github.com/fyrsmithlabs/thinkd/internal/thinking"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// SessionSummary is one session's entry in GET /api/v1/sessions.
type SessionSummary struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	HistoryLength   int       `json:"history_length"`
	BranchCount     int       `json:"branch_count"`
	EvictedChains   int       `json:"evicted_chains"`
	EvictedRecords  int       `json:"evicted_records"`
	EvictedBranches int       `json:"evicted_branches"`
}

// SessionsResponse is the response body for GET /api/v1/sessions.
type SessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
	Count    int              `json:"count"`
}

// HistoryResponse is the response body for GET /api/v1/sessions/:id/history.
type HistoryResponse struct {
	SessionID string            `json:"session_id"`
	Records   []thinking.Record `json:"records"`
	Count     int               `json:"count"`
}

// BranchesResponse is the response body for GET /api/v1/sessions/:id/branches.
type BranchesResponse struct {
	SessionID string                         `json:"session_id"`
	Branches  map[string]thinking.BranchMeta `json:"branches"`
	Count     int                            `json:"count"`
}

// BranchResponse is the response body for
// GET /api/v1/sessions/:id/branches/:branch.
type BranchResponse struct {
	SessionID string            `json:"session_id"`
	BranchID  string            `json:"branch_id"`
	Records   []thinking.Record `json:"records"`
	Count     int               `json:"count"`
}
